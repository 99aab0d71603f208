// Package dates converts freeform résumé dates into canonical YYYY-MM-DD strings.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Layout is the canonical date layout
const Layout = "2006-01-02"

const (
	minYear = 1900
	maxYear = 2100
)

var monthNumbers = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

var (
	monthYearPattern   = regexp.MustCompile(`^([a-z]+)\.?\s+(\d{4})$`)
	yearPattern        = regexp.MustCompile(`^(\d{4})$`)
	numericMonthYear   = regexp.MustCompile(`^(\d{1,2})[/\-](\d{4})$`)
	ongoingMarkerWords = map[string]bool{"present": true, "current": true, "now": true, "ongoing": true, "today": true}
)

// Normalize converts a freeform date into YYYY-MM-DD.
// It tries, in order: general date parsing, "<month name> <year>", a bare
// four-digit year, and "MM/YYYY" or "MM-YYYY". Month-granular inputs land on
// the first of the month. Years outside 1900-2100 are rejected by every branch,
// so a canonical output always normalizes to itself. The boolean is false when
// nothing matched.
func Normalize(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	if t, ok := parseGeneral(s); ok {
		return t.Format(Layout), true
	}

	lower := strings.ToLower(s)

	if m := monthYearPattern.FindStringSubmatch(lower); m != nil {
		year, _ := strconv.Atoi(m[2])
		if month, ok := monthNumbers[m[1]]; ok && inRange(year) {
			return format(year, month), true
		}
	}

	if m := yearPattern.FindStringSubmatch(lower); m != nil {
		year, _ := strconv.Atoi(m[1])
		if inRange(year) {
			return format(year, 1), true
		}
	}

	if m := numericMonthYear.FindStringSubmatch(lower); m != nil {
		month, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 && inRange(year) {
			return format(year, month), true
		}
	}

	return "", false
}

// Canonical is Normalize without the ok flag; unparseable input yields "".
func Canonical(raw string) string {
	s, _ := Normalize(raw)
	return s
}

// NormalizePtr normalizes an optional date. Nil, blank and unparseable values
// all yield nil.
func NormalizePtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	s, ok := Normalize(*raw)
	if !ok {
		return nil
	}
	return &s
}

// IsOngoingMarker reports whether the value is a word like "Present" that
// stands in for an end date on a role that has not ended.
func IsOngoingMarker(raw string) bool {
	return ongoingMarkerWords[strings.ToLower(strings.TrimSpace(raw))]
}

// parseGeneral runs the general-purpose parser. dateparse has panicked on
// some malformed inputs, so a panic is treated as a failed parse.
func parseGeneral(s string) (t time.Time, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	if !inRange(parsed.Year()) {
		return time.Time{}, false
	}
	return parsed, true
}

func inRange(year int) bool {
	return year >= minYear && year <= maxYear
}

func format(year, month int) string {
	return fmt.Sprintf("%04d-%02d-01", year, month)
}
