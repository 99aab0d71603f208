// Package fallback extracts experience and education candidates from raw résumé
// text with line-oriented heuristics. It is used when the language model returns
// nothing usable for a category. Extraction is intentionally lossy.
package fallback

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-importer/internal/dates"
)

const months = `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec|January|February|March|April|June|July|August|September|October|November|December|\d{1,2}`

var (
	// Organization - Role Month Year - Month Year [Location]
	strictEntryPattern = regexp.MustCompile(`(?i)^([A-Z][A-Za-z0-9\s&.,'-]+?)\s*[-–—|]\s*([A-Z][A-Za-z0-9\s&.,'/()-]+?)\s+((?:` + months + `)\s+\d{4}\s*[-–—]\s*(?:(?:` + months + `)\s+\d{4}|Present|Current|Now))\s*([A-Z][A-Za-z\s,]+)?$`)

	dateRangePattern = regexp.MustCompile(`(?i)((?:(?:` + months + `)\s+)?\d{4})\s*[-–—]\s*((?:(?:` + months + `)\s+)?\d{4}|Present|Current|Now)`)

	looseEntryPattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9\s&.,'-]+\s*[-–—|]\s*[A-Z]`)
	spacedSeparator   = regexp.MustCompile(`\s*[–—|]\s*|\s+-\s+`)
	anySeparator      = regexp.MustCompile(`\s*[-–—|]\s*`)

	bulletPattern     = regexp.MustCompile(`^(?:[•▪◦‣·*-]|\d+[.)])\s+`)
	allCapsPattern    = regexp.MustCompile(`^[A-Z\s]+$`)
	locationPrefix    = regexp.MustCompile(`^[A-Z][A-Za-z]+,\s*[A-Z]`)
	numericMonthSpace = regexp.MustCompile(`^(\d{1,2})\s+(\d{4})$`)

	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[A-Z][A-Za-z .'-]*,\s*[A-Z]{2}$`),
		regexp.MustCompile(`^[A-Z][A-Za-z .'-]*,\s*[A-Z][A-Za-z ]+$`),
	}
)

const (
	minLooseLineLength = 10
	maxOrganizationLen = 60
	minContinuationLen = 20
	minBulletLen       = 3
	maxLocationLen     = 40
)

type experienceEntry struct {
	organization string
	role         string
	section      string
	location     string
	start        string
	end          string
	current      bool
	achievements []string
}

func (e *experienceEntry) candidate() map[string]any {
	c := map[string]any{
		"organization": e.organization,
		"role_title":   e.role,
		"is_current":   e.current,
		"achievements": e.achievements,
		"skills":       []string{},
	}
	optional := map[string]string{
		"section_label": e.section,
		"location":      e.location,
		"start_date":    e.start,
		"end_date":      e.end,
	}
	for k, v := range optional {
		if v != "" {
			c[k] = v
		}
	}
	return c
}

// Experiences scans the text for experience entries. A strict
// "Organization - Role <date range> [Location]" line is recognized outside of
// any section or inside an experience-like section; looser "Organization - Role"
// lines, bullets and continuation lines are only read inside experience-like
// sections. A blank line or a new heading closes the open entry.
func Experiences(text string) []map[string]any {
	var (
		out     = []map[string]any{}
		section sectionHeading
		current *experienceEntry
	)

	flush := func() {
		if current != nil {
			out = append(out, current.candidate())
			current = nil
		}
	}

	for _, line := range splitLines(text) {
		if line == "" {
			flush()
			continue
		}

		if h, ok := lookupHeading(line); ok {
			flush()
			section = h
			continue
		}

		inExperience := section.kind == sectionExperience
		if section.kind == sectionNone || inExperience {
			if e := matchStrictEntry(line); e != nil {
				flush()
				e.section = section.label
				current = e
				continue
			}
		}

		if !inExperience {
			continue
		}

		if e := matchLooseEntry(line); e != nil {
			flush()
			e.section = section.label
			current = e
			continue
		}

		if current == nil {
			if e := matchStandaloneEntry(line); e != nil {
				e.section = section.label
				current = e
			}
			continue
		}

		switch {
		case isLocation(line):
			if current.location == "" {
				current.location = line
			}
		case bulletPattern.MatchString(line):
			if bullet := strings.TrimSpace(bulletPattern.ReplaceAllString(line, "")); utf8.RuneCountInString(bullet) > minBulletLen {
				current.achievements = append(current.achievements, bullet)
			}
		case utf8.RuneCountInString(line) > minContinuationLen && !allCapsPattern.MatchString(line) && !locationPrefix.MatchString(line):
			current.achievements = append(current.achievements, line)
		}
	}
	flush()

	return out
}

func matchStrictEntry(line string) *experienceEntry {
	m := strictEntryPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}

	e := &experienceEntry{
		organization: strings.TrimSpace(m[1]),
		role:         strings.TrimSpace(m[2]),
		location:     strings.TrimSpace(m[4]),
		achievements: []string{},
	}
	applyDateRange(e, m[3])
	return e
}

func matchLooseEntry(line string) *experienceEntry {
	if utf8.RuneCountInString(line) <= minLooseLineLength || strings.HasSuffix(line, ".") {
		return nil
	}
	if !looseEntryPattern.MatchString(line) {
		return nil
	}
	return entryFromSeparatedLine(line)
}

// matchStandaloneEntry accepts a separated line that the loose pattern rejected,
// such as one with a lowercase role, when no entry is open.
func matchStandaloneEntry(line string) *experienceEntry {
	if utf8.RuneCountInString(line) <= minLooseLineLength || bulletPattern.MatchString(line) {
		return nil
	}
	if !anySeparator.MatchString(line) {
		return nil
	}
	return entryFromSeparatedLine(line)
}

func entryFromSeparatedLine(line string) *experienceEntry {
	parts := spacedSeparator.Split(line, -1)
	if len(parts) < 2 {
		parts = anySeparator.Split(line, -1)
	}
	if len(parts) < 2 {
		return nil
	}

	org := strings.TrimSpace(parts[0])
	if org == "" || utf8.RuneCountInString(org) > maxOrganizationLen {
		return nil
	}

	rest := strings.TrimSpace(strings.Join(parts[1:], " - "))
	e := &experienceEntry{organization: org, achievements: []string{}}

	if loc := dateRangePattern.FindStringIndex(rest); loc != nil {
		applyDateRange(e, rest[loc[0]:loc[1]])
		trailing := strings.TrimSpace(rest[loc[1]:])
		rest = strings.TrimSpace(rest[:loc[0]])
		if isLocation(trailing) {
			e.location = trailing
		}
	}

	e.role = strings.Trim(rest, " -–—|,")
	if e.role == "" {
		return nil
	}
	return e
}

func applyDateRange(e *experienceEntry, text string) {
	m := dateRangePattern.FindStringSubmatch(text)
	if m == nil {
		return
	}
	e.start = rawDate(m[1])
	if dates.IsOngoingMarker(m[2]) {
		e.current = true
		return
	}
	e.end = rawDate(m[2])
}

// rawDate rewrites "06 2024" as "06/2024" so the date normalizer accepts it
func rawDate(s string) string {
	s = strings.TrimSpace(s)
	return numericMonthSpace.ReplaceAllString(s, "$1/$2")
}

func isLocation(line string) bool {
	if utf8.RuneCountInString(line) > maxLocationLen {
		return false
	}
	for _, p := range locationPatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}
