// Package similarity scores how alike two short strings are.
package similarity

import (
	"strings"
	"unicode/utf8"
)

// Score returns a similarity in [0, 1] for two strings, compared case-insensitively
// after trimming. Equal strings score 1 and an empty side scores 0. When one string
// contains the other the score is the ratio of their lengths; otherwise it is the
// Jaccard index of their whitespace-separated word sets.
func Score(a, b string) float64 {
	s1 := strings.ToLower(strings.TrimSpace(a))
	s2 := strings.ToLower(strings.TrimSpace(b))

	if s1 == s2 {
		return 1
	}
	if s1 == "" || s2 == "" {
		return 0
	}

	if strings.Contains(s1, s2) || strings.Contains(s2, s1) {
		l1 := utf8.RuneCountInString(s1)
		l2 := utf8.RuneCountInString(s2)
		return float64(min(l1, l2)) / float64(max(l1, l2))
	}

	return Jaccard(strings.Fields(s1), strings.Fields(s2))
}

// Jaccard returns |A ∩ B| / |A ∪ B| over the distinct elements of a and b.
// Two empty inputs score 0.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, v := range a {
		setA[v] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, v := range b {
		setB[v] = struct{}{}
	}

	union := len(setA)
	intersection := 0
	for v := range setB {
		if _, ok := setA[v]; ok {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
