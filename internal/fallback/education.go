package fallback

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var institutionPattern = regexp.MustCompile(`(?i)\b(?:University|College|School|Institute|Academy|Polytechnic)\b`)

const (
	minInstitutionLen = 5
	maxInstitutionLen = 100
	minDetailLen      = 3
)

type educationEntry struct {
	institution  string
	achievements []string
}

func (e *educationEntry) candidate() map[string]any {
	return map[string]any{
		"institution":  e.institution,
		"achievements": e.achievements,
	}
}

// Education scans the education section. A line naming a university, college,
// school or institute starts an entry; following lines become its achievements
// until a blank line, the next institution or the next heading.
func Education(text string) []map[string]any {
	var (
		out         = []map[string]any{}
		inEducation bool
		current     *educationEntry
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
			inEducation = h.kind == sectionEducation
			continue
		}

		if !inEducation {
			continue
		}

		n := utf8.RuneCountInString(line)
		if institutionPattern.MatchString(line) && n > minInstitutionLen && n < maxInstitutionLen {
			flush()
			current = &educationEntry{institution: line, achievements: []string{}}
			continue
		}

		if current == nil {
			continue
		}
		if detail := strings.TrimSpace(bulletPattern.ReplaceAllString(line, "")); utf8.RuneCountInString(detail) > minDetailLen {
			current.achievements = append(current.achievements, detail)
		}
	}
	flush()

	return out
}
