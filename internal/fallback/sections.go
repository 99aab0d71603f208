package fallback

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionExperience
	sectionEducation
	sectionOther
)

type sectionHeading struct {
	label string
	kind  sectionKind
}

// headings maps a compacted heading (lowercase, no whitespace, no trailing colon)
// to its display label. Compaction makes letter-spaced headings such as
// "E X P E R I E N C E" match.
var headings = map[string]sectionHeading{
	"experience":                {"Experience", sectionExperience},
	"workexperience":            {"Work Experience", sectionExperience},
	"professionalexperience":    {"Professional Experience", sectionExperience},
	"relevantexperience":        {"Relevant Experience", sectionExperience},
	"employment":                {"Employment", sectionExperience},
	"employmenthistory":         {"Employment History", sectionExperience},
	"work":                      {"Work", sectionExperience},
	"workhistory":               {"Work History", sectionExperience},
	"project":                   {"Project", sectionExperience},
	"projects":                  {"Projects", sectionExperience},
	"personalprojects":          {"Personal Projects", sectionExperience},
	"academicprojects":          {"Academic Projects", sectionExperience},
	"leadership":                {"Leadership", sectionExperience},
	"leadershipexperience":      {"Leadership Experience", sectionExperience},
	"activities":                {"Activities", sectionExperience},
	"extracurricularactivities": {"Extracurricular Activities", sectionExperience},
	"internship":                {"Internship", sectionExperience},
	"internships":               {"Internships", sectionExperience},
	"research":                  {"Research", sectionExperience},
	"researchexperience":        {"Research Experience", sectionExperience},
	"volunteering":              {"Volunteering", sectionExperience},
	"volunteerexperience":       {"Volunteer Experience", sectionExperience},

	"education":             {"Education", sectionEducation},
	"educationalbackground": {"Educational Background", sectionEducation},
	"academicbackground":    {"Academic Background", sectionEducation},

	"skills":                  {"Skills", sectionOther},
	"technicalskills":         {"Technical Skills", sectionOther},
	"skillsandinterests":      {"Skills and Interests", sectionOther},
	"certifications":          {"Certifications", sectionOther},
	"awards":                  {"Awards", sectionOther},
	"honors":                  {"Honors", sectionOther},
	"honorsandawards":         {"Honors and Awards", sectionOther},
	"publications":            {"Publications", sectionOther},
	"interests":               {"Interests", sectionOther},
	"languages":               {"Languages", sectionOther},
	"summary":                 {"Summary", sectionOther},
	"professionalsummary":     {"Professional Summary", sectionOther},
	"objective":               {"Objective", sectionOther},
	"references":              {"References", sectionOther},
	"coursework":              {"Coursework", sectionOther},
	"relevantcoursework":      {"Relevant Coursework", sectionOther},
	"additionalinformation":   {"Additional Information", sectionOther},
	"contact":                 {"Contact", sectionOther},
	"contactinformation":      {"Contact Information", sectionOther},
	"profile":                 {"Profile", sectionOther},
	"technicalproficiencies":  {"Technical Proficiencies", sectionOther},
	"toolsandtechnologies":    {"Tools and Technologies", sectionOther},
	"certificationsandawards": {"Certifications and Awards", sectionOther},
}

// lookupHeading reports whether a trimmed line is a known section heading
func lookupHeading(line string) (sectionHeading, bool) {
	if len(line) > 60 {
		return sectionHeading{}, false
	}
	var b strings.Builder
	for _, r := range strings.TrimRight(line, ": ") {
		if unicode.IsSpace(r) {
			continue
		}
		if r == '&' {
			b.WriteString("and")
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	h, ok := headings[b.String()]
	return h, ok
}

// splitLines folds compatibility characters (non-breaking spaces, full-width
// letters, ligatures) and returns the trimmed lines of the text.
func splitLines(text string) []string {
	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}
