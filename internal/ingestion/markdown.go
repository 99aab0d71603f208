package ingestion

import (
	"regexp"
	"strings"
)

var (
	markdownHeading  = regexp.MustCompile(`^\s{0,3}#{1,6}\s+(.*?)\s*#*\s*$`)
	markdownBullet   = regexp.MustCompile(`^(\s*)[-*+]\s+`)
	markdownRule     = regexp.MustCompile(`^\s{0,3}(?:[-*_]\s*){3,}$`)
	markdownEmphasis = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	markdownLink     = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
)

// MarkdownText strips markdown syntax that would hide résumé structure:
// heading markers, list markers (rewritten as "• "), bold and links.
func MarkdownText(md string) string {
	lines := strings.Split(normalizeLineEndings(md), "\n")
	for i, line := range lines {
		switch {
		case markdownRule.MatchString(line):
			line = ""
		case markdownHeading.MatchString(line):
			line = markdownHeading.ReplaceAllString(line, "$1")
		case markdownBullet.MatchString(line):
			line = markdownBullet.ReplaceAllString(line, "${1}• ")
		}
		line = markdownEmphasis.ReplaceAllString(line, "$2")
		lines[i] = markdownLink.ReplaceAllString(line, "$1")
	}
	return strings.Join(lines, "\n")
}
