package ingestion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "dd": true,
	"div": true, "dl": true, "dt": true, "footer": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true, "hr": true,
	"main": true, "ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true,
}

var inlineSpace = regexp.MustCompile(`\s+`)

// HTMLText renders an HTML résumé as text. Block elements start new lines and
// list items become "• " bullets, so headings and entries keep their own lines.
// Blank lines are dropped; markup spacing says nothing about entry boundaries.
func HTMLText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("head, script, style, noscript, template").Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var sb strings.Builder
	writeNodes(&sb, root.Contents())
	return nonBlankLines(sb.String()), nil
}

func nonBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func writeNodes(sb *strings.Builder, sel *goquery.Selection) {
	sel.Each(func(_ int, s *goquery.Selection) {
		switch name := goquery.NodeName(s); {
		case name == "#text":
			sb.WriteString(inlineSpace.ReplaceAllString(s.Text(), " "))
		case name == "#comment":
		case name == "br":
			sb.WriteString("\n")
		case name == "li":
			sb.WriteString("\n• ")
			writeNodes(sb, s.Contents())
			sb.WriteString("\n")
		case name == "td" || name == "th":
			writeNodes(sb, s.Contents())
			sb.WriteString(" ")
		case blockElements[name]:
			sb.WriteString("\n")
			writeNodes(sb, s.Contents())
			sb.WriteString("\n")
		default:
			writeNodes(sb, s.Contents())
		}
	})
}
