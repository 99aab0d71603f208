package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	repeatedSpace = regexp.MustCompile(`[ \t]+`)
	excessBlank   = regexp.MustCompile(`\n\n\n+`)
)

// CleanText folds compatibility characters, normalizes line endings and spacing,
// and keeps at most one blank line between blocks
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = norm.NFKC.String(content)
	content = normalizeLineEndings(content)

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = excessBlank.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func normalizeLineEndings(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

// cleanLine drops control characters and collapses runs of spaces. Indentation
// is removed; the extractors work on trimmed lines.
func cleanLine(line string) string {
	line = strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case r == '\ufeff', unicode.IsControl(r):
			return -1
		}
		return r
	}, line)

	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	return repeatedSpace.ReplaceAllString(line, " ")
}

// WriteOutput writes the cleaned text and metadata of a document to outDir
func WriteOutput(outDir string, doc *Document) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	base := strings.TrimSuffix(doc.OriginalFilename, filepath.Ext(doc.OriginalFilename))
	if base == "" {
		base = "resume"
	}

	cleanedPath := filepath.Join(outDir, base+".cleaned.txt")
	if err := os.WriteFile(cleanedPath, []byte(doc.Text), 0644); err != nil {
		return fmt.Errorf("failed to write cleaned text file: %w", err)
	}

	metaJSON, err := doc.Metadata.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	metaPath := filepath.Join(outDir, base+".meta.json")
	if err := os.WriteFile(metaPath, metaJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	return nil
}
