// Package ingestion converts uploaded résumé files into cleaned plain text.
package ingestion

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Supported and recognised MIME types
const (
	TypeText     = "text/plain"
	TypeMarkdown = "text/markdown"
	TypeHTML     = "text/html"
	TypePDF      = "application/pdf"
	TypeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var extensionTypes = map[string]string{
	".txt":      TypeText,
	".text":     TypeText,
	".md":       TypeMarkdown,
	".markdown": TypeMarkdown,
	".html":     TypeHTML,
	".htm":      TypeHTML,
	".pdf":      TypePDF,
	".docx":     TypeDOCX,
}

var knownTypes = map[string]bool{
	TypeText: true, TypeMarkdown: true, TypeHTML: true, TypePDF: true, TypeDOCX: true,
	"text/x-markdown":       true,
	"application/xhtml+xml": true,
}

// Document is the text extracted from one uploaded file
type Document struct {
	Text             string    `json:"text"`
	MimeType         string    `json:"mime_type"`
	OriginalFilename string    `json:"original_filename"`
	Metadata         *Metadata `json:"metadata"`
}

// DetectType resolves the MIME type of an upload. A recognised declared type
// wins; otherwise the file extension decides. Unknown inputs yield "".
func DetectType(filename, mimeType string) string {
	if mt, _, err := mime.ParseMediaType(mimeType); err == nil && knownTypes[mt] {
		switch mt {
		case "text/x-markdown":
			return TypeMarkdown
		case "application/xhtml+xml":
			return TypeHTML
		}
		return mt
	}
	return extensionTypes[strings.ToLower(filepath.Ext(filename))]
}

// Extract converts file contents to cleaned text
func Extract(filename, mimeType string, data []byte) (*Document, error) {
	kind := DetectType(filename, mimeType)

	var text string
	switch kind {
	case TypeText:
		text = string(data)
	case TypeMarkdown:
		text = MarkdownText(string(data))
	case TypeHTML:
		var err error
		text, err = HTMLText(string(data))
		if err != nil {
			return nil, err
		}
	case TypePDF, TypeDOCX:
		return nil, &UnsupportedTypeError{Filename: filename, MimeType: kind, Message: "binary documents must be converted to text before import"}
	default:
		return nil, &UnsupportedTypeError{Filename: filename, MimeType: mimeType, Message: "expected plain text, markdown or HTML"}
	}

	cleaned := CleanText(text)
	return &Document{
		Text:             cleaned,
		MimeType:         kind,
		OriginalFilename: filename,
		Metadata:         NewMetadata(cleaned, filename, kind),
	}, nil
}

// ExtractFile reads a file from disk and extracts its text, detecting the type
// from the extension
func ExtractFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Extract(filepath.Base(path), "", data)
}
