package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Metadata is written next to the cleaned text as <name>.meta.json
type Metadata struct {
	Filename  string `json:"filename,omitempty"`
	MimeType  string `json:"mime_type"`
	Timestamp string `json:"timestamp"`
	Hash      string `json:"hash"`
	Chars     int    `json:"chars"`
	Lines     int    `json:"lines"`
}

// NewMetadata describes cleaned résumé text extracted now
func NewMetadata(content, filename, mimeType string) *Metadata {
	lines := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}
	return &Metadata{
		Filename:  filename,
		MimeType:  mimeType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      ContentHash(content),
		Chars:     utf8.RuneCountInString(content),
		Lines:     lines,
	}
}

// ContentHash is the hex SHA-256 of content. Sources keep it so a re-upload
// of identical text can be recognised.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Summary is the one-line description printed by extract-text
func (m *Metadata) Summary() string {
	short := m.Hash
	if len(short) > 12 {
		short = short[:12]
	}
	return fmt.Sprintf("%d characters, %d lines (%s, hash %s)", m.Chars, m.Lines, m.MimeType, short)
}

// ToJSON renders the metadata file contents
func (m *Metadata) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return data, nil
}
