package ingestion

import "fmt"

// UnsupportedTypeError is returned for files whose type cannot be converted to text
type UnsupportedTypeError struct {
	Filename string
	MimeType string
	Message  string
}

func (e *UnsupportedTypeError) Error() string {
	name := e.Filename
	if name == "" {
		name = "input"
	}
	if e.MimeType == "" {
		return fmt.Sprintf("unsupported file type for %s: %s", name, e.Message)
	}
	return fmt.Sprintf("unsupported file type %s for %s: %s", e.MimeType, name, e.Message)
}
