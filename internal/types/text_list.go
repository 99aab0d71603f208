package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TextList holds a value that may arrive as a single string or a list of strings.
// It serializes as a bare string when it holds one element and as an array otherwise.
type TextList []string

// NewTextList builds a TextList from the non-empty trimmed values
func NewTextList(values ...string) TextList {
	var out TextList
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// String joins the elements with ", "
func (l TextList) String() string {
	return strings.Join(l, ", ")
}

// MarshalJSON implements json.Marshaler
func (l TextList) MarshalJSON() ([]byte, error) {
	switch len(l) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(l[0])
	default:
		return json.Marshal([]string(l))
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (l *TextList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = NewTextList(s)
		return nil
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = NewTextList(items...)
		return nil
	default:
		return fmt.Errorf("text list must be a string or an array of strings, got %s", string(data))
	}
}
