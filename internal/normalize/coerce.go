package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// keyList is an ordered list of source keys tried for one canonical field
type keyList []string

var listDelimiter = regexp.MustCompile(`[\n•]+`)

// text coerces a scalar to trimmed text. Objects and lists yield "".
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, []any, []string, []map[string]any:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// asList returns the elements of a list value
func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}

// firstText returns the first key whose value coerces to non-empty text
func firstText(record map[string]any, keys keyList) string {
	for _, k := range keys {
		if s := text(record[k]); s != "" {
			return s
		}
	}
	return ""
}

// allTexts returns every non-empty text value in key order
func allTexts(record map[string]any, keys keyList) []string {
	var out []string
	for _, k := range keys {
		if s := text(record[k]); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// firstPresent returns the first key holding a non-nil value
func firstPresent(record map[string]any, keys keyList) (any, bool) {
	for _, k := range keys {
		if v, ok := record[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// textList coerces a string or list into non-empty trimmed strings without splitting
func textList(v any) []string {
	if items, ok := asList(v); ok {
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s := text(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := text(v); s != "" {
		return []string{s}
	}
	return []string{}
}

// firstTextList returns the first key whose value yields a non-empty list
func firstTextList(record map[string]any, keys keyList) []string {
	for _, k := range keys {
		if items := textList(record[k]); len(items) > 0 {
			return items
		}
	}
	return []string{}
}

// flag interprets booleans and boolean-like strings
func flag(v any) (value bool, ok bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

// splitLines splits text on newlines and bullet glyphs
func splitLines(s string) []string {
	var out []string
	for _, part := range listDelimiter.Split(s, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
