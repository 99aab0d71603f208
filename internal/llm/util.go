// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanJSONBlock removes markdown code fences from a model response.
// Models often wrap JSON in ```json ... ``` blocks even when told not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// Drop a language tag on the opening fence line
	if idx := strings.Index(text, "\n"); idx >= 0 {
		tag := text[:idx]
		if len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// DecodeObject parses a model response as a JSON object. Code fences are removed
// first; if the text still does not parse, the span from the first '{' to the
// last '}' is tried.
func DecodeObject(text string) (map[string]any, error) {
	cleaned := CleanJSONBlock(text)

	var value any
	err := json.Unmarshal([]byte(cleaned), &value)
	if err != nil {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("response is not JSON: %w", err)
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &value); err != nil {
			return nil, fmt.Errorf("response is not JSON: %w", err)
		}
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is JSON %T, not an object", value)
	}
	return obj, nil
}
