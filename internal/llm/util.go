package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanJSONBlock removes markdown code fences the model sometimes wraps
// around JSON even when asked not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if idx := strings.Index(text, "\n"); idx >= 0 {
		first := text[:idx]
		if len(first) < 20 && !strings.ContainsAny(first, " {[") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// DecodeJSON parses a model response into T.
func DecodeJSON[T any](text string) (T, error) {
	var out T
	if err := json.Unmarshal([]byte(CleanJSONBlock(text)), &out); err != nil {
		return out, fmt.Errorf("failed to parse model response: %w", err)
	}
	return out, nil
}
