package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON finds and returns the JSON object portion of a model reply.
// Models often wrap JSON in markdown fences or surround it with commentary;
// this strips fences, then falls back to first-'{' / last-'}' bracketing.
// Only objects are handled, not arrays.
func ExtractJSON(response string) (string, error) {
	response = StripCodeFence(response)

	// Try full response first
	var test interface{}
	if err := json.Unmarshal([]byte(response), &test); err == nil {
		return response, nil
	}

	start := strings.Index(response, "{")
	if start != -1 {
		end := strings.LastIndex(response, "}")
		if end != -1 && end > start {
			jsonStr := response[start : end+1]
			if err := json.Unmarshal([]byte(jsonStr), &test); err == nil {
				return jsonStr, nil
			}
		}
	}

	preview := response
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return "", fmt.Errorf("failed to extract valid JSON from response: %q", preview)
}

// UnmarshalFromResponse extracts the JSON object from a model reply and
// unmarshals it into result.
func UnmarshalFromResponse(response string, result interface{}) error {
	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(jsonStr), result); err != nil {
		return fmt.Errorf("unmarshal extracted JSON: %w", err)
	}
	return nil
}

// StripCodeFence removes a wrapping markdown code fence, if any.
func StripCodeFence(response string) string {
	trimmed := strings.TrimSpace(response)

	for _, lang := range []string{"```json", "```markdown", "```md", "```"} {
		if strings.HasPrefix(trimmed, lang) {
			trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, lang))
			break
		}
	}

	if strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "```"))
	}

	return trimmed
}
