package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// titleResponse is the object form some models reply with instead of a bare array
type titleResponse struct {
	Titles []string `json:"titles"`
}

// ParseTitles reads the titles array out of an LLM reply
func ParseTitles(content string) ([]string, error) {
	content = extractJSON(content)
	if content == "" {
		return nil, fmt.Errorf("empty titles response")
	}

	var titles []string
	if err := json.Unmarshal([]byte(content), &titles); err == nil {
		return titles, nil
	}

	var wrapped titleResponse
	if err := json.Unmarshal([]byte(content), &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if wrapped.Titles == nil {
		return nil, fmt.Errorf("missing titles in response")
	}
	return wrapped.Titles, nil
}

// CleanTitle trims quotes and trailing punctuation and keeps at most maxWords words
func CleanTitle(title string, maxWords int) string {
	title = strings.Trim(strings.TrimSpace(title), "\"'`*#")
	words := strings.Fields(title)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.TrimRight(strings.Join(words, " "), ".,;:!?")
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if start := strings.IndexAny(content, "[{"); start > 0 {
		// prose before the payload, e.g. "Here are the titles: [...]"
		content = content[start:]
	}

	return strings.TrimSpace(content)
}
