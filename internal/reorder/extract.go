package reorder

import (
	"encoding/json"
	"regexp"
	"strings"
)

// codeBlockPattern matches markdown code blocks with optional language tag.
// Captures: (1) optional language, (2) content.
var codeBlockPattern = regexp.MustCompile(`(?s)` + "```" + `(\w*)\s*\n(.+?)\n` + "```")

// extractJSON pulls a JSON object out of an advisory response that may be
// wrapped in markdown or prose. Priority:
//  1. JSON inside ```json ... ``` or ``` ... ``` code blocks
//  2. Raw JSON object {...} in the response
func extractJSON(response string) (string, bool) {
	if jsonStr, found := extractFromCodeBlock(response); found {
		return jsonStr, true
	}
	return extractRawJSON(response)
}

// extractFromCodeBlock finds JSON in markdown code blocks.
func extractFromCodeBlock(response string) (string, bool) {
	matches := codeBlockPattern.FindAllStringSubmatch(response, -1)

	for _, match := range matches {
		if len(match) < 3 {
			continue
		}

		lang := strings.ToLower(match[1])
		content := strings.TrimSpace(match[2])

		// Accept json or no language tag; skip blocks tagged otherwise.
		if lang != "" && lang != "json" {
			continue
		}

		if strings.HasPrefix(content, "{") && isValidJSON(content) {
			return content, true
		}
	}

	return "", false
}

// extractRawJSON finds a JSON object in free text by bracket matching.
func extractRawJSON(response string) (string, bool) {
	start := strings.Index(response, "{")
	if start < 0 {
		return "", false
	}

	jsonStr := findMatchingBracket(response[start:], '{', '}')
	if jsonStr != "" && isValidJSON(jsonStr) {
		return jsonStr, true
	}
	return "", false
}

// findMatchingBracket finds the complete JSON value by matching brackets,
// skipping bracket characters inside strings.
func findMatchingBracket(s string, openChar, closeChar byte) string {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if c == openChar {
			depth++
		} else if c == closeChar {
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}

func isValidJSON(s string) bool {
	return json.Valid([]byte(s))
}
