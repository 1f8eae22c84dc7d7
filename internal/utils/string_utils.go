package utils

import (
	"strings"
)

// quoteReplacer straightens typographic quotes that confuse the upstream model.
var quoteReplacer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
)

// MaskAPIKey masks an API key for safe logging.
// Example: "AIzaSy1234567890" -> "AIza****7890"
func MaskAPIKey(key string) string {
	length := len(key)
	if length <= 8 {
		return key
	}
	var b strings.Builder
	b.Grow(12)
	b.WriteString(key[:4])
	b.WriteString("****")
	b.WriteString(key[length-4:])
	return b.String()
}

// TruncateString shortens a string to a maximum length.
func TruncateString(s string, maxLength int) string {
	if len(s) > maxLength {
		return s[:maxLength]
	}
	return s
}

// SplitAndTrim splits a string by a separator and drops empty parts.
// Used for the comma-separated GEMINI_API_KEYS list.
func SplitAndTrim(s string, sep string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// NormalizeText prepares user input for translation: collapses surrounding
// whitespace and straightens smart quotes.
func NormalizeText(s string) string {
	return quoteReplacer.Replace(strings.TrimSpace(s))
}
