package errors

import (
	"strings"

	"github.com/tidwall/gjson"
)

// maxErrorBodyLength caps the upstream error text kept for logging. Upstream
// bodies can embed whole request payloads; anything longer carries no
// diagnostic value.
const maxErrorBodyLength = 2048

// ParseUpstreamError extracts a concise, human-readable message from an
// upstream error response body. It understands the common shapes returned by
// generative-AI services:
//
//	{"error": {"message": "..."}}   Google/OpenAI style
//	{"error": "..."}                simple style
//	{"error_msg": "..."}            vendor style
//	{"message": "..."}              root message style
//
// Unparseable bodies are returned as-is (truncated).
func ParseUpstreamError(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	if gjson.ValidBytes(body) {
		for _, path := range []string{"error.message", "error", "error_msg", "message"} {
			if result := gjson.GetBytes(body, path); result.Exists() && result.Type == gjson.String {
				if msg := strings.TrimSpace(result.String()); msg != "" {
					return truncateString(msg, maxErrorBodyLength)
				}
			}
		}
	}

	return truncateString(strings.TrimSpace(string(body)), maxErrorBodyLength)
}

// truncateString shortens a string to maxLength bytes.
func truncateString(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	if len(s) > maxLength {
		return s[:maxLength]
	}
	return s
}
