package util

import (
	"regexp"
	"strings"
)

var (
	// Matches "Bearer <token>". Upstream HTTP errors from the Gemini client
	// can echo the auth header back in their message.
	bearerTokenRe = regexp.MustCompile(`(?i)\bBearer\s+[^\s"']+`)

	// Common key=value formats that sometimes leak in error strings.
	apiKeyKVRe = regexp.MustCompile(`(?i)\b(api[_-]?key|gemini[_-]?api[_-]?key)\b\s*[:=]\s*[^\s"'&]+`)

	// API keys embedded as URL query parameters (?key=...).
	apiKeyQueryRe = regexp.MustCompile(`(?i)([?&]key=)[^\s"'&]+`)
)

// RedactSecrets removes obvious secret-bearing substrings from error/log
// strings. Safe to call on any message, including user input and upstream
// error text.
func RedactSecrets(s string) string {
	if s == "" {
		return ""
	}
	out := s
	out = bearerTokenRe.ReplaceAllString(out, "Bearer <redacted>")
	out = apiKeyKVRe.ReplaceAllString(out, "<redacted_kv>")
	out = apiKeyQueryRe.ReplaceAllString(out, "$1<redacted>")
	return strings.TrimSpace(out)
}
