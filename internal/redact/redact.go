// Package redact scrubs sensitive material from strings before they reach
// logs or error responses. Error text from drivers and libraries frequently
// embeds connection strings, credentials, tokens, or SQL fragments that must
// never leave the server.
package redact

import (
	"regexp"
	"sync"
)

// Placeholders substituted for matched sensitive content.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
)

var (
	// Connection URLs carrying inline credentials, e.g. postgres://user:pw@host.
	connURLRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql|redis)://[^@\s]+@`)

	// password=..., pwd: "...", and similar assignments.
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?)[^'"&\s]{3,}`)

	// Secrets and API keys in key=value or key: value form.
	secretRegex = regexp.MustCompile(`(?i)(api[_-]?key|secret|token|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`)

	// Compact JWT form: three dot-separated base64url segments starting with eyJ.
	jwtRegex = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)

	// Email addresses.
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Absolute filesystem paths with at least two segments.
	pathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	// SQL statement fragments leaked from driver errors.
	sqlRegex = regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(?:FROM|INTO|SET|TABLE|WHERE)(?:[\s\w,*()='"$]+)?`,
	)

	// Hostnames with an optional port.
	hostPortRegex = regexp.MustCompile(
		`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`,
	)

	placeholders = []struct {
		re          *regexp.Regexp
		placeholder string
	}{
		{connURLRegex, RedactedCredentialPlaceholder},
		{passwordRegex, RedactedCredentialPlaceholder},
		{secretRegex, RedactedTokenPlaceholder},
		{jwtRegex, RedactedTokenPlaceholder},
		{sqlRegex, RedactedSQLPlaceholder},
		{emailRegex, RedactedEmailPlaceholder},
		{pathRegex, RedactedPathPlaceholder},
		{hostPortRegex, RedactedHostPlaceholder},
	}

	mu sync.RWMutex
)

// String applies every redaction pattern to the input and returns the
// scrubbed result. Order matters: credential and token patterns run before
// the broader path and host patterns so the more specific placeholder wins.
func String(s string) string {
	mu.RLock()
	defer mu.RUnlock()

	out := s
	for _, p := range placeholders {
		out = p.re.ReplaceAllString(out, p.placeholder)
	}
	return out
}

// Error redacts an error's message. A nil error yields the empty string so
// callers can pass errors through unconditionally.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
