// Package sanitization scrubs secrets from outbound notification text
// before it is handed to a delivery transport.
package sanitization

import (
	"regexp"
	"strings"
)

// Sanitizer redacts secret-shaped substrings from notification text. Its
// primary path uses regular expressions; if that path ever panics (a
// pathological input against a hand-tuned pattern), SanitizeWithFallback
// recovers and degrades to SafeFallback rather than losing the
// notification entirely — a remediation alert with an over-redacted body
// is still far better than no alert.
type Sanitizer struct {
	patterns []*regexp.Regexp
}

// patterns match common secret shapes the gateway might otherwise echo
// into a notification (a command's output, an error message).
var defaultPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)aws_secret_access_key\s*=\s*\S+`),
	regexp.MustCompile(`(?i)aws_session_token\s*=\s*\S+`),
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`(?i)bearer\s+[a-z0-9\-_.]+`),
	regexp.MustCompile(`(?i)password\s*[:=]\s*\S+`),
	regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----[\s\S]*?-----END [A-Z ]*PRIVATE KEY-----`),
}

const regexRedacted = "***REDACTED***"
const fallbackRedacted = "[REDACTED]"

// NewSanitizer returns a Sanitizer using the built-in pattern set.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{patterns: defaultPatterns}
}

// Sanitize applies the regex pattern set directly. Prefer
// SanitizeWithFallback in any path whose failure would drop a notification.
func Sanitize(text string) string {
	return NewSanitizer().sanitize(text)
}

func (s *Sanitizer) sanitize(text string) string {
	out := text
	for _, p := range s.patterns {
		out = p.ReplaceAllString(out, regexRedacted)
	}
	return out
}

// SanitizeWithFallback runs the regex path and recovers from any panic by
// degrading to SafeFallback, returning a non-nil error only in that
// degraded case. The caller can always use the returned string.
func (s *Sanitizer) SanitizeWithFallback(text string) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = s.SafeFallback(text)
			err = &fallbackError{reason: r}
		}
	}()
	return s.sanitize(text), nil
}

type fallbackError struct{ reason any }

func (e *fallbackError) Error() string {
	return "sanitization fell back to safe string matching"
}

// fallbackMarkers are simple, panic-proof substring markers SafeFallback
// looks for ahead of a ":" or "=" delimiter, redacting through the next
// run of non-whitespace/non-punctuation characters.
var fallbackMarkers = []string{"password", "token", "api_key", "apikey", "secret"}

// SafeFallback redacts using plain substring search instead of regular
// expressions, so it cannot itself panic regardless of input.
func (s *Sanitizer) SafeFallback(text string) string {
	lower := strings.ToLower(text)
	var b strings.Builder
	i := 0
	for i < len(text) {
		marker, delimAt := matchMarker(lower, i)
		if marker == "" {
			b.WriteByte(text[i])
			i++
			continue
		}
		b.WriteString(text[i:delimAt])
		valueStart := skipDelimiterAndSpace(text, delimAt)
		b.WriteString(text[delimAt:valueStart])
		valueEnd := scanValue(text, valueStart)
		b.WriteString(fallbackRedacted)
		i = valueEnd
	}
	return b.String()
}

func matchMarker(lower string, pos int) (marker string, delimAt int) {
	for _, m := range fallbackMarkers {
		end := pos + len(m)
		if end > len(lower) || lower[pos:end] != m {
			continue
		}
		rest := end
		for rest < len(lower) && lower[rest] == ' ' {
			rest++
		}
		if rest < len(lower) && (lower[rest] == ':' || lower[rest] == '=') {
			return m, rest
		}
	}
	return "", 0
}

func skipDelimiterAndSpace(text string, pos int) int {
	pos++ // the ':' or '='
	for pos < len(text) && (text[pos] == ' ' || text[pos] == '\t') {
		pos++
	}
	if pos < len(text) && (text[pos] == '\'' || text[pos] == '"') {
		pos++
	}
	return pos
}

func scanValue(text string, pos int) int {
	start := pos
	for pos < len(text) {
		switch text[pos] {
		case ' ', '\t', '\n', ',', '}', '\'', '"':
			if pos == start {
				return pos + 1
			}
			return pos
		}
		pos++
	}
	return pos
}
