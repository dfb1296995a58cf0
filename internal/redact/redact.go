// Package redact scrubs personally identifiable information from free text
// and structured metadata before it is logged or crosses the trust boundary
// to an external model provider.
//
// The pattern set is a best-effort heuristic, not a completeness guarantee:
// it catches the common shapes of emails, phone numbers, card numbers and
// SSNs, and nothing else. Callers must not treat redacted output as proven
// PII-free.
package redact

import (
	"regexp"
	"strings"
)

// Replacement tokens. None of them contain digits or '@', which keeps Redact
// idempotent: a second pass can never match inside a token.
const (
	EmailToken = "[EMAIL_REDACTED]"
	PhoneToken = "[PHONE_REDACTED]"
	CardToken  = "[CARD_REDACTED]"
	SSNToken   = "[SSN_REDACTED]"
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	// 16-digit card-like sequences, optionally grouped by spaces or dashes.
	// Must run before the phone pattern so a grouped card number is not
	// partially consumed as a phone match.
	cardPattern = regexp.MustCompile(`\b\d{4}[ \-]?\d{4}[ \-]?\d{4}[ \-]?\d{4}\b`)
	ssnPattern  = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	// Common phone shapes: optional country code, optional area code in
	// parentheses, separators of space, dot or dash.
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[ .\-]?)?(\(\d{3}\)|\b\d{3})[ .\-]?\d{3}[ .\-]?\d{4}\b`)
)

// sensitiveTokens are key-name fragments that mark a metadata value as likely
// PII-bearing. Matching is case-insensitive substring.
var sensitiveTokens = []string{"email", "phone", "address", "name", "text", "content", "body"}

// Redact applies the PII pattern substitutions in order. Patterns are
// independent and not mutually exclusive; ordering only matters where they
// could overlap (cards before phones).
func Redact(text string) string {
	out := emailPattern.ReplaceAllString(text, EmailToken)
	out = cardPattern.ReplaceAllString(out, CardToken)
	out = ssnPattern.ReplaceAllString(out, SSNToken)
	out = phonePattern.ReplaceAllString(out, PhoneToken)
	return out
}

// Metadata recurses over a key/value mapping: string values under
// sensitive-looking keys are redacted, nested mappings are processed
// recursively, and everything else passes through unchanged. The input map is
// not mutated.
func Metadata(meta map[string]any) map[string]any {
	if meta == nil {
		return nil
	}
	out := make(map[string]any, len(meta))
	for key, value := range meta {
		switch v := value.(type) {
		case string:
			if isSensitiveKey(key) {
				out[key] = Redact(v)
			} else {
				out[key] = v
			}
		case map[string]any:
			out[key] = Metadata(v)
		default:
			out[key] = value
		}
	}
	return out
}

// Value deep-redacts an arbitrary nested value: every string is redacted
// regardless of its key, mappings and sequences are recursed, and scalar
// leaves pass through. Used for payloads that are about to be logged or
// forwarded wholesale.
func Value(v any) any {
	switch val := v.(type) {
	case string:
		return Redact(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Value(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Value(item)
		}
		return out
	default:
		return v
	}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, token := range sensitiveTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}
