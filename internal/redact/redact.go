// Package redact obfuscates personal data in log output.
//
// FilterDatum rewrites "field=value<sep>" pairs inside free text. Handler
// wraps a slog.Handler and applies the same rule to messages, plus masks
// any attribute whose key names a sensitive field.
package redact

import (
	"regexp"
	"strings"
	"sync"
)

// Redaction replaces sensitive values.
const Redaction = "***"

// Separator ends a field=value pair in log messages.
const Separator = ";"

// PIIFields are the personal fields redacted from log messages.
var PIIFields = []string{"name", "email", "phone", "ssn", "password"}

// SecretFields are credentials that must never appear in logs.
var SecretFields = []string{"hashed_password", "session_id", "reset_token", "authorization"}

var (
	patternsMu sync.RWMutex
	patterns   = map[string]*regexp.Regexp{}
)

func fieldPattern(field, separator string) *regexp.Regexp {
	key := field + "\x00" + separator

	patternsMu.RLock()
	re, ok := patterns[key]
	patternsMu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(regexp.QuoteMeta(field) + "=.+?" + regexp.QuoteMeta(separator))

	patternsMu.Lock()
	patterns[key] = re
	patternsMu.Unlock()
	return re
}

// FilterDatum replaces the value of every "field=value<separator>" pair in
// message with redaction. The value is the shortest run of at least one
// character up to the next separator.
func FilterDatum(fields []string, redaction, message, separator string) string {
	if separator == "" {
		return message
	}
	for _, field := range fields {
		if field == "" {
			continue
		}
		message = fieldPattern(field, separator).ReplaceAllLiteralString(message, field+"="+redaction+separator)
	}
	return message
}

// FormatRecord joins key=value pairs with "; " and redacts fields, ending
// with a single separator.
func FormatRecord(fields []string, pairs [][2]string) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p[0]+"="+p[1])
	}
	line := strings.Join(parts, Separator+" ") + Separator
	return strings.TrimRight(FilterDatum(fields, Redaction, line, Separator), Separator) + Separator
}
