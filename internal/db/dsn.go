package db

import (
	"strings"
)

// IsSQLite reports whether the DSN designates the embedded sqlite store used
// in development and tests ("file:..." URIs, ":memory:", or *.db paths)
// rather than a hosted postgres instance.
func IsSQLite(dsn string) bool {
	s := strings.ToLower(strings.TrimSpace(dsn))
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://") || strings.Contains(s, "host=") {
		return false
	}
	return strings.HasPrefix(s, "file:") || s == ":memory:" || strings.HasSuffix(s, ".db") || strings.HasSuffix(s, ".sqlite")
}

// NormalizeDSN trims quotes and whitespace and, for postgres key=value form,
// supplements sslmode=disable when missing.
func NormalizeDSN(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'")
	if s == "" || IsSQLite(s) {
		return s
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return s
	}
	if !strings.Contains(lower, "host=") {
		return s
	}
	// collapse spacing in key=value lists
	cleaned := strings.Join(strings.Fields(s), " ")
	if !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}
