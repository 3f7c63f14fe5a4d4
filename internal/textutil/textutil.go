package textutil

import (
	"strings"
	"unicode/utf8"
)

// IsBlank reports whether s is empty once surrounding whitespace is removed.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Truncate shortens s to at most maxLen runes, appending "..." if truncated.
// Newlines are flattened so the result fits on one log line.
func Truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", `\n`)
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}
