package textutil

import "unicode/utf8"

// Truncate shortens a string to at most maxLen bytes, appending "..." if
// truncated. The cut never splits a UTF-8 sequence.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
