package utils

import "strings"

// Truncate flattens s onto one line and cuts it to at most maxLen runes,
// appending "..." when anything was dropped.
func Truncate(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return strings.TrimRight(string(runes[:max(maxLen, 0)]), " ") + "..."
}
