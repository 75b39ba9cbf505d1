package validate

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// StripControlChars removes all control characters from a string.
func StripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// TruncateString shortens s to maxLen terminal columns, ending in "..." if
// truncated. Wide runes count as two columns.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 3 {
		return runewidth.Truncate(s, max(maxLen, 0), "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}
