package overview

import (
	"strings"
	"unicode/utf8"
)

// DefaultPreviewChars is the preview length used when Options leaves it unset.
const DefaultPreviewChars = 80

// Ellipsis marks every preview, truncated or not.
const Ellipsis = "…"

var escaper = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)

// Escape replaces newline, carriage return and tab with their two-character
// escape sequences. Backslashes already in s are left alone.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Preview escapes text, keeps at most maxChars characters, trims surrounding
// whitespace and appends Ellipsis. Truncation counts runes, so multi-byte
// characters are never split.
func Preview(text string, maxChars int) string {
	return strings.TrimSpace(truncateRunes(Escape(text), maxChars)) + Ellipsis
}

func truncateRunes(s string, maxChars int) string {
	if maxChars < 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i]
		}
		n++
	}
	return s
}
