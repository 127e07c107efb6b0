package persona

import (
	"strings"
	"unicode"
)

const (
	typoChance     = 0.05
	lowerChance    = 0.3
	ellipsisChance = 0.25

	// typoMinLength is the rune count a reply must exceed before a typo is considered.
	typoMinLength = 10
)

// Humanize adds the small mistakes of an elderly phone user: at most one swap of
// adjacent characters, a lower-cased first character, and periods stretched into
// ellipses. Each is an independent draw from r.
func Humanize(r Rand, text string) string {
	if text == "" {
		return text
	}
	runes := []rune(text)

	if len(runes) > typoMinLength && r.Float64() < typoChance {
		i := r.IntN(len(runes) - 1)
		runes[i], runes[i+1] = runes[i+1], runes[i]
	}

	if r.Float64() < lowerChance {
		runes[0] = unicode.ToLower(runes[0])
	}

	out := string(runes)
	if r.Float64() < ellipsisChance {
		out = strings.ReplaceAll(out, ".", "...")
	}
	return out
}
