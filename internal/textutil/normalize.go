package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes characters and removes combining marks, so
// "café" normalizes to "cafe".
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes text for matching: lowercases, strips diacritics,
// removes punctuation except apostrophes between letters, and collapses
// whitespace. It is applied identically to clip transcripts and corpus lines
// so comparisons are symmetric.
func Normalize(text string) string {
	if stripped, _, err := transform.String(diacriticStripper, text); err == nil {
		text = stripped
	}
	text = strings.ToLower(text)

	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	for i, r := range runes {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'' || r == '’':
			// Keep apostrophes inside a word ("don't"), drop quoting ones.
			if i > 0 && i < len(runes)-1 && isWordRune(runes[i-1]) && isWordRune(runes[i+1]) {
				b.WriteRune('\'')
			}
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isWordRune(r rune) bool {
	return r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
