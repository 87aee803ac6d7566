package align

import (
	"strings"
	"unicode"
)

// Normalize reduces a raw token to its comparison key: edge punctuation and
// whitespace removed (quotes, dashes, sentence punctuation, brackets,
// ellipsis), lowercased. Punctuation-only input normalizes to the empty
// string. Interior punctuation is kept so contractions and hyphenated words
// compare as written.
func Normalize(s string) string {
	trimmed := strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return strings.ToLower(trimmed)
}
