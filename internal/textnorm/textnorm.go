// Package textnorm canonicalizes free-text answers for loose equality.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// armenianEchLigature is the single-codepoint "և" which learners may type
// either as the ligature or as the two letters "եւ".
const (
	armenianEchLigature = "և"
	armenianEchYiwn     = "եւ"
)

// zeroWidth lists the invisible codepoints stripped before comparison.
var zeroWidth = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\u2060", "",
	"\ufeff", "",
)

// Normalize returns the canonical form of text:
// - Unicode NFC composition
// - lowercase
// - zero-width characters removed
// - "և" folded to "եւ"
// - punctuation and symbols removed (letters of any script with their
//   combining marks, digits and spaces kept)
// - whitespace runs collapsed to a single space and trimmed
//
// Normalize is total and idempotent.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	s := norm.NFC.String(text)
	s = strings.ToLower(s)
	s = zeroWidth.Replace(s)
	s = strings.ReplaceAll(s, armenianEchLigature, armenianEchYiwn)

	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsMark(r), unicode.IsNumber(r):
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, s)

	s = strings.Join(strings.Fields(s), " ")
	return norm.NFC.String(s)
}

// Equal reports whether two free-text answers are equal after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
