// Package phrasetext normalizes sentences for the phrase-construction
// variant, so a user's constructed answer can be compared against the
// canonical one without tripping over case, diacritics, punctuation, or
// spacing differences.
package phrasetext

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics decomposes to NFD, strips combining marks, and recomposes.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize produces the canonical comparison form of a sentence:
// diacritics folded, lowercased, punctuation stripped except apostrophes
// (' and ’), and whitespace collapsed to single spaces.
func Normalize(s string) string {
	folded, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		// Malformed input falls back to byte-level handling below.
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'' || r == '’':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Equivalent reports whether two sentences are equal under Normalize.
func Equivalent(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Words splits a sentence into its normalized words, dropping any that
// normalize to nothing. Used to build the word bank a phrase session
// presents alongside the distractor words.
func Words(sentence string) []string {
	fields := strings.Fields(sentence)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if w := Normalize(f); w != "" {
			words = append(words, w)
		}
	}
	return words
}
