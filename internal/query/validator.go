// Package query decides whether free text typed by a user may be sent to the
// station directory as a search term.
package query

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxQueryLength is the longest accepted search term, in runes.
const MaxQueryLength = 100

// punctuation found in station names, e.g. "Zürich, Bahnhofstr./HB" or
// "St. Gallen (SG)".
const namePunctuation = "-.',()/&"

// IsValidQuery reports whether text is a well-formed station search term:
// non-empty, at most MaxQueryLength runes, made of letters, digits, spaces and
// station-name punctuation, with at least one letter or digit.
func IsValidQuery(text string) bool {
	if text == "" || !utf8.ValidString(text) {
		return false
	}
	if utf8.RuneCountInString(text) > MaxQueryLength {
		return false
	}

	hasWord := false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			hasWord = true
		case unicode.Is(unicode.Mn, r):
			// combining accents, e.g. a decomposed "ü"
		case r == ' ' || r == '\u00a0':
		case strings.ContainsRune(namePunctuation, r):
		default:
			return false
		}
	}
	return hasWord
}

// Normalize trims text and collapses runs of whitespace into single spaces.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
