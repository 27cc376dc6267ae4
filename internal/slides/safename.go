package slides

import (
	"strings"
	"unicode"
)

// Extension is the file extension of rendered decks.
const Extension = ".pptx"

// SafeBaseName keeps only the letters, digits and spaces of word and trims
// trailing whitespace. The result may be empty.
func SafeBaseName(word string) string {
	var b strings.Builder
	for _, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// FileName returns the deck file name for word, or "" when word has no
// filename-safe characters.
func FileName(word string) string {
	base := SafeBaseName(word)
	if base == "" {
		return ""
	}
	return base + Extension
}
