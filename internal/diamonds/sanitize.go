package diamonds

import (
	"strings"
)

// quoteChars are stripped from both ends of a categorical label.
const quoteChars = `'"`

// SanitizeLabel cleans a cut or clarity value that may still carry the text of
// a byte literal, e.g. b'Very Good' or 'SI2'. The stripping is applied until
// the value stops changing, so SanitizeLabel(SanitizeLabel(x)) == SanitizeLabel(x).
func SanitizeLabel(raw string) string {
	s := raw
	for {
		next := stripByteLiteral(s)
		if next == s {
			return s
		}
		s = next
	}
}

func stripByteLiteral(s string) string {
	if len(s) >= 2 && s[0] == 'b' && strings.ContainsRune(quoteChars, rune(s[1])) {
		s = s[1:]
	}
	return strings.Trim(s, quoteChars)
}

// ColorLetter extracts the color grade from its raw form. The raw column holds
// the string form of a byte literal (b'E'), and the grade is the character at
// index 2 of that form. Values that are not in byte-literal form are rendered
// as one first, so a clean "E" yields "E" as well.
//
// This is not a generic strip: multi-character inputs keep only one letter.
func ColorLetter(raw string) string {
	if raw == "" {
		return ""
	}
	repr := raw
	if !isByteLiteral(repr) {
		repr = "b'" + repr + "'"
	}
	runes := []rune(repr)
	return strings.Trim(string(runes[2]), quoteChars)
}

func isByteLiteral(s string) bool {
	return len(s) >= 3 && s[0] == 'b' && (s[1] == '\'' || s[1] == '"')
}
