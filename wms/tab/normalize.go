package tab

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks splits base letters from their combining marks and drops the marks.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// letterFolds maps letters NFD leaves without a Latin base, plus ñ. It runs on
// the raw input, before decomposition and lowercasing, so both cases match.
var letterFolds = strings.NewReplacer(
	"ñ", "n", "Ñ", "N",
	"ß", "ss",
	"æ", "ae", "Æ", "AE",
	"ø", "o", "Ø", "O",
	"đ", "d", "Đ", "D",
	"ł", "l", "Ł", "L",
)

// Normalize folds s to a lowercase, diacritic-free, hyphenated ASCII token
// matching [a-z0-9-]*. It never fails; input with nothing usable yields "".
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	folded := letterFolds.Replace(s)
	if stripped, _, err := transform.String(stripMarks, folded); err == nil {
		folded = stripped
	}
	folded = strings.ToLower(strings.TrimSpace(folded))

	var b strings.Builder
	b.Grow(len(folded))
	inSpace := false
	for _, r := range folded {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace {
			b.WriteByte('-')
			inSpace = false
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
