package names

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopTokens are role/status tags that appear glued to technician names in
// both the chat transcript and the official export ("DESC - Joao Silva",
// "Joao Silva TECNICO"). They carry no identity and are stripped before
// comparison.
var stopTokens = map[string]bool{
	"desc":    true,
	"ntl":     true,
	"tecnico": true,
	"tecnica": true,
	"ftz":     true,
}

// bracketPrefix matches a leading "[anything] " tag.
var bracketPrefix = regexp.MustCompile(`^\[[^\]]+\]\s*`)

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]+`)

// stripMarks removes Unicode combining marks after NFD decomposition,
// turning "José" into "Jose".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases, strips diacritics, and collapses whitespace.
//
// Fold is the normalization used for everything that is NOT a personal
// name: sheet names, column labels, status markers, alias phrases.
func Fold(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Invalid UTF-8 input; fall back to the raw string.
		folded = s
	}
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// Normalize reduces a free-text personal name to its comparable form:
// diacritics stripped, leading bracketed tags dropped, stop tokens
// removed, non-alphanumerics collapsed to spaces, lowercased.
//
// Returns "" when nothing identity-bearing remains.
func Normalize(s string) string {
	folded := Fold(bracketPrefix.ReplaceAllString(strings.TrimSpace(s), ""))
	folded = nonAlnum.ReplaceAllString(folded, " ")

	fields := strings.Fields(folded)
	kept := fields[:0]
	for _, tok := range fields {
		if stopTokens[tok] {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// Digits strips everything but decimal digits.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
