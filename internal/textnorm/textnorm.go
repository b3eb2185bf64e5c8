// Package textnorm normalizes and tokenizes text into the canonical form
// used for scoring. Normalization is case- and diacritic-insensitive and
// idempotent: Normalize(Normalize(s)) == Normalize(s).
package textnorm

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTokenRunes is the minimum token length; shorter tokens carry no signal.
const minTokenRunes = 2

// combiningDiacritics covers the Unicode combining diacritical marks block
// (U+0300–U+036F), the marks NFKD splits off of accented Latin letters.
var combiningDiacritics = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
}

var stripDiacritics = transform.Chain(norm.NFKD, runes.Remove(runes.In(combiningDiacritics)))

// Normalize returns the canonical search form of text: NFKD decomposed with
// combining diacritics removed, lowercased, every run of characters that are
// not letters or numbers collapsed to a single space, and trimmed.
func Normalize(text string) string {
	if stripped, _, err := transform.String(stripDiacritics, text); err == nil {
		text = stripped
	}
	// Lowercase after decomposition: NFKD can emit capitals (ᴷ -> "K").
	text = strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			pendingSpace = false
			continue
		}
		// Whitespace and punctuation runs both collapse to one separator.
		pendingSpace = true
	}
	return b.String()
}

// Tokenize splits the normalized form of text into tokens, discarding tokens
// shorter than two runes. Order and duplicates are preserved.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	fields := strings.Split(normalized, " ")
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenRunes {
			tokens = append(tokens, f)
		}
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// TokenSet returns the distinct tokens of text as a set.
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}
