// Package textnorm canonicalizes Spanish query and catalog text: locale-aware
// lowercasing, diacritic stripping, punctuation tokenization and stopword
// removal. Canonicalization is a total, idempotent function with no failure
// mode; accent presence or letter case never changes matching behavior.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stopwords are the Spanish articles, prepositions and conjunctions removed
// from canonical queries. The set is fixed; changing it is a catalog-reload
// level event.
var stopwords = map[string]struct{}{
	"a": {}, "al": {}, "con": {}, "de": {}, "del": {}, "e": {},
	"el": {}, "en": {}, "la": {}, "las": {}, "los": {}, "o": {},
	"para": {}, "por": {}, "u": {}, "un": {}, "una": {}, "y": {},
}

var lowerES = cases.Lower(language.Spanish)

// stripMarks removes combining marks after NFD decomposition, so "í" becomes
// "i" and "ñ" becomes "n".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Canonicalize turns raw text into an ordered sequence of canonical tokens.
// Token order is preserved; any order-insensitivity belongs to the scorer.
func Canonicalize(raw string) []string {
	folded := lowerES.String(raw)
	plain, _, err := transform.String(stripMarks, folded)
	if err != nil {
		// transform.String only fails on malformed input; fall back to the
		// folded text so canonicalization stays total.
		plain = folded
	}

	fields := strings.FieldsFunc(plain, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if _, skip := stopwords[tok]; skip {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// CanonicalString is Canonicalize re-serialized with single spaces.
func CanonicalString(raw string) string {
	return strings.Join(Canonicalize(raw), " ")
}

// TokenSet returns the canonical tokens of raw as a set.
func TokenSet(raw string) map[string]struct{} {
	tokens := Canonicalize(raw)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// IsStopword reports whether tok is in the fixed Spanish stopword set.
func IsStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}
