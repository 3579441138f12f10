// Package text holds the lexical primitives shared by memory scoring,
// consolidation and context compression. Scoring here is deliberately
// heuristic: no embeddings, no semantic search.
package text

import (
	"strings"
	"unicode"
)

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || isCJK(r)
}

// Tokenize lower-cases the input and splits it into latin/digit words
// and contiguous CJK runs. Everything else is a separator.
func Tokenize(s string) []string {
	s = strings.ToLower(s)

	var tokens []string
	var current []rune
	var currentCJK bool

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, string(current))
			current = current[:0]
		}
	}

	for _, r := range s {
		if !isWordRune(r) {
			flush()
			continue
		}
		cjk := isCJK(r)
		if len(current) > 0 && cjk != currentCJK {
			flush()
		}
		currentCJK = cjk
		current = append(current, r)
	}
	flush()

	return tokens
}

// TokenSet returns the lower-cased word set of s. CJK runs contribute
// their individual characters so that texts without word boundaries
// still compare meaningfully.
func TokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(s) {
		runes := []rune(tok)
		if isCJK(runes[0]) {
			for _, r := range runes {
				set[string(r)] = struct{}{}
			}
			continue
		}
		set[tok] = struct{}{}
	}
	return set
}
