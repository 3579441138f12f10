package text

import (
	"sort"
	"strings"
)

// Keywords extracts the lexical search terms of an utterance:
// lower-case, word runes only, stop words removed, single characters
// dropped. CJK runs are additionally broken into character bigrams so
// that unsegmented text still produces matchable terms.
func Keywords(s string) []string {
	var keywords []string
	seen := make(map[string]struct{})

	add := func(k string) {
		if _, dup := seen[k]; dup {
			return
		}
		seen[k] = struct{}{}
		keywords = append(keywords, k)
	}

	for _, tok := range Tokenize(s) {
		runes := []rune(tok)
		if isCJK(runes[0]) {
			for _, seg := range splitCJKStopWords(runes) {
				if len(seg) < 2 {
					continue
				}
				add(string(seg))
				for i := 0; i+2 <= len(seg); i++ {
					add(string(seg[i : i+2]))
				}
			}
			continue
		}
		if len(runes) < 2 || IsStopWord(tok) {
			continue
		}
		add(tok)
	}
	return keywords
}

// splitCJKStopWords removes stop-word substrings from a CJK run and
// returns the remaining segments. Longer stop words are removed first
// so "为什么" wins over "什么".
func splitCJKStopWords(runes []rune) [][]rune {
	s := string(runes)
	for _, sw := range cjkStopWordsByLength() {
		s = strings.ReplaceAll(s, sw, " ")
	}

	var segments [][]rune
	for _, part := range strings.Fields(s) {
		segments = append(segments, []rune(part))
	}
	return segments
}

var cjkStopOrdered []string

func cjkStopWordsByLength() []string {
	if cjkStopOrdered != nil {
		return cjkStopOrdered
	}
	for sw := range stopWords {
		if isCJK([]rune(sw)[0]) {
			cjkStopOrdered = append(cjkStopOrdered, sw)
		}
	}
	sort.Slice(cjkStopOrdered, func(i, j int) bool {
		a, b := []rune(cjkStopOrdered[i]), []rune(cjkStopOrdered[j])
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return cjkStopOrdered[i] < cjkStopOrdered[j]
	})
	return cjkStopOrdered
}

// TopTerms returns the n most frequent non-stop-word terms of s,
// most frequent first. Frequency ties break alphabetically to keep
// the output deterministic.
func TopTerms(s string, n int) []string {
	freq := make(map[string]int)
	for _, tok := range Tokenize(s) {
		runes := []rune(tok)
		if isCJK(runes[0]) {
			for _, seg := range splitCJKStopWords(runes) {
				if len(seg) >= 2 {
					freq[string(seg)]++
				}
			}
			continue
		}
		if len(runes) < 2 || IsStopWord(tok) {
			continue
		}
		freq[tok]++
	}

	terms := make([]string, 0, len(freq))
	for t := range freq {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool {
		if freq[terms[i]] != freq[terms[j]] {
			return freq[terms[i]] > freq[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if n > len(terms) {
		n = len(terms)
	}
	return terms[:n]
}
