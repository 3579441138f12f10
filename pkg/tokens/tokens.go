// Package tokens provides token accounting for the context engine.
//
// Estimate is a fixed heuristic (ceil of rune count / 2.5) calibrated
// for CJK-heavy companion chat. It is an approximation only; callers
// must not treat it as an exact tokenizer or rely on it for hard
// limits. Count gives a real BPE count and is used for telemetry when
// the backend omits usage figures.
package tokens

import (
	"math"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// charsPerToken is the heuristic density of CJK-heavy chat text.
const charsPerToken = 2.5

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

// Estimate approximates the token count of text.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	return int(math.Ceil(float64(utf8.RuneCountInString(text)) / charsPerToken))
}

// EstimateChars approximates the token count of a body of text known
// only by its character count, as produced by storage aggregation.
func EstimateChars(chars int64) int {
	if chars <= 0 {
		return 0
	}
	return int(math.Ceil(float64(chars) / charsPerToken))
}

// EstimateAll sums Estimate over all strings.
func EstimateAll(texts []string) int {
	total := 0
	for _, t := range texts {
		total += Estimate(t)
	}
	return total
}

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			tk = nil
		}
	})
	return tk
}

// Count returns the exact cl100k_base BPE token count, falling back to
// Estimate when the encoding is unavailable offline.
func Count(text string) int {
	enc := getTokenizer()
	if enc == nil {
		return Estimate(text)
	}
	return len(enc.Encode(text, nil, nil))
}
