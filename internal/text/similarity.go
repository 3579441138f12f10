package text

import "math"

// Jaccard computes token-set similarity: |A∩B| / |A∪B|. Two empty
// texts are defined as identical (1).
func Jaccard(a, b string) float64 {
	setA, setB := TokenSet(a), TokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}

// Overlap is the geometric-mean-normalized variant used for ranking
// turns against an utterance: |A∩B| / √(|A|·|B|). Unlike Jaccard it
// does not punish a short query against a long document as harshly.
func Overlap(a, b string) float64 {
	setA, setB := TokenSet(a), TokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	inter := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			inter++
		}
	}
	return float64(inter) / math.Sqrt(float64(len(setA))*float64(len(setB)))
}
