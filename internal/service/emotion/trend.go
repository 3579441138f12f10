package emotion

import (
	"math"

	"github.com/sandevgo/mira/internal/core"
)

type TrendLabel string

const (
	TrendImproving TrendLabel = "improving"
	TrendDeclining TrendLabel = "declining"
	TrendStable    TrendLabel = "stable"
)

// trendDelta is the minimum shift in positive-emotion share between
// the two halves of a series before the trend leaves "stable".
const trendDelta = 0.1

// TrendReport summarizes a time-ordered emotion series.
type TrendReport struct {
	Dominant     core.Emotion
	Distribution map[core.Emotion]float64
	// Stability measures closeness to a uniform spread across the
	// taxonomy, not emotional consistency: a series locked on a single
	// emotion has maximal dispersion from uniform and therefore LOW
	// stability. Kept under this name for compatibility; read it as
	// "1 - concentration".
	Stability float64
	Trend     TrendLabel
}

// Trend analyzes a chronological emotion series. An empty series is
// not an error: it returns the neutral, fully-stable default.
func Trend(series []core.Emotion) TrendReport {
	if len(series) == 0 {
		return TrendReport{
			Dominant:     core.EmotionNeutral,
			Distribution: map[core.Emotion]float64{},
			Stability:    1,
			Trend:        TrendStable,
		}
	}

	counts := make(map[core.Emotion]int, len(core.Emotions()))
	for _, e := range series {
		counts[e]++
	}

	dist := make(map[core.Emotion]float64, len(core.Emotions()))
	dominant := core.EmotionNeutral
	best := 0
	for _, e := range core.Emotions() {
		dist[e] = float64(counts[e]) / float64(len(series))
		if counts[e] > best {
			dominant, best = e, counts[e]
		}
	}

	return TrendReport{
		Dominant:     dominant,
		Distribution: dist,
		Stability:    stability(dist),
		Trend:        direction(series),
	}
}

// stability is 1/(1+10·stdev) with the stdev taken against the uniform
// baseline of 1/7 per emotion.
func stability(dist map[core.Emotion]float64) float64 {
	uniform := 1.0 / float64(len(core.Emotions()))
	var sumSq float64
	for _, e := range core.Emotions() {
		d := dist[e] - uniform
		sumSq += d * d
	}
	stdev := math.Sqrt(sumSq / float64(len(core.Emotions())))
	return 1 / (1 + 10*stdev)
}

// direction compares the positive-emotion share of the first and
// second halves of the series.
func direction(series []core.Emotion) TrendLabel {
	half := len(series) / 2
	if half == 0 {
		return TrendStable
	}

	first := positiveShare(series[:half])
	second := positiveShare(series[half:])

	switch {
	case second-first > trendDelta:
		return TrendImproving
	case first-second > trendDelta:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func positiveShare(series []core.Emotion) float64 {
	if len(series) == 0 {
		return 0
	}
	n := 0
	for _, e := range series {
		if e == core.EmotionHappy || e == core.EmotionExcited {
			n++
		}
	}
	return float64(n) / float64(len(series))
}
