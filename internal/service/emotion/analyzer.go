package emotion

import (
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/mira/internal/core"
)

// Keyword-driven emotion classification. It is deliberately crude:
// counts of fixed keyword lists, a negation heuristic and intensity
// modifiers. Good enough to steer response style, nothing more.

var emotionKeywords = map[core.Emotion][]string{
	core.EmotionHappy: {
		"happy", "glad", "great", "awesome", "wonderful", "love",
		"开心", "高兴", "快乐", "喜欢", "真棒", "哈哈",
	},
	core.EmotionSad: {
		"sad", "unhappy", "depressed", "cry", "lonely", "miss you",
		"难过", "伤心", "想哭", "失落", "孤独", "委屈",
	},
	core.EmotionAngry: {
		"angry", "mad", "furious", "annoyed", "hate",
		"生气", "愤怒", "讨厌", "烦死", "气死",
	},
	core.EmotionSurprised: {
		"surprised", "wow", "unbelievable", "shocked",
		"惊讶", "没想到", "天哪", "震惊", "居然",
	},
	core.EmotionThinking: {
		"think", "wonder", "maybe", "hmm", "consider",
		"思考", "在想", "考虑", "琢磨", "纠结",
	},
	core.EmotionExcited: {
		"excited", "thrilled", "amazing", "can't wait",
		"兴奋", "激动", "期待", "迫不及待",
	},
	core.EmotionNeutral: {
		"okay", "fine", "alright",
		"还行", "一般", "就这样",
	},
}

var negationWords = []string{
	"not ", "never ", "don't", "didn't", "isn't", "no longer",
	"不", "没", "别",
}

var highIntensityWords = []string{
	"very", "so ", "really", "extremely", "super",
	"太", "非常", "特别", "超级", "真的",
}

var lowIntensityWords = []string{
	"a bit", "a little", "slightly", "somewhat", "kind of",
	"有点", "一点", "稍微", "还好",
}

const (
	highMultiplier = 1.5
	lowMultiplier  = 0.6
	intensityScale = 0.3
)

type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze classifies one utterance. It cannot fail: an utterance with
// no emotional signal comes back neutral at half confidence.
func (a *Analyzer) Analyze(utterance string) core.EmotionResult {
	lowered := strings.ToLower(utterance)
	words := latinWords(lowered)

	scores := make(map[core.Emotion]float64, len(emotionKeywords))
	for emo, keywords := range emotionKeywords {
		n := 0
		for _, kw := range keywords {
			n += countKeyword(lowered, words, kw)
		}
		scores[emo] = float64(n)
	}

	// Negation nudges happy toward sad and vice versa ("not happy").
	// Applied before the intensity multiplier so the swap works on the
	// raw counts.
	if containsAny(lowered, negationWords) {
		scores[core.EmotionHappy], scores[core.EmotionSad] =
			scores[core.EmotionSad]*0.5, scores[core.EmotionHappy]*0.5
	}

	// When both a high and a low modifier appear, low wins: the more
	// specific local qualifier ("有点" in "真的有点难过") reads as the
	// speaker dampening their own statement.
	multiplier := 1.0
	if containsAny(lowered, highIntensityWords) {
		multiplier = highMultiplier
	}
	if containsAny(lowered, lowIntensityWords) {
		multiplier = lowMultiplier
	}

	primary, secondary, top, sum := rank(scores)

	result := core.EmotionResult{
		Primary:   primary,
		Secondary: secondary,
	}
	if sum > 0 {
		result.Confidence = top / sum
	} else {
		result.Primary = core.EmotionNeutral
		result.Confidence = 0.5
	}

	result.Intensity = top * intensityScale * multiplier
	if result.Intensity > 1 {
		result.Intensity = 1
	}

	result.Valence = valence(scores)
	result.Arousal = arousal(scores)
	return result
}

// rank picks the highest and second-highest scoring emotions, walking
// the taxonomy in canonical order so ties are deterministic.
func rank(scores map[core.Emotion]float64) (primary, secondary core.Emotion, top, sum float64) {
	primary = core.EmotionNeutral
	var second float64
	for _, emo := range core.Emotions() {
		s := scores[emo]
		sum += s
		if s > top {
			secondary, second = primary, top
			primary, top = emo, s
		} else if s > second {
			secondary, second = emo, s
		}
	}
	if second <= 0 {
		secondary = ""
	}
	return primary, secondary, top, sum
}

// valence is pleasantness in [-1,1]: positive emotions against
// negative ones, 0 when neither is present.
func valence(scores map[core.Emotion]float64) float64 {
	pos := scores[core.EmotionHappy] + scores[core.EmotionExcited]
	neg := scores[core.EmotionSad] + scores[core.EmotionAngry]
	if pos+neg == 0 {
		return 0
	}
	return (pos - neg) / (pos + neg)
}

// arousal is activation in [0,1]: activated emotions against calm
// ones, 0.5 when the utterance carries no signal either way.
func arousal(scores map[core.Emotion]float64) float64 {
	active := scores[core.EmotionExcited] + scores[core.EmotionAngry] + scores[core.EmotionSurprised]
	calm := scores[core.EmotionSad] + scores[core.EmotionThinking] + scores[core.EmotionNeutral]
	if active+calm == 0 {
		return 0.5
	}
	return active / (active + calm)
}

// countKeyword counts keyword occurrences. Latin keywords match whole
// words only, so "wonderful" does not fire "wonder" and "made" does
// not fire "mad". CJK keywords keep substring matching: the text has
// no word boundaries to respect.
func countKeyword(lowered string, words []string, kw string) int {
	if !isASCII(kw) {
		return strings.Count(lowered, kw)
	}

	parts := strings.Fields(kw)
	if len(parts) == 0 {
		return 0
	}

	n := 0
	for i := 0; i+len(parts) <= len(words); i++ {
		match := true
		for j, p := range parts {
			if words[i+j] != p {
				match = false
				break
			}
		}
		if match {
			n++
		}
	}
	return n
}

// latinWords returns the maximal ASCII letter/digit/apostrophe runs in
// an already-lowercased string. Any other rune, CJK included, is a
// boundary, so "我很happy" still yields "happy".
func latinWords(s string) []string {
	var words []string
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '\'' {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			words = append(words, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		words = append(words, b.String())
	}
	return words
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
