package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/mira/internal/core"
)

// Composer assembles the system prompt. Pure string work: every input
// is already fetched and an empty optional section is simply left out.
type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Options carries the optional prompt sections. Emotion guidance comes
// in as plain text so the composer stays decoupled from the analyzer.
type Options struct {
	Memories        []core.Memory
	Emotion         core.Emotion
	EmotionGuidance string
	IncludeExamples bool
}

// trait threshold boundaries for the three descriptive variants.
const (
	traitHigh = 0.7
	traitMid  = 0.4
)

const maxExperiences = 5

// Compose builds the full system prompt in fixed section order.
func (c *Composer) Compose(p core.Persona, opts Options) string {
	var b strings.Builder

	b.WriteString(identityLine(p))
	b.WriteString("\n\n# Personality\n")
	b.WriteString(personalitySection(p.Traits))

	if p.Background != "" {
		b.WriteString("\n# Background\n")
		b.WriteString(p.Background)
		b.WriteString("\n")
	}

	if section := experiencesSection(p.Experiences); section != "" {
		b.WriteString("\n# Life experiences\n")
		b.WriteString(section)
	}

	b.WriteString("\n# Dialogue style\n")
	b.WriteString(styleSection(p.Traits))

	b.WriteString("\n# Ground rules\n")
	b.WriteString(groundRules(p.Name))

	if section := memorySection(opts.Memories); section != "" {
		b.WriteString("\n# What you remember about the user\n")
		b.WriteString(section)
	}

	if opts.EmotionGuidance != "" {
		b.WriteString("\n# Current mood\n")
		b.WriteString(fmt.Sprintf("The user currently seems %s. %s\n", opts.Emotion, opts.EmotionGuidance))
	}

	if opts.IncludeExamples {
		if section := examplesSection(p.Examples); section != "" {
			b.WriteString("\n# Example exchanges\n")
			b.WriteString(section)
		}
	}

	return b.String()
}

func identityLine(p core.Persona) string {
	return fmt.Sprintf("You are %s, a %d-year-old %s %s.", p.Name, p.Age, p.Gender, p.Occupation)
}

// traitSentences holds the three variants per trait: high, mid, low.
var traitSentences = []struct {
	value     func(core.Traits) float64
	high, mid string
	low       string
}{
	{
		value: func(t core.Traits) float64 { return t.Extroversion },
		high:  "You are outgoing and energized by company; you start conversations easily.",
		mid:   "You are sociable in familiar company but need quiet time to recharge.",
		low:   "You are reserved and prefer listening over talking.",
	},
	{
		value: func(t core.Traits) float64 { return t.Rationality },
		high:  "You think before you feel and weigh decisions carefully.",
		mid:   "You balance reasoning with gut feeling.",
		low:   "You follow your heart first and rationalize later.",
	},
	{
		value: func(t core.Traits) float64 { return t.Seriousness },
		high:  "You take things seriously and rarely joke about what matters.",
		mid:   "You know when to be earnest and when to be playful.",
		low:   "You are playful and quick to laugh, even at yourself.",
	},
	{
		value: func(t core.Traits) float64 { return t.Openness },
		high:  "You are endlessly curious and love trying unfamiliar things.",
		mid:   "You enjoy novelty in moderation while valuing your routines.",
		low:   "You prefer the familiar and are slow to warm to new ideas.",
	},
	{
		value: func(t core.Traits) float64 { return t.Gentleness },
		high:  "You are soft-spoken and deeply considerate of others' feelings.",
		mid:   "You are kind but direct when honesty is needed.",
		low:   "You are blunt and say what you think without much cushioning.",
	},
}

func personalitySection(t core.Traits) string {
	var b strings.Builder
	for _, ts := range traitSentences {
		b.WriteString("- ")
		b.WriteString(pickVariant(ts.value(t), ts.high, ts.mid, ts.low))
		b.WriteString("\n")
	}
	return b.String()
}

func pickVariant(v float64, high, mid, low string) string {
	switch {
	case v > traitHigh:
		return high
	case v > traitMid:
		return mid
	default:
		return low
	}
}

func experiencesSection(exps []core.Experience) string {
	if len(exps) == 0 {
		return ""
	}

	sorted := make([]core.Experience, len(exps))
	copy(sorted, exps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Importance > sorted[j].Importance
	})
	if len(sorted) > maxExperiences {
		sorted = sorted[:maxExperiences]
	}

	var b strings.Builder
	for _, e := range sorted {
		b.WriteString("- ")
		b.WriteString(e.Description)
		b.WriteString("\n")
	}
	return b.String()
}

// styleSection derives speaking style from the same trait vector that
// drives personality, at coarser granularity.
func styleSection(t core.Traits) string {
	var lines []string

	if t.Extroversion > traitHigh {
		lines = append(lines, "Speak freely and volunteer stories of your own.")
	} else if t.Extroversion > traitMid {
		lines = append(lines, "Keep a comfortable back-and-forth; don't dominate the conversation.")
	} else {
		lines = append(lines, "Answer briefly and let the user lead.")
	}

	if t.Seriousness > traitHigh {
		lines = append(lines, "Keep a composed, measured register.")
	} else if t.Seriousness <= traitMid {
		lines = append(lines, "Use humor and light teasing where it fits.")
	}

	if t.Gentleness > traitHigh {
		lines = append(lines, "Soften disagreement and lead with warmth.")
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString("- ")
		b.WriteString(l)
		b.WriteString("\n")
	}
	return b.String()
}

func groundRules(name string) string {
	return strings.Join([]string{
		"- Always stay in character as " + name + ".",
		"- Speak in the first person.",
		"- Keep a natural conversational tone; no lists or headings in replies.",
		"- Never mention being an AI, a model, or a program.",
	}, "\n") + "\n"
}

func memorySection(memories []core.Memory) string {
	if len(memories) == 0 {
		return ""
	}

	var b strings.Builder
	for i, m := range memories {
		b.WriteString(fmt.Sprintf("%d. %s", i+1, m.Value))
		if m.Context != "" {
			b.WriteString(fmt.Sprintf(" (from: %q)", m.Context))
		}
		b.WriteString("\n")
	}
	b.WriteString("Weave these in naturally when relevant; never recite them as a list.\n")
	return b.String()
}

// Few-shot filtering: trivial greetings teach nothing about style, and
// pairs far outside normal reply length skew generation.
var trivialGreetings = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "yo": {},
	"你好": {}, "在吗": {}, "嗨": {},
}

const (
	exampleMinRunes = 2
	exampleMaxRunes = 300
)

func examplesSection(pairs []core.ExamplePair) string {
	var b strings.Builder
	n := 0
	for _, pair := range pairs {
		if !usableExample(pair) {
			continue
		}
		n++
		b.WriteString(fmt.Sprintf("%d. User: %s\n   You: %s\n", n, pair.User, pair.Assistant))
	}
	return b.String()
}

func usableExample(p core.ExamplePair) bool {
	user := strings.ToLower(strings.TrimRight(strings.TrimSpace(p.User), "!.?，。！？"))
	if _, trivial := trivialGreetings[user]; trivial {
		return false
	}
	for _, s := range []string{p.User, p.Assistant} {
		n := len([]rune(strings.TrimSpace(s)))
		if n < exampleMinRunes || n > exampleMaxRunes {
			return false
		}
	}
	return true
}
