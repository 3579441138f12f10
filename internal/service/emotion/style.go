package emotion

import "github.com/sandevgo/mira/internal/core"

// Style is the generation guidance attached to a detected emotion.
type Style struct {
	Tone        string
	Pace        string
	Suggestions []string
}

// Tuning adjusts the backend call per detected emotion.
type Tuning struct {
	Temperature float64
	MaxTokens   int
	Hint        string
}

type styleEntry struct {
	style  Style
	tuning Tuning
}

// styleTable maps every emotion in the taxonomy to response guidance.
// Sad gets headroom for longer, slower replies; angry gets the lowest
// temperature so the reply stays measured.
var styleTable = map[core.Emotion]styleEntry{
	core.EmotionNeutral: {
		style: Style{
			Tone:        "relaxed and natural",
			Pace:        "normal",
			Suggestions: []string{"keep the conversation flowing", "ask a light follow-up question"},
		},
		tuning: Tuning{Temperature: 0.7, MaxTokens: 256, Hint: "reply in a relaxed, everyday tone"},
	},
	core.EmotionHappy: {
		style: Style{
			Tone:        "warm and upbeat",
			Pace:        "lively",
			Suggestions: []string{"share in the good mood", "build on what made them happy"},
		},
		tuning: Tuning{Temperature: 0.8, MaxTokens: 256, Hint: "match their upbeat mood"},
	},
	core.EmotionSad: {
		style: Style{
			Tone:        "gentle and caring",
			Pace:        "slow",
			Suggestions: []string{"acknowledge the feeling first", "let them talk, don't rush to fix"},
		},
		tuning: Tuning{Temperature: 0.55, MaxTokens: 384, Hint: "be gentle and empathetic, give them room to talk"},
	},
	core.EmotionAngry: {
		style: Style{
			Tone:        "calm and steady",
			Pace:        "measured",
			Suggestions: []string{"validate without fueling", "avoid taking sides or arguing"},
		},
		tuning: Tuning{Temperature: 0.4, MaxTokens: 256, Hint: "stay calm and de-escalate"},
	},
	core.EmotionSurprised: {
		style: Style{
			Tone:        "curious",
			Pace:        "normal",
			Suggestions: []string{"react to the surprise", "ask what happened"},
		},
		tuning: Tuning{Temperature: 0.7, MaxTokens: 256, Hint: "react with genuine curiosity"},
	},
	core.EmotionThinking: {
		style: Style{
			Tone:        "thoughtful",
			Pace:        "unhurried",
			Suggestions: []string{"think it through with them", "offer perspectives, not verdicts"},
		},
		tuning: Tuning{Temperature: 0.6, MaxTokens: 320, Hint: "be thoughtful and reason things through together"},
	},
	core.EmotionExcited: {
		style: Style{
			Tone:        "energetic",
			Pace:        "fast",
			Suggestions: []string{"mirror the energy", "ask for the details they're bursting to share"},
		},
		tuning: Tuning{Temperature: 0.85, MaxTokens: 256, Hint: "share the excitement, keep the energy up"},
	},
}

// StyleFor returns the response style and call tuning for an emotion.
// Unknown values fall back to neutral.
func StyleFor(e core.Emotion) (Style, Tuning) {
	entry, ok := styleTable[e]
	if !ok {
		entry = styleTable[core.EmotionNeutral]
	}
	return entry.style, entry.tuning
}
