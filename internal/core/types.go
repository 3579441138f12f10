package core

import "time"

const (
	MiraName          = "Mira"
	MiraUserAgent     = "Mira-Agent/0.1"
	MiraRepositoryURL = "https://github.com/sandevgo/mira"
	MiraVersion       = "0.1.0"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// MemoryCategory is the closed set of kinds of facts the engine stores
// about a user.
type MemoryCategory string

const (
	CategoryIdentity     MemoryCategory = "identity"
	CategoryPreference   MemoryCategory = "preference"
	CategoryExperience   MemoryCategory = "experience"
	CategoryRelationship MemoryCategory = "relationship"
	CategoryOther        MemoryCategory = "other"
)

func (c MemoryCategory) Valid() bool {
	switch c {
	case CategoryIdentity, CategoryPreference, CategoryExperience, CategoryRelationship, CategoryOther:
		return true
	}
	return false
}

// Categories lists every valid memory category.
func Categories() []MemoryCategory {
	return []MemoryCategory{
		CategoryIdentity,
		CategoryPreference,
		CategoryExperience,
		CategoryRelationship,
		CategoryOther,
	}
}

const (
	MinImportance     = 1
	MaxImportance     = 5
	DefaultImportance = 3
)

// Memory is one discrete learned fact, scoped to a persona.
type Memory struct {
	ID           int64
	PersonaID    string
	Category     MemoryCategory
	Key          string
	Value        string
	Importance   int // MinImportance..MaxImportance
	Context      string
	Tags         []string
	SourceTurnID *int64
	CreatedAt    time.Time
	LastAccessed *time.Time
	AccessCount  int
	ExpiresAt    *time.Time
}

// Expired reports whether the memory carries an expiry in the past.
func (m Memory) Expired(now time.Time) bool {
	return m.ExpiresAt != nil && now.After(*m.ExpiresAt)
}

// Turn is one persisted message in a persona's conversation history.
// Turns are immutable once written except for the Deleted and Important
// flags.
type Turn struct {
	ID        int64
	PersonaID string
	Role      Role
	Content   string
	Emotion   Emotion // emotion detected for the exchange, empty if none
	Tokens    int     // backend-reported usage, 0 if unknown
	LatencyMS int64
	Important bool
	Deleted   bool
	CreatedAt time.Time
}

// Message is the wire shape sent to the generation backend.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Emotion string

const (
	EmotionNeutral   Emotion = "neutral"
	EmotionHappy     Emotion = "happy"
	EmotionSad       Emotion = "sad"
	EmotionAngry     Emotion = "angry"
	EmotionSurprised Emotion = "surprised"
	EmotionThinking  Emotion = "thinking"
	EmotionExcited   Emotion = "excited"
)

// Emotions lists the full taxonomy in its canonical order.
func Emotions() []Emotion {
	return []Emotion{
		EmotionNeutral,
		EmotionHappy,
		EmotionSad,
		EmotionAngry,
		EmotionSurprised,
		EmotionThinking,
		EmotionExcited,
	}
}

// EmotionResult is the ephemeral output of analysing one utterance.
type EmotionResult struct {
	Primary    Emotion
	Secondary  Emotion // empty when no second emotion scored above zero
	Intensity  float64 // [0,1]
	Confidence float64 // [0,1]
	Valence    float64 // [-1,1], negative = unpleasant
	Arousal    float64 // [0,1], high = activated
}

// Traits is the five-dimensional personality vector, each value in [0,1].
type Traits struct {
	Extroversion float64 `yaml:"extroversion"`
	Rationality  float64 `yaml:"rationality"`
	Seriousness  float64 `yaml:"seriousness"`
	Openness     float64 `yaml:"openness"`
	Gentleness   float64 `yaml:"gentleness"`
}

// Experience is one entry of a persona's ranked life-experience list.
type Experience struct {
	Description string `yaml:"description"`
	Importance  int    `yaml:"importance"`
}

// ExamplePair is a prior user/assistant exchange used as a few-shot
// style example.
type ExamplePair struct {
	User      string `yaml:"user"`
	Assistant string `yaml:"assistant"`
}

// Persona is the configured virtual human. The engine consumes it
// read-only.
type Persona struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Age         int           `yaml:"age"`
	Gender      string        `yaml:"gender"`
	Occupation  string        `yaml:"occupation"`
	Traits      Traits        `yaml:"traits"`
	Background  string        `yaml:"background"`
	Experiences []Experience  `yaml:"experiences"`
	Examples    []ExamplePair `yaml:"examples"`
}

// GenOptions tunes a single generation request.
type GenOptions struct {
	Temperature float64
	MaxTokens   int
}

// Completion is the generation backend's answer to one request.
type Completion struct {
	Content string
	Tokens  int // total tokens reported by the backend, 0 if omitted
}

// Reply is what the orchestrator hands back to the conversation layer.
type Reply struct {
	Content string
	Emotion EmotionResult
	Tokens  int
	Meta    ReplyMeta
}

// ReplyMeta carries per-request diagnostics surfaced to the caller.
type ReplyMeta struct {
	RequestID    string
	MemoriesUsed int
	ContextTurns int
	StyleHint    string
	LatencyMS    int64
}
