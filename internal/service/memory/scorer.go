package memory

import (
	"strings"
	"time"

	"github.com/sandevgo/mira/internal/core"
	"github.com/sandevgo/mira/internal/text"
)

// Relevance blends four signals into a [0,1] score. The weights sum
// to 1.0 so the score stays bounded.
const (
	weightLexical    = 0.4
	weightImportance = 0.3
	weightRecency    = 0.2
	weightCategory   = 0.1

	// recencyHorizonDays is the window over which a memory's recency
	// contribution decays linearly to zero.
	recencyHorizonDays = 365
)

// categoryWeights is the fixed retrieval priority of each category.
// Who the user is matters more than what they once did.
var categoryWeights = map[core.MemoryCategory]float64{
	core.CategoryIdentity:     1.0,
	core.CategoryPreference:   0.9,
	core.CategoryRelationship: 0.8,
	core.CategoryExperience:   0.7,
	core.CategoryOther:        0.6,
}

type Scorer struct {
	now func() time.Time
}

func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// Score rates how relevant m is to an utterance represented by its
// extracted keyword set. With no keywords the lexical term is zero and
// the score degrades to importance + recency + category.
func (s *Scorer) Score(m core.Memory, keywords []string) float64 {
	lexical := 0.0
	if len(keywords) > 0 {
		haystack := strings.ToLower(m.Value + " " + m.Context)
		matched := 0
		for _, k := range keywords {
			if strings.Contains(haystack, k) {
				matched++
			}
		}
		lexical = float64(matched) / float64(len(keywords))
	}

	importance := float64(m.Importance) / float64(core.MaxImportance)

	days := s.now().Sub(m.CreatedAt).Hours() / 24
	recency := 1 - days/recencyHorizonDays
	if recency < 0 {
		recency = 0
	}

	category, ok := categoryWeights[m.Category]
	if !ok {
		category = categoryWeights[core.CategoryOther]
	}

	score := weightLexical*lexical +
		weightImportance*importance +
		weightRecency*recency +
		weightCategory*category

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// ExtractKeywords exposes the utterance keyword extraction used for
// retrieval so the orchestrator and tests share one definition.
func ExtractKeywords(utterance string) []string {
	return text.Keywords(utterance)
}
