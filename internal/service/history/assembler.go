package history

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sandevgo/mira/internal/config"
	"github.com/sandevgo/mira/internal/core"
	"github.com/sandevgo/mira/internal/text"
	"github.com/sandevgo/mira/pkg/log"
	"github.com/sandevgo/mira/pkg/tokens"
)

// summaryPrefix marks the synthetic turn that stands in for compressed
// early conversation.
const summaryPrefix = "[early conversation summary] "

// summaryTerms is how many salient terms the compression summary keeps.
const summaryTerms = 5

// rankedFetchCap bounds how much history the relevance-ranked variant
// scans.
const rankedFetchCap = 50

// rankedThreshold is the minimum lexical overlap for a turn to count
// as related to the utterance.
const rankedThreshold = 0.3

// Context is an assembled conversation window ready for prompting.
type Context struct {
	Turns           []core.Turn
	EstimatedTokens int
	Summary         string // non-empty only when compression ran
	Compressed      bool
}

// Assembler builds prompt-ready conversation windows from stored
// history.
type Assembler struct {
	repo core.TurnsRepository
	cfg  *config.EngineConfig
}

func NewAssembler(repo core.TurnsRepository, cfg *config.EngineConfig) *Assembler {
	return &Assembler{repo: repo, cfg: cfg}
}

// Optimized returns the recent window, compressed when it exceeds the
// token budget: the oldest turns collapse into a single synthetic
// summary turn and the newest ones survive verbatim.
func (a *Assembler) Optimized(ctx context.Context, personaID string) (Context, error) {
	turns, err := a.repo.Recent(ctx, personaID, a.cfg.MaxContextMessages*2)
	if err != nil {
		return Context{}, fmt.Errorf("assemble context: %w", err)
	}
	if len(turns) > a.cfg.MaxContextMessages {
		turns = turns[len(turns)-a.cfg.MaxContextMessages:]
	}

	estimated := estimateTurns(turns)
	if estimated <= a.cfg.TokenBudget || len(turns) <= a.cfg.RecentKeep {
		return Context{Turns: turns, EstimatedTokens: estimated}, nil
	}

	keep := turns[len(turns)-a.cfg.RecentKeep:]
	older := turns[:len(turns)-a.cfg.RecentKeep]
	summary := summarize(older)

	compressed := make([]core.Turn, 0, len(keep)+1)
	compressed = append(compressed, core.Turn{
		PersonaID: personaID,
		Role:      core.RoleAssistant,
		Content:   summaryPrefix + summary,
		CreatedAt: older[len(older)-1].CreatedAt,
	})
	compressed = append(compressed, keep...)

	out := Context{
		Turns:           compressed,
		EstimatedTokens: estimateTurns(compressed),
		Summary:         summary,
		Compressed:      true,
	}

	log.FromCtx(ctx).Debug().
		Str("persona", personaID).
		Int("before", estimated).
		Int("after", out.EstimatedTokens).
		Int("turns", len(compressed)).
		Msg("context compressed")

	return out, nil
}

// Window returns exactly the last n turns, chronological, with no
// budget applied.
func (a *Assembler) Window(ctx context.Context, personaID string, n int) (Context, error) {
	turns, err := a.repo.Recent(ctx, personaID, n)
	if err != nil {
		return Context{}, fmt.Errorf("window: %w", err)
	}
	return Context{Turns: turns, EstimatedTokens: estimateTurns(turns)}, nil
}

// Ranked returns up to n past turns most lexically related to the
// utterance, re-sorted into chronological order so the prompt still
// reads as a conversation.
func (a *Assembler) Ranked(ctx context.Context, personaID, utterance string, n int) (Context, error) {
	turns, err := a.repo.Recent(ctx, personaID, rankedFetchCap)
	if err != nil {
		return Context{}, fmt.Errorf("ranked context: %w", err)
	}

	type rankedTurn struct {
		core.Turn
		score float64
	}
	var related []rankedTurn
	for _, t := range turns {
		score := text.Overlap(utterance, t.Content)
		if score < rankedThreshold {
			continue
		}
		related = append(related, rankedTurn{Turn: t, score: score})
	}

	sort.SliceStable(related, func(i, j int) bool {
		return related[i].score > related[j].score
	})
	if len(related) > n {
		related = related[:n]
	}
	sort.SliceStable(related, func(i, j int) bool {
		return related[i].CreatedAt.Before(related[j].CreatedAt)
	})

	out := make([]core.Turn, len(related))
	for i, r := range related {
		out[i] = r.Turn
	}
	return Context{Turns: out, EstimatedTokens: estimateTurns(out)}, nil
}

// summarize collapses early turns into a one-line topical digest built
// from their most frequent terms.
func summarize(turns []core.Turn) string {
	var b strings.Builder
	for _, t := range turns {
		b.WriteString(t.Content)
		b.WriteString(" ")
	}

	terms := text.TopTerms(b.String(), summaryTerms)
	if len(terms) == 0 {
		return fmt.Sprintf("user and assistant exchanged %d earlier messages", len(turns))
	}
	return "user and assistant discussed: " + strings.Join(terms, ", ")
}

func estimateTurns(turns []core.Turn) int {
	texts := make([]string, len(turns))
	for i, t := range turns {
		texts[i] = t.Content
	}
	return tokens.EstimateAll(texts)
}
