package history

import (
	"context"
	"fmt"

	"github.com/sandevgo/mira/internal/core"
	"github.com/sandevgo/mira/pkg/tokens"
)

// Stats summarizes a persona's stored history for reporting.
type Stats struct {
	TotalTurns      int
	ByRole          map[core.Role]int
	AvgChars        int
	EstimatedTokens int
	SpanDays        int
}

// Stats aggregates the persona's history. An empty history yields a
// zero-valued report, not an error.
func (a *Assembler) Stats(ctx context.Context, personaID string) (Stats, error) {
	agg, err := a.repo.Aggregates(ctx, personaID)
	if err != nil {
		return Stats{}, fmt.Errorf("history stats: %w", err)
	}

	total := 0
	for _, n := range agg.ByRole {
		total += n
	}

	s := Stats{
		TotalTurns:      total,
		ByRole:          agg.ByRole,
		EstimatedTokens: tokens.EstimateChars(agg.TotalChars),
	}
	if total > 0 {
		s.AvgChars = int(agg.TotalChars) / total
		s.SpanDays = int(agg.LastAt.Sub(agg.FirstAt).Hours()/24) + 1
	}
	return s, nil
}
