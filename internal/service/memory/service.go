package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/sandevgo/mira/internal/config"
	"github.com/sandevgo/mira/internal/core"
	"github.com/sandevgo/mira/pkg/log"
)

// Scored pairs a memory with its relevance to the current utterance.
type Scored struct {
	core.Memory
	Score float64
}

// Service is the memory façade: CRUD with defaults on the write side,
// relevance-ranked retrieval on the read side.
type Service struct {
	repo   core.MemoriesRepository
	scorer *Scorer
	cfg    *config.EngineConfig
}

func NewService(repo core.MemoriesRepository, cfg *config.EngineConfig) *Service {
	return &Service{
		repo:   repo,
		scorer: NewScorer(),
		cfg:    cfg,
	}
}

// Remember persists a new memory, filling in defaults for anything the
// caller left at its zero value.
func (s *Service) Remember(ctx context.Context, m *core.Memory) error {
	if m.Category == "" {
		m.Category = core.CategoryOther
	}
	if m.Importance == 0 {
		m.Importance = core.DefaultImportance
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return fmt.Errorf("remember: %w", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (core.Memory, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, personaID string, f core.MemoryFilter) ([]core.Memory, error) {
	return s.repo.List(ctx, personaID, f)
}

func (s *Service) Search(ctx context.Context, personaID, query string, limit int) ([]core.Memory, error) {
	return s.repo.Search(ctx, personaID, query, limit)
}

func (s *Service) Update(ctx context.Context, id int64, p core.MemoryPatch) error {
	return s.repo.Update(ctx, id, p)
}

func (s *Service) Forget(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// RetrieveRelevant returns the memories most relevant to the utterance,
// scored, filtered against the relevance threshold and capped at the
// configured limit. An utterance with no usable keywords falls back to
// the importance-ordered listing so retrieval never comes back
// empty-handed for a persona that has memories worth surfacing.
func (s *Service) RetrieveRelevant(ctx context.Context, personaID, utterance string) ([]Scored, error) {
	keywords := ExtractKeywords(utterance)

	candidates, err := s.gatherCandidates(ctx, personaID, keywords)
	if err != nil {
		return nil, fmt.Errorf("retrieve relevant: %w", err)
	}

	scored := make([]Scored, 0, len(candidates))
	for _, m := range candidates {
		sc := s.scorer.Score(m, keywords)
		if sc < s.cfg.RelevanceThreshold {
			continue
		}
		scored = append(scored, Scored{Memory: m, Score: sc})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > s.cfg.MemoryLimit {
		scored = scored[:s.cfg.MemoryLimit]
	}

	log.FromCtx(ctx).Debug().
		Str("persona", personaID).
		Int("candidates", len(candidates)).
		Int("selected", len(scored)).
		Msg("memory retrieval")

	return scored, nil
}

// gatherCandidates over-fetches per keyword so scoring has room to
// reorder before the final cut, deduplicating hits across keywords.
func (s *Service) gatherCandidates(ctx context.Context, personaID string, keywords []string) ([]core.Memory, error) {
	if len(keywords) == 0 {
		return s.repo.List(ctx, personaID, core.MemoryFilter{})
	}

	perKeyword := s.cfg.MemoryLimit * 2
	seen := make(map[int64]struct{})
	var candidates []core.Memory

	for _, kw := range keywords {
		hits, err := s.repo.Search(ctx, personaID, kw, perKeyword)
		if err != nil {
			return nil, err
		}
		for _, m := range hits {
			if _, dup := seen[m.ID]; dup {
				continue
			}
			seen[m.ID] = struct{}{}
			candidates = append(candidates, m)
		}
	}
	return candidates, nil
}
