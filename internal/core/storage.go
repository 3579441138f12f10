package core

import (
	"context"
	"time"
)

// MemoryFilter narrows a memory listing. Zero values mean "no filter".
type MemoryFilter struct {
	Category      MemoryCategory
	MinImportance int
}

// MemoryPatch is a partial update. Nil fields are left untouched.
type MemoryPatch struct {
	Key        *string
	Value      *string
	Context    *string
	Importance *int
	Tags       []string
	ExpiresAt  *time.Time
}

type MemoriesRepository interface {
	// Create persists m and fills in ID and CreatedAt.
	Create(ctx context.Context, m *Memory) error
	Get(ctx context.Context, id int64) (Memory, error)
	// List returns non-expired memories ordered by importance desc,
	// then last-accessed desc.
	List(ctx context.Context, personaID string, f MemoryFilter) ([]Memory, error)
	// Search does a substring match over key and value. Every hit has
	// its access count bumped and last-accessed refreshed.
	Search(ctx context.Context, personaID, query string, limit int) ([]Memory, error)
	Update(ctx context.Context, id int64, p MemoryPatch) error
	Delete(ctx context.Context, id int64) error
	// Merge applies the consolidation result: the primary is updated
	// and the secondary deleted inside one transaction.
	Merge(ctx context.Context, primary Memory, secondaryID int64) error
	// PurgeExpired hard-deletes every memory whose expiry has passed.
	PurgeExpired(ctx context.Context, personaID string) (int64, error)
}

// TurnAggregates is the raw read-side aggregation over a persona's
// history; derived figures (token estimate, day span) are computed by
// the context assembler.
type TurnAggregates struct {
	ByRole     map[Role]int
	TotalChars int64
	FirstAt    time.Time
	LastAt     time.Time
}

type TurnsRepository interface {
	// Add persists t and fills in ID and CreatedAt.
	Add(ctx context.Context, t *Turn) error
	// Recent returns the last limit non-deleted turns in chronological
	// order (oldest first).
	Recent(ctx context.Context, personaID string, limit int) ([]Turn, error)
	MarkDeleted(ctx context.Context, id int64) error
	MarkImportant(ctx context.Context, id int64, important bool) error
	Aggregates(ctx context.Context, personaID string) (TurnAggregates, error)
	// EmotionSeries returns the emotion tags of the last limit user
	// turns that carry one, ordered oldest first.
	EmotionSeries(ctx context.Context, personaID string, limit int) ([]Emotion, error)
}
