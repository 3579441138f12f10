package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sandevgo/mira/internal/core"
	"github.com/stretchr/testify/require"
)

func TestTurnsRepo_AddAndRecent(t *testing.T) {
	repo := NewTurnsRepo(newTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		turn := &core.Turn{
			PersonaID: "p1",
			Role:      core.RoleUser,
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Add(ctx, turn))
	}

	turns, err := repo.Recent(ctx, "p1", 3)
	require.NoError(t, err)
	require.Len(t, turns, 3)

	// Chronological order, newest three.
	require.Equal(t, "message 2", turns[0].Content)
	require.Equal(t, "message 3", turns[1].Content)
	require.Equal(t, "message 4", turns[2].Content)
}

func TestTurnsRepo_RecentTieBreakByInsertionOrder(t *testing.T) {
	repo := NewTurnsRepo(newTestDB(t))
	ctx := context.Background()

	at := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		turn := &core.Turn{PersonaID: "p1", Role: core.RoleUser, Content: fmt.Sprintf("tie %d", i), CreatedAt: at}
		require.NoError(t, repo.Add(ctx, turn))
	}

	turns, err := repo.Recent(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	for i, turn := range turns {
		require.Equal(t, fmt.Sprintf("tie %d", i), turn.Content)
	}
}

func TestTurnsRepo_RoleValidation(t *testing.T) {
	repo := NewTurnsRepo(newTestDB(t))
	err := repo.Add(context.Background(), &core.Turn{PersonaID: "p1", Role: "narrator", Content: "x"})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTurnsRepo_SoftDelete(t *testing.T) {
	repo := NewTurnsRepo(newTestDB(t))
	ctx := context.Background()

	a := &core.Turn{PersonaID: "p1", Role: core.RoleUser, Content: "keep"}
	b := &core.Turn{PersonaID: "p1", Role: core.RoleAssistant, Content: "drop"}
	require.NoError(t, repo.Add(ctx, a))
	require.NoError(t, repo.Add(ctx, b))

	require.NoError(t, repo.MarkDeleted(ctx, b.ID))

	turns, err := repo.Recent(ctx, "p1", 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	require.Equal(t, "keep", turns[0].Content)

	require.ErrorIs(t, repo.MarkDeleted(ctx, 9999), core.ErrNotFound)
}

func TestTurnsRepo_MarkImportant(t *testing.T) {
	repo := NewTurnsRepo(newTestDB(t))
	ctx := context.Background()

	turn := &core.Turn{PersonaID: "p1", Role: core.RoleUser, Content: "remember this"}
	require.NoError(t, repo.Add(ctx, turn))
	require.NoError(t, repo.MarkImportant(ctx, turn.ID, true))

	turns, err := repo.Recent(ctx, "p1", 10)
	require.NoError(t, err)
	require.True(t, turns[0].Important)
}

func TestTurnsRepo_Aggregates(t *testing.T) {
	repo := NewTurnsRepo(newTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Add(-48 * time.Hour)
	turns := []*core.Turn{
		{PersonaID: "p1", Role: core.RoleUser, Content: "hi", CreatedAt: base},
		{PersonaID: "p1", Role: core.RoleAssistant, Content: "hello", CreatedAt: base.Add(time.Minute)},
		{PersonaID: "p1", Role: core.RoleUser, Content: "bye", CreatedAt: base.Add(48 * time.Hour)},
	}
	for _, turn := range turns {
		require.NoError(t, repo.Add(ctx, turn))
	}

	agg, err := repo.Aggregates(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 2, agg.ByRole[core.RoleUser])
	require.Equal(t, 1, agg.ByRole[core.RoleAssistant])
	require.EqualValues(t, 10, agg.TotalChars)
	require.False(t, agg.FirstAt.IsZero())
	require.WithinDuration(t, base, agg.FirstAt, time.Second)
	require.WithinDuration(t, base.Add(48*time.Hour), agg.LastAt, time.Second)
	require.True(t, agg.LastAt.After(agg.FirstAt))

	// No history means no span at all.
	empty, err := repo.Aggregates(ctx, "nobody")
	require.NoError(t, err)
	require.True(t, empty.FirstAt.IsZero())
	require.True(t, empty.LastAt.IsZero())
}

func TestTurnsRepo_EmotionSeries(t *testing.T) {
	repo := NewTurnsRepo(newTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	emotions := []core.Emotion{core.EmotionSad, core.EmotionNeutral, core.EmotionHappy}
	for i, e := range emotions {
		turn := &core.Turn{
			PersonaID: "p1",
			Role:      core.RoleUser,
			Content:   "x",
			Emotion:   e,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Add(ctx, turn))
	}
	// Assistant turns and untagged turns are excluded.
	require.NoError(t, repo.Add(ctx, &core.Turn{PersonaID: "p1", Role: core.RoleAssistant, Content: "y", Emotion: core.EmotionHappy}))
	require.NoError(t, repo.Add(ctx, &core.Turn{PersonaID: "p1", Role: core.RoleUser, Content: "z"}))

	series, err := repo.EmotionSeries(ctx, "p1", 10)
	require.NoError(t, err)
	require.Equal(t, []core.Emotion{core.EmotionSad, core.EmotionNeutral, core.EmotionHappy}, series)
}
