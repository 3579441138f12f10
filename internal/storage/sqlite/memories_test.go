package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandevgo/mira/internal/core"
	"github.com/stretchr/testify/require"
)

func TestMemoriesRepo_RoundTrip(t *testing.T) {
	repo := NewMemoriesRepo(newTestDB(t))
	ctx := context.Background()

	m := &core.Memory{
		PersonaID:  "p1",
		Category:   core.CategoryPreference,
		Key:        "drink",
		Value:      "likes black coffee",
		Importance: 4,
		Tags:       []string{"coffee", "drink"},
	}
	require.NoError(t, repo.Create(ctx, m))
	require.NotZero(t, m.ID)

	listed, err := repo.List(ctx, "p1", core.MemoryFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	got := listed[0]
	require.Equal(t, core.CategoryPreference, got.Category)
	require.Equal(t, "drink", got.Key)
	require.Equal(t, "likes black coffee", got.Value)
	require.Equal(t, 4, got.Importance)
	require.Equal(t, []string{"coffee", "drink"}, got.Tags)
	require.Equal(t, 0, got.AccessCount)
}

func TestMemoriesRepo_CreateValidation(t *testing.T) {
	repo := NewMemoriesRepo(newTestDB(t))
	ctx := context.Background()

	tests := []struct {
		name string
		m    core.Memory
	}{
		{name: "empty value", m: core.Memory{PersonaID: "p1", Category: core.CategoryOther, Importance: 3, Value: "  "}},
		{name: "bad category", m: core.Memory{PersonaID: "p1", Category: "mood", Importance: 3, Value: "x"}},
		{name: "importance too low", m: core.Memory{PersonaID: "p1", Category: core.CategoryOther, Importance: 0, Value: "x"}},
		{name: "importance too high", m: core.Memory{PersonaID: "p1", Category: core.CategoryOther, Importance: 6, Value: "x"}},
		{name: "missing persona", m: core.Memory{Category: core.CategoryOther, Importance: 3, Value: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.m
			err := repo.Create(ctx, &m)
			if !errors.Is(err, core.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestMemoriesRepo_ListOrderAndExpiry(t *testing.T) {
	repo := NewMemoriesRepo(newTestDB(t))
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	future := time.Now().UTC().Add(time.Hour)

	mems := []*core.Memory{
		{PersonaID: "p1", Category: core.CategoryOther, Key: "a", Value: "low", Importance: 2},
		{PersonaID: "p1", Category: core.CategoryOther, Key: "b", Value: "high", Importance: 5},
		{PersonaID: "p1", Category: core.CategoryOther, Key: "c", Value: "expired", Importance: 5, ExpiresAt: &past},
		{PersonaID: "p1", Category: core.CategoryOther, Key: "d", Value: "not yet", Importance: 3, ExpiresAt: &future},
		{PersonaID: "p2", Category: core.CategoryOther, Key: "e", Value: "other persona", Importance: 5},
	}
	for _, m := range mems {
		require.NoError(t, repo.Create(ctx, m))
	}

	listed, err := repo.List(ctx, "p1", core.MemoryFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 3)
	require.Equal(t, "high", listed[0].Value)
	require.Equal(t, "not yet", listed[1].Value)
	require.Equal(t, "low", listed[2].Value)

	// Category and importance filters
	filtered, err := repo.List(ctx, "p1", core.MemoryFilter{MinImportance: 3})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
}

func TestMemoriesRepo_SearchBumpsAccess(t *testing.T) {
	repo := NewMemoriesRepo(newTestDB(t))
	ctx := context.Background()

	m := &core.Memory{PersonaID: "p1", Category: core.CategoryPreference, Key: "coffee", Value: "likes espresso", Importance: 3}
	require.NoError(t, repo.Create(ctx, m))

	hits, err := repo.Search(ctx, "p1", "espresso", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, 1, hits[0].AccessCount)
	require.NotNil(t, hits[0].LastAccessed)

	// Second search keeps counting.
	hits, err = repo.Search(ctx, "p1", "coffee", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, 2, hits[0].AccessCount)

	// Misses leave the store untouched.
	none, err := repo.Search(ctx, "p1", "tea", 10)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestMemoriesRepo_SearchEscapesWildcards(t *testing.T) {
	repo := NewMemoriesRepo(newTestDB(t))
	ctx := context.Background()

	m := &core.Memory{PersonaID: "p1", Category: core.CategoryOther, Key: "pct", Value: "grew 100% last year", Importance: 3}
	require.NoError(t, repo.Create(ctx, m))

	hits, err := repo.Search(ctx, "p1", "100%", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	hits, err = repo.Search(ctx, "p1", "%", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1) // literal percent matches, not wildcard-everything

	hits, err = repo.Search(ctx, "p1", "200%", 10)
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestMemoriesRepo_UpdatePartial(t *testing.T) {
	repo := NewMemoriesRepo(newTestDB(t))
	ctx := context.Background()

	m := &core.Memory{PersonaID: "p1", Category: core.CategoryOther, Key: "k", Value: "old", Importance: 2}
	require.NoError(t, repo.Create(ctx, m))

	newVal := "new value"
	newImp := 5
	require.NoError(t, repo.Update(ctx, m.ID, core.MemoryPatch{Value: &newVal, Importance: &newImp}))

	got, err := repo.Get(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, "new value", got.Value)
	require.Equal(t, 5, got.Importance)
	require.Equal(t, "k", got.Key)

	bad := 9
	err = repo.Update(ctx, m.ID, core.MemoryPatch{Importance: &bad})
	require.ErrorIs(t, err, core.ErrValidation)

	err = repo.Update(ctx, 9999, core.MemoryPatch{Value: &newVal})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestMemoriesRepo_MergeAtomic(t *testing.T) {
	repo := NewMemoriesRepo(newTestDB(t))
	ctx := context.Background()

	a := &core.Memory{PersonaID: "p1", Category: core.CategoryPreference, Key: "k", Value: "likes coffee", Importance: 4}
	b := &core.Memory{PersonaID: "p1", Category: core.CategoryPreference, Key: "k", Value: "likes coffee a lot", Importance: 2}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	merged := *a
	merged.Value = "likes coffee; likes coffee a lot"
	merged.Importance = 4
	merged.Tags = []string{"coffee"}
	require.NoError(t, repo.Merge(ctx, merged, b.ID))

	listed, err := repo.List(ctx, "p1", core.MemoryFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "likes coffee; likes coffee a lot", listed[0].Value)
	require.Equal(t, []string{"coffee"}, listed[0].Tags)

	_, err = repo.Get(ctx, b.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestMemoriesRepo_PurgeExpired(t *testing.T) {
	repo := NewMemoriesRepo(newTestDB(t))
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Minute)
	for i := 0; i < 3; i++ {
		m := &core.Memory{PersonaID: "p1", Category: core.CategoryOther, Key: "k", Value: "stale", Importance: 3, ExpiresAt: &past}
		require.NoError(t, repo.Create(ctx, m))
	}
	keep := &core.Memory{PersonaID: "p1", Category: core.CategoryOther, Key: "k", Value: "fresh", Importance: 3}
	require.NoError(t, repo.Create(ctx, keep))

	n, err := repo.PurgeExpired(ctx, "p1")
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	listed, err := repo.List(ctx, "p1", core.MemoryFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Equal(t, "fresh", listed[0].Value)
}
