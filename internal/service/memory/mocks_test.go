package memory

import (
	"context"

	"github.com/sandevgo/mira/internal/core"
)

// mockMemoriesRepo implements core.MemoriesRepository with overridable
// func fields; unset methods are no-ops.
type mockMemoriesRepo struct {
	createFn func(ctx context.Context, m *core.Memory) error
	listFn   func(ctx context.Context, personaID string, f core.MemoryFilter) ([]core.Memory, error)
	searchFn func(ctx context.Context, personaID, query string, limit int) ([]core.Memory, error)
	mergeFn  func(ctx context.Context, primary core.Memory, secondaryID int64) error
	deleteFn func(ctx context.Context, id int64) error
	purgeFn  func(ctx context.Context, personaID string) (int64, error)
}

func (m *mockMemoriesRepo) Create(ctx context.Context, mem *core.Memory) error {
	if m.createFn != nil {
		return m.createFn(ctx, mem)
	}
	return nil
}

func (m *mockMemoriesRepo) Get(ctx context.Context, id int64) (core.Memory, error) {
	return core.Memory{}, core.ErrNotFound
}

func (m *mockMemoriesRepo) List(ctx context.Context, personaID string, f core.MemoryFilter) ([]core.Memory, error) {
	if m.listFn != nil {
		return m.listFn(ctx, personaID, f)
	}
	return nil, nil
}

func (m *mockMemoriesRepo) Search(ctx context.Context, personaID, query string, limit int) ([]core.Memory, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, personaID, query, limit)
	}
	return nil, nil
}

func (m *mockMemoriesRepo) Update(ctx context.Context, id int64, p core.MemoryPatch) error {
	return nil
}

func (m *mockMemoriesRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockMemoriesRepo) Merge(ctx context.Context, primary core.Memory, secondaryID int64) error {
	if m.mergeFn != nil {
		return m.mergeFn(ctx, primary, secondaryID)
	}
	return nil
}

func (m *mockMemoriesRepo) PurgeExpired(ctx context.Context, personaID string) (int64, error) {
	if m.purgeFn != nil {
		return m.purgeFn(ctx, personaID)
	}
	return 0, nil
}

// mockProvider is a canned-response core.AIProvider.
type mockProvider struct {
	chatFn func(ctx context.Context, history []core.Message, opts core.GenOptions) (core.Completion, error)
}

func (p *mockProvider) Chat(ctx context.Context, history []core.Message, opts core.GenOptions) (core.Completion, error) {
	if p.chatFn != nil {
		return p.chatFn(ctx, history, opts)
	}
	return core.Completion{Content: "[]"}, nil
}
