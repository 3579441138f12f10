package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/mira/internal/config"
	"github.com/sandevgo/mira/internal/core"
	"github.com/sandevgo/mira/internal/service/history"
	"github.com/sandevgo/mira/internal/service/memory"
	"github.com/sandevgo/mira/pkg/tokens"
)

type mockTurns struct {
	added    []core.Turn
	addErr   error
	recentFn func(ctx context.Context, personaID string, limit int) ([]core.Turn, error)
}

func (m *mockTurns) Add(ctx context.Context, t *core.Turn) error {
	if m.addErr != nil {
		return m.addErr
	}
	t.ID = int64(len(m.added) + 1)
	t.CreatedAt = time.Now()
	m.added = append(m.added, *t)
	return nil
}

func (m *mockTurns) Recent(ctx context.Context, personaID string, limit int) ([]core.Turn, error) {
	if m.recentFn != nil {
		return m.recentFn(ctx, personaID, limit)
	}
	return nil, nil
}

func (m *mockTurns) MarkDeleted(ctx context.Context, id int64) error             { return nil }
func (m *mockTurns) MarkImportant(ctx context.Context, id int64, imp bool) error { return nil }

func (m *mockTurns) Aggregates(ctx context.Context, personaID string) (core.TurnAggregates, error) {
	return core.TurnAggregates{}, nil
}

func (m *mockTurns) EmotionSeries(ctx context.Context, personaID string, limit int) ([]core.Emotion, error) {
	return nil, nil
}

type mockMemories struct {
	searchErr error
	hits      []core.Memory
}

func (m *mockMemories) Create(ctx context.Context, mem *core.Memory) error   { return nil }
func (m *mockMemories) Get(ctx context.Context, id int64) (core.Memory, error) {
	return core.Memory{}, core.ErrNotFound
}

func (m *mockMemories) List(ctx context.Context, personaID string, f core.MemoryFilter) ([]core.Memory, error) {
	return m.hits, m.searchErr
}

func (m *mockMemories) Search(ctx context.Context, personaID, query string, limit int) ([]core.Memory, error) {
	return m.hits, m.searchErr
}

func (m *mockMemories) Update(ctx context.Context, id int64, p core.MemoryPatch) error { return nil }
func (m *mockMemories) Delete(ctx context.Context, id int64) error                     { return nil }

func (m *mockMemories) Merge(ctx context.Context, primary core.Memory, secondaryID int64) error {
	return nil
}

func (m *mockMemories) PurgeExpired(ctx context.Context, personaID string) (int64, error) {
	return 0, nil
}

type mockProvider struct {
	history []core.Message
	opts    core.GenOptions
	reply   core.Completion
	err     error
	calls   int
}

func (p *mockProvider) Chat(ctx context.Context, history []core.Message, opts core.GenOptions) (core.Completion, error) {
	p.calls++
	p.history = history
	p.opts = opts
	if p.err != nil {
		return core.Completion{}, p.err
	}
	return p.reply, nil
}

type mockPersonas struct{}

func (mockPersonas) Get(ctx context.Context, id string) (core.Persona, error) {
	return core.Persona{
		ID: id, Name: "Mira", Age: 24, Gender: "female", Occupation: "illustrator",
	}, nil
}

func testCfg() *config.EngineConfig {
	return &config.EngineConfig{
		MaxContextMessages: 20,
		TokenBudget:        3000,
		RecentKeep:         10,
		MemoryLimit:        5,
		RelevanceThreshold: 0.3,
		RequestTimeout:     time.Second,
	}
}

func newTestOrchestrator(turns *mockTurns, mems *mockMemories, provider *mockProvider) *Orchestrator {
	cfg := testCfg()
	curator := memory.NewCurator(mems, provider, cfg)
	return NewOrchestrator(
		turns,
		memory.NewService(mems, cfg),
		history.NewAssembler(turns, cfg),
		provider,
		mockPersonas{},
		NewExtractor(curator),
		cfg,
	)
}

func TestRespond_Success(t *testing.T) {
	t.Parallel()

	turns := &mockTurns{}
	provider := &mockProvider{reply: core.Completion{Content: "hello!", Tokens: 42}}
	mems := &mockMemories{hits: []core.Memory{{
		ID: 1, Category: core.CategoryPreference, Value: "likes coffee",
		Importance: 4, CreatedAt: time.Now(),
	}}}
	o := newTestOrchestrator(turns, mems, provider)

	got, err := o.Respond(context.Background(), "p1", "I could really use a coffee")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	if got.Content != "hello!" || got.Tokens != 42 {
		t.Errorf("reply = %+v", got)
	}
	if got.Meta.RequestID == "" {
		t.Error("request id missing")
	}
	if got.Meta.MemoriesUsed != 1 {
		t.Errorf("memories used = %d, want 1", got.Meta.MemoriesUsed)
	}
	if got.Meta.StyleHint == "" {
		t.Error("style hint missing")
	}

	if len(turns.added) != 2 {
		t.Fatalf("persisted %d turns, want user + assistant", len(turns.added))
	}
	if turns.added[0].Role != core.RoleUser || turns.added[1].Role != core.RoleAssistant {
		t.Errorf("turn roles = %q, %q", turns.added[0].Role, turns.added[1].Role)
	}
	if turns.added[1].Tokens != 42 {
		t.Errorf("assistant tokens = %d, want 42", turns.added[1].Tokens)
	}
	if turns.added[0].Emotion == "" {
		t.Error("user turn lost its emotion tag")
	}

	// The system prompt leads the wire history and the utterance closes it.
	if provider.history[0].Role != core.RoleSystem {
		t.Error("first message is not the system prompt")
	}
	if !strings.Contains(provider.history[0].Content, "You are Mira") {
		t.Error("system prompt missing persona identity")
	}
	last := provider.history[len(provider.history)-1]
	if last.Role != core.RoleUser || last.Content != "I could really use a coffee" {
		t.Errorf("last message = %+v", last)
	}

	// Extraction was queued, not executed inline.
	select {
	case job := <-o.extractor.jobs:
		if job.PersonaID != "p1" || job.SourceTurnID != turns.added[0].ID {
			t.Errorf("job = %+v", job)
		}
	default:
		t.Error("no extraction job enqueued")
	}
}

func TestRespond_CountsTokensWhenBackendOmitsUsage(t *testing.T) {
	t.Parallel()

	turns := &mockTurns{}
	provider := &mockProvider{reply: core.Completion{Content: "tell me more about your day"}}
	o := newTestOrchestrator(turns, &mockMemories{}, provider)

	got, err := o.Respond(context.Background(), "p1", "hello there")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	want := tokens.Count("tell me more about your day")
	if want == 0 {
		t.Fatal("counter returned 0 for non-empty text")
	}
	if got.Tokens != want {
		t.Errorf("reply tokens = %d, want %d from the local counter", got.Tokens, want)
	}
	if turns.added[1].Tokens != want {
		t.Errorf("persisted tokens = %d, want %d", turns.added[1].Tokens, want)
	}
}

func TestRespond_BackendFailureKeepsUserTurn(t *testing.T) {
	t.Parallel()

	turns := &mockTurns{}
	provider := &mockProvider{err: core.ErrTimeout}
	o := newTestOrchestrator(turns, &mockMemories{}, provider)

	_, err := o.Respond(context.Background(), "p1", "hello?")
	if !errors.Is(err, core.ErrTimeout) {
		t.Fatalf("err = %v, want timeout", err)
	}

	if len(turns.added) != 1 || turns.added[0].Role != core.RoleUser {
		t.Fatalf("turns = %+v, want only the user turn persisted", turns.added)
	}

	select {
	case <-o.extractor.jobs:
		t.Error("extraction enqueued despite failed generation")
	default:
	}
}

func TestRespond_MemoryFailureDegradesSilently(t *testing.T) {
	t.Parallel()

	turns := &mockTurns{}
	provider := &mockProvider{reply: core.Completion{Content: "still here"}}
	mems := &mockMemories{searchErr: errors.New("store offline")}
	o := newTestOrchestrator(turns, mems, provider)

	got, err := o.Respond(context.Background(), "p1", "how are you holding up")
	if err != nil {
		t.Fatalf("memory failure must not surface: %v", err)
	}
	if got.Meta.MemoriesUsed != 0 {
		t.Errorf("memories used = %d, want 0", got.Meta.MemoriesUsed)
	}
	if got.Content != "still here" {
		t.Errorf("content = %q", got.Content)
	}
}

func TestRespond_EmotionTunesGeneration(t *testing.T) {
	t.Parallel()

	turns := &mockTurns{}
	provider := &mockProvider{reply: core.Completion{Content: "oh no"}}
	o := newTestOrchestrator(turns, &mockMemories{}, provider)

	_, err := o.Respond(context.Background(), "p1", "i feel so sad and lonely")
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}

	neutral := &mockProvider{reply: core.Completion{Content: "ok"}}
	o2 := newTestOrchestrator(&mockTurns{}, &mockMemories{}, neutral)
	if _, err := o2.Respond(context.Background(), "p1", "the meeting starts at nine"); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	if provider.opts.Temperature >= neutral.opts.Temperature {
		t.Errorf("sad temperature %v not below neutral %v", provider.opts.Temperature, neutral.opts.Temperature)
	}
	if provider.opts.MaxTokens <= neutral.opts.MaxTokens {
		t.Errorf("sad max tokens %v not above neutral %v", provider.opts.MaxTokens, neutral.opts.MaxTokens)
	}
}

func TestBuildMessages(t *testing.T) {
	t.Parallel()

	window := []core.Turn{
		{Role: core.RoleUser, Content: "earlier question"},
		{Role: core.RoleAssistant, Content: "earlier answer"},
	}
	got := buildMessages("sys", window, "now")

	want := []core.Message{
		{Role: core.RoleSystem, Content: "sys"},
		{Role: core.RoleUser, Content: "earlier question"},
		{Role: core.RoleAssistant, Content: "earlier answer"},
		{Role: core.RoleUser, Content: "now"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d messages, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
