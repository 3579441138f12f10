package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/mira/internal/core"
	"github.com/sandevgo/mira/internal/service/memory"
)

type countingMemories struct {
	mockMemories
	mu      sync.Mutex
	created []core.Memory
}

func (c *countingMemories) Create(ctx context.Context, m *core.Memory) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created = append(c.created, *m)
	return nil
}

func (c *countingMemories) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.created)
}

func TestExtractor_ProcessesJob(t *testing.T) {
	t.Parallel()

	mems := &countingMemories{}
	provider := &mockProvider{reply: core.Completion{
		Content: `[{"content": "owns a cat named Mango", "category": "identity", "importance": 3}]`,
	}}
	e := NewExtractor(memory.NewCurator(mems, provider, testCfg()))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = e.Start(ctx)
	}()

	e.Enqueue(ExtractionJob{
		PersonaID:    "p1",
		UserMessage:  "my cat mango knocked over my coffee",
		AssistantMsg: "Mango sounds like a menace!",
		SourceTurnID: 7,
	})

	deadline := time.After(2 * time.Second)
	for mems.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("extraction job never processed")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	if err := e.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	mems.mu.Lock()
	defer mems.mu.Unlock()
	got := mems.created[0]
	if got.Value != "owns a cat named Mango" {
		t.Errorf("value = %q", got.Value)
	}
	if got.SourceTurnID == nil || *got.SourceTurnID != 7 {
		t.Error("source turn lost")
	}
}

func TestExtractor_EnqueueNeverBlocks(t *testing.T) {
	t.Parallel()

	// No worker running: the queue fills and further jobs drop.
	e := NewExtractor(memory.NewCurator(&mockMemories{}, &mockProvider{}, testCfg()))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < extractionQueueSize*2; i++ {
			e.Enqueue(ExtractionJob{PersonaID: "p1"})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}
