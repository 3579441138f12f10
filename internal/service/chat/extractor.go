package chat

import (
	"context"

	"github.com/sandevgo/mira/internal/service/memory"
	"github.com/sandevgo/mira/pkg/log"
	"github.com/sandevgo/mira/pkg/retry"
)

const extractionQueueSize = 64

// ExtractionJob is one exchange queued for background memory
// extraction.
type ExtractionJob struct {
	PersonaID    string
	UserMessage  string
	AssistantMsg string
	SourceTurnID int64
}

// Extractor runs memory extraction off the request path. Jobs are
// dropped (and logged) when the queue is full, failures are retried a
// couple of times and then logged. Nothing here ever reaches the
// user.
type Extractor struct {
	curator *memory.Curator
	retrier *retry.Retrier
	jobs    chan ExtractionJob
	done    chan struct{}
}

func NewExtractor(curator *memory.Curator) *Extractor {
	return &Extractor{
		curator: curator,
		retrier: retry.NewRetrier(retry.NewExtractionConfig()),
		jobs:    make(chan ExtractionJob, extractionQueueSize),
		done:    make(chan struct{}),
	}
}

// Enqueue hands a job to the worker without ever blocking the caller.
func (e *Extractor) Enqueue(job ExtractionJob) {
	select {
	case e.jobs <- job:
	default:
		log.FromCtx(context.Background()).Warn().
			Str("persona", job.PersonaID).
			Msg("extraction queue full, dropping job")
	}
}

func (e *Extractor) Start(ctx context.Context) error {
	defer close(e.done)
	for {
		select {
		case job := <-e.jobs:
			e.process(ctx, job)
		case <-ctx.Done():
			return nil
		}
	}
}

// Shutdown drains nothing: queued jobs are best-effort by contract.
func (e *Extractor) Shutdown(ctx context.Context) error {
	select {
	case <-e.done:
	case <-ctx.Done():
	}
	return nil
}

func (e *Extractor) process(ctx context.Context, job ExtractionJob) {
	err := e.retrier.Do(ctx, func() error {
		_, err := e.curator.ExtractFromExchange(ctx, job.PersonaID, job.UserMessage, job.AssistantMsg, &job.SourceTurnID)
		return err
	})
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).
			Str("persona", job.PersonaID).
			Msg("memory extraction failed")
	}
}
