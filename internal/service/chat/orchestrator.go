package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sandevgo/mira/internal/config"
	"github.com/sandevgo/mira/internal/core"
	"github.com/sandevgo/mira/internal/service/emotion"
	"github.com/sandevgo/mira/internal/service/history"
	"github.com/sandevgo/mira/internal/service/memory"
	"github.com/sandevgo/mira/internal/service/prompt"
	"github.com/sandevgo/mira/pkg/log"
	"github.com/sandevgo/mira/pkg/tokens"
)

// Orchestrator drives one exchange end to end: analyze the utterance,
// assemble context, retrieve memories, compose the prompt, call the
// backend and persist both sides of the exchange.
//
// Failure policy: the backend call is the only user-visible failure.
// Memory retrieval and extraction are enrichment; when they break, the
// chat degrades silently instead of going down with them.
type Orchestrator struct {
	turns     core.TurnsRepository
	memories  *memory.Service
	assembler *history.Assembler
	analyzer  *emotion.Analyzer
	composer  *prompt.Composer
	provider  core.AIProvider
	personas  core.PersonaProvider
	extractor *Extractor
	cfg       *config.EngineConfig
	now       func() time.Time
}

func NewOrchestrator(
	turns core.TurnsRepository,
	memories *memory.Service,
	assembler *history.Assembler,
	provider core.AIProvider,
	personas core.PersonaProvider,
	extractor *Extractor,
	cfg *config.EngineConfig,
) *Orchestrator {
	return &Orchestrator{
		turns:     turns,
		memories:  memories,
		assembler: assembler,
		analyzer:  emotion.NewAnalyzer(),
		composer:  prompt.NewComposer(),
		provider:  provider,
		personas:  personas,
		extractor: extractor,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Respond handles one user message and returns the assistant reply.
// The user turn is persisted before the backend call so a failed
// generation never loses what the user said; the assistant turn is
// persisted only after a successful one.
func (o *Orchestrator) Respond(ctx context.Context, personaID, userMessage string) (core.Reply, error) {
	started := o.now()
	requestID := uuid.NewString()
	logger := log.FromCtx(ctx).With().Str("request_id", requestID).Logger()

	persona, err := o.personas.Get(ctx, personaID)
	if err != nil {
		return core.Reply{}, fmt.Errorf("load persona: %w", err)
	}

	mood := o.analyzer.Analyze(userMessage)
	_, tuning := emotion.StyleFor(mood.Primary)

	window, err := o.assembler.Optimized(ctx, personaID)
	if err != nil {
		return core.Reply{}, fmt.Errorf("assemble context: %w", err)
	}

	memories := o.retrieveMemories(ctx, personaID, userMessage, &logger)

	systemPrompt := o.composer.Compose(persona, prompt.Options{
		Memories:        toMemories(memories),
		Emotion:         mood.Primary,
		EmotionGuidance: tuning.Hint,
		IncludeExamples: true,
	})

	userTurn := core.Turn{
		PersonaID: personaID,
		Role:      core.RoleUser,
		Content:   userMessage,
		Emotion:   mood.Primary,
	}
	if err := o.turns.Add(ctx, &userTurn); err != nil {
		return core.Reply{}, fmt.Errorf("persist user turn: %w", err)
	}

	messages := buildMessages(systemPrompt, window.Turns, userMessage)

	genCtx, cancel := context.WithTimeout(ctx, o.cfg.RequestTimeout)
	defer cancel()

	completion, err := o.provider.Chat(genCtx, messages, core.GenOptions{
		Temperature: tuning.Temperature,
		MaxTokens:   tuning.MaxTokens,
	})
	if err != nil {
		return core.Reply{}, fmt.Errorf("generation: %w", err)
	}
	if completion.Tokens == 0 {
		// Backend omitted usage figures, count the reply ourselves.
		completion.Tokens = tokens.Count(completion.Content)
	}

	latency := o.now().Sub(started).Milliseconds()
	assistantTurn := core.Turn{
		PersonaID: personaID,
		Role:      core.RoleAssistant,
		Content:   completion.Content,
		Emotion:   mood.Primary,
		Tokens:    completion.Tokens,
		LatencyMS: latency,
	}
	if err := o.turns.Add(ctx, &assistantTurn); err != nil {
		return core.Reply{}, fmt.Errorf("persist assistant turn: %w", err)
	}

	o.extractor.Enqueue(ExtractionJob{
		PersonaID:    personaID,
		UserMessage:  userMessage,
		AssistantMsg: completion.Content,
		SourceTurnID: userTurn.ID,
	})

	logger.Info().
		Str("persona", personaID).
		Str("emotion", string(mood.Primary)).
		Int("memories", len(memories)).
		Int("context_turns", len(window.Turns)).
		Int64("latency_ms", latency).
		Msg("exchange complete")

	return core.Reply{
		Content: completion.Content,
		Emotion: mood,
		Tokens:  completion.Tokens,
		Meta: core.ReplyMeta{
			RequestID:    requestID,
			MemoriesUsed: len(memories),
			ContextTurns: len(window.Turns),
			StyleHint:    tuning.Hint,
			LatencyMS:    latency,
		},
	}, nil
}

// retrieveMemories is best-effort: a broken memory store degrades the
// reply, it does not block it.
func (o *Orchestrator) retrieveMemories(ctx context.Context, personaID, utterance string, logger *zerolog.Logger) []memory.Scored {
	scored, err := o.memories.RetrieveRelevant(ctx, personaID, utterance)
	if err != nil {
		logger.Warn().Err(err).Msg("memory retrieval failed, continuing without")
		return nil
	}
	return scored
}

func toMemories(scored []memory.Scored) []core.Memory {
	out := make([]core.Memory, len(scored))
	for i, s := range scored {
		out[i] = s.Memory
	}
	return out
}

// buildMessages lays out the wire history: system prompt, assembled
// window, then the current utterance.
func buildMessages(systemPrompt string, window []core.Turn, userMessage string) []core.Message {
	messages := make([]core.Message, 0, len(window)+2)
	messages = append(messages, core.Message{Role: core.RoleSystem, Content: systemPrompt})
	for _, t := range window {
		messages = append(messages, core.Message{Role: t.Role, Content: t.Content})
	}
	return append(messages, core.Message{Role: core.RoleUser, Content: userMessage})
}
