package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/mira/internal/config"
	"github.com/sandevgo/mira/internal/core"
	"github.com/sandevgo/mira/pkg/log"
)

// NewProvider creates the AIProvider selected by configuration. A
// missing credential is a configuration error and fails here, before
// any network call is made.
func NewProvider(ctx context.Context, cfg *config.AppConfig, engine *config.EngineConfig) (core.AIProvider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.Model).
		Msg("starting llm provider")

	timeout := engine.RequestTimeout

	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.Model, timeout), nil
	case "openrouter":
		if cfg.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY is required for the openrouter provider")
		}
		return NewOpenRouter(cfg.OpenRouterAPIKey, cfg.Model, timeout), nil
	case "ollama":
		return NewOllama(cfg.OllamaBaseURL, cfg.OllamaAPIKey, cfg.Model, timeout), nil
	case "custom":
		if cfg.CustomBaseURL == "" {
			return nil, fmt.Errorf("CUSTOM_OPENAI_BASE_URL is required for the custom provider")
		}
		return NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    cfg.CustomBaseURL,
			APIKey:     cfg.CustomAPIKey,
			Model:      cfg.Model,
			Timeout:    timeout,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
