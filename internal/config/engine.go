package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/mira/pkg/log"
)

// EngineConfig holds the tunables of the context engine. The defaults
// mirror the calibrated production values; env overrides exist mainly
// for experimentation.
type EngineConfig struct {
	// Context assembly
	MaxContextMessages int `env:"CONTEXT_MAX_MESSAGES" envDefault:"20"`
	TokenBudget        int `env:"CONTEXT_TOKEN_BUDGET" envDefault:"3000"`
	RecentKeep         int `env:"CONTEXT_RECENT_KEEP" envDefault:"10"`

	// Memory retrieval
	MemoryLimit        int     `env:"MEMORY_RETRIEVE_LIMIT" envDefault:"5"`
	RelevanceThreshold float64 `env:"MEMORY_RELEVANCE_THRESHOLD" envDefault:"0.3"`

	// Curation
	ForgetMaxAgeDays    int           `env:"MEMORY_MAX_AGE_DAYS" envDefault:"365"`
	ForgetMinImportance int           `env:"MEMORY_MIN_IMPORTANCE" envDefault:"2"`
	MaintenanceInterval time.Duration `env:"MEMORY_MAINTENANCE_INTERVAL" envDefault:"30m"`

	// Generation backend call
	RequestTimeout time.Duration `env:"LLM_REQUEST_TIMEOUT" envDefault:"45s"`
}

func NewEngineConfig(ctx context.Context) *EngineConfig {
	c := &EngineConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse engine config")
	}
	return c
}
