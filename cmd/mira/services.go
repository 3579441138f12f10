package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sandevgo/mira/internal/config"
	"github.com/sandevgo/mira/internal/persona"
	"github.com/sandevgo/mira/internal/providers/llm"
	"github.com/sandevgo/mira/internal/service/chat"
	"github.com/sandevgo/mira/internal/service/history"
	"github.com/sandevgo/mira/internal/service/memory"
	"github.com/sandevgo/mira/internal/storage/sqlite"
	"github.com/sandevgo/mira/pkg/log"
	"github.com/sandevgo/mira/pkg/srv"
)

// engine bundles the wired services a command needs.
type engine struct {
	appCfg       *config.AppConfig
	engineCfg    *config.EngineConfig
	orchestrator *chat.Orchestrator
	memories     *memory.Service
	curator      *memory.Curator
	assembler    *history.Assembler
	turns        *sqlite.TurnsRepo
	personas     *persona.Provider
}

// newEngine wires storage, providers and services. The returned srv
// slice holds everything that needs starting and graceful shutdown.
func newEngine(ctx context.Context) (*engine, []srv.Service) {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	appCfg := config.NewAppConfig(ctx)
	engineCfg := config.NewEngineConfig(ctx)

	if err := os.MkdirAll(appCfg.GetRuntimePath(), 0755); err != nil {
		logger.Fatal().Err(err).Msg("failed to create runtime directory")
	}

	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	memoriesRepo := sqlite.NewMemoriesRepo(db)
	turnsRepo := sqlite.NewTurnsRepo(db)

	aiProvider, err := llm.NewProvider(ctx, appCfg, engineCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	personas := persona.NewProvider(appCfg.GetPersonasPath())

	memSvc := memory.NewService(memoriesRepo, engineCfg)
	curator := memory.NewCurator(memoriesRepo, aiProvider, engineCfg)
	assembler := history.NewAssembler(turnsRepo, engineCfg)

	extractor := chat.NewExtractor(curator)
	services = append(services, extractor)

	maintenance := memory.NewMaintenanceService(curator, activePersona(appCfg), engineCfg)
	services = append(services, maintenance)

	orchestrator := chat.NewOrchestrator(
		turnsRepo,
		memSvc,
		assembler,
		aiProvider,
		personas,
		extractor,
		engineCfg,
	)

	return &engine{
		appCfg:       appCfg,
		engineCfg:    engineCfg,
		orchestrator: orchestrator,
		memories:     memSvc,
		curator:      curator,
		assembler:    assembler,
		turns:        turnsRepo,
		personas:     personas,
	}, services
}

// stopServices cancels the run context and waits for every service to
// shut down. ShutdownServices blocks until the context is done, so the
// cancel must come first.
func stopServices(ctx context.Context, cancel context.CancelFunc, services []srv.Service) {
	cancel()
	srv.ShutdownServices(ctx, services)
}

// activePersona resolves the persona id: the --persona flag wins over
// the configured default.
func activePersona(cfg *config.AppConfig) string {
	if personaID != "" {
		return personaID
	}
	return cfg.PersonaID
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
