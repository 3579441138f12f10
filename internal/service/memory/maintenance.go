package memory

import (
	"context"
	"time"

	"github.com/sandevgo/mira/internal/config"
	"github.com/sandevgo/mira/pkg/log"
)

// MaintenanceService periodically runs the curation cycle for one
// persona: consolidation, pruning and expiry purge. Failures are
// logged and the ticker keeps going; a missed cycle is harmless.
type MaintenanceService struct {
	curator   *Curator
	personaID string
	interval  time.Duration
	stop      chan struct{}
	done      chan struct{}
}

func NewMaintenanceService(curator *Curator, personaID string, cfg *config.EngineConfig) *MaintenanceService {
	return &MaintenanceService{
		curator:   curator,
		personaID: personaID,
		interval:  cfg.MaintenanceInterval,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (s *MaintenanceService) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(s.done)

	log.FromCtx(ctx).Info().
		Str("persona", s.personaID).
		Dur("interval", s.interval).
		Msg("memory maintenance started")

	for {
		select {
		case <-ticker.C:
			s.runCycle(ctx)
		case <-s.stop:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *MaintenanceService) Shutdown(ctx context.Context) error {
	close(s.stop)
	select {
	case <-s.done:
	case <-ctx.Done():
	}
	return nil
}

// RunCycle triggers one maintenance pass on demand, outside the ticker.
func (s *MaintenanceService) RunCycle(ctx context.Context) {
	s.runCycle(ctx)
}

func (s *MaintenanceService) runCycle(ctx context.Context) {
	logger := log.FromCtx(ctx)

	merged, err := s.curator.Consolidate(ctx, s.personaID)
	if err != nil {
		logger.Error().Err(err).Msg("consolidation failed")
	}

	deleted, err := s.curator.Prune(ctx, s.personaID)
	if err != nil {
		logger.Error().Err(err).Msg("pruning failed")
	}

	purged, err := s.curator.PurgeExpired(ctx, s.personaID)
	if err != nil {
		logger.Error().Err(err).Msg("expiry purge failed")
	}

	logger.Debug().
		Int("merged", merged).
		Int("deleted", deleted).
		Int64("purged", purged).
		Msg("maintenance cycle complete")
}
