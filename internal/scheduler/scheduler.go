// Package scheduler runs the periodic maintenance jobs around the analysis
// service.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/aristath/quasar/internal/modules/history"
)

// Scheduler owns the cron runner for background maintenance. Currently one
// job: pruning archived analysis runs past the retention window.
type Scheduler struct {
	cron          *cron.Cron
	historyRepo   *history.Repository
	retentionDays int
	log           zerolog.Logger
}

// New creates a scheduler pruning history entries older than retentionDays.
func New(historyRepo *history.Repository, retentionDays int, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		historyRepo:   historyRepo,
		retentionDays: retentionDays,
		log:           log.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the daily prune job (03:00 local) and starts the cron
// runner. Retention <= 0 disables pruning entirely.
func (s *Scheduler) Start() error {
	if s.retentionDays <= 0 {
		s.log.Info().Msg("History retention disabled, scheduler idle")
		return nil
	}

	if _, err := s.cron.AddFunc("0 3 * * *", s.pruneHistory); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Int("retention_days", s.retentionDays).Msg("Scheduler started")
	return nil
}

// Stop stops the cron runner and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) pruneHistory() {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	pruned, err := s.historyRepo.PruneOlderThan(cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to prune analysis history")
		return
	}
	if pruned > 0 {
		s.log.Info().Int64("pruned", pruned).Time("cutoff", cutoff).Msg("Pruned analysis history")
	}
}
