// Package scheduler wires up the cron job that periodically syncs every
// active dealer feed.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	syncer "github.com/TechTeamScibotix/iqautodeals-sync/internal/sync"
)

// Scheduler wraps robfig/cron and manages the periodic sync loop.
type Scheduler struct {
	cron    *cron.Cron
	dealers syncer.ActiveDealers
	runner  *syncer.Runner
	spec    string // cron spec, e.g. "@every 6h"
	log     zerolog.Logger
}

// New creates a Scheduler that fires every intervalHours hours.
func New(dealers syncer.ActiveDealers, runner *syncer.Runner, intervalHours int, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		dealers: dealers,
		runner:  runner,
		spec:    fmt.Sprintf("@every %dh", intervalHours),
		log:     log,
	}
}

// Start registers the job and starts the scheduler. Also runs one sync sweep
// immediately so fresh deployments do not wait for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("scheduler started")

	go s.runAll(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// runAll syncs every active dealer config, one at a time. A failed run for
// one dealer never blocks the rest; an in-progress run is skipped quietly.
func (s *Scheduler) runAll(ctx context.Context) {
	configs, err := s.dealers.GetActive(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("load active dealer configs failed")
		return
	}

	if len(configs) == 0 {
		s.log.Info().Msg("no active dealer feeds, nothing to sync")
		return
	}

	s.log.Info().Int("dealers", len(configs)).Msg("sync sweep starting")
	for _, cfg := range configs {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.runner.Run(ctx, cfg.DealerID); err != nil {
			if err == syncer.ErrRunInProgress {
				s.log.Info().Str("dealer", cfg.DealerID).Msg("run already in progress, skipping")
				continue
			}
			s.log.Error().Err(err).Str("dealer", cfg.DealerID).Msg("sync run failed")
		}
	}
	s.log.Info().Msg("sync sweep complete")
}
