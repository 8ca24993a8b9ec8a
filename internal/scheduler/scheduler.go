package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler triggers periodic scans via cron.
type Scheduler struct {
	Cron *cron.Cron
	Ctx  context.Context
}

// New creates a Scheduler bound to ctx.
func New(ctx context.Context) *Scheduler {
	return &Scheduler{Cron: cron.New(cron.WithSeconds()), Ctx: ctx}
}

// Register schedules scan to run at the given cron spec.
func (s *Scheduler) Register(spec string, scan func(ctx context.Context)) error {
	if _, err := s.Cron.AddFunc(spec, func() {
		if s.Ctx.Err() != nil {
			return
		}
		log.Info().Str("cron", spec).Msg("scheduled scan triggered")
		scan(s.Ctx)
	}); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Info().Msg("scheduler stopped")
}
