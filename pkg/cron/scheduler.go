// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher runs the budget maintenance pass over every fund.
type Refresher interface {
	RefreshAllFunds(ctx context.Context) error
}

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	schedule  string
	logger    *slog.Logger
}

// NewScheduler creates a new job scheduler. schedule is a standard
// 5-field cron spec.
func NewScheduler(refresher Refresher, schedule string, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:      c,
		refresher: refresher,
		schedule:  schedule,
		logger:    logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.refreshAllFunds)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.String("schedule", s.schedule),
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the budget refresh (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.refreshAllFunds()
}

// refreshAllFunds advances installment counters, provisions standard
// services and recomputes variable-service averages for every fund.
func (s *Scheduler) refreshAllFunds() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	s.logger.Info("starting nightly budget refresh")
	start := time.Now()

	if err := s.refresher.RefreshAllFunds(ctx); err != nil {
		s.logger.Error("nightly budget refresh failed", slog.Any("error", err))
		return
	}

	s.logger.Info("nightly budget refresh completed",
		slog.Duration("elapsed", time.Since(start)),
	)
}
