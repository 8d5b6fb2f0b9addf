// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/FACorreiaa/stockflow/internal/domain/catalog"
	"github.com/FACorreiaa/stockflow/pkg/metrics"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron            *cron.Cron
	cache           *catalog.Cache
	metrics         *metrics.Metrics
	refreshSchedule string
	logger          *slog.Logger
}

// NewScheduler creates a new job scheduler. refreshSchedule is a standard
// 5-field cron expression for the catalog snapshot refresh.
func NewScheduler(cache *catalog.Cache, m *metrics.Metrics, refreshSchedule string, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:            c,
		cache:           cache,
		metrics:         m,
		refreshSchedule: refreshSchedule,
		logger:          logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.refreshSchedule, s.refreshSnapshot)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
		slog.String("snapshot_refresh", s.refreshSchedule),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers a snapshot refresh (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.refreshSnapshot()
}

// refreshSnapshot reloads the catalog snapshot so new sessions map against
// fresh data. Sessions already open keep their pinned snapshot.
func (s *Scheduler) refreshSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	snap, err := s.cache.Refresh(ctx)
	if err != nil {
		s.metrics.SnapshotRefreshErr.Inc()
		s.logger.Error("failed to refresh catalog snapshot", slog.Any("error", err))
		return
	}

	s.metrics.SnapshotRefreshes.Inc()
	s.logger.Debug("catalog snapshot refreshed",
		slog.Int("products", len(snap.Products)),
		slog.Int("categories", len(snap.Categories)),
	)
}
