// Package jobs schedules background maintenance.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/icedepot/icedepot/internal/shared"
)

// cleanupSchedule runs the idempotency-key sweep nightly at 03:10.
const cleanupSchedule = "10 3 * * *"

// Manager owns the cron scheduler and its jobs.
type Manager struct {
	logger    *slog.Logger
	cron      *cron.Cron
	idem      *shared.IdempotencyStore
	retention time.Duration
	metrics   *Metrics
}

// NewManager builds a Manager. Keys older than retention are deleted on
// each sweep.
func NewManager(logger *slog.Logger, idem *shared.IdempotencyStore, retention time.Duration, metrics *Metrics) *Manager {
	return &Manager{
		logger:    logger,
		cron:      cron.New(),
		idem:      idem,
		retention: retention,
		metrics:   metrics,
	}
}

// Start registers the jobs and begins the scheduler.
func (m *Manager) Start() error {
	if _, err := m.cron.AddFunc(cleanupSchedule, m.cleanupIdempotencyKeys); err != nil {
		return err
	}
	m.cron.Start()
	m.logger.Info("job scheduler started", slog.String("cleanup_schedule", cleanupSchedule))
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (m *Manager) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.logger.Info("job scheduler stopped")
}

func (m *Manager) cleanupIdempotencyKeys() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	tracker := m.metrics.Track("idempotency_cleanup")
	if err := tracker.End(m.idem.Cleanup(ctx, m.retention)); err != nil {
		m.logger.Error("idempotency cleanup failed", slog.Any("error", err))
		return
	}
	m.logger.Info("idempotency cleanup done", slog.Duration("retention", m.retention))
}
