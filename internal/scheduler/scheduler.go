// Package scheduler runs the periodic revaluation of the asset registry.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/assettrack/internal/date"
	"github.com/mmynk/assettrack/internal/metrics"
)

// Revaluer recomputes derived asset values as of a date.
type Revaluer interface {
	Today() date.Date
	RevalueAll(ctx context.Context, asOf date.Date) (int, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	revaluer Revaluer
	metrics  *metrics.Metrics
	timeout  time.Duration
}

// New creates a scheduler. m may be nil.
func New(revaluer Revaluer, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		revaluer: revaluer,
		metrics:  m,
		timeout:  10 * time.Minute,
	}
}

// Start schedules the revaluation job on a standard cron spec and starts the
// scheduler. An empty spec schedules nothing.
func (s *Scheduler) Start(spec string) error {
	if spec == "" {
		slog.Info("Revaluation schedule disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(spec, s.Revalue); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("Scheduler started", "revalue_schedule", spec)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("Scheduler stopped")
}

// Revalue runs one revaluation as of today.
func (s *Scheduler) Revalue() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	asOf := s.revaluer.Today()
	changed, err := s.revaluer.RevalueAll(ctx, asOf)
	s.metrics.Revalued(changed)
	if err != nil {
		slog.Error("Scheduled revaluation failed", "as_of", asOf, "changed", changed, "error", err)
		return
	}
	slog.Info("Scheduled revaluation finished", "as_of", asOf, "changed", changed)
}
