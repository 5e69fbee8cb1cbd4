package scheduler

import (
	"context"
	"log/slog"
	"time"

	"polywatch/internal/agent"
	"polywatch/internal/config"
)

// Scheduler drives the update loop: one cycle immediately, then one per
// update interval, with a periodic status report. Cycles run to completion;
// cancellation takes effect between cycles only.
type Scheduler struct {
	agent    *agent.Agent
	reporter *agent.StatusReporter
	cfg      config.ScheduleConfig
}

func New(a *agent.Agent, reporter *agent.StatusReporter, cfg config.ScheduleConfig) *Scheduler {
	return &Scheduler{agent: a, reporter: reporter, cfg: cfg}
}

// Run blocks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	slog.Info("scheduler starting",
		"update_interval", s.cfg.UpdateInterval.Duration,
		"status_interval", s.cfg.StatusInterval.Duration,
	)

	// First cycle runs immediately.
	s.runCycle(ctx)

	updateTicker := time.NewTicker(s.cfg.UpdateInterval.Duration)
	statusTicker := time.NewTicker(s.cfg.StatusInterval.Duration)
	defer updateTicker.Stop()
	defer statusTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler shutting down")
			return ctx.Err()
		case <-updateTicker.C:
			s.runCycle(ctx)
		case <-statusTicker.C:
			s.reporter.LogStatus()
		}
	}
}

// runCycle swallows cycle errors: the agent has already logged them and the
// next tick must still fire.
func (s *Scheduler) runCycle(ctx context.Context) {
	if err := s.agent.RunCycle(ctx); err != nil {
		slog.Error("update cycle failed", "error", err)
	}
}
