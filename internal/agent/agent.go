package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"polywatch/internal/db"
	"polywatch/internal/sink"
)

// Agent runs the fetch -> extract/normalize -> persist cycle. It assumes
// at-most-one concurrent invocation; cycles are never run in parallel.
type Agent struct {
	source Source
	sinks  []sink.Sink
	store  *db.Store
}

func New(source Source, sinks []sink.Sink, store *db.Store) *Agent {
	return &Agent{source: source, sinks: sinks, store: store}
}

// RunCycle executes one update cycle. Failures never escalate past the cycle
// boundary: a fetch failure skips the cycle, a sink failure marks it failed,
// and the caller always gets control back.
func (a *Agent) RunCycle(ctx context.Context) error {
	cycleID := uuid.NewString()[:8]
	start := time.Now()
	slog.Info("starting update cycle", "cycle", cycleID, "source", a.source.Name())

	snap, err := a.source.Fetch(ctx)
	if err != nil {
		slog.Error("fetch failed, skipping cycle", "cycle", cycleID, "error", err)
		return fmt.Errorf("fetching data: %w", err)
	}

	slog.Info("fetched market data",
		"cycle", cycleID,
		"title", snap.Record.Title,
		"status", snap.Record.Status,
		"markets", len(snap.Record.Markets),
	)

	failed := 0
	for _, s := range a.sinks {
		if err := s.Write(ctx, snap); err != nil {
			slog.Error("sink write failed", "cycle", cycleID, "sink", s.Name(), "error", err)
			failed++
			continue
		}
		slog.Info("sink updated", "cycle", cycleID, "sink", s.Name())
	}

	// History is best effort; a write miss never fails the cycle.
	if a.store != nil {
		if _, err := a.store.SaveRecord(a.source.Name(), snap.Record); err != nil {
			slog.Warn("snapshot history write failed", "cycle", cycleID, "error", err)
		}
	}

	duration := time.Since(start)
	if failed > 0 {
		slog.Error("update cycle failed", "cycle", cycleID, "failed_sinks", failed, "duration", duration)
		return fmt.Errorf("%d sink write(s) failed", failed)
	}

	slog.Info("update cycle complete", "cycle", cycleID, "duration", duration)
	return nil
}
