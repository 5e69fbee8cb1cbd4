package agent

import (
	"log/slog"
	"time"

	"polywatch/internal/mdlog"
)

// Status describes the monitor's persisted state: how much history has
// accumulated and when data last landed.
type Status struct {
	Source        string
	LogStats      mdlog.Stats
	SnapshotCount int
	LastSnapshot  time.Time
}

// StatusReporter gathers status from the markdown log and the snapshot
// store. Either may be absent depending on deployment mode.
type StatusReporter struct {
	agent *Agent
	logw  *mdlog.Writer
}

func NewStatusReporter(a *Agent, logw *mdlog.Writer) *StatusReporter {
	return &StatusReporter{agent: a, logw: logw}
}

// Collect builds the current status. Missing collaborators yield zero
// sections rather than errors.
func (r *StatusReporter) Collect() Status {
	st := Status{Source: r.agent.source.Name()}

	if r.logw != nil {
		st.LogStats = r.logw.Stats()
	}

	if r.agent.store != nil {
		if count, err := r.agent.store.CountSnapshots(); err == nil {
			st.SnapshotCount = count
		}
		if ts, ok := r.agent.store.LastCapturedAt(); ok {
			st.LastSnapshot = ts
		}
	}

	return st
}

// LogStatus writes the status as structured log lines.
func (r *StatusReporter) LogStatus() {
	st := r.Collect()
	slog.Info("=== MONITOR STATUS ===",
		"source", st.Source,
		"log_exists", st.LogStats.Exists,
		"log_entries", st.LogStats.Entries,
		"log_size_bytes", st.LogStats.SizeBytes,
		"log_last_update", st.LogStats.LastUpdate,
		"snapshots", st.SnapshotCount,
		"last_snapshot", st.LastSnapshot,
	)
}
