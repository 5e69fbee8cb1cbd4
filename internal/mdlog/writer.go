package mdlog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"polywatch/internal/config"
	"polywatch/internal/market"
)

// Writer persists records to the markdown log with read-modify-write
// full-document overwrites. It is not safe for concurrent writers; callers
// serialize access to the log file.
type Writer struct {
	path       string
	maxEntries int
	maintainer Maintainer
}

func NewWriter(cfg config.LogConfig, intervalMinutes int) *Writer {
	return &Writer{
		path:       cfg.Path,
		maxEntries: cfg.MaxEntries,
		maintainer: Maintainer{
			Title:           cfg.Title,
			Description:     cfg.Description,
			IntervalMinutes: intervalMinutes,
		},
	}
}

// Write renders the record and merges it into the log file, creating the
// file on first write.
func (w *Writer) Write(rec *market.Record) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}

	existing, err := os.ReadFile(w.path)
	if err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read existing log, starting fresh", "path", w.path, "error", err)
		existing = nil
	}

	entry := FormatEntry(rec)
	updated := w.maintainer.Merge(string(existing), entry, w.maxEntries)

	if err := os.WriteFile(w.path, []byte(updated), 0644); err != nil {
		return fmt.Errorf("writing log: %w", err)
	}
	return nil
}

var entryTimeRe = regexp.MustCompile(EntryMarker + ` - (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} UTC)`)

// LastUpdateTime returns the timestamp of the newest entry, if any.
func (w *Writer) LastUpdateTime() (time.Time, bool) {
	content, err := os.ReadFile(w.path)
	if err != nil {
		return time.Time{}, false
	}

	m := entryTimeRe.FindSubmatch(content)
	if m == nil {
		return time.Time{}, false
	}
	ts, err := time.Parse(displayTimeLayout, string(m[1]))
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// Stats describes the current log file.
type Stats struct {
	Exists     bool
	SizeBytes  int64
	Entries    int
	LastUpdate time.Time
}

func (w *Writer) Stats() Stats {
	info, err := os.Stat(w.path)
	if err != nil {
		return Stats{}
	}

	content, err := os.ReadFile(w.path)
	if err != nil {
		return Stats{Exists: true, SizeBytes: info.Size()}
	}

	st := Stats{
		Exists:    true,
		SizeBytes: info.Size(),
		Entries:   CountEntries(string(content)),
	}
	if ts, ok := w.LastUpdateTime(); ok {
		st.LastUpdate = ts
	}
	return st
}
