package mdlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"polywatch/internal/config"
)

func newTestWriter(t *testing.T, maxEntries int) *Writer {
	t.Helper()
	return NewWriter(config.LogConfig{
		Path:        filepath.Join(t.TempDir(), "log", "updates.md"),
		MaxEntries:  maxEntries,
		Title:       "🔥 Polymarket Price Monitor",
		Description: "Automated price log.",
	}, 10)
}

func TestWriter_CreatesFileWithHeader(t *testing.T) {
	w := newTestWriter(t, 50)

	if err := w.Write(sampleRecord()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	content, err := os.ReadFile(w.path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(content)
	if !strings.HasPrefix(out, "# 🔥 Polymarket Price Monitor\n") {
		t.Errorf("expected synthesized header, got %q", out[:60])
	}
	if CountEntries(out) != 1 {
		t.Errorf("expected 1 entry, got %d", CountEntries(out))
	}
}

func TestWriter_SecondWritePrepends(t *testing.T) {
	w := newTestWriter(t, 50)

	first := sampleRecord()
	first.Timestamp = "2025-06-01T10:00:00Z"
	if err := w.Write(first); err != nil {
		t.Fatalf("first write: %v", err)
	}

	second := sampleRecord()
	second.Timestamp = "2025-06-01T11:00:00Z"
	if err := w.Write(second); err != nil {
		t.Fatalf("second write: %v", err)
	}

	content, _ := os.ReadFile(w.path)
	out := string(content)
	if CountEntries(out) != 2 {
		t.Fatalf("expected 2 entries, got %d", CountEntries(out))
	}
	if strings.Index(out, "11:00:00") > strings.Index(out, "10:00:00") {
		t.Error("expected newest entry first")
	}
}

func TestWriter_RetentionCap(t *testing.T) {
	w := newTestWriter(t, 3)

	for i := 0; i < 5; i++ {
		rec := sampleRecord()
		rec.Timestamp = time.Date(2025, 6, 1, 10+i, 0, 0, 0, time.UTC).Format(time.RFC3339)
		if err := w.Write(rec); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	content, _ := os.ReadFile(w.path)
	out := string(content)
	if got := CountEntries(out); got != 3 {
		t.Errorf("expected 3 entries after cap, got %d", got)
	}
	if !strings.Contains(out, "Older entries truncated") {
		t.Error("expected truncation footer")
	}
	if !strings.Contains(out, "14:00:00") || strings.Contains(out, "10:00:00 UTC") {
		t.Error("expected newest entries kept, oldest dropped")
	}
}

func TestWriter_LastUpdateTime(t *testing.T) {
	w := newTestWriter(t, 50)

	if _, ok := w.LastUpdateTime(); ok {
		t.Fatal("expected no timestamp before first write")
	}

	rec := sampleRecord()
	rec.Timestamp = "2025-06-01T12:30:00Z"
	if err := w.Write(rec); err != nil {
		t.Fatalf("write: %v", err)
	}

	ts, ok := w.LastUpdateTime()
	if !ok {
		t.Fatal("expected a timestamp after write")
	}
	want := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Errorf("got %v, want %v", ts, want)
	}
}

func TestWriter_Stats(t *testing.T) {
	w := newTestWriter(t, 50)

	if st := w.Stats(); st.Exists {
		t.Fatal("expected missing file before first write")
	}

	if err := w.Write(sampleRecord()); err != nil {
		t.Fatalf("write: %v", err)
	}

	st := w.Stats()
	if !st.Exists {
		t.Fatal("expected file to exist")
	}
	if st.SizeBytes == 0 {
		t.Error("expected nonzero size")
	}
	if st.Entries != 1 {
		t.Errorf("expected 1 entry, got %d", st.Entries)
	}
	if st.LastUpdate.IsZero() {
		t.Error("expected last update timestamp")
	}
}
