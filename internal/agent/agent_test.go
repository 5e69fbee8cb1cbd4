package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"polywatch/internal/market"
	"polywatch/internal/sink"
)

type stubSource struct {
	snap *market.Snapshot
	err  error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Fetch(context.Context) (*market.Snapshot, error) {
	return s.snap, s.err
}

type recordingSink struct {
	name   string
	err    error
	writes int
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Write(context.Context, *market.Snapshot) error {
	s.writes++
	return s.err
}

func testSnapshot() *market.Snapshot {
	return &market.Snapshot{Record: &market.Record{
		Title:  "Will X happen?",
		Status: market.StatusActive,
	}}
}

func TestRunCycle_WritesAllSinks(t *testing.T) {
	md := &recordingSink{name: "markdown"}
	csv := &recordingSink{name: "csv"}
	a := New(&stubSource{snap: testSnapshot()}, []sink.Sink{md, csv}, nil)

	if err := a.RunCycle(context.Background()); err != nil {
		t.Fatalf("cycle failed: %v", err)
	}
	if md.writes != 1 || csv.writes != 1 {
		t.Errorf("expected one write per sink, got %d and %d", md.writes, csv.writes)
	}
}

func TestRunCycle_FetchFailureSkipsSinks(t *testing.T) {
	md := &recordingSink{name: "markdown"}
	a := New(&stubSource{err: errors.New("boom")}, []sink.Sink{md}, nil)

	err := a.RunCycle(context.Background())
	if err == nil {
		t.Fatal("expected an error from the failed fetch")
	}
	if !strings.Contains(err.Error(), "fetching data") {
		t.Errorf("unexpected error: %v", err)
	}
	if md.writes != 0 {
		t.Errorf("expected no sink writes, got %d", md.writes)
	}
}

func TestRunCycle_OneSinkFailureDoesNotBlockOthers(t *testing.T) {
	md := &recordingSink{name: "markdown", err: errors.New("disk full")}
	csv := &recordingSink{name: "csv"}
	a := New(&stubSource{snap: testSnapshot()}, []sink.Sink{md, csv}, nil)

	err := a.RunCycle(context.Background())
	if err == nil {
		t.Fatal("expected cycle error when a sink fails")
	}
	if csv.writes != 1 {
		t.Errorf("expected healthy sink to still be written, got %d writes", csv.writes)
	}
}

func TestRunCycle_NoSinksSucceeds(t *testing.T) {
	a := New(&stubSource{snap: testSnapshot()}, nil, nil)
	if err := a.RunCycle(context.Background()); err != nil {
		t.Fatalf("expected success with no sinks, got %v", err)
	}
}
