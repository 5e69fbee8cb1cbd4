package sink

import (
	"context"

	"polywatch/internal/market"
	"polywatch/internal/mdlog"
)

// Markdown renders each record as a log entry and delegates merge and
// retention to the log maintainer.
type Markdown struct {
	writer *mdlog.Writer
}

func NewMarkdown(writer *mdlog.Writer) *Markdown {
	return &Markdown{writer: writer}
}

func (m *Markdown) Name() string { return "markdown" }

func (m *Markdown) Write(_ context.Context, snap *market.Snapshot) error {
	return m.writer.Write(snap.Record)
}
