package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"polywatch/internal/market"
)

// CSV appends flat rows to a CSV file, the spreadsheet stand-in. The header
// row is written once, from the keys of the first row ever appended; if the
// key set later drifts the header is not reconciled and values keep being
// appended positionally.
type CSV struct {
	path string
}

func NewCSV(path string) *CSV {
	return &CSV{path: path}
}

func (c *CSV) Name() string { return "csv" }

// Write appends the snapshot's flat row, flattening the record when no row
// was prepared upstream.
func (c *CSV) Write(_ context.Context, snap *market.Snapshot) error {
	row := snap.Row
	if row == nil {
		row = market.FlattenRecord(snap.Record)
	}
	return c.AppendRow(row)
}

// AppendRow appends one flat row, creating the file and header as needed.
func (c *CSV) AppendRow(row *market.Row) error {
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating csv directory: %w", err)
		}
	}

	needHeader, err := c.needsHeader()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(row.Keys()); err != nil {
			return fmt.Errorf("writing csv header: %w", err)
		}
	}
	if err := w.Write(row.Values()); err != nil {
		return fmt.Errorf("writing csv row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

func (c *CSV) needsHeader() (bool, error) {
	info, err := os.Stat(c.path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking csv: %w", err)
	}
	return info.Size() == 0, nil
}
