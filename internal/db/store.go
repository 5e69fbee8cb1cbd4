package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"polywatch/internal/market"
)

// Store keeps a queryable history of every successful update cycle,
// alongside the human-readable sinks.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) *Store {
	return &Store{db: database}
}

// SaveRecord persists one snapshot plus its outcome prices. A failed outcome
// insert is logged and skipped; the snapshot itself survives.
func (s *Store) SaveRecord(source string, rec *market.Record) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO snapshots (source, title, url, status, volume, liquidity, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		source, rec.Title, rec.URL, rec.Status, rec.Volume, rec.Liquidity, rec.EndDate,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting snapshot: %w", err)
	}

	snapshotID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading snapshot id: %w", err)
	}

	for _, sm := range rec.Markets {
		for _, o := range sm.Outcomes {
			_, err := s.db.Exec(`
				INSERT INTO outcome_prices (snapshot_id, question, outcome, price)
				VALUES (?, ?, ?, ?)`,
				snapshotID, sm.Question, o.Name, o.Price,
			)
			if err != nil {
				slog.Warn("failed to insert outcome price",
					"snapshot_id", snapshotID, "outcome", o.Name, "error", err)
			}
		}
	}

	return snapshotID, nil
}

// CountSnapshots returns the number of stored snapshots.
func (s *Store) CountSnapshots() (int, error) {
	var count int
	row := s.db.QueryRow(`SELECT COUNT(*) FROM snapshots`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting snapshots: %w", err)
	}
	return count, nil
}

// LastCapturedAt returns the capture time of the newest snapshot.
func (s *Store) LastCapturedAt() (time.Time, bool) {
	var captured string
	row := s.db.QueryRow(`SELECT captured_at FROM snapshots ORDER BY id DESC LIMIT 1`)
	if err := row.Scan(&captured); err != nil {
		return time.Time{}, false
	}

	ts, err := time.Parse("2006-01-02 15:04:05", captured)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
