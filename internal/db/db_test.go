package db

import (
	"testing"

	"polywatch/internal/market"
)

func openTestDB(t *testing.T) *Store {
	t.Helper()
	database, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })

	if err := Migrate(database); err != nil {
		t.Fatal(err)
	}
	return NewStore(database)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	database, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	if err := Migrate(database); err != nil {
		t.Fatal(err)
	}

	tables := []string{
		"schema_version",
		"snapshots",
		"outcome_prices",
	}

	for _, table := range tables {
		row := database.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?`, table)
		var count int
		if err := row.Scan(&count); err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %s not found", table)
		}
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	database, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer database.Close()

	// Run twice — should not error.
	if err := Migrate(database); err != nil {
		t.Fatal(err)
	}
	if err := Migrate(database); err != nil {
		t.Fatal(err)
	}
}

func TestStore_SaveRecord(t *testing.T) {
	store := openTestDB(t)

	yes := 0.65
	rec := &market.Record{
		Timestamp: "2025-06-01T12:30:00Z",
		Title:     "Will X happen?",
		URL:       "https://example.com/event",
		Status:    market.StatusActive,
		Volume:    "$1,234",
		Liquidity: "$567",
		EndDate:   "December 31, 2025",
		Markets: []market.SubMarket{{
			Question: "Will X happen?",
			Outcomes: []market.Outcome{
				{Name: "Yes", Price: &yes},
				{Name: "Unsure"},
			},
		}},
	}

	id, err := store.SaveRecord("scrape", rec)
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Error("expected nonzero snapshot id")
	}

	var title, status string
	row := store.db.QueryRow(`SELECT title, status FROM snapshots WHERE id = ?`, id)
	if err := row.Scan(&title, &status); err != nil {
		t.Fatal(err)
	}
	if title != "Will X happen?" || status != market.StatusActive {
		t.Errorf("unexpected snapshot row: %q %q", title, status)
	}

	var prices int
	row = store.db.QueryRow(`SELECT COUNT(*) FROM outcome_prices WHERE snapshot_id = ?`, id)
	if err := row.Scan(&prices); err != nil {
		t.Fatal(err)
	}
	if prices != 2 {
		t.Errorf("expected 2 outcome rows, got %d", prices)
	}

	// Priceless outcomes are stored with a NULL price.
	var nulls int
	row = store.db.QueryRow(
		`SELECT COUNT(*) FROM outcome_prices WHERE snapshot_id = ? AND price IS NULL`, id)
	if err := row.Scan(&nulls); err != nil {
		t.Fatal(err)
	}
	if nulls != 1 {
		t.Errorf("expected 1 NULL price, got %d", nulls)
	}
}

func TestStore_CountSnapshots(t *testing.T) {
	store := openTestDB(t)

	if n, err := store.CountSnapshots(); err != nil || n != 0 {
		t.Fatalf("expected empty store, got %d (%v)", n, err)
	}

	for i := 0; i < 3; i++ {
		if _, err := store.SaveRecord("api", &market.Record{Title: "T"}); err != nil {
			t.Fatal(err)
		}
	}

	n, err := store.CountSnapshots()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 snapshots, got %d", n)
	}
}

func TestStore_LastCapturedAt(t *testing.T) {
	store := openTestDB(t)

	if _, ok := store.LastCapturedAt(); ok {
		t.Fatal("expected no timestamp for empty store")
	}

	if _, err := store.SaveRecord("api", &market.Record{Title: "T"}); err != nil {
		t.Fatal(err)
	}

	ts, ok := store.LastCapturedAt()
	if !ok {
		t.Fatal("expected a capture timestamp")
	}
	if ts.IsZero() {
		t.Error("expected nonzero timestamp")
	}
}
