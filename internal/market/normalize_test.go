package market

import (
	"testing"
	"time"
)

func TestNormalizeAPI_FullPayload(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m := &APIMarket{
		Question:    "Will X happen?",
		Slug:        "will-x-happen",
		ConditionID: "0xabc",
		Category:    "Politics",
		EndDateISO:  "2025-12-31T00:00:00Z",
		Active:      true,
		Closed:      false,
		Outcomes:    []string{"Yes", "No"},
	}
	prices := map[string]float64{"Yes": 0.65, "No": 0.35}

	row := NormalizeAPI(m, prices, now)

	wantKeys := []string{
		"timestamp", "market_title", "market_slug", "condition_id",
		"category", "end_date", "active", "closed", "Yes_price", "No_price",
	}
	keys := row.Keys()
	if len(keys) != len(wantKeys) {
		t.Fatalf("expected %d keys, got %d: %v", len(wantKeys), len(keys), keys)
	}
	for i, k := range wantKeys {
		if keys[i] != k {
			t.Errorf("key %d: expected %q, got %q", i, k, keys[i])
		}
	}

	if v, _ := row.Get("market_title"); v != "Will X happen?" {
		t.Errorf("unexpected market_title %q", v)
	}
	if v, _ := row.Get("active"); v != "true" {
		t.Errorf("unexpected active %q", v)
	}
	if v, _ := row.Get("Yes_price"); v != "0.65" {
		t.Errorf("unexpected Yes_price %q", v)
	}
	if v, _ := row.Get("timestamp"); v != "2025-06-01T12:00:00Z" {
		t.Errorf("unexpected timestamp %q", v)
	}
}

func TestNormalizeAPI_MissingConditionID(t *testing.T) {
	// Outcome tokens without a condition id have no price source, so the row
	// carries no price columns at all.
	m := &APIMarket{Question: "Will X happen?", Outcomes: []string{"Yes", "No"}}
	row := NormalizeAPI(m, nil, time.Now())

	if v, _ := row.Get("condition_id"); v != "Unknown" {
		t.Errorf("expected condition_id Unknown, got %q", v)
	}
	for _, k := range row.Keys() {
		if len(k) > 6 && k[len(k)-6:] == "_price" {
			t.Errorf("expected no price keys, found %q", k)
		}
	}
}

func TestNormalizeAPI_UnresolvedPriceIsNA(t *testing.T) {
	m := &APIMarket{Question: "Q long enough", ConditionID: "0xabc", Outcomes: []string{"Yes", "No"}}
	row := NormalizeAPI(m, map[string]float64{"Yes": 0.5}, time.Now())

	if v, _ := row.Get("Yes_price"); v != "0.5" {
		t.Errorf("unexpected Yes_price %q", v)
	}
	if v, _ := row.Get("No_price"); v != NotAvailable {
		t.Errorf("expected N/A for No_price, got %q", v)
	}
}

func TestNormalizeAPI_NilMarket(t *testing.T) {
	row := NormalizeAPI(nil, nil, time.Now())

	if v, _ := row.Get("market_title"); v != DefaultTitle {
		t.Errorf("expected default title, got %q", v)
	}
	if v, _ := row.Get("active"); v != "false" {
		t.Errorf("expected active false, got %q", v)
	}
	if v, _ := row.Get("closed"); v != "false" {
		t.Errorf("expected closed false, got %q", v)
	}
}

func TestFlattenRecord(t *testing.T) {
	p := 0.65
	rec := &Record{
		Timestamp: "2025-06-01T12:00:00Z",
		Title:     "Will X happen?",
		URL:       "https://example.com",
		Status:    StatusActive,
		Volume:    "$1,234",
		Liquidity: "$567",
		EndDate:   "December 31, 2025",
		Markets: []SubMarket{{
			Question: "Will X happen?",
			Outcomes: []Outcome{
				{Name: "Yes", Price: &p},
				{Name: "Unsure"},
			},
		}},
	}

	row := FlattenRecord(rec)

	if v, _ := row.Get("title"); v != "Will X happen?" {
		t.Errorf("unexpected title %q", v)
	}
	if v, _ := row.Get("description"); v != DefaultDescription {
		t.Errorf("expected default description, got %q", v)
	}
	if v, _ := row.Get("Yes_price"); v != "0.65" {
		t.Errorf("unexpected Yes_price %q", v)
	}
	if v, _ := row.Get("Unsure_price"); v != NotAvailable {
		t.Errorf("expected N/A price, got %q", v)
	}
}

func TestRecordFromAPI_Status(t *testing.T) {
	closed := RecordFromAPI(&APIMarket{Closed: true, Active: true}, nil, "u", time.Now())
	if closed.Status != StatusClosed {
		t.Errorf("expected Closed, got %q", closed.Status)
	}

	active := RecordFromAPI(&APIMarket{Active: true}, nil, "u", time.Now())
	if active.Status != StatusActive {
		t.Errorf("expected Active, got %q", active.Status)
	}

	unknown := RecordFromAPI(&APIMarket{}, nil, "u", time.Now())
	if unknown.Status != StatusUnknown {
		t.Errorf("expected Unknown, got %q", unknown.Status)
	}
}

func TestRecordFromAPI_Outcomes(t *testing.T) {
	m := &APIMarket{
		Question: "Will X happen?",
		Outcomes: []string{"Yes", "No"},
	}
	rec := RecordFromAPI(m, map[string]float64{"Yes": 0.7}, "u", time.Now())

	if len(rec.Markets) != 1 {
		t.Fatalf("expected 1 sub-market, got %d", len(rec.Markets))
	}
	outcomes := rec.Markets[0].Outcomes
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Price == nil || *outcomes[0].Price != 0.7 {
		t.Errorf("unexpected Yes outcome %+v", outcomes[0])
	}
	if outcomes[1].Price != nil {
		t.Errorf("expected nil price for No, got %v", *outcomes[1].Price)
	}
}

func TestRow_InsertionOrderStable(t *testing.T) {
	row := NewRow()
	row.Set("a", "1")
	row.Set("b", "2")
	row.Set("a", "3") // replace keeps position

	keys := row.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("unexpected key order %v", keys)
	}
	values := row.Values()
	if values[0] != "3" || values[1] != "2" {
		t.Errorf("unexpected values %v", values)
	}
}
