package market

import (
	"strconv"
	"time"
)

// APIMarket is the provider payload handed to the normalizer by the REST
// client: the subset of a Gamma market the sinks care about, already decoded.
type APIMarket struct {
	Question    string
	Slug        string
	ConditionID string
	Category    string
	EndDateISO  string
	Active      bool
	Closed      bool
	Outcomes    []string
}

// NormalizeAPI maps an API market payload into the canonical flat row.
// It never fails: a nil market or any missing field is substituted with a
// documented default. Per-outcome price keys are named "{outcome}_price" and
// carry the CLOB price when one resolved, else the literal "N/A".
func NormalizeAPI(m *APIMarket, prices map[string]float64, now time.Time) *Row {
	row := NewRow()
	row.Set("timestamp", now.UTC().Format(time.RFC3339))

	if m == nil {
		m = &APIMarket{}
	}

	row.Set("market_title", orDefault(m.Question, DefaultTitle))
	row.Set("market_slug", orDefault(m.Slug, StatusUnknown))
	row.Set("condition_id", orDefault(m.ConditionID, StatusUnknown))
	row.Set("category", orDefault(m.Category, StatusUnknown))
	row.Set("end_date", orDefault(m.EndDateISO, StatusUnknown))
	row.Set("active", strconv.FormatBool(m.Active))
	row.Set("closed", strconv.FormatBool(m.Closed))

	// Without a condition id there is no price source, so no price columns
	// are emitted at all rather than a row of "N/A" cells.
	if m.ConditionID == "" {
		return row
	}

	for _, outcome := range m.Outcomes {
		if outcome == "" {
			outcome = StatusUnknown
		}
		key := outcome + "_price"
		if p, ok := prices[outcome]; ok {
			row.Set(key, formatPrice(p))
		} else {
			row.Set(key, NotAvailable)
		}
	}

	return row
}

// FlattenRecord maps a scraped record into the canonical flat row, so the
// tabular sink can be used in scrape mode too. Outcome prices across all
// sub-markets are flattened to "{outcome}_price" columns; a later sub-market
// re-using an outcome name overwrites the earlier value in place.
func FlattenRecord(rec *Record) *Row {
	row := NewRow()
	if rec == nil {
		rec = &Record{}
	}

	ts := rec.Timestamp
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339)
	}
	row.Set("timestamp", ts)
	row.Set("title", orDefault(rec.Title, DefaultTitle))
	row.Set("url", orDefault(rec.URL, StatusUnknown))
	row.Set("status", orDefault(rec.Status, StatusUnknown))
	row.Set("end_date", orDefault(rec.EndDate, StatusUnknown))
	row.Set("volume", orDefault(rec.Volume, StatusUnknown))
	row.Set("liquidity", orDefault(rec.Liquidity, StatusUnknown))
	row.Set("description", orDefault(rec.Description, DefaultDescription))

	for _, sm := range rec.Markets {
		for _, o := range sm.Outcomes {
			name := o.Name
			if name == "" {
				name = StatusUnknown
			}
			key := name + "_price"
			if o.Price != nil {
				row.Set(key, formatPrice(*o.Price))
			} else {
				row.Set(key, NotAvailable)
			}
		}
	}

	return row
}

// RecordFromAPI builds a canonical record from an API payload so the
// markdown sink can be used in api mode. CLOB prices are probabilities, so
// they land on the <=1 side of the price-display convention.
func RecordFromAPI(m *APIMarket, prices map[string]float64, pageURL string, now time.Time) *Record {
	if m == nil {
		m = &APIMarket{}
	}

	status := StatusUnknown
	if m.Closed {
		status = StatusClosed
	} else if m.Active {
		status = StatusActive
	}

	rec := &Record{
		Timestamp:   now.UTC().Format(time.RFC3339),
		Title:       orDefault(m.Question, DefaultTitle),
		URL:         pageURL,
		Description: describeCategory(m.Category),
		Status:      status,
		Volume:      StatusUnknown,
		Liquidity:   StatusUnknown,
		EndDate:     orDefault(m.EndDateISO, StatusUnknown),
	}

	if len(m.Outcomes) > 0 {
		sm := SubMarket{Question: rec.Title}
		for _, name := range m.Outcomes {
			o := Outcome{Name: orDefault(name, StatusUnknown)}
			if p, ok := prices[name]; ok {
				price := p
				o.Price = &price
			}
			sm.Outcomes = append(sm.Outcomes, o)
		}
		rec.Markets = []SubMarket{sm}
	}

	return rec
}

func describeCategory(category string) string {
	if category == "" {
		return DefaultDescription
	}
	return "Category: " + category
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'g', -1, 64)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
