package mdlog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"polywatch/internal/market"
)

// EntryMarker prefixes every entry heading; merge and truncation key off it.
const EntryMarker = "## 📊 Market Update"

const displayTimeLayout = "2006-01-02 15:04:05 UTC"

// FormatEntry renders one record as a markdown entry block. A panic while
// rendering degrades to an inline error stub so the write cycle is never
// lost.
func FormatEntry(rec *market.Record) (entry string) {
	defer func() {
		if r := recover(); r != nil {
			entry = errorEntry(fmt.Errorf("%v", r))
		}
	}()
	return formatEntry(rec)
}

func formatEntry(rec *market.Record) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(EntryMarker + " - " + displayTime(rec.Timestamp) + "\n\n")

	b.WriteString("### 🎯 Market Information\n")
	fmt.Fprintf(&b, "- **Title:** %s\n", rec.Title)
	fmt.Fprintf(&b, "- **URL:** [%s](%s)\n", rec.URL, rec.URL)
	fmt.Fprintf(&b, "- **Status:** %s\n", rec.Status)
	fmt.Fprintf(&b, "- **End Date:** %s\n", rec.EndDate)
	fmt.Fprintf(&b, "- **Volume:** %s\n", rec.Volume)
	fmt.Fprintf(&b, "- **Liquidity:** %s\n", rec.Liquidity)
	b.WriteString("\n### 📝 Description\n")
	b.WriteString(rec.Description + "\n\n")

	if len(rec.Markets) > 0 {
		b.WriteString("### 💰 Market Prices\n\n")
		for i, sm := range rec.Markets {
			question := sm.Question
			if question == "" {
				question = fmt.Sprintf("Market %d", i+1)
			}
			fmt.Fprintf(&b, "#### %s\n\n", question)

			if len(sm.Outcomes) == 0 {
				b.WriteString("*No price data available*\n\n")
				continue
			}

			b.WriteString("| Outcome | Price | Probability |\n")
			b.WriteString("|---------|-------|-------------|\n")
			for _, o := range sm.Outcomes {
				price, prob := displayPrice(o.Price)
				fmt.Fprintf(&b, "| %s | %s | %s |\n", o.Name, price, prob)
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString("### ⚠️ No Market Data Found\n\n")
		b.WriteString("Could not extract market prices from the webpage.\n\n")
	}

	b.WriteString("---\n\n")
	return b.String()
}

// displayPrice renders an outcome price. Values at or below 1 are treated as
// probabilities, values above 1 as cents; the same split the extractor's
// heuristics produce.
func displayPrice(p *float64) (price, probability string) {
	if p == nil {
		return market.NotAvailable, market.NotAvailable
	}
	v := *p
	if v <= 1 {
		return fmt.Sprintf("$%.2f", v), fmt.Sprintf("%.1f%%", v*100)
	}
	return strconv.FormatFloat(v, 'g', -1, 64) + "¢", fmt.Sprintf("%.1f%%", v)
}

func displayTime(timestamp string) string {
	ts, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return timestamp
	}
	return ts.UTC().Format(displayTimeLayout)
}

func errorEntry(err error) string {
	return fmt.Sprintf("\n## Error - %s\nFailed to format market data: %v\n\n---\n\n",
		time.Now().UTC().Format(time.RFC3339), err)
}
