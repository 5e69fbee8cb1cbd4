package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"polywatch/internal/market"
)

var (
	percentRe = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
	numberRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)[¢%]?`)

	percentStripRe = regexp.MustCompile(`\d+(?:\.\d+)?%`)
	numberStripRe  = regexp.MustCompile(`\d+(?:\.\d+)?[¢%]?`)
)

// ParseOutcome extracts an outcome name and price from a text fragment such
// as "Yes 65%" or "No 35¢". Returns nil when the fragment has no usable name.
//
// The numeric interpretation is deliberately multi-branch and order
// sensitive:
//  1. "N%" is a probability: price = N/100, percentage substring removed
//     from the name.
//  2. Otherwise the first number is taken. A "¢" anywhere in the fragment
//     marks it as cents (divide by 100). Failing that, a value above 100 is
//     assumed to be cents as well, since no market trades above 100 on a
//     0-100 scale. Values at or below 100 are kept verbatim.
//  3. No number at all: the whole fragment is the name, price is nil.
//
// The name keeps whatever spacing remains after the numeric substring is
// removed; only fully-blank names reject the fragment.
func ParseOutcome(text string) *market.Outcome {
	if pm := percentRe.FindStringSubmatch(text); pm != nil {
		val, err := strconv.ParseFloat(pm[1], 64)
		if err == nil {
			name := percentStripRe.ReplaceAllString(text, "")
			if strings.TrimSpace(name) == "" {
				return nil
			}
			price := val / 100
			return &market.Outcome{Name: name, Price: &price}
		}
	}

	if nm := numberRe.FindStringSubmatch(text); nm != nil {
		val, err := strconv.ParseFloat(nm[1], 64)
		if err == nil {
			if strings.Contains(text, "¢") {
				val = val / 100
			} else if val > 100 {
				val = val / 100
			}
			name := numberStripRe.ReplaceAllString(text, "")
			if strings.TrimSpace(name) == "" {
				return nil
			}
			return &market.Outcome{Name: name, Price: &val}
		}
	}

	if strings.TrimSpace(text) == "" {
		return nil
	}
	return &market.Outcome{Name: text}
}
