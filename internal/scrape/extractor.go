package scrape

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"polywatch/internal/market"
)

// textStrategy is one attempt at pulling a text field out of the document:
// a CSS selector, optionally an attribute to read instead of the node text,
// and a minimum length below which the result is rejected.
type textStrategy struct {
	selector string
	attr     string
	minLen   int
}

// Strategies are tried in order; the first result passing the length check
// wins. All of them failing falls back to a fixed default, never an error —
// a partial record always beats no record.
var (
	titleStrategies = []textStrategy{
		{selector: "h1", minLen: 6},
		{selector: `[data-testid="event-title"]`, minLen: 6},
		{selector: ".event-title", minLen: 6},
		// The page title is the last resort and is taken however short it is.
		{selector: "title", minLen: 1},
	}

	descriptionStrategies = []textStrategy{
		{selector: `[data-testid="event-description"]`, minLen: 11},
		{selector: ".event-description", minLen: 11},
		{selector: ".description", minLen: 11},
		{selector: `meta[name="description"]`, attr: "content", minLen: 1},
	}

	marketContainerSelectors = []string{
		`[data-testid*="market"]`,
		".market-card",
		".market-item",
		".outcome-card",
	}

	questionSelectors = []string{"h2", "h3", ".question", ".market-title"}

	outcomeSelectors = []string{
		".outcome-button",
		".bet-button",
		`[data-testid*="outcome"]`,
		".price-button",
	}

	volumePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Volume[:\s]*\$?([\d,]+(?:\.\d+)?[KMB]?)`),
		regexp.MustCompile(`(?i)Total volume[:\s]*\$?([\d,]+(?:\.\d+)?[KMB]?)`),
		regexp.MustCompile(`(?i)\$?([\d,]+(?:\.\d+)?[KMB]?)\s*volume`),
	}

	liquidityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Liquidity[:\s]*\$?([\d,]+(?:\.\d+)?[KMB]?)`),
		regexp.MustCompile(`(?i)Total liquidity[:\s]*\$?([\d,]+(?:\.\d+)?[KMB]?)`),
		regexp.MustCompile(`(?i)\$?([\d,]+(?:\.\d+)?[KMB]?)\s*liquidity`),
	}

	endDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Ends[:\s]*([\w\s,]+\d{4})`),
		regexp.MustCompile(`(?i)Closes[:\s]*([\w\s,]+\d{4})`),
		regexp.MustCompile(`(?i)End date[:\s]*([\w\s,]+\d{4})`),
	}

	// Loose price shapes that mark a text node as interesting to the generic
	// fallback scan.
	fallbackPriceRe = regexp.MustCompile(`\d+[¢%]|\d+\.\d+`)
)

// maxFallbackOutcomes bounds the generic price scan on pathological pages.
const maxFallbackOutcomes = 10

// Extractor turns a fetched market page into a Record using ordered
// heuristic chains per field.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract builds a record from the document. Individual field misses fall
// back to defaults; Extract itself never fails once a document exists.
func (e *Extractor) Extract(doc *goquery.Document, pageURL string) *market.Record {
	pageText := doc.Text()

	return &market.Record{
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		URL:         pageURL,
		Title:       firstText(doc, titleStrategies, market.DefaultTitle),
		Description: firstText(doc, descriptionStrategies, market.DefaultDescription),
		Markets:     e.extractMarkets(doc),
		Volume:      scanDollarPatterns(pageText, volumePatterns, market.DefaultVolume),
		Liquidity:   scanDollarPatterns(pageText, liquidityPatterns, market.DefaultLiquidity),
		EndDate:     scanPatterns(pageText, endDatePatterns, market.DefaultEndDate),
		Status:      extractStatus(pageText),
	}
}

// firstText runs a strategy chain and returns the first acceptable result.
func firstText(doc *goquery.Document, strategies []textStrategy, def string) string {
	for _, s := range strategies {
		sel := doc.Find(s.selector).First()
		if sel.Length() == 0 {
			continue
		}
		var text string
		if s.attr != "" {
			text = strings.TrimSpace(sel.AttrOr(s.attr, ""))
		} else {
			text = strings.TrimSpace(sel.Text())
		}
		if len(text) >= s.minLen {
			return text
		}
	}
	return def
}

// extractMarkets scans container selectors in priority order; the first
// selector yielding at least one match is taken. When no structured
// container matches, the generic price-pattern scan runs instead.
func (e *Extractor) extractMarkets(doc *goquery.Document) []market.SubMarket {
	var markets []market.SubMarket

	for _, selector := range marketContainerSelectors {
		elements := doc.Find(selector)
		if elements.Length() == 0 {
			continue
		}
		elements.Each(func(_ int, el *goquery.Selection) {
			if sm := parseMarketElement(el); sm != nil {
				markets = append(markets, *sm)
			}
		})
		break
	}

	if len(markets) == 0 {
		markets = priceScanFallback(doc)
	}
	return markets
}

// parseMarketElement reads a sub-question and its outcome controls out of one
// market container. Containers without any parseable outcome are dropped.
func parseMarketElement(el *goquery.Selection) *market.SubMarket {
	sm := &market.SubMarket{}

	for _, selector := range questionSelectors {
		q := el.Find(selector).First()
		if q.Length() > 0 {
			sm.Question = strings.TrimSpace(q.Text())
			break
		}
	}

	for _, selector := range outcomeSelectors {
		controls := el.Find(selector)
		if controls.Length() == 0 {
			continue
		}
		controls.Each(func(_ int, c *goquery.Selection) {
			if o := ParseOutcome(strings.TrimSpace(c.Text())); o != nil {
				sm.Outcomes = append(sm.Outcomes, *o)
			}
		})
		break
	}

	if len(sm.Outcomes) == 0 {
		return nil
	}
	return sm
}

// priceScanFallback walks all text nodes for currency/percentage shapes and
// treats each match's immediate container as a synthetic outcome, grouped
// under a single "Market Prices" entry.
func priceScanFallback(doc *goquery.Document) []market.SubMarket {
	sm := market.SubMarket{Question: "Market Prices"}

	considered := 0
	for _, root := range doc.Nodes {
		walkTextNodes(root, func(n *html.Node) bool {
			if considered >= maxFallbackOutcomes {
				return false
			}
			if !fallbackPriceRe.MatchString(n.Data) {
				return true
			}
			considered++
			parent := n.Parent
			if parent == nil {
				return true
			}
			text := strings.TrimSpace(goquery.NewDocumentFromNode(parent).Text())
			if o := ParseOutcome(text); o != nil {
				sm.Outcomes = append(sm.Outcomes, *o)
			}
			return true
		})
	}

	if len(sm.Outcomes) == 0 {
		return nil
	}
	return []market.SubMarket{sm}
}

// walkTextNodes visits every text node under n; the visitor returns false to
// stop the walk.
func walkTextNodes(n *html.Node, visit func(*html.Node) bool) bool {
	if n.Type == html.TextNode {
		return visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walkTextNodes(c, visit) {
			return false
		}
	}
	return true
}

// scanDollarPatterns returns the first pattern capture prefixed with "$".
func scanDollarPatterns(text string, patterns []*regexp.Regexp, def string) string {
	if m, ok := firstCapture(text, patterns); ok {
		return "$" + m
	}
	return def
}

func scanPatterns(text string, patterns []*regexp.Regexp, def string) string {
	if m, ok := firstCapture(text, patterns); ok {
		return m
	}
	return def
}

func firstCapture(text string, patterns []*regexp.Regexp) (string, bool) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// extractStatus scans the page text for state keywords. Closed-state words
// are checked before active-state words; first match wins.
func extractStatus(pageText string) string {
	lower := strings.ToLower(pageText)
	switch {
	case strings.Contains(lower, "closed") || strings.Contains(lower, "ended"):
		return market.StatusClosed
	case strings.Contains(lower, "active") || strings.Contains(lower, "live"):
		return market.StatusActive
	default:
		return market.StatusUnknown
	}
}
