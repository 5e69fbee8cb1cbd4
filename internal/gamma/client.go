package gamma

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to the Polymarket Gamma API (market discovery and metadata)
// and the CLOB API (token prices).
type Client struct {
	gamma *resty.Client
	clob  *resty.Client
}

// NewClient creates a client for the given Gamma and CLOB API roots,
// e.g. "https://gamma-api.polymarket.com" and "https://clob.polymarket.com".
func NewClient(gammaBaseURL, clobBaseURL string) *Client {
	newRC := func(base string) *resty.Client {
		rc := resty.New()
		rc.SetBaseURL(base)
		rc.SetTimeout(30 * time.Second)
		rc.SetHeader("accept", "application/json")
		return rc
	}
	return &Client{
		gamma: newRC(gammaBaseURL),
		clob:  newRC(clobBaseURL),
	}
}

func (c *Client) getJSON(ctx context.Context, rc *resty.Client, path string, params map[string]string, out any) error {
	resp, err := rc.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("unexpected status %s", resp.Status())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// MarketBySlug looks up a single market by its URL slug. Returns nil when the
// slug matches nothing.
func (c *Client) MarketBySlug(ctx context.Context, slug string) (*Market, error) {
	var markets []Market
	err := c.getJSON(ctx, c.gamma, "/markets", map[string]string{"slug": slug}, &markets)
	if err != nil {
		return nil, fmt.Errorf("gamma: get market by slug %s: %w", slug, err)
	}
	if len(markets) == 0 {
		return nil, nil
	}
	return &markets[0], nil
}

// MarketsForEvent returns all markets attached to an event slug.
func (c *Client) MarketsForEvent(ctx context.Context, eventSlug string) ([]Market, error) {
	var markets []Market
	err := c.getJSON(ctx, c.gamma, "/markets", map[string]string{"event_slug": eventSlug}, &markets)
	if err != nil {
		return nil, fmt.Errorf("gamma: get markets for event %s: %w", eventSlug, err)
	}
	return markets, nil
}

// EventBySlug looks up a single event by slug. Returns nil when not found.
func (c *Client) EventBySlug(ctx context.Context, slug string) (*Event, error) {
	var events []Event
	err := c.getJSON(ctx, c.gamma, "/events", map[string]string{"slug": slug}, &events)
	if err != nil {
		return nil, fmt.Errorf("gamma: get event by slug %s: %w", slug, err)
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

// ListActive returns up to limit open markets, newest first. Used by the
// explore command.
func (c *Client) ListActive(ctx context.Context, limit int) ([]Market, error) {
	var markets []Market
	err := c.getJSON(ctx, c.gamma, "/markets", map[string]string{
		"limit":  strconv.Itoa(limit),
		"active": "true",
		"closed": "false",
	}, &markets)
	if err != nil {
		return nil, fmt.Errorf("gamma: list active markets: %w", err)
	}
	return markets, nil
}

// ResolveMarket finds the market to monitor: the market slug when set, else
// the first market of the event slug. Returns nil when neither resolves.
func (c *Client) ResolveMarket(ctx context.Context, marketSlug, eventSlug string) (*Market, error) {
	if marketSlug != "" {
		m, err := c.MarketBySlug(ctx, marketSlug)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
		slog.Warn("no market found for slug, falling back to event", "slug", marketSlug)
	}

	if eventSlug == "" {
		return nil, nil
	}

	markets, err := c.MarketsForEvent(ctx, eventSlug)
	if err != nil {
		return nil, err
	}
	if len(markets) == 0 {
		return nil, nil
	}
	if len(markets) > 1 {
		slog.Info("event has multiple markets, using first", "event", eventSlug, "count", len(markets))
	}
	return &markets[0], nil
}

// TokenPrices returns outcome -> price for the market with the given
// condition id, scanning the CLOB market listing. An empty map means the
// market was not found or carries no priced tokens.
func (c *Client) TokenPrices(ctx context.Context, conditionID string) (map[string]float64, error) {
	cursor := ""
	for page := 0; page < 20; page++ {
		params := map[string]string{}
		if cursor != "" {
			params["next_cursor"] = cursor
		}

		var pg clobMarketsPage
		if err := c.getJSON(ctx, c.clob, "/markets", params, &pg); err != nil {
			return nil, fmt.Errorf("clob: list markets: %w", err)
		}

		for _, m := range pg.Data {
			if m.ConditionID != conditionID {
				continue
			}
			prices := make(map[string]float64, len(m.Tokens))
			for _, t := range m.Tokens {
				if t.Outcome == "" {
					continue
				}
				prices[t.Outcome] = t.Price
			}
			return prices, nil
		}

		if pg.NextCursor == "" || pg.NextCursor == "LTE=" {
			break
		}
		cursor = pg.NextCursor
	}

	slog.Warn("market not found in clob listing", "condition_id", conditionID)
	return map[string]float64{}, nil
}
