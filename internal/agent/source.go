package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"polywatch/internal/gamma"
	"polywatch/internal/market"
	"polywatch/internal/scrape"
)

// Source produces one snapshot per update cycle. Fetch errors are soft: the
// agent logs them and skips the cycle.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*market.Snapshot, error)
}

// resolveTTL bounds how long a resolved market identity is reused before the
// slug is resolved again. Prices are fetched fresh every cycle regardless.
const resolveTTL = 30 * time.Minute

// APISource reads the monitored market through the Gamma and CLOB REST APIs.
type APISource struct {
	client     *gamma.Client
	cache      *gamma.Cache
	marketSlug string
	eventSlug  string
}

func NewAPISource(client *gamma.Client, marketSlug, eventSlug string) *APISource {
	return &APISource{
		client:     client,
		cache:      gamma.NewCache(resolveTTL),
		marketSlug: marketSlug,
		eventSlug:  eventSlug,
	}
}

func (s *APISource) Name() string { return "api" }

func (s *APISource) Fetch(ctx context.Context) (*market.Snapshot, error) {
	m, err := s.resolve(ctx)
	if err != nil {
		return nil, err
	}

	am := m.ToAPIMarket(firstNonEmpty(s.marketSlug, s.eventSlug))

	// Prices are best effort; the normalized row falls back to "N/A" cells.
	prices := map[string]float64{}
	if m.ConditionID != "" {
		prices, err = s.client.TokenPrices(ctx, m.ConditionID)
		if err != nil {
			slog.Warn("failed to fetch clob prices", "condition_id", m.ConditionID, "error", err)
			prices = map[string]float64{}
		}
	}

	now := time.Now()
	pageURL := "https://polymarket.com/market/" + am.Slug
	return &market.Snapshot{
		Record: market.RecordFromAPI(am, prices, pageURL, now),
		Row:    market.NormalizeAPI(am, prices, now),
	}, nil
}

func (s *APISource) resolve(ctx context.Context) (*gamma.Market, error) {
	key := firstNonEmpty(s.marketSlug, s.eventSlug)
	if m, ok := s.cache.Get(key); ok {
		return m, nil
	}

	m, err := s.client.ResolveMarket(ctx, s.marketSlug, s.eventSlug)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("no market found for slug %q / event %q", s.marketSlug, s.eventSlug)
	}

	s.cache.Set(key, m)
	return m, nil
}

// ScrapeSource extracts the monitored market from its web page.
type ScrapeSource struct {
	client    *scrape.Client
	extractor *scrape.Extractor
	pageURL   string
}

func NewScrapeSource(client *scrape.Client, extractor *scrape.Extractor, pageURL string) *ScrapeSource {
	return &ScrapeSource{client: client, extractor: extractor, pageURL: pageURL}
}

func (s *ScrapeSource) Name() string { return "scrape" }

func (s *ScrapeSource) Fetch(ctx context.Context) (*market.Snapshot, error) {
	doc, err := s.client.Fetch(ctx, s.pageURL)
	if err != nil {
		return nil, err
	}

	rec := s.extractor.Extract(doc, s.pageURL)
	return &market.Snapshot{
		Record: rec,
		Row:    market.FlattenRecord(rec),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
