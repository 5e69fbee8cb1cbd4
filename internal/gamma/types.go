package gamma

import (
	"encoding/json"
	"strings"

	"polywatch/internal/market"
)

// flexBool unmarshals from JSON bool or string ("true"/"false") so Gamma API
// responses work whether "active" is sent as bool or string.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// Market is a market as returned by the Gamma API.
type Market struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Slug        string   `json:"slug"`
	MarketSlug  string   `json:"market_slug"`
	ConditionID string   `json:"condition_id"`
	Category    string   `json:"category"`
	EndDateISO  string   `json:"end_date_iso"`
	Active      flexBool `json:"active"`
	Closed      flexBool `json:"closed"`
	Tokens      []Token  `json:"tokens"`
}

// Token is one outcome token attached to a Gamma or CLOB market.
type Token struct {
	TokenID string  `json:"token_id"`
	Outcome string  `json:"outcome"`
	Price   float64 `json:"price"`
	Winner  bool    `json:"winner"`
}

// Event groups one or more related markets.
type Event struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Markets     []Market `json:"markets"`
}

// clobMarketsPage is one page of the CLOB /markets listing.
type clobMarketsPage struct {
	Data       []clobMarket `json:"data"`
	NextCursor string       `json:"next_cursor"`
}

type clobMarket struct {
	ConditionID string  `json:"condition_id"`
	Tokens      []Token `json:"tokens"`
}

// slugOrFallback prefers the explicit market_slug field, which older Gamma
// responses populate instead of slug.
func (m *Market) slugOrFallback(fallback string) string {
	if m.MarketSlug != "" {
		return m.MarketSlug
	}
	if m.Slug != "" {
		return m.Slug
	}
	return fallback
}

// ToAPIMarket converts the DTO into the normalizer's provider payload.
func (m *Market) ToAPIMarket(requestedSlug string) *market.APIMarket {
	outcomes := make([]string, 0, len(m.Tokens))
	for _, t := range m.Tokens {
		outcomes = append(outcomes, t.Outcome)
	}
	return &market.APIMarket{
		Question:    m.Question,
		Slug:        m.slugOrFallback(requestedSlug),
		ConditionID: m.ConditionID,
		Category:    m.Category,
		EndDateISO:  m.EndDateISO,
		Active:      bool(m.Active),
		Closed:      bool(m.Closed),
		Outcomes:    outcomes,
	}
}
