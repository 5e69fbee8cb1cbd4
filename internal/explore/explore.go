// Package explore implements the one-shot market discovery command, useful
// for finding a slug to monitor before configuring the agent.
package explore

import (
	"context"
	"fmt"

	"polywatch/internal/gamma"
)

// Runner lists currently active markets and their outcome tokens.
type Runner struct {
	client *gamma.Client
}

func NewRunner(client *gamma.Client) *Runner {
	return &Runner{client: client}
}

// Run prints up to limit active markets to stdout.
func (r *Runner) Run(ctx context.Context, limit int) error {
	markets, err := r.client.ListActive(ctx, limit)
	if err != nil {
		return fmt.Errorf("exploring markets: %w", err)
	}

	fmt.Printf("Found %d active markets\n\n", len(markets))
	for i, m := range markets {
		fmt.Printf("%d. %s\n", i+1, m.Question)
		fmt.Printf("   Slug: %s\n", firstNonEmpty(m.MarketSlug, m.Slug))
		fmt.Printf("   Category: %s\n", m.Category)
		fmt.Printf("   Active: %v, Closed: %v\n", bool(m.Active), bool(m.Closed))
		if len(m.Tokens) > 0 {
			fmt.Printf("   Outcomes (%d tokens):\n", len(m.Tokens))
			for _, t := range m.Tokens {
				fmt.Printf("     - %s (ID: %s)\n", t.Outcome, t.TokenID)
			}
		}
		fmt.Println()
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
