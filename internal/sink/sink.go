// Package sink holds the persistence adapters a cycle's snapshot can be
// written to. Adapters are independent; the agent fans a snapshot out to
// every enabled sink and treats each failure separately.
package sink

import (
	"context"

	"polywatch/internal/market"
)

// Sink persists one snapshot per update cycle.
type Sink interface {
	Name() string
	Write(ctx context.Context, snap *market.Snapshot) error
}
