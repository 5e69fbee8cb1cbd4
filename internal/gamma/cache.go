package gamma

import (
	"sync"
	"time"
)

// Cache provides a TTL-based in-memory cache for resolved markets, keyed by
// the requested slug. Prices are never cached, only the market identity.
type Cache struct {
	mu      sync.RWMutex
	markets map[string]cacheEntry
	ttl     time.Duration
}

type cacheEntry struct {
	market    *Market
	fetchedAt time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		markets: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func (c *Cache) Get(slug string) (*Market, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.markets[slug]
	if !ok || time.Since(entry.fetchedAt) > c.ttl {
		return nil, false
	}
	return entry.market, true
}

func (c *Cache) Set(slug string, m *Market) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.markets[slug] = cacheEntry{
		market:    m,
		fetchedAt: time.Now(),
	}
}
