package cache

import (
	"strings"
	"sync"
	"time"

	feedomain "github.com/billforge/billforge/internal/fee/domain"
)

const defaultActiveFeesTTL = 30 * time.Second

// FeeCatalogCache stores hot-path active-fee lookups keyed by client and date.
type FeeCatalogCache interface {
	GetActiveFees(clientReference, date string) ([]feedomain.Fee, bool)
	SetActiveFees(clientReference, date string, fees []feedomain.Fee)
	InvalidateClient(clientReference string)
}

type feeCatalogCache struct {
	fees Cache[string, []feedomain.Fee]
	ttl  time.Duration

	mu   sync.Mutex
	keys map[string][]string
}

// NewFeeCatalogCache returns an in-memory cache tuned for invoice generation.
func NewFeeCatalogCache() FeeCatalogCache {
	return &feeCatalogCache{
		fees: NewTTLCache[string, []feedomain.Fee](),
		ttl:  defaultActiveFeesTTL,
		keys: make(map[string][]string),
	}
}

func (c *feeCatalogCache) GetActiveFees(clientReference, date string) ([]feedomain.Fee, bool) {
	return c.fees.Get(cacheKey(clientReference, date))
}

func (c *feeCatalogCache) SetActiveFees(clientReference, date string, fees []feedomain.Fee) {
	key := cacheKey(clientReference, date)
	c.fees.Set(key, fees, c.ttl)

	c.mu.Lock()
	c.keys[clientReference] = append(c.keys[clientReference], key)
	c.mu.Unlock()
}

func (c *feeCatalogCache) InvalidateClient(clientReference string) {
	c.mu.Lock()
	keys := c.keys[clientReference]
	delete(c.keys, clientReference)
	c.mu.Unlock()

	for _, key := range keys {
		c.fees.Delete(key)
	}
}

func cacheKey(parts ...string) string {
	return strings.Join(parts, "|")
}
