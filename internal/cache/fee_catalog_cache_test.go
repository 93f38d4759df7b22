package cache

import (
	"testing"
	"time"

	feedomain "github.com/billforge/billforge/internal/fee/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[string, int]()

	c.Set("a", 1, time.Minute)
	value, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, value)

	c.Set("b", 2, -time.Second)
	_, ok = c.Get("b")
	assert.False(t, ok)

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestFeeCatalogCache(t *testing.T) {
	c := NewFeeCatalogCache()

	fees := []feedomain.Fee{{Type: "TRANSACTION_PROCESSING"}}
	c.SetActiveFees("acme-corp", "2025-06-01", fees)
	c.SetActiveFees("acme-corp", "2025-06-02", fees)
	c.SetActiveFees("globex", "2025-06-01", fees)

	got, ok := c.GetActiveFees("acme-corp", "2025-06-01")
	require.True(t, ok)
	assert.Len(t, got, 1)

	_, ok = c.GetActiveFees("acme-corp", "2025-07-01")
	assert.False(t, ok)

	c.InvalidateClient("acme-corp")
	_, ok = c.GetActiveFees("acme-corp", "2025-06-01")
	assert.False(t, ok)
	_, ok = c.GetActiveFees("acme-corp", "2025-06-02")
	assert.False(t, ok)

	_, ok = c.GetActiveFees("globex", "2025-06-01")
	assert.True(t, ok)
}
