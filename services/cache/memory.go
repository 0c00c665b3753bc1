package cachesvc

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/Shakso89/pokeayman-16-sub001/core"
)

type item struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is the in-process cache used when no redis address is configured.
// Values are stored encoded so callers never share memory with the cache.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]item
	now   func() time.Time
}

var _ core.Cache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]item), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(it.expiresAt) {
		return false, nil
	}
	if err := json.Unmarshal(it.data, dest); err != nil {
		return false, errors.Wrap(err, "decoding cached value")
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "encoding cached value")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{data: data, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}
