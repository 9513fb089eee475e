package cache

import (
	"context"
	"sync"
	"time"
)

type item struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is a mutex-guarded map. Expired items are dropped on read.
type MemoryCache struct {
	sync.RWMutex
	items map[string]item
	now   func() time.Time
}

func NewMemory() *MemoryCache {
	return &MemoryCache{items: make(map[string]item), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.RLock()
	it, ok := c.items[key]
	c.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(it.expiresAt) {
		c.Lock()
		delete(c.items, key)
		c.Unlock()
		return nil, false
	}
	return it.data, true
}

func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.Lock()
	defer c.Unlock()
	c.items[key] = item{data: data, expiresAt: c.now().Add(ttl)}
}

func (c *MemoryCache) Delete(_ context.Context, key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.items, key)
}
