// Package cache holds short-lived derived data such as dashboard counters.
// Redis is used when configured and reachable; otherwise an in-process map.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// New returns a Redis-backed cache when addr points at a live server and the
// in-memory cache otherwise.
func New(addr, password string) Cache {
	if addr != "" {
		if client := NewRedisClient(addr, password); client != nil {
			return NewRedis(client)
		}
	}
	return NewMemory()
}
