package cache

import (
	"context"
	"errors"
	"time"

	"coleccion-arte/internal/logger"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to addr and pings it with a short timeout. It
// returns nil when the server is unreachable so callers can fall back.
func NewRedisClient(addr, password string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis at %s unreachable (%v), using in-memory cache", addr, err)
		_ = client.Close()
		return nil
	}
	logger.Info("Redis cache connected at %s", addr)
	return client
}

type RedisCache struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn("cache get %s: %v", key, err)
		}
		return nil, false
	}
	return data, true
}

func (r *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Warn("cache set %s: %v", key, err)
	}
}

func (r *RedisCache) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		logger.Warn("cache delete %s: %v", key, err)
	}
}
