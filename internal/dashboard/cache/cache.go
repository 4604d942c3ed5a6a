// Package cache stores computed dashboards in Redis. Entries are keyed by a
// generation counter so one INCR invalidates every cached dashboard at once.
package cache

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"pipeline_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

const generationKey = "dashboard:gen"

// Cache is what the dashboard service needs from a cache.
type Cache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, generation int64, key string) ([]byte, bool, error)
	Set(ctx context.Context, generation int64, key string, value []byte) error
	Bump(ctx context.Context) error
}

// RedisCache is the go-redis implementation of Cache.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// New wraps an existing client.
func New(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Connect opens a client from REDIS_URL and checks it answers.
func Connect(ctx context.Context, cfg config.DashboardConfig) (*RedisCache, error) {
	if cfg.GetRedisURL() == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{}
		}
		opt.TLSConfig.InsecureSkipVerify = true
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return New(client, cfg.GetDashboardCacheTTL()), nil
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Generation returns the current counter; a missing counter is generation 0.
func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read dashboard generation: %w", err)
	}
	return gen, nil
}

func (c *RedisCache) Get(ctx context.Context, generation int64, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, entryKey(generation, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read dashboard cache: %w", err)
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, generation int64, key string, value []byte) error {
	if err := c.client.Set(ctx, entryKey(generation, key), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("write dashboard cache: %w", err)
	}
	return nil
}

// Bump moves every reader to a fresh generation. Old entries expire by TTL.
func (c *RedisCache) Bump(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("bump dashboard generation: %w", err)
	}
	return nil
}

func entryKey(generation int64, key string) string {
	return fmt.Sprintf("dashboard:v%d:%s", generation, key)
}

var _ Cache = (*RedisCache)(nil)
