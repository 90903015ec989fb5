// Package cache stores computed metrics and request counters in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cachePrefix     = "teampulse:cache:"
	rateLimitPrefix = "teampulse:rl:"
)

// Cache is a byte cache with a fixed-window request counter.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores val for ttl. Failures are logged, not returned.
	Set(ctx context.Context, key string, val []byte, ttl time.Duration)
	// Del removes keys.
	Del(ctx context.Context, keys ...string)
	// Allow counts a request by subject and reports whether it is within
	// limit for the current window.
	Allow(ctx context.Context, subject string, limit int, window time.Duration) (bool, error)
	// Ping checks connectivity.
	Ping(ctx context.Context) error
	// Close releases the connection.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewRedis connects to redisURL and verifies the connection.
func NewRedis(ctx context.Context, redisURL string, logger *zap.SugaredLogger) (Cache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}
	c := &redisCache{rdb: redis.NewClient(opts), logger: logger, now: time.Now}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		_ = c.rdb.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	logger.Infow("redis connected", "addr", opts.Addr, "db", opts.DB)
	return c, nil
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.rdb.Get(ctx, cachePrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnw("cache get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) {
	if err := c.rdb.Set(ctx, cachePrefix+key, val, ttl).Err(); err != nil {
		c.logger.Warnw("cache set failed", "key", key, "error", err)
	}
}

func (c *redisCache) Del(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = cachePrefix + k
	}
	if err := c.rdb.Del(ctx, full...).Err(); err != nil {
		c.logger.Warnw("cache delete failed", "keys", keys, "error", err)
	}
}

func (c *redisCache) Allow(ctx context.Context, subject string, limit int, window time.Duration) (bool, error) {
	key := windowKey(subject, c.now(), window)

	pipe := c.rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window*2)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("rate limit counter: %w", err)
	}
	return incr.Val() <= int64(limit), nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *redisCache) Close() error {
	return c.rdb.Close()
}

// windowKey names the counter of subject for the fixed window containing now.
func windowKey(subject string, now time.Time, window time.Duration) string {
	secs := int64(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("%s%s:%d", rateLimitPrefix, subject, now.Unix()/secs)
}

// Key builds a metrics cache key.
func Key(teamID, kind, filterKey string) string {
	return "metrics:" + teamID + ":" + kind + ":" + filterKey
}

type nop struct{}

// NewNop returns a cache that stores nothing and allows every request.
func NewNop() Cache {
	return nop{}
}

func (nop) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (nop) Set(context.Context, string, []byte, time.Duration) {}
func (nop) Del(context.Context, ...string) {}
func (nop) Allow(context.Context, string, int, time.Duration) (bool, error) { return true, nil }
func (nop) Ping(context.Context) error { return nil }
func (nop) Close() error { return nil }
