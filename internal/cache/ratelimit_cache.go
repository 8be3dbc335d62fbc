package cache

import (
	"context"
	"errors"
	"time"

	"camwatch/internal/monitor"
	"camwatch/internal/outcome"

	"github.com/redis/go-redis/v9"
)

func rateLimitKey(identity string) string {
	return "rl:" + identity
}

// RateLimitCache keeps per-identity call counters in Redis, one TTL-bounded
// window per identity.
type RateLimitCache struct {
	client *Client
	window time.Duration
}

func NewRateLimitCache(client *Client, window time.Duration) *RateLimitCache {
	return &RateLimitCache{client: client, window: window}
}

func (r *RateLimitCache) IncrementCountByIdentity(ctx context.Context, identity string) outcome.Outcome[int64] {
	if !r.client.guard() {
		return outcome.Unavailable[int64]()
	}
	n, err := r.client.rdb.IncrBy(ctx, rateLimitKey(identity), 1).Result()
	if err != nil {
		r.client.commandError("incrby", err)
		return outcome.Unavailable[int64]()
	}
	return outcome.Found(n)
}

func (r *RateLimitCache) GetCountByIdentity(ctx context.Context, identity string) outcome.Outcome[int64] {
	if !r.client.guard() {
		return outcome.Unavailable[int64]()
	}
	n, err := r.client.rdb.Get(ctx, rateLimitKey(identity)).Int64()
	if errors.Is(err, redis.Nil) {
		monitor.CacheMisses.Inc()
		return outcome.NotFound[int64]()
	}
	if err != nil {
		r.client.commandError("get", err)
		return outcome.Unavailable[int64]()
	}
	monitor.CacheHits.Inc()
	return outcome.Found(n)
}

// SetCountByIdentity opens a window at count 1, set-if-absent so a
// concurrent call cannot clobber an in-flight window. NotFound reports that
// the window already existed.
func (r *RateLimitCache) SetCountByIdentity(ctx context.Context, identity string) outcome.Outcome[int64] {
	if !r.client.guard() {
		return outcome.Unavailable[int64]()
	}
	set, err := r.client.rdb.SetNX(ctx, rateLimitKey(identity), 1, r.window).Result()
	if err != nil {
		r.client.commandError("setnx", err)
		return outcome.Unavailable[int64]()
	}
	if !set {
		return outcome.NotFound[int64]()
	}
	return outcome.Found(int64(1))
}
