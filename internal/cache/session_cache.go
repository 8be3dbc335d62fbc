package cache

import (
	"context"
	"errors"
	"time"

	"camwatch/internal/monitor"
	"camwatch/internal/outcome"

	"github.com/redis/go-redis/v9"
)

func sessionKey(identity string) string {
	return "userid:" + identity
}

// SessionCache maps a login identity to its session id with a bounded TTL.
// The durable sessions table stays the source of truth on miss.
type SessionCache struct {
	client *Client
	ttl    time.Duration
}

func NewSessionCache(client *Client, expireDays int) *SessionCache {
	return &SessionCache{
		client: client,
		ttl:    time.Duration(expireDays) * 24 * time.Hour,
	}
}

// CreateSessionByIdentity writes the mapping only if absent. A concurrent
// writer that lost the race gets no error: the existing value simply stays,
// and the passed session id is echoed back either way.
func (s *SessionCache) CreateSessionByIdentity(ctx context.Context, identity, sessionID string) outcome.Outcome[string] {
	if !s.client.guard() {
		return outcome.Unavailable[string]()
	}
	if err := s.client.rdb.SetNX(ctx, sessionKey(identity), sessionID, s.ttl).Err(); err != nil {
		s.client.commandError("setnx", err)
		return outcome.Unavailable[string]()
	}
	return outcome.Found(sessionID)
}

func (s *SessionCache) GetSessionByIdentity(ctx context.Context, identity string) outcome.Outcome[string] {
	if !s.client.guard() {
		return outcome.Unavailable[string]()
	}
	val, err := s.client.rdb.Get(ctx, sessionKey(identity)).Result()
	if errors.Is(err, redis.Nil) {
		monitor.CacheMisses.Inc()
		return outcome.NotFound[string]()
	}
	if err != nil {
		s.client.commandError("get", err)
		return outcome.Unavailable[string]()
	}
	monitor.CacheHits.Inc()
	return outcome.Found(val)
}
