// Package ratelimit provides per-identity call counters that keep working
// when the shared cache is down, by falling back to an in-process TTL map.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"camwatch/internal/cache"
	"camwatch/internal/monitor"
)

const checkPeriod = 2 * time.Minute

// Counters answers with (count, ok); ok=false means the count is
// indeterminate and the caller should let the request pass rather than
// block on a broken limiter.
type Counters interface {
	SetCountByIdentity(ctx context.Context, identity string) (int64, bool)
	GetCountByIdentity(ctx context.Context, identity string) (int64, bool)
	IncrementCountByIdentity(ctx context.Context, identity string) (int64, bool)
}

var _ Counters = (*Store)(nil)

type Store struct {
	cache  *cache.RateLimitCache
	mem    *memStore
	logger *slog.Logger
	stopCh chan struct{}
}

func NewStore(rlCache *cache.RateLimitCache, window time.Duration, logger *slog.Logger) *Store {
	return &Store{
		cache:  rlCache,
		mem:    newMemStore(window),
		logger: logger.With("component", "ratelimit"),
		stopCh: make(chan struct{}),
	}
}

// Start runs the fallback map's expiry janitor. Blocking; run in a
// goroutine.
func (s *Store) Start() {
	ticker := time.NewTicker(checkPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if removed := s.mem.sweep(); removed > 0 {
				s.logger.Debug("Expired rate-limit windows swept", "removed", removed)
			}
		}
	}
}

func (s *Store) Stop() {
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
}

func (s *Store) SetCountByIdentity(ctx context.Context, identity string) (int64, bool) {
	res := s.cache.SetCountByIdentity(ctx, identity)
	if v, ok := res.Value(); ok {
		return v, true
	}
	monitor.RateLimitFallbacks.Inc()
	return s.mem.Set(identity), true
}

func (s *Store) GetCountByIdentity(ctx context.Context, identity string) (int64, bool) {
	res := s.cache.GetCountByIdentity(ctx, identity)
	if v, ok := res.Value(); ok {
		return v, true
	}
	if res.IsNotFound() {
		// The cache answered and no window exists.
		return 0, false
	}
	monitor.RateLimitFallbacks.Inc()
	return s.mem.Get(identity)
}

func (s *Store) IncrementCountByIdentity(ctx context.Context, identity string) (int64, bool) {
	res := s.cache.IncrementCountByIdentity(ctx, identity)
	if v, ok := res.Value(); ok {
		return v, true
	}
	monitor.RateLimitFallbacks.Inc()
	return s.mem.Increment(identity)
}
