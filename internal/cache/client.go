// Package cache wraps the shared Redis connection used for session lookups
// and rate-limit counters. The client never throws for expected failure
// modes: operations on a disconnected client return Unavailable and kick a
// background reconnect instead.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"camwatch/internal/config"
	"camwatch/internal/monitor"
	"camwatch/internal/outcome"

	"github.com/redis/go-redis/v9"
)

// ErrRetriesExhausted marks a client whose reconnect budget is spent. A new
// Client must be constructed to try again.
var ErrRetriesExhausted = errors.New("cache: max reconnect retries reached")

const connectTimeout = 10 * time.Second

type Client struct {
	rdb     redis.Cmdable
	closer  func() error
	backoff Backoff
	logger  *slog.Logger

	connectMu  sync.Mutex
	ready      atomic.Bool
	exhausted  atomic.Bool
	connecting atomic.Bool
	closeOnce  sync.Once
}

func NewClient(cfg config.RedisConfig, logger *slog.Logger) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: connectTimeout,
		// The wrapper owns reconnect pacing.
		MaxRetries: -1,
	})

	return &Client{
		rdb:    rdb,
		closer: rdb.Close,
		backoff: Backoff{
			MaxRetries: cfg.MaxRetries,
			CapDelay:   cfg.CapDelay,
		},
		logger: logger.With("component", "cache"),
	}
}

// Connect is idempotent: a no-op when already ready or when the retry budget
// is spent. Connection failures are logged, never propagated as panics; it
// returns ErrRetriesExhausted when the budget runs out and the context error
// when the caller's deadline does.
func (c *Client) Connect(ctx context.Context) error {
	if c.ready.Load() {
		return nil
	}
	if c.exhausted.Load() {
		return ErrRetriesExhausted
	}

	c.connectMu.Lock()
	defer c.connectMu.Unlock()
	if c.ready.Load() {
		return nil
	}

	for attempt := 1; ; attempt++ {
		if err := c.rdb.Ping(ctx).Err(); err == nil {
			c.ready.Store(true)
			c.logger.Info("Connection ready for Redis")
			return nil
		} else {
			c.logger.Error("Redis connect error", "attempt", attempt, "error", err)
		}

		delay, ok := c.backoff.Delay(attempt)
		if !ok {
			c.exhausted.Store(true)
			c.logger.Error("Max retry reached, ending reconnection", "attempts", attempt)
			return ErrRetriesExhausted
		}

		select {
		case <-ctx.Done():
			// Not ready and not exhausted: the caller's deadline ran out, not
			// the retry budget.
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// Disconnect is idempotent and safe when the connection was never opened.
func (c *Client) Disconnect() {
	c.closeOnce.Do(func() {
		c.ready.Store(false)
		if err := c.closer(); err != nil {
			c.logger.Error("Redis disconnect error", "error", err)
		}
	})
}

// Ready reflects the live connection state, not "connecting".
func (c *Client) Ready() bool {
	return c.ready.Load()
}

// Ping returns Unavailable immediately when disconnected; as a side effect
// it kicks a background connect, but callers must not assume connectivity
// afterwards.
func (c *Client) Ping(ctx context.Context) outcome.Outcome[string] {
	if !c.guard() {
		return outcome.Unavailable[string]()
	}
	res, err := c.rdb.Ping(ctx).Result()
	if err != nil {
		c.commandError("ping", err)
		return outcome.Unavailable[string]()
	}
	return outcome.Found(res)
}

// guard reports whether the client is usable; when it is not, a single
// background reconnect is started.
func (c *Client) guard() bool {
	if c.ready.Load() {
		return true
	}
	monitor.CacheUnavailable.Inc()
	c.kickConnect()
	return false
}

func (c *Client) kickConnect() {
	if c.exhausted.Load() || !c.connecting.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.connecting.Store(false)
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		_ = c.Connect(ctx)
	}()
}

// commandError downgrades the client to not-ready so subsequent operations
// fail fast while the background reconnect runs.
func (c *Client) commandError(cmd string, err error) {
	c.logger.Error("Redis command error", "command", cmd, "error", err)
	c.ready.Store(false)
	c.kickConnect()
}
