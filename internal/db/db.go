// Package db owns the Postgres connection pool and the durable stores built
// on it. The pool is constructed once by the composition root and injected;
// every read path reports through outcome.Outcome so callers can tell an
// unreachable database from an absent row.
package db

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"camwatch/internal/config"
	"camwatch/internal/monitor"
	"camwatch/internal/outcome"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
)

type DB struct {
	conn   *pg.DB
	retry  RetryConfig
	logger *slog.Logger
	sleep  func(time.Duration) // swapped out in tests
}

type RetryConfig struct {
	Attempts int
	WaitMin  time.Duration
	WaitMax  time.Duration
}

// Connect builds the pooled client. It does not dial eagerly; use Ping to
// verify reachability.
func Connect(cfg config.PostgresConfig, logger *slog.Logger) *DB {
	conn := pg.Connect(&pg.Options{
		Addr:        cfg.Addr,
		User:        cfg.User,
		Password:    cfg.Password,
		Database:    cfg.Database,
		PoolSize:    cfg.PoolSize,
		IdleTimeout: cfg.IdleTimeout,
		DialTimeout: cfg.DialTimeout,
	})

	return &DB{
		conn: conn,
		retry: RetryConfig{
			Attempts: cfg.RetryQuery,
			WaitMin:  cfg.RetryWaitMin,
			WaitMax:  cfg.RetryWaitMax,
		},
		logger: logger.With("component", "db"),
		sleep:  time.Sleep,
	}
}

// Close drains and closes the pool. Call exactly once at shutdown.
func (d *DB) Close() error {
	return d.conn.Close()
}

// Migrate creates the sessions table if it is missing. The users table is
// owned by the upstream CRUD service and never touched here.
func (d *DB) Migrate(ctx context.Context) error {
	return d.conn.ModelContext(ctx, (*SessionModel)(nil)).CreateTable(&orm.CreateTableOptions{
		IfNotExists: true,
	})
}

type Ping struct {
	Pong string `pg:"pong"`
}

// Ping runs one lightweight query through the pool, with the standard retry
// policy applied.
func (d *DB) Ping(ctx context.Context) outcome.Outcome[Ping] {
	return retryQuery(ctx, d, "ping", func(ctx context.Context) (outcome.Outcome[Ping], error) {
		var p Ping
		res, err := d.conn.QueryOneContext(ctx, &p, `SELECT 'Hello from PostgreSQL' AS pong`)
		if err != nil {
			d.logger.Error("PostgreSQL error", "query", "ping", "error", err)
			return outcome.Unavailable[Ping](), nil
		}
		if res.RowsReturned() != 1 {
			return outcome.NotFound[Ping](), nil
		}
		return outcome.Found(p), nil
	})
}

// retryQuery runs fn up to the configured number of attempts. An Unavailable
// result is treated as transient and retried after a uniform random wait in
// [WaitMin, WaitMax]; Found and NotFound return immediately. A non-nil error
// from fn is a programmer error and aborts the remaining attempts.
func retryQuery[T any](ctx context.Context, d *DB, name string, fn func(ctx context.Context) (outcome.Outcome[T], error)) outcome.Outcome[T] {
	for i := 0; i < d.retry.Attempts; i++ {
		res, err := fn(ctx)
		if err != nil {
			d.logger.Error("Query aborted", "query", name, "error", err)
			return outcome.Unavailable[T]()
		}
		if !res.IsUnavailable() {
			return res
		}
		if i > 0 {
			monitor.DBQueryRetries.Inc()
		}
		d.sleep(randWait(d.retry.WaitMin, d.retry.WaitMax))
	}

	monitor.DBQueryFailures.Inc()
	d.logger.Error("Query failed after retries", "query", name, "attempts", d.retry.Attempts)
	return outcome.Unavailable[T]()
}

func randWait(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + rand.N(max-min)
}
