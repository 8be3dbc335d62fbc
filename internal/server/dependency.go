// Package server wires the API process together: one Dependency struct owns
// every infrastructure handle and the Server composes the HTTP surface on
// top of it.
package server

import (
	"context"
	"log/slog"

	"camwatch/internal/cache"
	"camwatch/internal/config"
	"camwatch/internal/db"

	"github.com/redis/go-redis/v9"
)

// Dependency manages the API process infrastructure. Unreachable backends
// do not abort startup: the stores degrade per operation, so the process
// comes up and reports "offline" until they return.
//
// Events holds its own Redis connection: a pub/sub subscription pins a
// connection for its lifetime, so it never shares the cache client.
type Dependency struct {
	DB     *db.DB
	Cache  *cache.Client
	Events *redis.Client
	Logger *slog.Logger
}

func InitDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependency, error) {
	database := db.Connect(cfg.Postgres, logger)
	if ping := database.Ping(ctx); !ping.IsFound() {
		logger.Warn("PostgreSQL unreachable at startup, continuing degraded",
			"addr", cfg.Postgres.Addr)
	} else if err := database.Migrate(ctx); err != nil {
		logger.Warn("Auto-migrate failed", "error", err)
	}

	cacheClient := cache.NewClient(cfg.Redis, logger)
	if err := cacheClient.Connect(ctx); err != nil {
		logger.Warn("Redis unreachable at startup, continuing degraded",
			"addr", cfg.Redis.Addr, "error", err)
	}

	eventsClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	return &Dependency{
		DB:     database,
		Cache:  cacheClient,
		Events: eventsClient,
		Logger: logger,
	}, nil
}

func (d *Dependency) Close() {
	if d.Events != nil {
		if err := d.Events.Close(); err != nil {
			d.Logger.Warn("Events connection close error", "error", err)
		}
	}
	if d.Cache != nil {
		d.Cache.Disconnect()
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Logger.Warn("PostgreSQL close error", "error", err)
		}
	}
}
