// Package session resolves a durable session identifier for a login
// identity: cache first, relational store second, creating a fresh id only
// when neither has one.
package session

import (
	"context"
	"errors"
	"log/slog"

	"camwatch/internal/outcome"

	"github.com/google/uuid"
)

// ErrDatabasesOffline reports that neither the cache nor the durable store
// could answer; the login cannot proceed.
var ErrDatabasesOffline = errors.New("session: databases offline")

type Cache interface {
	GetSessionByIdentity(ctx context.Context, identity string) outcome.Outcome[string]
	CreateSessionByIdentity(ctx context.Context, identity, sessionID string) outcome.Outcome[string]
}

type Store interface {
	GetSessionIDByAuthID(ctx context.Context, authID string) outcome.Outcome[string]
	CreateSessionIDByAuthID(ctx context.Context, authID, sessionID string) outcome.Outcome[string]
}

type Resolver struct {
	cache  Cache
	store  Store
	logger *slog.Logger
	newID  func() string // swapped out in tests
}

func NewResolver(cache Cache, store Store, logger *slog.Logger) *Resolver {
	return &Resolver{
		cache:  cache,
		store:  store,
		logger: logger.With("component", "session"),
		newID:  func() string { return uuid.New().String() },
	}
}

// Resolve returns the session id for identity.
//
// A cache hit is returned directly without consulting the store, so a
// session revoked in the store but still cached stays valid until its cache
// TTL lapses. That short-circuit is inherited behavior; see DESIGN.md before
// changing it.
func (r *Resolver) Resolve(ctx context.Context, identity string) (string, error) {
	if cached := r.cache.GetSessionByIdentity(ctx, identity); cached.IsFound() {
		return cached.MustValue(), nil
	}

	stored := r.store.GetSessionIDByAuthID(ctx, identity)
	if stored.IsUnavailable() {
		return "", ErrDatabasesOffline
	}

	var sessionID string
	if stored.IsNotFound() {
		created := r.store.CreateSessionIDByAuthID(ctx, identity, r.newID())
		if !created.IsFound() {
			return "", ErrDatabasesOffline
		}
		// The store may hand back a concurrent creator's id; adopt it.
		sessionID = created.MustValue()
		r.logger.Info("Session created", "identity", identity)
	} else {
		sessionID = stored.MustValue()
	}

	// Best-effort write-back; set-if-absent keeps a concurrent winner intact.
	if res := r.cache.CreateSessionByIdentity(ctx, identity, sessionID); res.IsUnavailable() {
		r.logger.Warn("Session cache write-back skipped, cache unreachable", "identity", identity)
	}

	return sessionID, nil
}
