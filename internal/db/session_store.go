package db

import (
	"context"
	"errors"

	"camwatch/internal/outcome"

	"github.com/go-pg/pg/v10"
)

// SessionStore persists the durable identity → session-id mapping. The
// sessions table is the source of truth on cache miss; rows never expire.
type SessionStore struct {
	db *DB
}

func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) GetSessionIDByAuthID(ctx context.Context, authID string) outcome.Outcome[string] {
	return retryQuery(ctx, s.db, "getSessionIDByAuthID", func(ctx context.Context) (outcome.Outcome[string], error) {
		m := new(SessionModel)
		err := s.db.conn.ModelContext(ctx, m).
			Column("session_id").
			Where("auth_id = ?", authID).
			Select()
		if errors.Is(err, pg.ErrNoRows) {
			return outcome.NotFound[string](), nil
		}
		if err != nil {
			s.db.logger.Error("PostgreSQL error", "query", "getSessionIDByAuthID", "error", err)
			return outcome.Unavailable[string](), nil
		}
		return outcome.Found(m.SessionID), nil
	})
}

// CreateSessionIDByAuthID inserts the mapping with first-writer-wins
// semantics: on a concurrent insert for the same identity the loser re-reads
// and adopts the winner's session id instead of erroring.
func (s *SessionStore) CreateSessionIDByAuthID(ctx context.Context, authID, sessionID string) outcome.Outcome[string] {
	return retryQuery(ctx, s.db, "createSessionIDByAuthID", func(ctx context.Context) (outcome.Outcome[string], error) {
		m := &SessionModel{AuthID: authID, SessionID: sessionID}
		res, err := s.db.conn.ModelContext(ctx, m).
			OnConflict("(auth_id) DO NOTHING").
			Insert()
		if err != nil {
			s.db.logger.Error("PostgreSQL error", "query", "createSessionIDByAuthID", "error", err)
			return outcome.Unavailable[string](), nil
		}
		if res.RowsAffected() == 0 {
			// A concurrent creator won; adopt its session id.
			existing := new(SessionModel)
			err := s.db.conn.ModelContext(ctx, existing).
				Column("session_id").
				Where("auth_id = ?", authID).
				Select()
			if errors.Is(err, pg.ErrNoRows) {
				return outcome.NotFound[string](), nil
			}
			if err != nil {
				s.db.logger.Error("PostgreSQL error", "query", "createSessionIDByAuthID", "error", err)
				return outcome.Unavailable[string](), nil
			}
			return outcome.Found(existing.SessionID), nil
		}
		return outcome.Found(sessionID), nil
	})
}
