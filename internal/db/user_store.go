package db

import (
	"context"
	"errors"

	"camwatch/internal/outcome"

	"github.com/go-pg/pg/v10"
)

// UserStore reads the users table owned by the upstream CRUD layer. It only
// verifies credentials and resolves display info for cookies.
type UserStore struct {
	db *DB
}

func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) verifyUser(ctx context.Context, queryName, userName, password, userType string) outcome.Outcome[int64] {
	return retryQuery(ctx, s.db, queryName, func(ctx context.Context) (outcome.Outcome[int64], error) {
		m := new(UserModel)
		err := s.db.conn.ModelContext(ctx, m).
			Column("id").
			Where("user_name = ?", userName).
			Where("password = ?", password).
			Where("type = ?", userType).
			Select()
		if errors.Is(err, pg.ErrNoRows) {
			return outcome.NotFound[int64](), nil
		}
		if err != nil {
			s.db.logger.Error("PostgreSQL error", "query", queryName, "error", err)
			return outcome.Unavailable[int64](), nil
		}
		return outcome.Found(m.ID), nil
	})
}

func (s *UserStore) VerifyAdmin(ctx context.Context, userName, password string) outcome.Outcome[int64] {
	return s.verifyUser(ctx, "verifyAdminUser", userName, password, "admin")
}

func (s *UserStore) VerifyEmployee(ctx context.Context, userName, password string) outcome.Outcome[int64] {
	return s.verifyUser(ctx, "verifyEmployeeUser", userName, password, "employee")
}

func (s *UserStore) GetUserInfo(ctx context.Context, userID int64) outcome.Outcome[UserInfo] {
	return retryQuery(ctx, s.db, "getUserInfoByUserId", func(ctx context.Context) (outcome.Outcome[UserInfo], error) {
		m := new(UserModel)
		err := s.db.conn.ModelContext(ctx, m).
			Column("type", "user_name").
			Where("id = ?", userID).
			Select()
		if errors.Is(err, pg.ErrNoRows) {
			return outcome.NotFound[UserInfo](), nil
		}
		if err != nil {
			s.db.logger.Error("PostgreSQL error", "query", "getUserInfoByUserId", "error", err)
			return outcome.Unavailable[UserInfo](), nil
		}
		return outcome.Found(UserInfo{UserType: m.Type, UserName: m.UserName}), nil
	})
}
