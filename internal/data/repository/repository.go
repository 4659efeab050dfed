package repository

import (
	"context"
	"errors"
	"time"

	"probul-backend/pkg/database"

	"go.uber.org/zap"
)

// ErrNotFound is returned by mutations that matched no row.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	User    UserRepository
	Pending PendingUserRepository
	OTP     OTPRepository

	db  database.Querier
	log *zap.Logger
}

func NewRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(db, log),
		Pending: NewPendingUserRepository(db, log),
		OTP:     NewOTPRepository(db, log),
		db:      db,
		log:     log,
	}
}

// WithTx runs fn against repositories bound to a single transaction.
// Everything fn does is committed and persisted together, or not at all.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.Tx(ctx, func(q database.Querier) error {
		return fn(NewRepository(q, r.log))
	})
}

// timestamps are stored as unix milliseconds in every driver
func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
