package repository

import (
	"context"
	"fmt"

	"probul-backend/internal/data/entity"
	"probul-backend/pkg/database"

	"go.uber.org/zap"
)

type PendingUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.PendingUser, error)
	Upsert(ctx context.Context, pending *entity.PendingUser) error
	Delete(ctx context.Context, email string) error
	Count(ctx context.Context) (int64, error)
}

type pendingUserRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPendingUserRepository(db database.Querier, log *zap.Logger) PendingUserRepository {
	return &pendingUserRepository{
		db:  db,
		log: log.With(zap.String("repository", "pending_user")),
	}
}

func (r *pendingUserRepository) FindByEmail(ctx context.Context, email string) (*entity.PendingUser, error) {
	query := `
		SELECT email, full_name, phone, password, photo, created_at
		FROM pending_users
		WHERE email = ?
	`

	var (
		pending   entity.PendingUser
		createdAt int64
	)
	found, err := r.db.Get(ctx, query, []any{email},
		&pending.Email,
		&pending.FullName,
		&pending.Phone,
		&pending.PasswordHash,
		&pending.Photo,
		&createdAt,
	)
	if err != nil {
		r.log.Error("Failed to find pending registration",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find pending registration %s: %w", email, err)
	}
	if !found {
		return nil, nil
	}

	pending.CreatedAt = fromMillis(createdAt)
	return &pending, nil
}

// Upsert stages pending, overwriting any earlier registration for the same
// email. created_at of an overwritten row is left as it was.
func (r *pendingUserRepository) Upsert(ctx context.Context, pending *entity.PendingUser) error {
	err := r.db.Tx(ctx, func(q database.Querier) error {
		var email string
		found, err := q.Get(ctx, `SELECT email FROM pending_users WHERE email = ?`, []any{pending.Email}, &email)
		if err != nil {
			return err
		}

		if found {
			_, err = q.Run(ctx, `
				UPDATE pending_users
				SET full_name = ?, phone = ?, password = ?, photo = ?
				WHERE email = ?
			`, pending.FullName, pending.Phone, pending.PasswordHash, pending.Photo, pending.Email)
			return err
		}

		_, err = q.Run(ctx, `
			INSERT INTO pending_users (email, full_name, phone, password, photo, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, pending.Email, pending.FullName, pending.Phone, pending.PasswordHash, pending.Photo, toMillis(pending.CreatedAt))
		return err
	})
	if err != nil {
		r.log.Error("Failed to upsert pending registration",
			zap.Error(err),
			zap.String("email", pending.Email),
		)
		return fmt.Errorf("upsert pending registration %s: %w", pending.Email, err)
	}

	return nil
}

func (r *pendingUserRepository) Delete(ctx context.Context, email string) error {
	if _, err := r.db.Run(ctx, `DELETE FROM pending_users WHERE email = ?`, email); err != nil {
		r.log.Error("Failed to delete pending registration",
			zap.Error(err),
			zap.String("email", email),
		)
		return fmt.Errorf("delete pending registration %s: %w", email, err)
	}

	return nil
}

func (r *pendingUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if _, err := r.db.Get(ctx, `SELECT COUNT(*) FROM pending_users`, nil, &count); err != nil {
		r.log.Error("Database error counting pending registrations", zap.Error(err))
		return 0, fmt.Errorf("count pending registrations: %w", err)
	}

	return count, nil
}
