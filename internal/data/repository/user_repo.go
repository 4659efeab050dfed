package repository

import (
	"context"
	"fmt"
	"time"

	"probul-backend/internal/data/entity"
	"probul-backend/pkg/database"

	"go.uber.org/zap"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindVerifiedByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error)
	CountVerified(ctx context.Context) (int64, error)
	CountVerifiedSince(ctx context.Context, since time.Time) (int64, error)
	UpsertVerified(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, email, passwordHash string) error
}

type userRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewUserRepository(db database.Querier, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, full_name, email, phone, password, photo, verified, created_at`

func scanUser(row database.Scanner) (*entity.User, error) {
	var (
		user      entity.User
		createdAt int64
	)
	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.Photo,
		&user.Verified,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	user.CreatedAt = fromMillis(createdAt)
	return &user, nil
}

func (ur *userRepository) findOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var (
		user      entity.User
		createdAt int64
	)
	found, err := ur.db.Get(ctx, query, args,
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.Photo,
		&user.Verified,
		&createdAt,
	)
	if err != nil || !found {
		return nil, err
	}
	user.CreatedAt = fromMillis(createdAt)
	return &user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	user, err := ur.findOne(ctx, query, email)
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

func (ur *userRepository) FindVerifiedByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ? AND verified = 1`

	user, err := ur.findOne(ctx, query, email)
	if err != nil {
		ur.log.Error("Failed to find verified user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find verified user by email %s: %w", email, err)
	}

	return user, nil
}

// FindAll lists verified users, newest id first.
func (ur *userRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE verified = 1
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`

	var users []*entity.User
	err := ur.db.All(ctx, query, []any{limit, offset}, func(row database.Scanner) error {
		user, err := scanUser(row)
		if err != nil {
			return fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
		return nil
	})
	if err != nil {
		ur.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all users limit %d offset %d: %w", limit, offset, err)
	}

	return users, nil
}

func (ur *userRepository) CountVerified(ctx context.Context) (int64, error) {
	var count int64
	if _, err := ur.db.Get(ctx, `SELECT COUNT(*) FROM users WHERE verified = 1`, nil, &count); err != nil {
		ur.log.Error("Database error counting users", zap.Error(err))
		return 0, fmt.Errorf("count verified users: %w", err)
	}

	return count, nil
}

func (ur *userRepository) CountVerifiedSince(ctx context.Context, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE verified = 1 AND created_at >= ?`

	var count int64
	if _, err := ur.db.Get(ctx, query, []any{toMillis(since)}, &count); err != nil {
		ur.log.Error("Database error counting recent users",
			zap.Error(err),
			zap.Time("since", since),
		)
		return 0, fmt.Errorf("count users since %s: %w", since.Format(time.RFC3339), err)
	}

	return count, nil
}

// UpsertVerified inserts user as verified or, when the email already exists,
// replaces its mutable fields and marks it verified. The existing id and
// created_at are kept.
func (ur *userRepository) UpsertVerified(ctx context.Context, user *entity.User) error {
	err := ur.db.Tx(ctx, func(q database.Querier) error {
		var id int64
		found, err := q.Get(ctx, `SELECT id FROM users WHERE email = ?`, []any{user.Email}, &id)
		if err != nil {
			return err
		}

		if found {
			_, err = q.Run(ctx, `
				UPDATE users
				SET full_name = ?, phone = ?, password = ?, photo = ?, verified = 1
				WHERE id = ?
			`, user.FullName, user.Phone, user.PasswordHash, user.Photo, id)
			if err != nil {
				return err
			}
			user.ID = id
			return nil
		}

		_, err = q.Run(ctx, `
			INSERT INTO users (full_name, email, phone, password, photo, verified, created_at)
			VALUES (?, ?, ?, ?, ?, 1, ?)
		`, user.FullName, user.Email, user.Phone, user.PasswordHash, user.Photo, toMillis(user.CreatedAt))
		if err != nil {
			return err
		}

		_, err = q.Get(ctx, `SELECT id FROM users WHERE email = ?`, []any{user.Email}, &user.ID)
		return err
	})
	if err != nil {
		ur.log.Error("Failed to upsert user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("upsert user %s: %w", user.Email, err)
	}

	user.Verified = true
	return nil
}

func (ur *userRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	query := `UPDATE users SET password = ? WHERE email = ?`

	result, err := ur.db.Run(ctx, query, passwordHash, email)
	if err != nil {
		ur.log.Error("Failed to update user password",
			zap.Error(err),
			zap.String("email", email),
		)
		return fmt.Errorf("update password for %s: %w", email, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password for %s: %w", email, err)
	}
	if rows == 0 {
		return fmt.Errorf("user %s: %w", email, ErrNotFound)
	}

	return nil
}
