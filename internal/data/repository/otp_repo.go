package repository

import (
	"context"
	"fmt"
	"time"

	"probul-backend/internal/data/entity"
	"probul-backend/pkg/database"

	"go.uber.org/zap"
)

type OTPRepository interface {
	Replace(ctx context.Context, otp *entity.OTP) error
	FindLatestUnused(ctx context.Context, email string, otpType entity.OTPType) (*entity.OTP, error)
	MarkAsUsed(ctx context.Context, otpID int64) error
	CountActive(ctx context.Context, now time.Time) (int64, error)
}

type otpRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewOTPRepository(db database.Querier, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

// Replace drops every unused code for otp's (email, type) slot and inserts otp
// in the same transaction, leaving exactly one live code for the pair.
// Used codes stay behind as history.
func (r *otpRepository) Replace(ctx context.Context, otp *entity.OTP) error {
	err := r.db.Tx(ctx, func(q database.Querier) error {
		if _, err := q.Run(ctx,
			`DELETE FROM otp_codes WHERE email = ? AND type = ? AND used = 0`,
			otp.Email, string(otp.Type),
		); err != nil {
			return err
		}

		if _, err := q.Run(ctx, `
			INSERT INTO otp_codes (email, code, type, expires_at, used)
			VALUES (?, ?, ?, ?, 0)
		`, otp.Email, otp.Code, string(otp.Type), toMillis(otp.ExpiresAt)); err != nil {
			return err
		}

		_, err := q.Get(ctx, `
			SELECT id FROM otp_codes
			WHERE email = ? AND type = ? AND used = 0
			ORDER BY id DESC
			LIMIT 1
		`, []any{otp.Email, string(otp.Type)}, &otp.ID)
		return err
	})
	if err != nil {
		r.log.Error("Failed to replace OTP",
			zap.Error(err),
			zap.String("email", otp.Email),
			zap.String("otp_type", string(otp.Type)),
		)
		return fmt.Errorf("replace OTP for %s type %s: %w", otp.Email, otp.Type, err)
	}

	otp.Used = false
	return nil
}

// FindLatestUnused returns the most recently issued unused code for the pair,
// expired or not. It returns nil when there is none.
func (r *otpRepository) FindLatestUnused(ctx context.Context, email string, otpType entity.OTPType) (*entity.OTP, error) {
	query := `
		SELECT id, email, code, type, expires_at, used
		FROM otp_codes
		WHERE email = ?
		  AND type = ?
		  AND used = 0
		ORDER BY id DESC
		LIMIT 1
	`

	var (
		otp       entity.OTP
		kind      string
		expiresAt int64
	)
	found, err := r.db.Get(ctx, query, []any{email, string(otpType)},
		&otp.ID,
		&otp.Email,
		&otp.Code,
		&kind,
		&expiresAt,
		&otp.Used,
	)
	if err != nil {
		r.log.Error("Failed to find OTP",
			zap.Error(err),
			zap.String("email", email),
			zap.String("otp_type", string(otpType)),
		)
		return nil, fmt.Errorf("find OTP for %s type %s: %w", email, otpType, err)
	}
	if !found {
		return nil, nil
	}

	otp.Type = entity.OTPType(kind)
	otp.ExpiresAt = fromMillis(expiresAt)
	return &otp, nil
}

func (r *otpRepository) MarkAsUsed(ctx context.Context, otpID int64) error {
	query := `
		UPDATE otp_codes
		SET used = 1
		WHERE id = ? AND used = 0
	`

	result, err := r.db.Run(ctx, query, otpID)
	if err != nil {
		r.log.Error("Failed to mark OTP as used",
			zap.Error(err),
			zap.Int64("otp_id", otpID),
		)
		return fmt.Errorf("mark OTP %d as used: %w", otpID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark OTP %d as used: %w", otpID, err)
	}
	if rows == 0 {
		return fmt.Errorf("OTP %d: %w", otpID, ErrNotFound)
	}

	return nil
}

// CountActive counts unused codes that have not expired at now.
func (r *otpRepository) CountActive(ctx context.Context, now time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM otp_codes WHERE used = 0 AND expires_at > ?`

	var count int64
	if _, err := r.db.Get(ctx, query, []any{toMillis(now)}, &count); err != nil {
		r.log.Error("Database error counting active OTPs", zap.Error(err))
		return 0, fmt.Errorf("count active OTPs: %w", err)
	}

	return count, nil
}
