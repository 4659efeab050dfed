package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"probul-backend/internal/data/entity"
	"probul-backend/internal/data/repository"
	"probul-backend/pkg/utils"

	"go.uber.org/zap"
)

const otpLength = 6

type OTPService interface {
	// Issue mints a fresh code for (email, otpType), superseding any unused one.
	Issue(ctx context.Context, email string, otpType entity.OTPType) (string, error)
	// Validate checks code against the latest unused code for (email, otpType)
	// and consumes it on success.
	Validate(ctx context.Context, email, code string, otpType entity.OTPType) error
	// WithRepository returns a copy of the service bound to repo, typically a transaction.
	WithRepository(repo *repository.Repository) OTPService
}

type otpService struct {
	repo     *repository.Repository
	expiry   time.Duration
	now      func() time.Time
	generate func() (string, error)
	log      *zap.Logger
}

func NewOTPService(repo *repository.Repository, config *utils.Config, log *zap.Logger) OTPService {
	return &otpService{
		repo:   repo,
		expiry: time.Duration(config.OTP.Minutes()) * time.Minute,
		now:    time.Now,
		generate: func() (string, error) {
			return utils.GenerateOTP(otpLength)
		},
		log: log.With(zap.String("service", "otp")),
	}
}

func (s *otpService) WithRepository(repo *repository.Repository) OTPService {
	bound := *s
	bound.repo = repo
	return &bound
}

func (s *otpService) Issue(ctx context.Context, email string, otpType entity.OTPType) (string, error) {
	if !otpType.Valid() {
		return "", fmt.Errorf("unknown OTP type %q", otpType)
	}

	code, err := s.generate()
	if err != nil {
		s.log.Error("Failed to generate OTP", zap.Error(err))
		return "", fmt.Errorf("generate OTP: %w", err)
	}

	otp := &entity.OTP{
		Email:     email,
		Code:      code,
		Type:      otpType,
		ExpiresAt: s.now().Add(s.expiry),
	}
	if err := s.repo.OTP.Replace(ctx, otp); err != nil {
		return "", err
	}

	s.log.Info("OTP issued",
		zap.String("email", email),
		zap.String("otp_type", string(otpType)),
		zap.Int64("otp_id", otp.ID),
		zap.Time("expires_at", otp.ExpiresAt),
	)
	return code, nil
}

func (s *otpService) Validate(ctx context.Context, email, code string, otpType entity.OTPType) error {
	otp, err := s.repo.OTP.FindLatestUnused(ctx, email, otpType)
	if err != nil {
		return err
	}
	if otp == nil {
		return ErrOTPNotFound
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(otp.Code)) != 1 {
		s.log.Warn("OTP mismatch",
			zap.String("email", email),
			zap.String("otp_type", string(otpType)),
		)
		return ErrOTPMismatch
	}

	if otp.Expired(s.now()) {
		s.log.Warn("OTP expired",
			zap.String("email", email),
			zap.String("otp_type", string(otpType)),
			zap.Time("expired_at", otp.ExpiresAt),
		)
		return ErrOTPExpired
	}

	if err := s.repo.OTP.MarkAsUsed(ctx, otp.ID); err != nil {
		// consumed by a concurrent request between lookup and update
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOTPNotFound
		}
		return err
	}

	return nil
}
