package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"probul-backend/internal/data/entity"
	"probul-backend/internal/data/repository"
	"probul-backend/internal/dto/request"
	"probul-backend/internal/dto/response"
	"probul-backend/internal/notify"
	"probul-backend/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	SendRegistrationCode(ctx context.Context, req *request.SendOTPRequest) error
	VerifyRegistrationCode(ctx context.Context, req *request.VerifyOTPRequest) (*response.UserResponse, error)
	ResendRegistrationCode(ctx context.Context, req *request.ResendOTPRequest) error
	Login(ctx context.Context, req *request.LoginRequest) (*response.UserResponse, error)
	ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
}

type authService struct {
	repo     *repository.Repository
	otp      OTPService
	notifier notify.Notifier
	hasher   utils.PasswordHasher
	now      func() time.Time
	log      *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	otp OTPService,
	notifier notify.Notifier,
	hasher utils.PasswordHasher,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		otp:      otp,
		notifier: notifier,
		hasher:   hasher,
		now:      time.Now,
		log:      log.With(zap.String("service", "auth")),
	}
}

// SendRegistrationCode stages the registration and mails a register code.
// The pending record and the code are stored together before delivery is attempted.
func (s *authService) SendRegistrationCode(ctx context.Context, req *request.SendOTPRequest) error {
	if err := checkRequest(req); err != nil {
		s.log.Warn("Send OTP validation failed", zap.Error(err), zap.String("email", req.Email))
		return err
	}

	existing, err := s.repo.User.FindVerifiedByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return ErrEmailAlreadyVerified
	}

	hashedPassword, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("hash password: %w", err)
	}

	var code string
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		pending := &entity.PendingUser{
			Email:        req.Email,
			FullName:     req.FullName,
			Phone:        req.Phone,
			PasswordHash: hashedPassword,
			Photo:        req.Photo,
			CreatedAt:    s.now(),
		}
		if err := tx.Pending.Upsert(ctx, pending); err != nil {
			return err
		}

		code, err = s.otp.WithRepository(tx).Issue(ctx, req.Email, entity.OTPTypeRegister)
		return err
	})
	if err != nil {
		return err
	}

	return s.deliver(ctx, req.Email, code, entity.OTPTypeRegister)
}

// VerifyRegistrationCode consumes the register code and promotes the pending
// registration to a verified user. Either every step commits or none does.
func (s *authService) VerifyRegistrationCode(ctx context.Context, req *request.VerifyOTPRequest) (*response.UserResponse, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	var user *entity.User
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := s.otp.WithRepository(tx).Validate(ctx, req.Email, req.Code, entity.OTPTypeRegister); err != nil {
			return err
		}

		pending, err := tx.Pending.FindByEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if pending == nil {
			return ErrNoPendingRegistration
		}

		user = &entity.User{
			CreatedAt:    s.now(),
			FullName:     pending.FullName,
			Email:        pending.Email,
			Phone:        pending.Phone,
			PasswordHash: pending.PasswordHash,
			Photo:        pending.Photo,
		}
		if err := tx.User.UpsertVerified(ctx, user); err != nil {
			return err
		}

		return tx.Pending.Delete(ctx, req.Email)
	})
	if err != nil {
		s.log.Warn("Registration verification failed", zap.Error(err), zap.String("email", req.Email))
		return nil, err
	}

	s.log.Info("User verified",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
	)
	return response.UserToResponse(user), nil
}

func (s *authService) ResendRegistrationCode(ctx context.Context, req *request.ResendOTPRequest) error {
	if err := checkRequest(req); err != nil {
		return err
	}

	pending, err := s.repo.Pending.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("find pending registration: %w", err)
	}
	if pending == nil {
		return ErrNoPendingRegistration
	}

	code, err := s.otp.Issue(ctx, req.Email, entity.OTPTypeRegister)
	if err != nil {
		return err
	}

	return s.deliver(ctx, req.Email, code, entity.OTPTypeRegister)
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.UserResponse, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		s.log.Warn("User not found for login", zap.String("email", req.Email))
		return nil, ErrUserNotFound
	}

	if !user.Verified {
		return nil, ErrNotVerified
	}

	if !s.hasher.Compare(user.PasswordHash, req.Password) {
		s.log.Warn("Invalid password", zap.Int64("user_id", user.ID))
		return nil, ErrWrongPassword
	}

	s.log.Info("User logged in", zap.Int64("user_id", user.ID))
	return response.UserToResponse(user), nil
}

// ForgotPassword mails a forgot code to verified accounts and silently does
// nothing for unknown emails, so the caller cannot tell the two apart.
func (s *authService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error {
	if err := checkRequest(req); err != nil {
		return err
	}

	user, err := s.repo.User.FindVerifiedByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		s.log.Info("Password reset requested for unknown email", zap.String("email", req.Email))
		return nil
	}

	code, err := s.otp.Issue(ctx, req.Email, entity.OTPTypeForgot)
	if err != nil {
		return err
	}

	return s.deliver(ctx, req.Email, code, entity.OTPTypeForgot)
}

// ResetPassword consumes the forgot code and replaces the password hash in one transaction.
func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	if err := checkRequest(req); err != nil {
		return err
	}

	hashedPassword, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := s.otp.WithRepository(tx).Validate(ctx, req.Email, req.Code, entity.OTPTypeForgot); err != nil {
			return err
		}

		err := tx.User.UpdatePassword(ctx, req.Email, hashedPassword)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	})
	if err != nil {
		s.log.Warn("Password reset failed", zap.Error(err), zap.String("email", req.Email))
		return err
	}

	s.log.Info("Password reset", zap.String("email", req.Email))
	return nil
}

func (s *authService) deliver(ctx context.Context, email, code string, otpType entity.OTPType) error {
	if err := s.notifier.Deliver(ctx, email, code, otpType); err != nil {
		s.log.Error("Failed to deliver OTP",
			zap.Error(err),
			zap.String("email", email),
			zap.String("otp_type", string(otpType)),
		)
		return ErrDeliveryFailed
	}
	return nil
}
