package usecase

import (
	"probul-backend/internal/data/repository"
	"probul-backend/internal/notify"
	"probul-backend/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth  AuthService
	Admin AdminService
	OTP   OTPService
}

func NewService(repo *repository.Repository, notifier notify.Notifier, config *utils.Config, log *zap.Logger) *Service {
	otp := NewOTPService(repo, config, log)
	hasher := utils.NewBcryptHasher(config.Security.BcryptCost)

	return &Service{
		Auth:  NewAuthService(repo, otp, notifier, hasher, log),
		Admin: NewAdminService(repo, log),
		OTP:   otp,
	}
}
