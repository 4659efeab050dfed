package wire

import (
	"probul-backend/internal/adaptor"
	"probul-backend/pkg/ratelimit"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	limiter ratelimit.Limiter,
	log *zap.Logger,
) {
	// one budget shared by every endpoint that sends mail
	otpLimit := ratelimit.Middleware(limiter, ratelimit.OTPRule, log)
	loginLimit := ratelimit.Middleware(limiter, ratelimit.LoginRule, log)

	r.With(otpLimit).Post("/send-otp", authHandler.SendOTP)
	r.Post("/verify-otp", authHandler.VerifyOTP)
	r.With(otpLimit).Post("/resend-otp", authHandler.ResendOTP)
	r.With(loginLimit).Post("/login", authHandler.Login)
	r.With(otpLimit).Post("/forgot-password", authHandler.ForgotPassword)
	r.Post("/reset-password", authHandler.ResetPassword)
}
