package adaptor

import (
	"net/http"

	"probul-backend/internal/dto/request"
	"probul-backend/internal/usecase"
	"probul-backend/pkg/utils"

	"go.uber.org/zap"
)

// ForgotPasswordMessage is returned whether or not the email belongs to an account.
const ForgotPasswordMessage = "If this email is registered, a reset code has been sent."

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// SendOTP handles POST /api/send-otp
func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req request.SendOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.SendRegistrationCode(r.Context(), &req); err != nil {
		writeServiceError(w, h.log, err, "send OTP")
		return
	}

	utils.ResponseSuccess(w, "A verification code has been sent to your email address.")
}

// VerifyOTP handles POST /api/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.VerifyRegistrationCode(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "verify OTP")
		return
	}

	utils.ResponseUser(w, "Your account has been created successfully!", user)
}

// ResendOTP handles POST /api/resend-otp
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req request.ResendOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ResendRegistrationCode(r.Context(), &req); err != nil {
		writeServiceError(w, h.log, err, "resend OTP")
		return
	}

	utils.ResponseSuccess(w, "A new code has been sent to your email address.")
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "login")
		return
	}

	utils.ResponseUser(w, "Login successful!", user)
}

// ForgotPassword handles POST /api/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), &req); err != nil {
		writeServiceError(w, h.log, err, "forgot password")
		return
	}

	utils.ResponseSuccess(w, ForgotPasswordMessage)
}

// ResetPassword handles POST /api/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		writeServiceError(w, h.log, err, "reset password")
		return
	}

	utils.ResponseSuccess(w, "Your password has been updated.")
}
