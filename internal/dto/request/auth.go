package request

// SendOTPRequest starts a registration. Photo is an opaque reference and may be omitted.
type SendOTPRequest struct {
	Email    string  `json:"email" validate:"required,basic_email"`
	Phone    string  `json:"phone" validate:"required"`
	FullName string  `json:"fullName" validate:"required"`
	Photo    *string `json:"photo,omitempty"`
	Password string  `json:"password" validate:"required,min=6,password_bytes"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,password_bytes"`
}
