package usecase

import (
	"errors"

	"probul-backend/pkg/utils"
)

type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindConflict
	KindNotFound
	KindOTP
	KindAuth
	KindDelivery
)

// Error is a caller-facing failure. Message is safe to return verbatim.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrMissingFields   = &Error{Kind: KindValidation, Message: "All fields are required."}
	ErrWeakPassword    = &Error{Kind: KindValidation, Message: "Password must be at least 6 characters."}
	ErrPasswordTooLong = &Error{Kind: KindValidation, Message: "Password must be at most 72 bytes."}
	ErrInvalidEmail    = &Error{Kind: KindValidation, Message: "Invalid email address."}
	ErrInvalidRequest  = &Error{Kind: KindValidation, Message: "Invalid request body."}

	ErrEmailAlreadyVerified = &Error{Kind: KindConflict, Message: "This email address is already registered."}

	ErrNoPendingRegistration = &Error{Kind: KindNotFound, Message: "No pending registration found. Please register again."}
	ErrUserNotFound          = &Error{Kind: KindNotFound, Message: "No account is registered with this email."}

	ErrOTPNotFound = &Error{Kind: KindOTP, Message: "Code not found. Request a new code."}
	ErrOTPMismatch = &Error{Kind: KindOTP, Message: "Incorrect code. Try again."}
	ErrOTPExpired  = &Error{Kind: KindOTP, Message: "Code has expired. Request a new code."}

	ErrNotVerified   = &Error{Kind: KindAuth, Message: "Your account is not verified yet. Check your email."}
	ErrWrongPassword = &Error{Kind: KindAuth, Message: "Incorrect password."}
	ErrUnauthorized  = &Error{Kind: KindAuth, Message: "Unauthorized access."}

	ErrDeliveryFailed = &Error{Kind: KindDelivery, Message: "Could not send the code. Please try again."}
)

// AsError extracts the caller-facing error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// checkRequest validates req and reports the first failure class in the
// order missing fields, weak password, overlong password, malformed email.
func checkRequest(req any) error {
	validationErrors := utils.Validate(req)
	if len(validationErrors) == 0 {
		return nil
	}

	switch {
	case utils.HasTag(validationErrors, "required"):
		return ErrMissingFields
	case utils.HasTag(validationErrors, "min"):
		return ErrWeakPassword
	case utils.HasTag(validationErrors, "password_bytes"):
		return ErrPasswordTooLong
	case utils.HasTag(validationErrors, "basic_email"):
		return ErrInvalidEmail
	default:
		return &Error{Kind: KindValidation, Message: utils.FormatValidationErrors(utils.ValidateStruct(req))}
	}
}
