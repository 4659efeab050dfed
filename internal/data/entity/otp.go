package entity

import "time"

type OTPType string

const (
	OTPTypeRegister OTPType = "register"
	OTPTypeForgot   OTPType = "forgot"
)

func (t OTPType) Valid() bool {
	return t == OTPTypeRegister || t == OTPTypeForgot
}

type OTP struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	Code      string    `db:"code"`
	Type      OTPType   `db:"type"`
	ExpiresAt time.Time `db:"expires_at"`
	Used      bool      `db:"used"`
}

// Expired reports whether the code can no longer be accepted at now.
func (o *OTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
