package notify

import (
	"context"

	"probul-backend/internal/data/entity"

	"go.uber.org/zap"
)

// LogNotifier writes codes to the log instead of sending them. Development only.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log.With(zap.String("notifier", "log"))}
}

func (n *LogNotifier) Deliver(_ context.Context, email, code string, otpType entity.OTPType) error {
	n.log.Info("OTP generated",
		zap.String("email", email),
		zap.String("otp_code", code),
		zap.String("otp_type", string(otpType)),
	)
	return nil
}
