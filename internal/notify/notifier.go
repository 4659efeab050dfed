package notify

import (
	"context"

	"probul-backend/internal/data/entity"
	"probul-backend/pkg/mailer"
	"probul-backend/pkg/utils"

	"go.uber.org/zap"
)

// Notifier delivers an OTP code to an email address. Any transport fault is
// returned to the caller unchanged.
type Notifier interface {
	Deliver(ctx context.Context, email, code string, otpType entity.OTPType) error
}

// New returns an SMTP backed notifier, or a log notifier when SMTP credentials are missing.
func New(config *utils.Config, log *zap.Logger) Notifier {
	if !config.Email.Enabled() {
		log.Warn("SMTP is not configured, OTP codes will be written to the log only")
		return NewLogNotifier(log)
	}

	return NewEmailNotifier(mailer.NewSMTPSender(config.Email), config.OTP.Minutes(), log)
}
