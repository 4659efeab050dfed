package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"probul-backend/internal/data/entity"
	"probul-backend/pkg/mailer"

	"go.uber.org/zap"
)

//go:embed templates/otp.html
var templateFS embed.FS

var otpTemplate = template.Must(template.ParseFS(templateFS, "templates/otp.html"))

type emailContent struct {
	Subject string
	Title   string
	Body    string
}

var contents = map[entity.OTPType]emailContent{
	entity.OTPTypeRegister: {
		Subject: "✅ Pro-Bul Email Verification",
		Title:   "Verify your email address",
		Body:    "Welcome to Pro-Bul! Enter the code below to activate your account:",
	},
	entity.OTPTypeForgot: {
		Subject: "🔑 Pro-Bul Password Reset Code",
		Title:   "Reset your password",
		Body:    "You asked to reset your password. Use the code below:",
	},
}

type templateData struct {
	Title   string
	Body    string
	Code    string
	Minutes int
}

type EmailNotifier struct {
	sender  mailer.Sender
	minutes int
	log     *zap.Logger
}

func NewEmailNotifier(sender mailer.Sender, expiryMinutes int, log *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		sender:  sender,
		minutes: expiryMinutes,
		log:     log.With(zap.String("notifier", "email")),
	}
}

func (n *EmailNotifier) Deliver(ctx context.Context, email, code string, otpType entity.OTPType) error {
	msg, err := n.render(email, code, otpType)
	if err != nil {
		return err
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		n.log.Error("Failed to send OTP email",
			zap.Error(err),
			zap.String("email", email),
			zap.String("otp_type", string(otpType)),
		)
		return fmt.Errorf("send %s code to %s: %w", otpType, email, err)
	}

	n.log.Info("OTP email sent",
		zap.String("email", email),
		zap.String("otp_type", string(otpType)),
	)
	return nil
}

func (n *EmailNotifier) render(email, code string, otpType entity.OTPType) (mailer.Message, error) {
	content, ok := contents[otpType]
	if !ok {
		return mailer.Message{}, fmt.Errorf("unknown OTP type %q", otpType)
	}

	var body bytes.Buffer
	err := otpTemplate.Execute(&body, templateData{
		Title:   content.Title,
		Body:    content.Body,
		Code:    code,
		Minutes: n.minutes,
	})
	if err != nil {
		return mailer.Message{}, fmt.Errorf("render %s email: %w", otpType, err)
	}

	return mailer.Message{
		To:      email,
		Subject: content.Subject,
		HTML:    body.String(),
	}, nil
}
