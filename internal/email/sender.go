package email

import (
	"context"

	"pipeline_backend/platform/config"
)

type Sender interface {
	SendVendedorWelcomeEmail(ctx context.Context, toEmail, name, signInURL string) error
}

type NoopSender struct{}

func (NoopSender) SendVendedorWelcomeEmail(ctx context.Context, toEmail, name, signInURL string) error {
	return nil
}

// NewSender returns an SMTP sender when email is enabled, and a no-op
// sender otherwise.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
