// Package email renders and delivers the notification emails the ingestion
// pipeline produces. Delivery goes over the configured SMTP relay; when no
// relay is configured every send is a silent no-op so local development
// works without credentials.
package email

import (
	"context"

	"leadsite_backend/internal/submissions/domain"
	"leadsite_backend/platform/config"
)

// Sender delivers notification emails.
type Sender interface {
	SendSubmissionEmail(ctx context.Context, toEmail string, sub domain.Submission) error
}

// NoopSender discards every email. Used when email delivery is disabled.
type NoopSender struct{}

func (NoopSender) SendSubmissionEmail(ctx context.Context, toEmail string, sub domain.Submission) error {
	return nil
}

// NewSender creates the configured email sender.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
