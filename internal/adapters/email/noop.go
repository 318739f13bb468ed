package email

import (
	"context"
	"log/slog"
)

// NoopSender is a no-op email sender for development and testing.
// It logs sends but does not actually deliver emails.
type NoopSender struct{}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs the email but does not deliver it.
// POST: Returns nil without actual delivery
func (s *NoopSender) Send(_ context.Context, to, subject, _ string) error {
	slog.Info("noop_email_send", "to", to, "subject", subject)
	return nil
}
