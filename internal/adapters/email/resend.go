package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a new ResendSender with the given API key and from address.
// PRE: apiKey is a valid Resend API key; from is a valid sender address
// POST: Returns a ready-to-use sender
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send sends a single email via Resend.
// PRE: to is non-empty and subject is set
// POST: Email is queued for delivery
func (s *ResendSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		slog.Error("resend_send_failed", "error", err, "to", to, "subject", subject)
		return fmt.Errorf("resend send failed: %w", err)
	}

	slog.Info("resend_sent", "message_id", sent.Id, "to", to, "subject", subject)
	return nil
}
