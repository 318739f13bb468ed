package email

import "context"

// Sender is the interface for sending notification emails via an external
// provider. The portal only sends organizer notifications, one recipient at a
// time, so the surface is a single call.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
