// ============================================================================
// internal/email/email.go
// Outbound mail abstraction (OTP delivery)
// ============================================================================

package email

import "context"

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Plain   string
	HTML    string
}

// Mailer sends messages through a configured backend.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
