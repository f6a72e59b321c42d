package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendgridMailer struct {
	client  *sendgrid.Client
	from    *sgmail.Email
	appName string
}

var _ Mailer = (*sendgridMailer)(nil)

// NewSendGridMailer creates a Mailer backed by the SendGrid v3 API.
func NewSendGridMailer(apiKey, appName, fromEmail string) Mailer {
	return &sendgridMailer{
		client:  sendgrid.NewSendClient(apiKey),
		from:    sgmail.NewEmail(appName, fromEmail),
		appName: appName,
	}
}

func (m *sendgridMailer) Send(ctx context.Context, msg Message) error {
	to := sgmail.NewEmail("", msg.To)
	sgMsg := sgmail.NewSingleEmail(m.from, "["+m.appName+"] "+msg.Subject, to, msg.Plain, msg.HTML)

	resp, err := m.client.SendWithContext(ctx, sgMsg)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send failed: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
