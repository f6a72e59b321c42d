package email

import (
	"context"
	"log"
)

// consoleMailer logs messages instead of delivering them. Used in
// development and tests.
type consoleMailer struct{}

var _ Mailer = (*consoleMailer)(nil)

// NewConsoleMailer creates a Mailer that writes to the process log.
func NewConsoleMailer() Mailer {
	return consoleMailer{}
}

func (consoleMailer) Send(_ context.Context, msg Message) error {
	log.Printf("--- email to %s ---\nSubject: %s\n%s\n-------------------", msg.To, msg.Subject, msg.Plain)
	return nil
}
