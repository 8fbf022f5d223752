// Package mailer delivers transactional HTML email over SMTP.
package mailer

import (
	"context"

	"gopkg.in/gomail.v2"

	"wheelstrust/internal/config"
)

// Mailer sends a single HTML email. Implementations must honor context
// cancellation so a slow transport cannot stall the caller indefinitely.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPMailer is a Mailer backed by an SMTP server.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates a Mailer from SMTP configuration. The caller is
// expected to have checked cfg.Configured() first.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.From, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers one message. The SMTP dial and send run in a goroutine so
// the attempt can be abandoned when ctx expires; the connection is left to
// time out on its own in that case.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
