// Package mailer delivers confirmation codes. Delivery is best-effort:
// callers log failures and never surface them to the client.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
)

type Mailer interface {
	SendConfirmationCode(ctx context.Context, email, code string) error
}

// SMTPMailer sends the code through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPMailer(host string, port int, from, username, password string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
	}
}

func (m *SMTPMailer) SendConfirmationCode(_ context.Context, email, code string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Confirmation code\r\n\r\nYour confirmation code is %s\r\n",
		m.from, email, code,
	)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("send confirmation code: %w", err)
	}
	return nil
}

// LogMailer writes the code to the log instead of sending it. Used in
// development where no relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendConfirmationCode(_ context.Context, email, code string) error {
	m.logger.Info("confirmation code issued", "email", email, "code", code)
	return nil
}
