package authgate

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer delivers authentication emails. Callers treat failures as
// non-fatal: lifecycle operations log and swallow them, they never roll back
// account or token state.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPConfig holds the mail transport options.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	cfg    SMTPConfig
	logger Logger
}

// NewSMTPMailer creates an SMTP backed Mailer.
func NewSMTPMailer(cfg SMTPConfig, logger Logger) *SMTPMailer {
	if logger == nil {
		logger = defLogger{}
	}
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, body string) error {
	if m.cfg.Host == "" || m.cfg.From == "" {
		return fmt.Errorf("mail transport not configured")
	}
	if to == "" {
		return fmt.Errorf("empty recipient")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Pass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	m.logger.Info("email sent", "to", to, "subject", subject)
	return nil
}

// LogMailer prints the message instead of delivering it. Used in development
// when no SMTP relay is configured.
type LogMailer struct {
	logger Logger
}

// NewLogMailer creates a Mailer that only logs.
func NewLogMailer(logger Logger) *LogMailer {
	if logger == nil {
		logger = defLogger{}
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.logger.Info("====== EMAIL NOTIFICATION ======")
	m.logger.Info("to: %s", to)
	m.logger.Info("subject: %s", subject)
	m.logger.Info("%s", body)
	return nil
}
