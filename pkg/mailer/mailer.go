package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	apperrors "hotelier/pkg/errors"
	"hotelier/pkg/logger"
)

// Mailer delivers a single message. Delivery failures are reported but
// callers typically log and continue; email is best-effort here.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type smtpMailer struct {
	cfg SMTPConfig
	log *logger.Logger
}

func NewSMTPMailer(cfg SMTPConfig, log *logger.Logger) Mailer {
	return &smtpMailer{cfg: cfg, log: log}
}

func (m *smtpMailer) Send(_ context.Context, to, subject, body string) error {
	msg := []byte("MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return apperrors.Upstream("Failed to send email", err)
	}

	m.log.Debug("Email sent", "to", to, "subject", subject)
	return nil
}

// ConsoleMailer logs instead of sending; used when SMTP is unconfigured.
type ConsoleMailer struct {
	log *logger.Logger
}

func NewConsoleMailer(log *logger.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log}
}

func (m *ConsoleMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info("Email (console mailer)", "to", to, "subject", subject, "body_len", len(body))
	return nil
}
