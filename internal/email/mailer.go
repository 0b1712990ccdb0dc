package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"healthcare-org-admin/internal/config"
	"healthcare-org-admin/internal/logger"
)

// Sender delivers account notifications. Implementations must not log the
// secrets they are handed.
type Sender interface {
	SendPasswordResetEmail(to, name, token string) error
	SendTemporaryPasswordEmail(to, name, tempPassword string) error
}

// Mailer sends over SMTP when enabled. When disabled it logs delivery events
// without secret material so local environments work without a mail server.
type Mailer struct {
	cfg config.EmailConfig
}

func NewMailer(cfg config.EmailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) SendPasswordResetEmail(to, name, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(m.cfg.ClientURL, "/"), token)
	subject := fmt.Sprintf("%s password reset", m.cfg.AppName)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"We received a request to reset your password. Use the link below to choose a new one:\r\n\r\n"+
			"%s\r\n\r\n"+
			"The link expires shortly. If you did not request a reset, you can ignore this email.\r\n",
		name, resetURL,
	)
	return m.send(to, subject, body, "password_reset")
}

func (m *Mailer) SendTemporaryPasswordEmail(to, name, tempPassword string) error {
	subject := fmt.Sprintf("%s administrator account", m.cfg.AppName)
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Your organization has been approved and an administrator account was created for this address.\r\n\r\n"+
			"Temporary password: %s\r\n\r\n"+
			"Sign in at %s and change this password immediately.\r\n",
		name, tempPassword, m.cfg.ClientURL,
	)
	return m.send(to, subject, body, "temporary_password")
}

func (m *Mailer) send(to, subject, body, kind string) error {
	if !m.cfg.Enabled {
		logger.Info("Email delivery disabled, skipping send",
			zap.String("to", to),
			zap.String("kind", kind),
		)
		return nil
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.cfg.From, to, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}

	logger.Info("Email sent",
		zap.String("to", to),
		zap.String("kind", kind),
	)
	return nil
}
