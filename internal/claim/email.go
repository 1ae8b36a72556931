package claim

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// EmailNotifier sends claim notifications to the app managers via SMTP.
type EmailNotifier struct {
	smtpHost     string
	smtpPort     int
	smtpUsername string
	smtpPassword string
	fromEmail    string
	managers     []string
	logger       zerolog.Logger
}

// EmailConfig holds SMTP configuration for claim notifications.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	Managers     []string
}

var _ Notifier = (*EmailNotifier)(nil)

// NewEmailNotifier creates an SMTP-backed claim notifier.
func NewEmailNotifier(cfg EmailConfig, logger zerolog.Logger) *EmailNotifier {
	return &EmailNotifier{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.FromEmail,
		managers:     cfg.Managers,
		logger:       logger.With().Str("component", "claim_email").Logger(),
	}
}

// NotifyClaim mails the claim to the configured manager addresses.
func (e *EmailNotifier) NotifyClaim(ctx context.Context, username, userEmail, description string) error {
	if e.smtpHost == "" || e.smtpPort == 0 || len(e.managers) == 0 {
		return fmt.Errorf("email notifier not configured")
	}

	body := fmt.Sprintf("Subject: New claim\r\nFrom: %s\r\nTo: %s\r\n\r\nThe user %s with email %s says:\r\n\r\n%s\r\n",
		e.fromEmail, strings.Join(e.managers, ", "), username, userEmail, description)

	addr := fmt.Sprintf("%s:%d", e.smtpHost, e.smtpPort)
	auth := smtp.PlainAuth("", e.smtpUsername, e.smtpPassword, e.smtpHost)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, e.fromEmail, e.managers, []byte(body))
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send claim mail: %w", err)
		}
		e.logger.Info().Str("user", username).Msg("claim notification sent")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
