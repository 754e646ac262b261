package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"onerinn/internal/i18n"
)

type EmailService interface {
	SendWelcomeEmail(email, username, locale string) error
	SendPasswordResetEmail(email, resetURL, locale string) error
	SendPayoutEmail(email string, payoutID int, amount, locale string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, username, locale string) error {
	subject := i18n.T(locale, "email_welcome_subject")
	body := i18n.TData(locale, "email_welcome_body", map[string]any{"Username": username})
	if err := s.send(email, subject, body); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendPasswordResetEmail(email, resetURL, locale string) error {
	subject := i18n.T(locale, "email_reset_subject")
	body := i18n.TData(locale, "email_reset_body", map[string]any{"ResetURL": resetURL})
	if err := s.send(email, subject, body); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

func (s *emailService) SendPayoutEmail(email string, payoutID int, amount, locale string) error {
	subject := i18n.T(locale, "email_payout_subject")
	body := i18n.TData(locale, "email_payout_body", map[string]any{
		"PayoutID": payoutID,
		"Amount":   amount,
	})
	if err := s.send(email, subject, body); err != nil {
		return fmt.Errorf("failed to send payout email: %w", err)
	}
	return nil
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}
