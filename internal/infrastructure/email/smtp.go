package email

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/savedeities/contribute/internal/shared/config"
)

// ErrEmailServiceNotConfigured is returned when no SMTP host is set.
var ErrEmailServiceNotConfigured = errors.New("email service not configured")

type SMTPEmailService struct {
	config config.EmailConfig
	send   func(m ...*gomail.Message) error
}

func NewSMTPEmailService(cfg config.EmailConfig) (*SMTPEmailService, error) {
	if cfg.SMTPHost == "" {
		return nil, ErrEmailServiceNotConfigured
	}
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	return &SMTPEmailService{
		config: cfg,
		send:   dialer.DialAndSend,
	}, nil
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromAddress)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.send(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
