package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"tutorlink_backend/internal/logger"
)

// Provider sends email. Callers treat delivery as fire-and-forget; the core
// never awaits the result.
type Provider interface {
	Send(email *Email) error
	SendTemplate(to []string, subject, templateName string, data TemplateData) error
}

// SMTPProvider sends through gomail.
type SMTPProvider struct {
	config    Config
	templates *TemplateManager
}

func NewSMTPProvider(config Config) (Provider, error) {
	if !config.Enabled {
		return &noopProvider{}, nil
	}
	if config.SMTPHost == "" || config.FromEmail == "" {
		return nil, fmt.Errorf("invalid email config: smtp_host and from_email are required")
	}

	tm, err := NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}

	return &SMTPProvider{
		config:    config,
		templates: tm,
	}, nil
}

func (p *SMTPProvider) Send(email *Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(p.config.FromEmail, p.config.FromName))
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)
	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
	} else {
		m.SetBody("text/plain", email.Body)
	}

	d := gomail.NewDialer(
		p.config.SMTPHost,
		p.config.SMTPPort,
		p.config.SMTPUser,
		p.config.SMTPPassword,
	)

	return d.DialAndSend(m)
}

func (p *SMTPProvider) SendTemplate(to []string, subject, templateName string, data TemplateData) error {
	htmlBody, err := p.templates.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template %s: %w", templateName, err)
	}

	return p.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
}

// noopProvider is used when email is disabled in config.
type noopProvider struct{}

func (*noopProvider) Send(email *Email) error {
	logger.Debug("email disabled, dropping message", "subject", email.Subject)
	return nil
}

func (*noopProvider) SendTemplate(to []string, subject, templateName string, data TemplateData) error {
	logger.Debug("email disabled, dropping message", "subject", subject, "template", templateName)
	return nil
}
