package email

import (
	"fmt"

	"bootcamp_backend/internal/config"

	gomail "gopkg.in/gomail.v2"
)

// SMTPProvider implements Provider over SMTP
type SMTPProvider struct {
	cfg config.EmailConfig
}

// NewSMTPProvider creates a provider for the configured SMTP server
func NewSMTPProvider(cfg config.EmailConfig) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

// Send delivers a message over SMTP
func (p *SMTPProvider) Send(msg *Message) error {
	if p.cfg.SMTPHost == "" {
		return fmt.Errorf("smtp host is not configured")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.cfg.FromEmail, p.cfg.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	if msg.HTMLBody != "" {
		m.AddAlternative("text/html", msg.HTMLBody)
	}

	d := gomail.NewDialer(p.cfg.SMTPHost, p.cfg.SMTPPort, p.cfg.SMTPUsername, p.cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendPasswordReset delivers the reset-password message
func (p *SMTPProvider) SendPasswordReset(to, resetURL string) error {
	return p.Send(&Message{
		To:      to,
		Subject: "Password reset token",
		Body: fmt.Sprintf(
			"You are receiving this email because you (or someone else) has requested the reset of a password. "+
				"Please make a PUT request to:\n\n%s", resetURL),
	})
}
