package utils

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/travelora/crm-backend/config"
)

// SMTPMailer sends plain-text mail over STARTTLS. It satisfies the
// mailer interface the auth service depends on. When SMTP is not
// configured it logs the message and reports success, which keeps
// local development working without a relay.
type SMTPMailer struct {
	cfg *config.Config
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.cfg.SMTPHost == "" || m.cfg.SMTPUsername == "" {
		log.Printf("mail: SMTP not configured, skipping send to %s (%s)", to, subject)
		return nil
	}

	fromEmail := m.cfg.SMTPFromEmail
	if fromEmail == "" {
		fromEmail = m.cfg.SMTPUsername
	}

	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to dial SMTP server: %w", err)
	}
	defer client.Close()

	// Plain dial then STARTTLS; most relays reject implicit TLS on 587.
	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         m.cfg.SMTPHost,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", m.cfg.SMTPUsername, m.cfg.SMTPPassword, m.cfg.SMTPHost)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if err := client.Mail(fromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	from := fromEmail
	if m.cfg.SMTPFromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.SMTPFromName, fromEmail)
	}

	msg := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")

	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}

	if err := client.Quit(); err != nil {
		log.Printf("mail: QUIT error (non-critical): %v", err)
	}
	return nil
}
