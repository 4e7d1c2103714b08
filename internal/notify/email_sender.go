/*
Package notify delivers the finished digest: local HTML/JSON report files
and an optional email.
*/
package notify

import (
	"log"
	"time"

	gomail "gopkg.in/mail.v2"

	"arxivdigest/internal/config"
)

// Message is a rendered digest ready for delivery.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// EmailSender delivers messages via SMTP.
type EmailSender struct {
	cfg config.EmailConfig
}

// NewEmailSender creates a sender with the given SMTP configuration.
func NewEmailSender(cfg config.EmailConfig) *EmailSender {
	return &EmailSender{cfg: cfg}
}

// Enabled reports whether the configuration suffices to send email.
func (s *EmailSender) Enabled() bool {
	return s.cfg.Enabled
}

// Send delivers an email with HTML body and plain text fallback.
func (s *EmailSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.FromEmail)
	m.SetHeader("To", s.cfg.ToEmail)
	m.SetHeader("Subject", msg.Subject)

	if msg.HTML != "" && msg.Text != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else if msg.HTML != "" {
		m.SetBody("text/html", msg.HTML)
	} else {
		m.SetBody("text/plain", msg.Text)
	}

	dialer := gomail.NewDialer(s.cfg.SMTPServer, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	dialer.Timeout = 10 * time.Second

	if err := dialer.DialAndSend(m); err != nil {
		log.Printf("Email error: failed to send to %s (Subject: %s): %v", s.cfg.ToEmail, msg.Subject, err)
		return err
	}

	log.Printf("Email sent: %s", msg.Subject)
	return nil
}
