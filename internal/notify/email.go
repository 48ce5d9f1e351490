package notify

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/google/uuid"

	"github.com/qualiworth/hike-api/internal/config"
)

// SMTPMailer sends through a plain SMTP relay (Gmail, Outlook, SendGrid's
// SMTP endpoint). Built from config; NewMailer falls back to the mock when
// the host or credentials are missing.
type SMTPMailer struct {
	host     string
	port     string
	user     string
	pass     string
	fromName string
}

func NewMailer(cfg *config.Config) Mailer {
	if cfg.EmailHost == "" || cfg.EmailUser == "" || cfg.EmailPass == "" {
		log.Println("📧 Email not configured, using mock mailer (set EMAIL_HOST, EMAIL_USER, EMAIL_PASS)")
		return &MockMailer{}
	}
	return &SMTPMailer{
		host:     cfg.EmailHost,
		port:     cfg.EmailPort,
		user:     cfg.EmailUser,
		pass:     cfg.EmailPass,
		fromName: cfg.EmailFromName,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) Result {
	msg := fmt.Sprintf("From: %q <%s>\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.fromName, m.user, to, subject, body)

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(addr, auth, m.user, []string{to}, []byte(msg)); err != nil {
		log.Printf("[EMAIL ERROR] Failed to send email to %s: %v", to, err)
		return Result{Success: false, Err: err}
	}

	id := uuid.NewString()
	log.Printf("[EMAIL SUCCESS] Email sent to %s, MessageId: %s", to, id)
	return Result{Success: true, MessageID: id}
}

// MockMailer logs the message instead of sending it. Valid mode for
// development and tests; still reports success.
type MockMailer struct{}

func (m *MockMailer) Send(to, subject, body string) Result {
	log.Printf("[EMAIL MOCK] Sending email to: %s", to)
	log.Printf("[EMAIL MOCK] Subject: %s", subject)
	log.Printf("[EMAIL MOCK] Body: %s", body)
	return mockResult()
}
