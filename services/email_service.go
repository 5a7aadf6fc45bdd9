package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"mime"
	"net/smtp"
	"sort"
	"strings"
	"time"
)

// EmailConfig holds the SMTP settings. Messages go to To.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// ContactMessage is one submission of the landing page contact form
type ContactMessage struct {
	Name       string
	University string
	Email      string
	Message    string
	Locale     string
	SentAt     time.Time
}

// EmailService relays contact messages to the union mailbox via SMTP
type EmailService struct {
	config EmailConfig
	send   func(addr string, from string, to string, msg []byte) error
}

// NewEmailService creates a new email service instance
func NewEmailService(config EmailConfig) *EmailService {
	if config.Port == 0 {
		config.Port = 587
	}
	e := &EmailService{config: config}
	e.send = e.sendTLS
	return e
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.config.Host != "" && e.config.Username != "" && e.config.Password != "" && e.config.To != ""
}

// SendContactMessage mails m to the configured recipient with Reply-To set
// to the sender
func (e *EmailService) SendContactMessage(m ContactMessage) error {
	if !e.IsConfigured() {
		return fmt.Errorf("SMTP not configured")
	}
	msg, err := e.buildMessage(m)
	if err != nil {
		return err
	}
	addr := fmt.Sprintf("%s:%d", e.config.Host, e.config.Port)
	if err := e.send(addr, e.from(), e.config.To, msg); err != nil {
		return err
	}
	log.Printf("Contact message from %s relayed to %s", m.Email, e.config.To)
	return nil
}

func (e *EmailService) from() string {
	if e.config.From != "" {
		return e.config.From
	}
	return e.config.Username
}

var contactBody = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html lang="{{.Locale}}" dir="{{if eq .Locale "ar"}}rtl{{else}}ltr{{end}}">
<head><meta charset="UTF-8"><title>{{.Name}}</title></head>
<body style="font-family: Tahoma, Arial, sans-serif; line-height: 1.6;">
  <h2>{{.Name}}</h2>
  <p><strong>Email:</strong> {{.Email}}<br><strong>University:</strong> {{.University}}<br><strong>Date:</strong> {{.SentAt.Format "2006-01-02 15:04"}}</p>
  <p style="white-space: pre-wrap;">{{.Message}}</p>
</body>
</html>`))

func (e *EmailService) buildMessage(m ContactMessage) ([]byte, error) {
	if m.SentAt.IsZero() {
		m.SentAt = time.Now()
	}
	var body bytes.Buffer
	if err := contactBody.Execute(&body, m); err != nil {
		return nil, fmt.Errorf("failed to render email body: %w", err)
	}

	// Build the email message with proper headers
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", "اتحاد ضمان الجودة"), e.from()),
		"Reply-To":     sanitizeHeader(m.Email),
		"To":           e.config.To,
		"Subject":      mime.QEncoding.Encode("utf-8", "Contact form: "+sanitizeHeader(m.Name)),
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
		"X-Mailer":     "QA Union Portal",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var message strings.Builder
	for _, k := range keys {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, headers[k]))
	}
	message.WriteString("\r\n")
	message.Write(body.Bytes())
	return []byte(message.String()), nil
}

// sanitizeHeader drops line breaks so user input cannot add headers
func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

func (e *EmailService) sendTLS(addr, from, to string, msg []byte) error {
	auth := smtp.PlainAuth("", e.config.Username, e.config.Password, e.config.Host)

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err := conn.StartTLS(&tls.Config{ServerName: e.config.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := conn.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return conn.Quit()
}
