package services

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEmailServiceConfigured(t *testing.T) {
	if NewEmailService(EmailConfig{Host: "smtp.example.com"}).IsConfigured() {
		t.Fatal("credentials and recipient are required")
	}
	e := NewEmailService(EmailConfig{Host: "smtp.example.com", Username: "u", Password: "p", To: "info@example.com"})
	if !e.IsConfigured() {
		t.Fatal("expected configured")
	}
	if e.config.Port != 587 {
		t.Fatalf("port = %d", e.config.Port)
	}
}

func TestSendContactMessage(t *testing.T) {
	e := NewEmailService(EmailConfig{Host: "smtp.example.com", Port: 2525, Username: "relay@example.com", Password: "p", To: "info@example.com"})
	var gotAddr, gotFrom, gotTo string
	var gotMsg []byte
	e.send = func(addr, from, to string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := e.SendContactMessage(ContactMessage{
		Name:       "Mona\r\nBcc: spam@example.com",
		University: "cairo",
		Email:      "mona@example.com",
		Message:    "<b>Hello</b>",
		Locale:     "ar",
		SentAt:     time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotAddr != "smtp.example.com:2525" || gotFrom != "relay@example.com" || gotTo != "info@example.com" {
		t.Fatalf("envelope = %s %s %s", gotAddr, gotFrom, gotTo)
	}

	msg := string(gotMsg)
	head, _, _ := strings.Cut(msg, "\r\n\r\n")
	if strings.Contains(head, "\r\nBcc:") {
		t.Fatal("header injection should be neutralized")
	}
	if !strings.Contains(head, "Reply-To: mona@example.com\r\n") {
		t.Fatal("reply-to should be the sender")
	}
	if !strings.Contains(msg, "&lt;b&gt;Hello&lt;/b&gt;") {
		t.Fatal("message body should be escaped")
	}
	if !strings.Contains(msg, `dir="rtl"`) || !strings.Contains(msg, "2026-10-14 09:30") {
		t.Fatal("body should follow the locale and carry the date")
	}
}

func TestSendContactMessageErrors(t *testing.T) {
	if err := NewEmailService(EmailConfig{}).SendContactMessage(ContactMessage{}); err == nil {
		t.Fatal("unconfigured service should refuse")
	}

	e := NewEmailService(EmailConfig{Host: "h", Username: "u", Password: "p", To: "t@example.com"})
	boom := errors.New("connection refused")
	e.send = func(string, string, string, []byte) error { return boom }
	if err := e.SendContactMessage(ContactMessage{Email: "a@b.c"}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
