// Package mail delivers a finished report by email over SMTP. It is a thin
// transport: it accepts a subject and bodies and owns no report logic.
package mail

import (
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
)

// Config holds the SMTP settings. Password is expected to come from the
// environment or a config file, never from source.
type Config struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"-"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

// Message is one email: a plain-text body that always goes out, and an
// optional HTML alternative so colors survive in mail clients.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Send delivers the message through the configured SMTP server using PLAIN
// auth over STARTTLS.
func Send(cfg Config, msg Message) error {
	body, err := msg.encode(cfg.From, cfg.To)
	if err != nil {
		return fmt.Errorf("cannot encode message: %w", err)
	}
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	if err := smtp.SendMail(addr, auth, cfg.From, cfg.To, body); err != nil {
		return fmt.Errorf("cannot send mail via %s: %w", addr, err)
	}
	return nil
}

// encode renders the full RFC 5322 message: plain headers plus either a
// single text part or a multipart/alternative with text first and HTML last
// (clients pick the last part they can display).
func (m Message) encode(from string, to []string) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	if m.HTML == "" {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(m.Text)
		return []byte(b.String()), nil
	}

	var parts strings.Builder
	w := multipart.NewWriter(&parts)
	text, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/plain; charset=UTF-8"}})
	if err != nil {
		return nil, err
	}
	fmt.Fprint(text, m.Text)
	html, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {"text/html; charset=UTF-8"}})
	if err != nil {
		return nil, err
	}
	fmt.Fprint(html, m.HTML)
	if err := w.Close(); err != nil {
		return nil, err
	}

	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", w.Boundary())
	b.WriteString(parts.String())
	return []byte(b.String()), nil
}
