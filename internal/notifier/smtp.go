package notifier

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"strings"
)

// SMTPNotifier sends mail through an authenticated SMTP relay
// (e.g. Brevo, Gmail).
type SMTPNotifier struct {
	host     string
	port     int
	login    string
	password string
	from     string
}

func NewSMTPNotifier(host string, port int, login, password, from string) *SMTPNotifier {
	return &SMTPNotifier{
		host:     host,
		port:     port,
		login:    login,
		password: password,
		from:     from,
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("no recipients")
	}

	msg := buildMIMEMessage(n.from, email)

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	auth := smtp.PlainAuth("", n.login, n.password, n.host)

	// net/smtp has no context support; honor cancellation up front at least.
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := smtp.SendMail(addr, auth, n.from, email.To, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// buildMIMEMessage assembles a multipart/alternative message with optional
// plain-text and HTML parts.
func buildMIMEMessage(from string, email Email) []byte {
	const boundary = "portal-mail-boundary"

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(email.To, ", ") + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", email.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=" + boundary + "\r\n")
	b.WriteString("\r\n")

	if email.Text != "" {
		b.WriteString("--" + boundary + "\r\n")
		b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		b.WriteString(email.Text + "\r\n")
	}

	b.WriteString("--" + boundary + "\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	b.WriteString(email.HTML + "\r\n")
	b.WriteString("--" + boundary + "--\r\n")

	return []byte(b.String())
}
