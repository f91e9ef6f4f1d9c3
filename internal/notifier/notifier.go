package notifier

import (
	"context"
	"fmt"

	"github.com/techclub/recruitment-portal-backend/internal/config"
)

// Email is a single outgoing message. HTML is the primary body; Text is an
// optional plain-text alternative.
type Email struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Notifier delivers emails. Implementations are interchangeable backends
// selected by configuration; callers invoke them best-effort and must never
// let a delivery failure gate a business transaction.
type Notifier interface {
	Send(ctx context.Context, email Email) error
}

// New selects a Notifier backend based on configuration.
func New(cfg *config.Config) (Notifier, error) {
	from := fmt.Sprintf("%s <%s>", cfg.MailFromName, cfg.MailFromEmail)

	switch cfg.EmailProvider {
	case "smtp":
		if cfg.SMTPLogin == "" || cfg.SMTPPassword == "" || cfg.MailFromEmail == "" {
			return nil, fmt.Errorf("smtp provider requires SMTP_LOGIN, SMTP_PASSWORD and MAIL_FROM_EMAIL")
		}
		return NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPLogin, cfg.SMTPPassword, from), nil
	case "resend":
		if cfg.ResendAPIKey == "" || cfg.MailFromEmail == "" {
			return nil, fmt.Errorf("resend provider requires RESEND_API_KEY and MAIL_FROM_EMAIL")
		}
		return NewResendNotifier(cfg.ResendAPIKey, from), nil
	case "log":
		return NewLogNotifier(), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.EmailProvider)
	}
}
