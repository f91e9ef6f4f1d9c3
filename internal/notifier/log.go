package notifier

import (
	"context"
	"log"
	"strings"
)

// LogNotifier prints outgoing mail instead of sending it. Default for local
// development where no provider is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(_ context.Context, email Email) error {
	log.Printf("email (not sent): to=%s subject=%q", strings.Join(email.To, ","), email.Subject)
	return nil
}
