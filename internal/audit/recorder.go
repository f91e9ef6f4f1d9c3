package audit

import (
	"context"
	"log"
)

// Recorder writes audit entries best-effort: failures are logged and never
// returned, so recording can never gate the operation being audited.
type Recorder interface {
	Record(ctx context.Context, userID, action, details, ipAddress string)
}

type recorder struct {
	repo Repository
}

func NewRecorder(repo Repository) Recorder {
	return &recorder{repo: repo}
}

func (r *recorder) Record(ctx context.Context, userID, action, details, ipAddress string) {
	e := &Entry{
		UserID:    userID,
		Action:    action,
		Details:   details,
		IPAddress: ipAddress,
	}
	if err := r.repo.Create(ctx, e); err != nil {
		log.Printf("failed to record audit entry (user=%s action=%s): %v", userID, action, err)
		return
	}
	log.Printf("audit: user %s - %s", userID, action)
}

// NopRecorder discards entries. Useful in tests.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, string, string, string, string) {}
