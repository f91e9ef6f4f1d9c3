package application

import (
	"net/http"
	"time"

	"github.com/techclub/recruitment-portal-backend/internal/pkg/apperror"
)

var (
	ErrNotFound      = apperror.New(http.StatusNotFound, "not_found", "application not found")
	ErrInvalidStatus = apperror.New(http.StatusBadRequest, "invalid_status", "invalid application status")
)

type Status string

const (
	StatusPending      Status = "pending"
	StatusSlotSelected Status = "slot_selected"
	StatusUnderReview  Status = "under_review"
	StatusAccepted     Status = "accepted"
	StatusRejected     Status = "rejected"
)

// Valid reports whether s is a known application status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSlotSelected, StatusUnderReview, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Application is a candidate's recruitment application. Each candidate has at
// most one. The booking coordinator moves status between pending and
// slot_selected as a side effect of reserving or cancelling a slot; the
// remaining transitions are admin decisions.
type Application struct {
	ID        string
	UserID    string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
