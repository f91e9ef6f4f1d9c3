package booking

import (
	"net/http"
	"time"

	"github.com/techclub/recruitment-portal-backend/internal/pkg/apperror"
)

// Reservation failures, each with a stable machine-readable kind surfaced as
// error_type. SlotFull is an expected outcome under contention, not an
// exceptional condition: callers refresh and pick another slot.
var (
	ErrAlreadyBooked = apperror.New(http.StatusBadRequest, "already_booked",
		"you have already booked a slot; cancel it first to book a new one")
	ErrSlotClosed = apperror.New(http.StatusBadRequest, "slot_closed",
		"this slot is no longer open for booking")
	ErrPastSlot = apperror.New(http.StatusBadRequest, "past_slot",
		"cannot book a slot in the past")
	ErrSlotFull = apperror.New(http.StatusConflict, "slot_full",
		"sorry, this slot was just booked by someone else; please select a different slot")
	ErrNotBooked = apperror.New(http.StatusNotFound, "not_booked",
		"you have no active booking")
)

// NewTransientError wraps a persistence failure as a retryable server error.
// The coordinator guarantees full rollback before returning it.
func NewTransientError(err error) *apperror.AppError {
	return apperror.Wrap(err, http.StatusInternalServerError, "server_error",
		"an error occurred, please try again")
}

// Booking is a candidate's claim on one seat in one slot. Rows are created
// only by the coordinator's Reserve and removed only by Cancel; they are
// never mutated in between.
type Booking struct {
	ID        string
	SlotID    string
	UserID    string
	BookedAt  time.Time
	Confirmed bool
}

// Summary is the admin-facing view of one booking on a slot.
type Summary struct {
	UserName  string
	UserEmail string
	BookedAt  time.Time
}
