package slot

import (
	"fmt"
	"net/http"
	"time"

	"github.com/techclub/recruitment-portal-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "not_found", "slot not found")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "invalid_time_range", "start time must be before end time")
	ErrInvalidCapacity  = apperror.New(http.StatusBadRequest, "invalid_capacity", "capacity must be a positive integer")
	ErrPastDate         = apperror.New(http.StatusBadRequest, "past_date", "slot date must not be in the past")
	ErrHasBookings      = apperror.New(http.StatusConflict, "has_bookings", "slot has active bookings")
)

// Slot is a bookable interview time window with a fixed seat capacity.
// CurrentBookings is maintained by the booking coordinator and always
// satisfies 0 <= CurrentBookings <= Capacity. Version increases on every
// successful booking or cancellation.
type Slot struct {
	ID              string
	Date            time.Time // date only, UTC midnight
	StartTime       string    // Format: HH:MM:SS
	EndTime         string    // Format: HH:MM:SS
	Capacity        int
	CurrentBookings int
	IsOpen          bool
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StartDateTime combines the slot's date and start time.
func (s *Slot) StartDateTime() time.Time {
	return combine(s.Date, s.StartTime)
}

// AvailableSpots derives the remaining seats; never stored.
func (s *Slot) AvailableSpots() int {
	n := s.Capacity - s.CurrentBookings
	if n < 0 {
		return 0
	}
	return n
}

// IsFull reports whether the slot has no remaining seats.
func (s *Slot) IsFull() bool {
	return s.CurrentBookings >= s.Capacity
}

// IsAvailable reports whether the slot can accept a booking at time now.
func (s *Slot) IsAvailable(now time.Time) bool {
	return s.IsOpen && s.AvailableSpots() > 0 && s.StartDateTime().After(now)
}

// Filter defines parameters for listing slots.
type Filter struct {
	Date       *time.Time // restrict to a single date
	FutureOnly bool       // date >= today
}

// ParseClock parses an HH:MM or HH:MM:SS time-of-day string.
func ParseClock(s string) (time.Time, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time of day %q", s)
}

func combine(date time.Time, clock string) time.Time {
	t, err := ParseClock(clock)
	if err != nil {
		// Stored values are DB TIME columns; they always parse.
		return date
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
