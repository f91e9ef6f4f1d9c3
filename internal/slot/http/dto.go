package http

import (
	"time"

	"github.com/techclub/recruitment-portal-backend/internal/slot"
)

// SlotResponse is the read-side slot view. The availability fields are
// derived at response time from capacity and the booking counter, so they
// can never drift from the stored state.
type SlotResponse struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Capacity        int    `json:"capacity"`
	CurrentBookings int    `json:"current_bookings"`
	AvailableSpots  int    `json:"available_spots"`
	IsOpen          bool   `json:"is_open"`
	IsAvailable     bool   `json:"is_available"`
	IsFull          bool   `json:"is_full"`
}

// NewSlotResponse builds the slot view relative to now.
func NewSlotResponse(s *slot.Slot, now time.Time) SlotResponse {
	return SlotResponse{
		ID:              s.ID,
		Date:            s.Date.Format("2006-01-02"),
		StartTime:       shortClock(s.StartTime),
		EndTime:         shortClock(s.EndTime),
		Capacity:        s.Capacity,
		CurrentBookings: s.CurrentBookings,
		AvailableSpots:  s.AvailableSpots(),
		IsOpen:          s.IsOpen,
		IsAvailable:     s.IsAvailable(now),
		IsFull:          s.IsFull(),
	}
}

// shortClock renders HH:MM:SS as HH:MM for API responses.
func shortClock(c string) string {
	t, err := slot.ParseClock(c)
	if err != nil {
		return c
	}
	return t.Format("15:04")
}

// ListSlotsRequest defines query parameters for listing slots.
type ListSlotsRequest struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// Validate performs custom validation for ListSlotsRequest.
func (r *ListSlotsRequest) Validate() error {
	return nil
}

// ListSlotsResponse wraps the slot views with a total count.
type ListSlotsResponse struct {
	Slots []SlotResponse `json:"slots"`
	Total int            `json:"total"`
}

// BookingSummary is visible to admins on the single-slot view.
type BookingSummary struct {
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	BookedAt  time.Time `json:"booked_at"`
}

// SlotDetailResponse is the single-slot view; Bookings is admin-only.
type SlotDetailResponse struct {
	SlotResponse
	Bookings []BookingSummary `json:"bookings,omitempty"`
}

// CreateSlotRequest defines the admin payload for creating a slot.
type CreateSlotRequest struct {
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Capacity  int    `json:"capacity" binding:"required,min=1"`
	IsOpen    *bool  `json:"is_open"`
}

// Validate performs custom validation for CreateSlotRequest.
func (r *CreateSlotRequest) Validate() error {
	if _, err := slot.ParseClock(r.StartTime); err != nil {
		return slot.ErrInvalidTimeRange
	}
	if _, err := slot.ParseClock(r.EndTime); err != nil {
		return slot.ErrInvalidTimeRange
	}
	return nil
}

// UpdateSlotRequest toggles admin-controlled availability.
type UpdateSlotRequest struct {
	IsOpen *bool `json:"is_open" binding:"required"`
}

// Validate performs custom validation for UpdateSlotRequest.
func (r *UpdateSlotRequest) Validate() error {
	return nil
}
