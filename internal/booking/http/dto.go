package http

import (
	"time"

	"github.com/techclub/recruitment-portal-backend/internal/booking"
	slotHttp "github.com/techclub/recruitment-portal-backend/internal/slot/http"
)

// BookingResponse is returned after a successful reservation and in the
// my-booking view.
type BookingResponse struct {
	ID       string                `json:"id"`
	BookedAt time.Time             `json:"booked_at"`
	Slot     slotHttp.SlotResponse `json:"slot"`
}

func NewBookingResponse(b *booking.Booking, slotView slotHttp.SlotResponse) BookingResponse {
	return BookingResponse{
		ID:       b.ID,
		BookedAt: b.BookedAt,
		Slot:     slotView,
	}
}

// MyBookingResponse is the candidate's own-booking view.
type MyBookingResponse struct {
	HasBooking bool             `json:"has_booking"`
	Booking    *BookingResponse `json:"booking,omitempty"`
}

// SlotFullResponse is the conflict payload: the error kind plus a snapshot
// showing zero availability so clients can update without a second request.
type SlotFullResponse struct {
	Error     string                `json:"error"`
	ErrorType string                `json:"error_type"`
	Slot      slotHttp.SlotResponse `json:"slot"`
}
