package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/techclub/recruitment-portal-backend/internal/auth"
	"github.com/techclub/recruitment-portal-backend/internal/booking"
	"github.com/techclub/recruitment-portal-backend/internal/pkg/clock"
	"github.com/techclub/recruitment-portal-backend/internal/pkg/response"
	slotHttp "github.com/techclub/recruitment-portal-backend/internal/slot/http"
)

type Handler struct {
	service booking.Service
	clock   clock.Clock
}

func NewHandler(service booking.Service, clk clock.Clock) *Handler {
	return &Handler{service: service, clock: clk}
}

// Book reserves one seat on the slot for the authenticated candidate.
func (h *Handler) Book(c *gin.Context) {
	slotID := c.Param("id")
	if _, err := uuid.Parse(slotID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	b, sl, err := h.service.Reserve(c.Request.Context(), userID, slotID)
	if err != nil {
		// SlotFull carries a snapshot so the client can refresh its view of
		// the slot in the same round trip.
		if errors.Is(err, booking.ErrSlotFull) && sl != nil {
			c.JSON(http.StatusConflict, SlotFullResponse{
				Error:     err.Error(),
				ErrorType: "slot_full",
				Slot:      slotHttp.NewSlotResponse(sl, h.clock.Now()),
			})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b, slotHttp.NewSlotResponse(sl, h.clock.Now())))
}

// MyBooking returns the authenticated candidate's booking, if any.
func (h *Handler) MyBooking(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	mb, err := h.service.MyBooking(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, booking.ErrNotBooked) {
			c.JSON(http.StatusOK, MyBookingResponse{HasBooking: false})
			return
		}
		response.Error(c, err)
		return
	}

	resp := NewBookingResponse(mb.Booking, slotHttp.NewSlotResponse(mb.Slot, h.clock.Now()))
	c.JSON(http.StatusOK, MyBookingResponse{HasBooking: true, Booking: &resp})
}

// CancelMyBooking releases the candidate's booking and frees the seat.
func (h *Handler) CancelMyBooking(c *gin.Context) {
	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
