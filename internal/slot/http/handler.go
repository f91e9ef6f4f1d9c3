package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/techclub/recruitment-portal-backend/internal/auth"
	"github.com/techclub/recruitment-portal-backend/internal/booking"
	"github.com/techclub/recruitment-portal-backend/internal/pkg/clock"
	"github.com/techclub/recruitment-portal-backend/internal/pkg/response"
	"github.com/techclub/recruitment-portal-backend/internal/slot"
	"github.com/techclub/recruitment-portal-backend/internal/user"
)

type Handler struct {
	service        slot.Service
	bookingService booking.Service
	clock          clock.Clock
}

func NewHandler(service slot.Service, bookingService booking.Service, clk clock.Clock) *Handler {
	return &Handler{
		service:        service,
		bookingService: bookingService,
		clock:          clk,
	}
}

// List returns future slots, optionally restricted to one date, ordered by
// date and start time.
func (h *Handler) List(c *gin.Context) {
	var req ListSlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query", "details": err.Error()})
		return
	}

	filter := slot.Filter{FutureOnly: true}
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		filter.Date = &d
	}

	slots, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	now := h.clock.Now()
	views := make([]SlotResponse, len(slots))
	for i, s := range slots {
		views[i] = NewSlotResponse(s, now)
	}

	c.JSON(http.StatusOK, ListSlotsResponse{Slots: views, Total: len(views)})
}

// Get returns a single slot view. Admin callers additionally see who booked.
func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := SlotDetailResponse{SlotResponse: NewSlotResponse(s, h.clock.Now())}

	if auth.GetUserRole(c) == user.RoleAdmin {
		summaries, err := h.bookingService.SummariesForSlot(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		resp.Bookings = make([]BookingSummary, len(summaries))
		for i, sm := range summaries {
			resp.Bookings[i] = BookingSummary{
				UserName:  sm.UserName,
				UserEmail: sm.UserEmail,
				BookedAt:  sm.BookedAt,
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Create adds a new slot. Capacity is fixed once created.
func (h *Handler) Create(c *gin.Context) {
	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	isOpen := true
	if req.IsOpen != nil {
		isOpen = *req.IsOpen
	}

	s, err := h.service.Create(c.Request.Context(), slot.CreateRequest{
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Capacity:  req.Capacity,
		IsOpen:    isOpen,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewSlotResponse(s, h.clock.Now()))
}

// Update toggles whether the slot accepts new bookings. Closing never
// un-books existing reservations.
func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var req UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	s, err := h.service.SetOpen(c.Request.Context(), id, *req.IsOpen)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSlotResponse(s, h.clock.Now()))
}

// Delete removes a slot that has no bookings.
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
