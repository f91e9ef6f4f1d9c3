package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techclub/recruitment-portal-backend/internal/booking"
	"github.com/techclub/recruitment-portal-backend/internal/pkg/clock"
	"github.com/techclub/recruitment-portal-backend/internal/pkg/response"
	"github.com/techclub/recruitment-portal-backend/internal/slot"
)

const (
	testSlotID = "0b7f3f33-94d2-4b52-b1a8-0d5b6cfd4a01"
	testUserID = "f0e0a9aa-26a7-4bd4-9d7f-63f0a6b6dd02"
)

// stubService scripts the coordinator's responses per test.
type stubService struct {
	reserveBooking *booking.Booking
	reserveSlot    *slot.Slot
	reserveErr     error

	cancelErr error

	myBooking    *booking.MyBooking
	myBookingErr error
}

func (s *stubService) Reserve(context.Context, string, string) (*booking.Booking, *slot.Slot, error) {
	return s.reserveBooking, s.reserveSlot, s.reserveErr
}

func (s *stubService) Cancel(context.Context, string) error {
	return s.cancelErr
}

func (s *stubService) MyBooking(context.Context, string) (*booking.MyBooking, error) {
	return s.myBooking, s.myBookingErr
}

func (s *stubService) SummariesForSlot(context.Context, string) ([]booking.Summary, error) {
	return nil, nil
}

var handlerTestNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func newTestRouter(svc booking.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// Stands in for the JWT middleware.
	fakeAuth := func(c *gin.Context) {
		c.Set("userID", testUserID)
		c.Set("userRole", "candidate")
		c.Next()
	}
	pass := func(c *gin.Context) { c.Next() }

	h := NewHandler(svc, clock.NewMockClock(handlerTestNow))
	v1 := r.Group("/v1")
	RegisterRoutes(v1, h, fakeAuth, pass)
	return r
}

func testSlot(booked int) *slot.Slot {
	return &slot.Slot{
		ID:              testSlotID,
		Date:            time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00:00",
		EndTime:         "11:00:00",
		Capacity:        2,
		CurrentBookings: booked,
		IsOpen:          true,
	}
}

func TestBookEndpoint(t *testing.T) {
	t.Run("Success: 201 with booking and updated slot view", func(t *testing.T) {
		svc := &stubService{
			reserveBooking: &booking.Booking{
				ID:       "booking-1",
				SlotID:   testSlotID,
				UserID:   testUserID,
				BookedAt: handlerTestNow,
			},
			reserveSlot: testSlot(1),
		}
		r := newTestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/v1/slots/"+testSlotID+"/book", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp BookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "booking-1", resp.ID)
		assert.Equal(t, testSlotID, resp.Slot.ID)
		assert.Equal(t, 1, resp.Slot.CurrentBookings)
		assert.Equal(t, 1, resp.Slot.AvailableSpots)
	})

	t.Run("Slot full: 409 with zero-availability snapshot", func(t *testing.T) {
		svc := &stubService{
			reserveSlot: testSlot(2),
			reserveErr:  booking.ErrSlotFull,
		}
		r := newTestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/v1/slots/"+testSlotID+"/book", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusConflict, w.Code)

		var resp SlotFullResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "slot_full", resp.ErrorType)
		assert.NotEmpty(t, resp.Error)
		assert.Equal(t, 0, resp.Slot.AvailableSpots)
		assert.True(t, resp.Slot.IsFull)
		assert.False(t, resp.Slot.IsAvailable)
	})

	t.Run("Already booked: 400 with error_type", func(t *testing.T) {
		svc := &stubService{reserveErr: booking.ErrAlreadyBooked}
		r := newTestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/v1/slots/"+testSlotID+"/book", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "already_booked", resp.ErrorType)
	})

	t.Run("Closed and past slots: 400 with matching error_type", func(t *testing.T) {
		cases := []struct {
			err  error
			kind string
		}{
			{booking.ErrSlotClosed, "slot_closed"},
			{booking.ErrPastSlot, "past_slot"},
		}
		for _, tc := range cases {
			svc := &stubService{reserveErr: tc.err}
			r := newTestRouter(svc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/v1/slots/"+testSlotID+"/book", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp response.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.kind, resp.ErrorType)
		}
	})

	t.Run("Unknown slot: 404", func(t *testing.T) {
		svc := &stubService{reserveErr: slot.ErrNotFound}
		r := newTestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/v1/slots/"+testSlotID+"/book", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Transient failure: 500 with server_error", func(t *testing.T) {
		svc := &stubService{reserveErr: booking.NewTransientError(assert.AnError)}
		r := newTestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/v1/slots/"+testSlotID+"/book", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)

		var resp response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "server_error", resp.ErrorType)
	})

	t.Run("Malformed slot id: 400 before hitting the service", func(t *testing.T) {
		r := newTestRouter(&stubService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/v1/slots/not-a-uuid/book", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMyBookingEndpoint(t *testing.T) {
	t.Run("With booking: 200 with slot view", func(t *testing.T) {
		svc := &stubService{
			myBooking: &booking.MyBooking{
				Booking: &booking.Booking{ID: "booking-1", SlotID: testSlotID, UserID: testUserID, BookedAt: handlerTestNow},
				Slot:    testSlot(1),
			},
		}
		r := newTestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/v1/my-booking", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp MyBookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.HasBooking)
		require.NotNil(t, resp.Booking)
		assert.Equal(t, "booking-1", resp.Booking.ID)
		assert.Equal(t, testSlotID, resp.Booking.Slot.ID)
	})

	t.Run("No booking: 200 with has_booking false, not an error", func(t *testing.T) {
		svc := &stubService{myBookingErr: booking.ErrNotBooked}
		r := newTestRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/v1/my-booking", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp MyBookingResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.HasBooking)
		assert.Nil(t, resp.Booking)
	})
}

func TestCancelEndpoint(t *testing.T) {
	t.Run("Success: 204", func(t *testing.T) {
		r := newTestRouter(&stubService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/v1/my-booking", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("No booking to cancel: 404", func(t *testing.T) {
		r := newTestRouter(&stubService{cancelErr: booking.ErrNotBooked})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("DELETE", "/v1/my-booking", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusNotFound, w.Code)

		var resp response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "not_booked", resp.ErrorType)
	})
}
