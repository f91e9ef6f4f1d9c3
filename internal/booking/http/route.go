package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers booking routes. Booking is a candidate action;
// admins inspect bookings through the slot detail view instead.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, candidateMiddleware gin.HandlerFunc) {
	g.POST("/slots/:id/book", authMiddleware, candidateMiddleware, h.Book)

	myBooking := g.Group("/my-booking")
	myBooking.Use(authMiddleware, candidateMiddleware)
	{
		myBooking.GET("", h.MyBooking)
		myBooking.DELETE("", h.CancelMyBooking)
	}
}
