package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/techclub/recruitment-portal-backend/internal/pkg/response"
	"github.com/techclub/recruitment-portal-backend/internal/stats"
)

type Handler struct {
	service stats.Service
}

func NewHandler(service stats.Service) *Handler {
	return &Handler{service: service}
}

// Overview returns the admin dashboard counters.
func (h *Handler) Overview(c *gin.Context) {
	o, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
