package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the admin stats endpoint.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	g.GET("/stats", authMiddleware, adminMiddleware, h.Overview)
}
