package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers slot routes. Listing and reading are open to any
// authenticated user; mutations are admin-only.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	slots := g.Group("/slots")
	slots.Use(authMiddleware)
	{
		slots.GET("", h.List)
		slots.GET("/:id", h.Get)

		admin := slots.Group("")
		admin.Use(adminMiddleware)
		{
			admin.POST("", h.Create)
			admin.PATCH("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
		}
	}
}
