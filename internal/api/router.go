package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/techclub/recruitment-portal-backend/internal/announcement"
	annHttp "github.com/techclub/recruitment-portal-backend/internal/announcement/http"
	"github.com/techclub/recruitment-portal-backend/internal/application"
	"github.com/techclub/recruitment-portal-backend/internal/audit"
	"github.com/techclub/recruitment-portal-backend/internal/auth"
	"github.com/techclub/recruitment-portal-backend/internal/booking"
	bookingHttp "github.com/techclub/recruitment-portal-backend/internal/booking/http"
	"github.com/techclub/recruitment-portal-backend/internal/pkg/clock"
	"github.com/techclub/recruitment-portal-backend/internal/slot"
	slotHttp "github.com/techclub/recruitment-portal-backend/internal/slot/http"
	"github.com/techclub/recruitment-portal-backend/internal/stats"
	statsHttp "github.com/techclub/recruitment-portal-backend/internal/stats/http"
	"github.com/techclub/recruitment-portal-backend/internal/user"
	userHttp "github.com/techclub/recruitment-portal-backend/internal/user/http"
)

// Config holds everything the router needs to assemble middleware and
// register module routes.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService        user.Service
	ApplicationService application.Service
	SlotService        slot.Service
	BookingService     booking.Service
	AnnService         announcement.Service
	StatsService       stats.Service
	Recorder           audit.Recorder
	JWTManager         *auth.JWTManager
	Clock              clock.Clock
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and
// registering routes for the modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // Frontend dev server
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	adminMiddleware := auth.RequireRole(user.RoleAdmin)
	candidateMiddleware := auth.RequireRole(user.RoleCandidate)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.ApplicationService, cfg.JWTManager, cfg.Recorder)
	slotHandler := slotHttp.NewHandler(cfg.SlotService, cfg.BookingService, cfg.Clock)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.Clock)
	annHandler := annHttp.NewHandler(cfg.AnnService)
	statsHandler := statsHttp.NewHandler(cfg.StatsService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		slotHttp.RegisterRoutes(v1, slotHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, candidateMiddleware)
		annHttp.RegisterRoutes(v1, annHandler, authMiddleware, adminMiddleware)
		statsHttp.RegisterRoutes(v1, statsHandler, authMiddleware, adminMiddleware)
	}

	return r
}

func splitOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
