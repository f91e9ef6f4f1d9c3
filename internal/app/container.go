package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/techclub/recruitment-portal-backend/internal/announcement"
	"github.com/techclub/recruitment-portal-backend/internal/api"
	"github.com/techclub/recruitment-portal-backend/internal/application"
	"github.com/techclub/recruitment-portal-backend/internal/audit"
	"github.com/techclub/recruitment-portal-backend/internal/auth"
	"github.com/techclub/recruitment-portal-backend/internal/booking"
	"github.com/techclub/recruitment-portal-backend/internal/notifier"
	"github.com/techclub/recruitment-portal-backend/internal/pkg/clock"
	"github.com/techclub/recruitment-portal-backend/internal/slot"
	"github.com/techclub/recruitment-portal-backend/internal/stats"
	"github.com/techclub/recruitment-portal-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction       bool
	ProdOrigins        string
	DBPool             *pgxpool.Pool
	JWTSecret          string
	JWTTTL             time.Duration
	BcryptCost         int
	BookingLockTimeout time.Duration
	Mailer             *notifier.Mailer
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	clk := clock.NewRealClock()

	// Audit Module
	auditRepo := audit.NewPgxRepository(cfg.DBPool)
	recorder := audit.NewRecorder(auditRepo)

	// Application Module
	appRepo := application.NewPgxRepository(cfg.DBPool)
	appService := application.NewService(appRepo)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, appService, cfg.Mailer)

	// Slot Module
	slotRepo := slot.NewPgxRepository(cfg.DBPool)
	slotService := slot.NewService(slotRepo, clk)

	// Booking Module
	bookingStore := booking.NewPgxStore(cfg.DBPool, cfg.BookingLockTimeout)
	bookingService := booking.NewService(bookingStore, slotService, userService, cfg.Mailer, recorder, clk)

	// Announcement Module
	annRepo := announcement.NewPgxRepository(cfg.DBPool)
	annService := announcement.NewService(annRepo, userService, cfg.Mailer)

	// Stats Module
	statsRepo := stats.NewRepository(cfg.DBPool)
	statsService := stats.NewService(statsRepo)

	// API Router Config
	routerParams := api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		UserService:        userService,
		ApplicationService: appService,
		SlotService:        slotService,
		BookingService:     bookingService,
		AnnService:         annService,
		StatsService:       statsService,
		Recorder:           recorder,
		JWTManager:         jwtManager,
		Clock:              clk,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
