package router

import (
	"database/sql"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shift_scheduler_backend/internal/handlers"
	"shift_scheduler_backend/internal/middleware"
	"shift_scheduler_backend/internal/repositories"
	"shift_scheduler_backend/internal/services"
	"shift_scheduler_backend/pkg/utils"
)

// Options carries the dependencies routes are built from.
type Options struct {
	DB             *sql.DB
	Tokens         *utils.TokenManager
	Dispatcher     services.MessageDispatcher
	CookieSecure   bool
	AllowedOrigins []string
}

// NewEngine builds the gin engine with the global middleware chain and all
// application routes.
func NewEngine(opts Options) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID(), utils.GinLogger(), gin.Recovery())

	if len(opts.AllowedOrigins) > 0 {
		config := cors.DefaultConfig()
		config.AllowOrigins = opts.AllowedOrigins
		config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization",
			middleware.AntiforgeryHeaderName, middleware.RequestIDHeader}
		config.ExposeHeaders = []string{middleware.RequestIDHeader}
		config.AllowCredentials = true
		engine.Use(cors.New(config))
	}

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	Setup(engine, opts)
	return engine
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, opts Options) {
	db := opts.DB
	cookies := middleware.CookieOptions{Secure: opts.CookieSecure}

	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	shiftRepo := repositories.NewShiftRepository(db)
	shiftDetailRepo := repositories.NewShiftDetailRepository(db)
	availabilityRepo := repositories.NewAvailabilityRepository(db)
	punchRepo := repositories.NewPunchRepository(db)
	payStubRepo := repositories.NewPayStubRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, db, opts.Tokens)
	shiftService := services.NewShiftService(shiftRepo, shiftDetailRepo, db)
	shiftDetailService := services.NewShiftDetailService(shiftDetailRepo, shiftRepo, db)
	availabilityService := services.NewAvailabilityService(availabilityRepo, db)
	punchService := services.NewPunchService(punchRepo, db)
	payStubService := services.NewPayStubService(payStubRepo, punchRepo, authRepo, opts.Dispatcher, db)
	employeeService := services.NewEmployeeService(employeeRepo)
	reportService := services.NewReportService(reportRepo)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService, opts.Tokens, cookies)
	shiftHandler := handlers.NewShiftHandler(shiftService)
	shiftDetailHandler := handlers.NewShiftDetailHandler(shiftDetailService)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	punchHandler := handlers.NewPunchHandler(punchService)
	payStubHandler := handlers.NewPayStubHandler(payStubService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	reportHandler := handlers.NewReportHandler(reportService)

	app := engine.Group("")
	app.Use(middleware.Session(opts.Tokens, cookies), middleware.AntiForgery(cookies))
	{
		SetupAccountRoutes(app, authHandler)
		SetupShiftDetailRoutes(app, shiftDetailHandler)
		SetupShiftRoutes(app, shiftHandler)
		SetupAvailabilityRoutes(app, availabilityHandler)
		SetupPunchRoutes(app, punchHandler)
		SetupPayStubRoutes(app, payStubHandler)
		SetupEmployeeRoutes(app, employeeHandler)
		SetupReportRoutes(app, reportHandler)
	}
}
