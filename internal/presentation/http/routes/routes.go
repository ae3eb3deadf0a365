package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/canteenhq/finance-api/internal/config"
	domainRepo "github.com/canteenhq/finance-api/internal/domain/repository"
	"github.com/canteenhq/finance-api/internal/presentation/http/handler"
	"github.com/canteenhq/finance-api/internal/presentation/http/middleware"
	"github.com/canteenhq/finance-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth           *handler.AuthHandler
	Ledger         *handler.LedgerHandler
	Vendor         *handler.VendorHandler
	Payout         *handler.PayoutHandler
	Reconciliation *handler.ReconciliationHandler
	Report         *handler.ReportHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-client rate limiter
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		// Replay protection for the mutating finance endpoints
		protected.Use(middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}))

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Ledger
	ledger := protected.Group("/ledger")
	{
		ledger.GET("", h.Ledger.List)
		ledger.POST("", h.Ledger.Create)
		ledger.GET("/balance", h.Ledger.Balance)
		ledger.GET("/:id", h.Ledger.Get)
		ledger.PUT("/:id", h.Ledger.Update)
		ledger.DELETE("/:id", h.Ledger.Delete)
	}

	// Vendors and their settlements
	vendors := protected.Group("/vendors")
	{
		vendors.GET("", h.Vendor.List)
		vendors.GET("/:id", h.Vendor.Get)
		vendors.GET("/:id/settlements", h.Payout.ListSettlements)
		vendors.PUT("/:id/settlements/:date", h.Payout.UpdateSettlement)
	}

	// Reconciliation
	protected.POST("/reconciliation/sync", h.Reconciliation.Sync)

	// Reports
	protected.GET("/reports/net-profit", h.Report.NetProfit)
}
