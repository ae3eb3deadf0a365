package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/canteenhq/finance-api/internal/application/service"
	"github.com/canteenhq/finance-api/internal/config"
	"github.com/canteenhq/finance-api/internal/infrastructure/database"
	"github.com/canteenhq/finance-api/internal/infrastructure/repository"
	"github.com/canteenhq/finance-api/internal/presentation/http/handler"
	"github.com/canteenhq/finance-api/internal/presentation/http/routes"
	"github.com/canteenhq/finance-api/pkg/processor"
	"github.com/canteenhq/finance-api/pkg/revenue"
	"github.com/canteenhq/finance-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed demo data when enabled
	if err := database.SeedDemoData(db); err != nil {
		log.Printf("Warning: Failed to seed demo data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	transactionRepo := repository.NewTransactionRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize external clients
	settlementFeed := processor.NewClient(processor.ClientConfig{
		BaseURL: cfg.Processor.BaseURL,
		APIKey:  cfg.Processor.APIKey,
	})
	revenueClient := revenue.NewClient(revenue.ClientConfig{
		BaseURL: cfg.Revenue.BaseURL,
		APIKey:  cfg.Revenue.APIKey,
	})

	// Initialize services
	authService := service.NewAuthService(&cfg.Auth, jwtManager)
	ledgerService := service.NewLedgerService(transactionRepo)
	vendorService := service.NewVendorService(vendorRepo)
	payoutService := service.NewPayoutService(
		payoutRepo,
		orderRepo,
		vendorRepo,
		ledgerService,
		service.PlatformFeeNetPayout(cfg.Payout.PlatformFeeBps),
	)
	reconciliationService := service.NewReconciliationService(
		settlementFeed,
		ledgerService,
		cfg.Processor.PageLimit,
		cfg.Processor.MaxRecords,
		cfg.Reconciliation.WindowDays,
	)
	profitService := service.NewProfitService(
		settlementFeed,
		revenueClient,
		vendorRepo,
		cfg.Processor.PageLimit,
		cfg.Processor.MaxRecords,
	)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:           handler.NewAuthHandler(authService),
		Ledger:         handler.NewLedgerHandler(ledgerService),
		Vendor:         handler.NewVendorHandler(vendorService),
		Payout:         handler.NewPayoutHandler(payoutService),
		Reconciliation: handler.NewReconciliationHandler(reconciliationService),
		Report:         handler.NewReportHandler(profitService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
