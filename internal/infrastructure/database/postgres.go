package database

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/canteenhq/finance-api/internal/config"
	"github.com/canteenhq/finance-api/internal/domain/entity"
	"github.com/canteenhq/finance-api/internal/domain/enum"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// Finance core
		&entity.Transaction{},
		&entity.DailyVendorPayout{},

		// Read-only sources
		&entity.Vendor{},
		&entity.Order{},

		// System entities
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDemoData seeds a couple of vendors with confirmed orders for local
// development. No-op unless SEED_DEMO_DATA is set.
func SeedDemoData(db *gorm.DB) error {
	if !viper.GetBool("SEED_DEMO_DATA") {
		return nil
	}

	var count int64
	if err := db.Model(&entity.Vendor{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Vendors already present, skipping demo seed")
		return nil
	}

	log.Println("Seeding demo vendors and orders...")

	vendors := []entity.Vendor{
		{Name: "Annapurna Canteen", Location: "Block A"},
		{Name: "Spice Route", Location: "Block C"},
	}
	if err := db.Create(&vendors).Error; err != nil {
		return fmt.Errorf("failed to seed vendors: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, v := range vendors {
		for daysAgo := 1; daysAgo <= 3; daysAgo++ {
			order := entity.Order{
				VendorID:  v.ID,
				OrderDate: today.AddDate(0, 0, -daysAgo),
				Status:    enum.OrderStatusConfirmed,
				Total:     25000 + int64(daysAgo)*7500, // cents
			}
			if err := db.Create(&order).Error; err != nil {
				log.Printf("Warning: failed to seed order for vendor %s: %v", v.Name, err)
			}
		}
	}

	log.Println("Demo data seeding completed")
	return nil
}
