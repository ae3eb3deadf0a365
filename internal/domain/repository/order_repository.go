package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DailyRevenue is one calendar day of confirmed-order revenue for a vendor.
type DailyRevenue struct {
	Date         time.Time `json:"date"`
	TotalRevenue int64     `json:"-"` // cents
	OrdersCount  int       `json:"orders_count"`
}

// OrderRepository defines the read-only interface over the orders table.
// Only confirmed orders contribute to revenue.
type OrderRepository interface {
	// GetDailyRevenue returns confirmed revenue grouped by calendar day,
	// descending by date.
	GetDailyRevenue(ctx context.Context, vendorID uuid.UUID) ([]DailyRevenue, error)
	// GetRevenueForDay returns the confirmed revenue total and order count
	// for a single calendar day.
	GetRevenueForDay(ctx context.Context, vendorID uuid.UUID, day time.Time) (int64, int, error)
}
