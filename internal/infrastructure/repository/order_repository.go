package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/canteenhq/finance-api/internal/domain/entity"
	"github.com/canteenhq/finance-api/internal/domain/enum"
	domainRepo "github.com/canteenhq/finance-api/internal/domain/repository"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a read-only repository over the orders table
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

// GetDailyRevenue scans confirmed orders newest-first and groups them by
// calendar day in Go, keeping the query portable across postgres and the
// sqlite test driver.
func (r *orderRepository) GetDailyRevenue(ctx context.Context, vendorID uuid.UUID) ([]domainRepo.DailyRevenue, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND status = ?", vendorID, enum.OrderStatusConfirmed).
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	var results []domainRepo.DailyRevenue
	index := make(map[string]int)
	for _, o := range orders {
		day := truncateToDay(o.OrderDate)
		key := day.Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			results = append(results, domainRepo.DailyRevenue{Date: day})
			i = len(results) - 1
			index[key] = i
		}
		results[i].TotalRevenue += o.Total
		results[i].OrdersCount++
	}
	return results, nil
}

func (r *orderRepository) GetRevenueForDay(ctx context.Context, vendorID uuid.UUID, day time.Time) (int64, int, error) {
	start := truncateToDay(day)
	end := start.Add(24 * time.Hour)

	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Where("vendor_id = ? AND status = ? AND order_date >= ? AND order_date < ?",
			vendorID, enum.OrderStatusConfirmed, start, end).
		Find(&orders).Error
	if err != nil {
		return 0, 0, err
	}

	var total int64
	for _, o := range orders {
		total += o.Total
	}
	return total, len(orders), nil
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
