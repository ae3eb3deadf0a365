package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/canteenhq/finance-api/internal/domain/entity"
)

// PayoutRepository defines the interface for settlement-status persistence.
type PayoutRepository interface {
	GetByVendorAndDate(ctx context.Context, vendorID uuid.UUID, date time.Time) (*entity.DailyVendorPayout, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]entity.DailyVendorPayout, error)
	// MarkSettled performs the one-way unsettled -> settled transition as a
	// single conditional upsert on the (vendor_id, payout_date) unique key.
	// It returns false when the row is already settled, in which case the
	// stored amount and settled_at are untouched.
	MarkSettled(ctx context.Context, vendorID uuid.UUID, date time.Time, amount int64, settledAt time.Time) (bool, error)
}
