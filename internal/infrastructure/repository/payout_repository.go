package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/canteenhq/finance-api/internal/domain/entity"
	"github.com/canteenhq/finance-api/internal/domain/enum"
	domainRepo "github.com/canteenhq/finance-api/internal/domain/repository"
)

type payoutRepository struct {
	db *gorm.DB
}

// NewPayoutRepository creates a new settlement-status repository
func NewPayoutRepository(db *gorm.DB) domainRepo.PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) GetByVendorAndDate(ctx context.Context, vendorID uuid.UUID, date time.Time) (*entity.DailyVendorPayout, error) {
	var payout entity.DailyVendorPayout
	err := r.db.WithContext(ctx).
		First(&payout, "vendor_id = ? AND payout_date = ?", vendorID, date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payout, err
}

func (r *payoutRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]entity.DailyVendorPayout, error) {
	var payouts []entity.DailyVendorPayout
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("payout_date DESC").
		Find(&payouts).Error
	return payouts, err
}

// MarkSettled is a single atomic conditional upsert: insert the settled row,
// or update an existing row only while its status is still unsettled. Zero
// affected rows means a settled row already holds the key and the frozen
// amount stands.
func (r *payoutRepository) MarkSettled(ctx context.Context, vendorID uuid.UUID, date time.Time, amount int64, settledAt time.Time) (bool, error) {
	payout := entity.DailyVendorPayout{
		VendorID:   vendorID,
		PayoutDate: date,
		Amount:     amount,
		Status:     enum.PayoutStatusSettled,
		SettledAt:  &settledAt,
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "vendor_id"}, {Name: "payout_date"}},
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: "daily_vendor_payouts", Name: "status"},
				Value:  enum.PayoutStatusUnsettled,
			},
		}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"amount":     amount,
			"status":     enum.PayoutStatusSettled,
			"settled_at": settledAt,
			"updated_at": time.Now(),
		}),
	}).Create(&payout)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
