package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/canteenhq/finance-api/internal/domain/enum"
)

// DailyVendorPayout is the stored settlement status for one vendor on one
// calendar day. Unsettled amounts are always recomputed live from order
// aggregates; a row only becomes authoritative once Status is settled, at
// which point Amount and SettledAt are frozen forever.
type DailyVendorPayout struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	VendorID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_payouts_vendor_day,priority:1" json:"vendor_id"`
	PayoutDate time.Time         `gorm:"type:date;not null;uniqueIndex:idx_payouts_vendor_day,priority:2" json:"payout_date"`
	Amount     int64             `gorm:"not null;default:0" json:"-"` // Stored in cents, excluded from JSON
	Status     enum.PayoutStatus `gorm:"size:20;not null;default:unsettled" json:"status"`
	SettledAt  *time.Time        `json:"settled_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p DailyVendorPayout) MarshalJSON() ([]byte, error) {
	type Alias DailyVendorPayout
	return json.Marshal(&struct {
		Alias
		PayoutDate string  `json:"payout_date"`
		Amount     float64 `json:"amount"`
	}{
		Alias:      Alias(p),
		PayoutDate: p.PayoutDate.Format("2006-01-02"),
		Amount:     float64(p.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before inserting a new payout row
func (p *DailyVendorPayout) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DailyVendorPayout model
func (DailyVendorPayout) TableName() string {
	return "daily_vendor_payouts"
}
