package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/canteenhq/finance-api/internal/domain/enum"
)

// Order is a canteen order. The orders table is owned by the ordering
// system; the finance core only reads it to aggregate confirmed revenue.
type Order struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	VendorID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"vendor_id"`
	OrderDate time.Time        `gorm:"type:date;not null;index" json:"order_date"`
	Status    enum.OrderStatus `gorm:"default:0" json:"status"`
	Total     int64            `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		Total float64 `json:"total"`
	}{
		Alias: Alias(o),
		Total: float64(o.Total) / 100,
	})
}

// BeforeCreate generates a UUID before inserting a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
