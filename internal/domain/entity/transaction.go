package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/canteenhq/finance-api/internal/domain/enum"
)

// Transaction is a single ledger entry. Amounts and balances are stored in
// cents. PreviousBalance and RemainingBalance are derived from the canonical
// fold over all entries (date ASC, created_at ASC, id ASC) and are rewritten
// by the store after any mutation; they are never set directly.
type Transaction struct {
	ID               uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	Date             time.Time              `gorm:"type:date;not null;index:idx_transactions_canonical,priority:1" json:"date"`
	Description      string                 `gorm:"size:500;not null" json:"description"`
	Type             enum.TransactionType   `gorm:"size:10;not null" json:"type"`
	Amount           int64                  `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Source           enum.TransactionSource `gorm:"size:30;not null;default:manual;index" json:"source"`
	PreviousBalance  int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	RemainingBalance int64                  `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt        time.Time              `gorm:"index:idx_transactions_canonical,priority:2" json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
	DeletedAt        gorm.DeletedAt         `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (t Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		Alias
		Date             string  `json:"date"`
		Amount           float64 `json:"amount"`
		PreviousBalance  float64 `json:"previous_balance"`
		RemainingBalance float64 `json:"remaining_balance"`
	}{
		Alias:            Alias(t),
		Date:             t.Date.Format("2006-01-02"),
		Amount:           float64(t.Amount) / 100,
		PreviousBalance:  float64(t.PreviousBalance) / 100,
		RemainingBalance: float64(t.RemainingBalance) / 100,
	})
}

// BeforeCreate generates a UUID before inserting a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "financial_transactions"
}

// Signed returns the amount with its direction applied: positive for
// credits, negative for debits.
func (t *Transaction) Signed() int64 {
	if t.Type == enum.TransactionTypeCredit {
		return t.Amount
	}
	return -t.Amount
}

// FoldBalances replays the running balance over entries, which must already
// be in canonical ascending order, starting from zero. Each entry's
// PreviousBalance/RemainingBalance pair is rewritten in place. It returns the
// indexes of entries whose stored balances changed, so a store can limit its
// writes to the disturbed suffix.
func FoldBalances(entries []Transaction) []int {
	var changed []int
	var bal int64
	for i := range entries {
		prev := bal
		bal += entries[i].Signed()
		if entries[i].PreviousBalance != prev || entries[i].RemainingBalance != bal {
			entries[i].PreviousBalance = prev
			entries[i].RemainingBalance = bal
			changed = append(changed, i)
		}
	}
	return changed
}
