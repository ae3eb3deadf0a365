package request

// CreateTransactionRequest represents a new ledger entry. Date is a calendar
// day in 2006-01-02 form; Amount is in currency units.
type CreateTransactionRequest struct {
	Date        string  `json:"date" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Source      string  `json:"source"`
}

// UpdateTransactionRequest carries the fields an edit may change
type UpdateTransactionRequest struct {
	Date        *string  `json:"date"`
	Description *string  `json:"description"`
	Type        *string  `json:"type"`
	Amount      *float64 `json:"amount"`
	Source      *string  `json:"source"`
}

// SettlementStatusRequest represents a settlement status change for one
// vendor/day. SettlementDate optionally dates the mirrored ledger debit.
type SettlementStatusRequest struct {
	Status         string  `json:"status" binding:"required"`
	SettlementDate *string `json:"settlement_date"`
}

// SyncRequest represents a reconciliation sync trigger. WindowDays of zero
// uses the configured default window.
type SyncRequest struct {
	WindowDays int `json:"window_days"`
}
