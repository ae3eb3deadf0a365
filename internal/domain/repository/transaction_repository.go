package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/canteenhq/finance-api/internal/domain/entity"
	"github.com/canteenhq/finance-api/internal/domain/enum"
	"github.com/canteenhq/finance-api/pkg/pagination"
)

// TransactionFilterParams narrows ledger listings.
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	Type       *enum.TransactionType
	Source     *enum.TransactionSource
	StartDate  *time.Time
	EndDate    *time.Time
}

// BalanceSummary aggregates the ledger's running totals, in cents.
type BalanceSummary struct {
	Balance      int64
	TotalCredits int64
	TotalDebits  int64
	Entries      int64
}

// TransactionRepository defines the interface for ledger persistence. Every
// mutation recomputes the derived running balances inside the same database
// transaction, so a partially recomputed ledger is never observable.
type TransactionRepository interface {
	// CreateWithBalances inserts the entry and re-folds balances. The stored
	// entry, including its computed balance pair, is written back into e.
	CreateWithBalances(ctx context.Context, e *entity.Transaction) error
	// UpdateWithBalances saves the (already validated) entry and re-folds.
	UpdateWithBalances(ctx context.Context, e *entity.Transaction) error
	// DeleteWithBalances removes the entry and re-folds the remainder.
	DeleteWithBalances(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)
	// List returns entries in presentation order (date DESC, created_at DESC).
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.Transaction, int64, error)
	// ListCanonical returns all entries in canonical ascending order.
	ListCanonical(ctx context.Context) ([]entity.Transaction, error)
	// ExistsSystemEntry reports whether a system-sourced entry with the given
	// amount and description token already exists, optionally pinned to a
	// business date. Used as the dedup guard for payout and settlement writes.
	ExistsSystemEntry(ctx context.Context, source enum.TransactionSource, amount int64, descriptionToken string, date *time.Time) (bool, error)
	// BalanceSummary returns the stored tail balance plus credit/debit totals.
	BalanceSummary(ctx context.Context) (*BalanceSummary, error)
}
