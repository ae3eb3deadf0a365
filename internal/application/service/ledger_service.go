package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/canteenhq/finance-api/internal/domain/entity"
	"github.com/canteenhq/finance-api/internal/domain/enum"
	"github.com/canteenhq/finance-api/internal/domain/repository"
	"github.com/canteenhq/finance-api/pkg/apperror"
	"github.com/canteenhq/finance-api/pkg/pagination"
)

// LedgerService owns the cash ledger: validated appends, source-restricted
// edits and the running-balance view.
type LedgerService struct {
	txRepo repository.TransactionRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(txRepo repository.TransactionRepository) *LedgerService {
	return &LedgerService{txRepo: txRepo}
}

// CreateTransactionInput represents a new ledger entry. Amount is in
// currency units; Source defaults to manual when empty.
type CreateTransactionInput struct {
	Date        time.Time
	Description string
	Type        enum.TransactionType
	Amount      float64
	Source      enum.TransactionSource
}

// UpdateTransactionInput carries the fields an edit may change. Nil fields
// are left untouched.
type UpdateTransactionInput struct {
	Date        *time.Time
	Description *string
	Type        *enum.TransactionType
	Amount      *float64
	Source      *enum.TransactionSource
}

// Append validates and inserts a ledger entry. Balances for the entry and
// everything after it in canonical order are recomputed before returning.
func (s *LedgerService) Append(ctx context.Context, input *CreateTransactionInput) (*entity.Transaction, error) {
	var fieldErrs []apperror.FieldError
	if input.Date.IsZero() {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "date", Message: "date is required"})
	}
	if input.Description == "" {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "description", Message: "description is required"})
	}
	if !input.Type.Valid() {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "type", Message: "type must be credit or debit"})
	}
	if input.Amount <= 0 {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "amount", Message: "amount must be positive"})
	}

	source := input.Source
	if source == "" {
		source = enum.SourceManual
	}
	if !source.Valid() {
		fieldErrs = append(fieldErrs, apperror.FieldError{Field: "source", Message: "unknown transaction source"})
	}

	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	transaction := &entity.Transaction{
		Date:        truncateToDay(input.Date),
		Description: input.Description,
		Type:        input.Type,
		Amount:      toCents(input.Amount),
		Source:      source,
	}

	if err := s.txRepo.CreateWithBalances(ctx, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

// AppendSystem inserts a system-sourced entry with a cent-exact amount. Used
// by the settlement engine and the reconciler, which must not lose precision
// through a float round trip.
func (s *LedgerService) AppendSystem(ctx context.Context, date time.Time, description string, txType enum.TransactionType, amountCents int64, source enum.TransactionSource) (*entity.Transaction, error) {
	if amountCents <= 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "amount", Message: "amount must be positive"},
		})
	}

	transaction := &entity.Transaction{
		Date:        truncateToDay(date),
		Description: description,
		Type:        txType,
		Amount:      amountCents,
		Source:      source,
	}

	if err := s.txRepo.CreateWithBalances(ctx, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

// Update edits a manual entry. System-sourced entries are permanent audit
// records; touching one is a permission error, detected before any write.
func (s *LedgerService) Update(ctx context.Context, id uuid.UUID, input *UpdateTransactionInput) (*entity.Transaction, error) {
	existing, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	if !existing.Source.Mutable() {
		return nil, apperror.NewPermissionError("Entries with source '" + string(existing.Source) + "' are system-generated and cannot be modified")
	}

	var fieldErrs []apperror.FieldError
	if input.Date != nil {
		if input.Date.IsZero() {
			fieldErrs = append(fieldErrs, apperror.FieldError{Field: "date", Message: "date cannot be empty"})
		} else {
			existing.Date = truncateToDay(*input.Date)
		}
	}
	if input.Description != nil {
		if *input.Description == "" {
			fieldErrs = append(fieldErrs, apperror.FieldError{Field: "description", Message: "description cannot be empty"})
		} else {
			existing.Description = *input.Description
		}
	}
	if input.Type != nil {
		if !input.Type.Valid() {
			fieldErrs = append(fieldErrs, apperror.FieldError{Field: "type", Message: "type must be credit or debit"})
		} else {
			existing.Type = *input.Type
		}
	}
	if input.Amount != nil {
		if *input.Amount <= 0 {
			fieldErrs = append(fieldErrs, apperror.FieldError{Field: "amount", Message: "amount must be positive"})
		} else {
			existing.Amount = toCents(*input.Amount)
		}
	}
	if input.Source != nil {
		if !input.Source.Valid() {
			fieldErrs = append(fieldErrs, apperror.FieldError{Field: "source", Message: "unknown transaction source"})
		} else {
			existing.Source = *input.Source
		}
	}

	if len(fieldErrs) > 0 {
		return nil, apperror.NewValidationError(fieldErrs)
	}

	if err := s.txRepo.UpdateWithBalances(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Remove deletes a manual entry and recomputes the balances of everything
// ordered after it.
func (s *LedgerService) Remove(ctx context.Context, id uuid.UUID) error {
	existing, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperror.NewNotFoundError("Transaction")
	}
	if !existing.Source.Mutable() {
		return apperror.NewPermissionError("Entries with source '" + string(existing.Source) + "' are system-generated and cannot be deleted")
	}

	return s.txRepo.DeleteWithBalances(ctx, id)
}

// List returns ledger entries in presentation order (newest first) with the
// requested filters applied.
func (s *LedgerService) List(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.Transaction], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}

	transactions, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pg := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(transactions, pg), nil
}

// GetByID returns a single ledger entry.
func (s *LedgerService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	transaction, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transaction == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return transaction, nil
}

// HasSystemEntry reports whether a system-sourced entry matching the dedup
// key (source, amount, description token, optional business date) exists.
func (s *LedgerService) HasSystemEntry(ctx context.Context, source enum.TransactionSource, amountCents int64, descriptionToken string, date *time.Time) (bool, error) {
	return s.txRepo.ExistsSystemEntry(ctx, source, amountCents, descriptionToken, date)
}

// BalanceOutput is the ledger's running totals in currency units.
type BalanceOutput struct {
	Balance      float64 `json:"balance"`
	TotalCredits float64 `json:"total_credits"`
	TotalDebits  float64 `json:"total_debits"`
	Entries      int64   `json:"entries"`
}

// Balance returns the current running balance, cross-checked against the
// stored tail of the canonical fold.
func (s *LedgerService) Balance(ctx context.Context) (*BalanceOutput, error) {
	summary, err := s.txRepo.BalanceSummary(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.txRepo.ListCanonical(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 && entries[len(entries)-1].RemainingBalance != summary.Balance {
		return nil, apperror.NewConsistencyError("Stored running balance diverged from the ledger fold")
	}

	return &BalanceOutput{
		Balance:      float64(summary.Balance) / 100,
		TotalCredits: float64(summary.TotalCredits) / 100,
		TotalDebits:  float64(summary.TotalDebits) / 100,
		Entries:      summary.Entries,
	}, nil
}

// toCents converts a currency-unit amount to cents.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// truncateToDay normalizes a timestamp to its UTC calendar day.
func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
