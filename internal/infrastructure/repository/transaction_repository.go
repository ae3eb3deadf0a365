package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/canteenhq/finance-api/internal/domain/entity"
	"github.com/canteenhq/finance-api/internal/domain/enum"
	domainRepo "github.com/canteenhq/finance-api/internal/domain/repository"
)

// canonicalOrder is the ordering the balance fold is defined over. Listings
// for presentation invert it; balance computation never does.
const canonicalOrder = "date ASC, created_at ASC, id ASC"

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new ledger transaction repository
func NewTransactionRepository(db *gorm.DB) domainRepo.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) CreateWithBalances(ctx context.Context, e *entity.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(e).Error; err != nil {
			return err
		}
		if err := refoldBalances(tx); err != nil {
			return err
		}
		// Reload so the caller sees the computed balance pair.
		return tx.First(e, "id = ?", e.ID).Error
	})
}

func (r *transactionRepository) UpdateWithBalances(ctx context.Context, e *entity.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(e).Error; err != nil {
			return err
		}
		if err := refoldBalances(tx); err != nil {
			return err
		}
		return tx.First(e, "id = ?", e.ID).Error
	})
}

func (r *transactionRepository) DeleteWithBalances(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&entity.Transaction{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return refoldBalances(tx)
	})
}

// refoldBalances replays the running balance over the canonical order and
// rewrites only the rows whose stored pair no longer matches the fold. Runs
// inside the caller's transaction, so a partial recompute is never visible.
func refoldBalances(tx *gorm.DB) error {
	var entries []entity.Transaction
	if err := tx.Order(canonicalOrder).Find(&entries).Error; err != nil {
		return err
	}

	for _, i := range entity.FoldBalances(entries) {
		err := tx.Model(&entity.Transaction{}).
			Where("id = ?", entries[i].ID).
			UpdateColumns(map[string]interface{}{
				"previous_balance":  entries[i].PreviousBalance,
				"remaining_balance": entries[i].RemainingBalance,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var t entity.Transaction
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}

func (r *transactionRepository) List(ctx context.Context, params *domainRepo.TransactionFilterParams) ([]entity.Transaction, int64, error) {
	var transactions []entity.Transaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Transaction{})

	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}

	if params.Source != nil {
		query = query.Where("source = ?", *params.Source)
	}

	if params.StartDate != nil {
		query = query.Where("date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("date DESC, created_at DESC, id DESC").
		Find(&transactions).Error

	return transactions, total, err
}

func (r *transactionRepository) ListCanonical(ctx context.Context) ([]entity.Transaction, error) {
	var transactions []entity.Transaction
	err := r.db.WithContext(ctx).Order(canonicalOrder).Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepository) ExistsSystemEntry(ctx context.Context, source enum.TransactionSource, amount int64, descriptionToken string, date *time.Time) (bool, error) {
	query := r.db.WithContext(ctx).Model(&entity.Transaction{}).
		Where("source = ? AND amount = ?", source, amount).
		Where("description LIKE ?", "%"+descriptionToken+"%")

	if date != nil {
		query = query.Where("date = ?", *date)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *transactionRepository) BalanceSummary(ctx context.Context) (*domainRepo.BalanceSummary, error) {
	summary := &domainRepo.BalanceSummary{}

	err := r.db.WithContext(ctx).Model(&entity.Transaction{}).
		Where("type = ?", enum.TransactionTypeCredit).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.TotalCredits).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Model(&entity.Transaction{}).
		Where("type = ?", enum.TransactionTypeDebit).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&summary.TotalDebits).Error
	if err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&entity.Transaction{}).Count(&summary.Entries).Error; err != nil {
		return nil, err
	}

	summary.Balance = summary.TotalCredits - summary.TotalDebits
	return summary, nil
}
