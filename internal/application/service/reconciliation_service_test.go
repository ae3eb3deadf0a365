package service

import (
	"context"
	"testing"
	"time"

	"github.com/canteenhq/finance-api/internal/domain/entity"
	"github.com/canteenhq/finance-api/internal/domain/enum"
	"github.com/canteenhq/finance-api/internal/infrastructure/repository"
	"github.com/canteenhq/finance-api/pkg/processor"
)

// fakeFeed serves a fixed set of batches as a single page.
type fakeFeed struct {
	batches []processor.SettlementBatch
	calls   int
}

func (f *fakeFeed) FetchPage(ctx context.Context, filters processor.Filters, req processor.PageRequest) (*processor.Page, error) {
	f.calls++
	return &processor.Page{Data: f.batches}, nil
}

func ts(offset int) *time.Time {
	t := testDay(offset)
	return &t
}

func batch(utr string, amount float64, settlementDay int) processor.SettlementBatch {
	return processor.SettlementBatch{
		UTR:            utr,
		AmountSettled:  amount,
		PaymentFrom:    ts(settlementDay - 3),
		PaymentTill:    ts(settlementDay - 1),
		SettlementDate: ts(settlementDay),
	}
}

func TestSyncToLedgerMirrorsCredits(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(repository.NewTransactionRepository(db))
	feed := &fakeFeed{batches: []processor.SettlementBatch{
		batch("UTR001", 900, 0),
		batch("UTR002", 450.50, 1),
	}}
	svc := NewReconciliationService(feed, ledger, 100, 0, 7)

	result, err := svc.SyncToLedger(context.Background(), 7)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Processed != 2 || result.Added != 2 || result.Skipped != 0 {
		t.Fatalf("result = %+v, want processed=2 added=2 skipped=0", result)
	}

	var credits []entity.Transaction
	if err := db.Where("source = ?", enum.SourceProcessorSettlement).Find(&credits).Error; err != nil {
		t.Fatalf("load credits: %v", err)
	}
	if len(credits) != 2 {
		t.Fatalf("credits = %d, want 2", len(credits))
	}
	for _, c := range credits {
		if c.Type != enum.TransactionTypeCredit {
			t.Errorf("entry %s type = %s, want credit", c.Description, c.Type)
		}
	}
}

func TestSyncToLedgerIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(repository.NewTransactionRepository(db))
	feed := &fakeFeed{batches: []processor.SettlementBatch{
		batch("UTR001", 900, 0),
	}}
	svc := NewReconciliationService(feed, ledger, 100, 0, 7)

	if _, err := svc.SyncToLedger(context.Background(), 7); err != nil {
		t.Fatalf("first sync: %v", err)
	}

	// Overlapping second run must add nothing.
	result, err := svc.SyncToLedger(context.Background(), 14)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if result.Added != 0 || result.Skipped != 1 {
		t.Fatalf("second run = %+v, want added=0 skipped=1", result)
	}

	var count int64
	db.Model(&entity.Transaction{}).Where("source = ?", enum.SourceProcessorSettlement).Count(&count)
	if count != 1 {
		t.Errorf("settlement credits = %d, want 1", count)
	}
}

func TestSyncToLedgerSkipsMalformedBatches(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(repository.NewTransactionRepository(db))
	feed := &fakeFeed{batches: []processor.SettlementBatch{
		{AmountSettled: 900, SettlementDate: ts(0)},          // no UTR
		{UTR: "UTR010", AmountSettled: 900},                  // no settlement date
		{UTR: "UTR011", AmountSettled: 0, SettlementDate: ts(0)}, // non-positive amount
		batch("UTR012", 120, 0),
	}}
	svc := NewReconciliationService(feed, ledger, 100, 0, 7)

	result, err := svc.SyncToLedger(context.Background(), 7)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Processed != 4 || result.Added != 1 || result.Skipped != 3 {
		t.Fatalf("result = %+v, want processed=4 added=1 skipped=3", result)
	}
}

func TestSyncToLedgerDefaultWindow(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedgerService(repository.NewTransactionRepository(db))
	svc := NewReconciliationService(&fakeFeed{}, ledger, 100, 0, 10)

	result, err := svc.SyncToLedger(context.Background(), 0)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.WindowDays != 10 {
		t.Errorf("window = %d, want configured default 10", result.WindowDays)
	}
}
