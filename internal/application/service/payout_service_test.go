package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/canteenhq/finance-api/internal/domain/entity"
	"github.com/canteenhq/finance-api/internal/domain/enum"
	"github.com/canteenhq/finance-api/internal/infrastructure/repository"
	"github.com/canteenhq/finance-api/pkg/apperror"
)

type payoutFixture struct {
	db     *gorm.DB
	svc    *PayoutService
	ledger *LedgerService
	vendor entity.Vendor
}

func setupPayoutFixture(t *testing.T) *payoutFixture {
	t.Helper()
	db := setupTestDB(t)
	ledger := NewLedgerService(repository.NewTransactionRepository(db))
	svc := NewPayoutService(
		repository.NewPayoutRepository(db),
		repository.NewOrderRepository(db),
		repository.NewVendorRepository(db),
		ledger,
		nil,
	)

	vendor := entity.Vendor{Name: "Annapurna Canteen", Location: "Block A"}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("create vendor: %v", err)
	}

	return &payoutFixture{db: db, svc: svc, ledger: ledger, vendor: vendor}
}

func (f *payoutFixture) addOrder(t *testing.T, day time.Time, status enum.OrderStatus, totalCents int64) {
	t.Helper()
	order := entity.Order{VendorID: f.vendor.ID, OrderDate: day, Status: status, Total: totalCents}
	if err := f.db.Create(&order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}
}

func TestListVendorSettlementsLiveAmounts(t *testing.T) {
	f := setupPayoutFixture(t)
	f.addOrder(t, testDay(0), enum.OrderStatusConfirmed, 30000)
	f.addOrder(t, testDay(0), enum.OrderStatusConfirmed, 20000)
	f.addOrder(t, testDay(1), enum.OrderStatusConfirmed, 10000)
	f.addOrder(t, testDay(1), enum.OrderStatusCancelled, 99900)

	settlements, err := f.svc.ListVendorSettlements(context.Background(), f.vendor.ID)
	if err != nil {
		t.Fatalf("list settlements: %v", err)
	}
	if len(settlements) != 2 {
		t.Fatalf("settlements = %d, want 2", len(settlements))
	}

	// Newest day first, cancelled orders excluded.
	if settlements[0].Date != testDay(1).Format("2006-01-02") {
		t.Errorf("first row date = %s, want %s", settlements[0].Date, testDay(1).Format("2006-01-02"))
	}
	if settlements[0].Revenue != 100 || settlements[0].Orders != 1 {
		t.Errorf("day 2: revenue=%.2f orders=%d, want 100.00/1", settlements[0].Revenue, settlements[0].Orders)
	}
	if settlements[1].Revenue != 500 || settlements[1].NetPayout != 500 {
		t.Errorf("day 1: revenue=%.2f net=%.2f, want 500.00/500.00", settlements[1].Revenue, settlements[1].NetPayout)
	}
	for _, s := range settlements {
		if s.Status != enum.PayoutStatusUnsettled {
			t.Errorf("row %s status = %s, want unsettled", s.Date, s.Status)
		}
	}
}

func TestSettleFreezesAmount(t *testing.T) {
	f := setupPayoutFixture(t)
	f.addOrder(t, testDay(0), enum.OrderStatusConfirmed, 50000)

	payout, err := f.svc.Settle(context.Background(), f.vendor.ID, testDay(0), nil)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if payout.Amount != 50000 || payout.Status != enum.PayoutStatusSettled {
		t.Fatalf("payout = (%d, %s), want (50000, settled)", payout.Amount, payout.Status)
	}
	if payout.SettledAt == nil {
		t.Fatal("settled_at not set")
	}

	// A late revenue correction must not touch the frozen amount.
	f.addOrder(t, testDay(0), enum.OrderStatusConfirmed, 30000)

	settlements, err := f.svc.ListVendorSettlements(context.Background(), f.vendor.ID)
	if err != nil {
		t.Fatalf("list settlements: %v", err)
	}
	if len(settlements) != 1 {
		t.Fatalf("settlements = %d, want 1", len(settlements))
	}
	if settlements[0].NetPayout != 500 {
		t.Errorf("frozen net payout = %.2f, want 500.00", settlements[0].NetPayout)
	}
	if settlements[0].Revenue != 800 {
		t.Errorf("live revenue = %.2f, want 800.00", settlements[0].Revenue)
	}
}

func TestSettleTwiceConflicts(t *testing.T) {
	f := setupPayoutFixture(t)
	f.addOrder(t, testDay(0), enum.OrderStatusConfirmed, 50000)

	if _, err := f.svc.Settle(context.Background(), f.vendor.ID, testDay(0), nil); err != nil {
		t.Fatalf("first settle: %v", err)
	}

	_, err := f.svc.Settle(context.Background(), f.vendor.ID, testDay(0), nil)
	if err == nil || apperror.GetAppError(err).Code != 409 {
		t.Errorf("second settle: expected 409, got %v", err)
	}
}

func TestSettleWritesSingleLedgerDebit(t *testing.T) {
	f := setupPayoutFixture(t)
	f.addOrder(t, testDay(0), enum.OrderStatusConfirmed, 50000)

	if _, err := f.svc.Settle(context.Background(), f.vendor.ID, testDay(0), nil); err != nil {
		t.Fatalf("settle: %v", err)
	}
	// The conflict path must not produce a second debit.
	f.svc.Settle(context.Background(), f.vendor.ID, testDay(0), nil)

	var debits []entity.Transaction
	err := f.db.Where("source = ?", enum.SourceVendorPayout).Find(&debits).Error
	if err != nil {
		t.Fatalf("load debits: %v", err)
	}
	if len(debits) != 1 {
		t.Fatalf("vendor payout debits = %d, want 1", len(debits))
	}
	if debits[0].Type != enum.TransactionTypeDebit || debits[0].Amount != 50000 {
		t.Errorf("debit = (%s, %d), want (debit, 50000)", debits[0].Type, debits[0].Amount)
	}
}

func TestSettleWithExplicitSettlementDate(t *testing.T) {
	f := setupPayoutFixture(t)
	f.addOrder(t, testDay(0), enum.OrderStatusConfirmed, 50000)

	settlementDate := testDay(3)
	if _, err := f.svc.Settle(context.Background(), f.vendor.ID, testDay(0), &settlementDate); err != nil {
		t.Fatalf("settle: %v", err)
	}

	var debit entity.Transaction
	if err := f.db.First(&debit, "source = ?", enum.SourceVendorPayout).Error; err != nil {
		t.Fatalf("load debit: %v", err)
	}
	if got := debit.Date.UTC().Format("2006-01-02"); got != settlementDate.Format("2006-01-02") {
		t.Errorf("debit date = %s, want %s", got, settlementDate.Format("2006-01-02"))
	}
}

func TestUnsettleRejected(t *testing.T) {
	f := setupPayoutFixture(t)
	f.addOrder(t, testDay(0), enum.OrderStatusConfirmed, 50000)

	if _, err := f.svc.Settle(context.Background(), f.vendor.ID, testDay(0), nil); err != nil {
		t.Fatalf("settle: %v", err)
	}

	_, err := f.svc.UpdateSettlementStatus(context.Background(), f.vendor.ID, testDay(0), "unsettled", nil)
	if err == nil || apperror.GetAppError(err).Code != 400 {
		t.Errorf("unsettle: expected 400, got %v", err)
	}
}

func TestSettleWithoutRevenue(t *testing.T) {
	f := setupPayoutFixture(t)

	_, err := f.svc.Settle(context.Background(), f.vendor.ID, testDay(0), nil)
	if err == nil || apperror.GetAppError(err).Code != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestSettleUnknownVendor(t *testing.T) {
	f := setupPayoutFixture(t)

	_, err := f.svc.Settle(context.Background(), uuid.New(), testDay(0), nil)
	if err == nil || apperror.GetAppError(err).Code != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestPlatformFeeNetPayout(t *testing.T) {
	fn := PlatformFeeNetPayout(250) // 2.5%
	if got := fn(100000, 4); got != 97500 {
		t.Errorf("net payout = %d, want 97500", got)
	}
	identity := PlatformFeeNetPayout(0)
	if got := identity(100000, 4); got != 100000 {
		t.Errorf("zero-fee net payout = %d, want 100000", got)
	}
}
