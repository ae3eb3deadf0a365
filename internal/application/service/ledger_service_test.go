package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/canteenhq/finance-api/internal/domain/entity"
	"github.com/canteenhq/finance-api/internal/domain/enum"
	"github.com/canteenhq/finance-api/internal/infrastructure/repository"
	"github.com/canteenhq/finance-api/pkg/apperror"
)

func newLedgerService(t *testing.T) *LedgerService {
	t.Helper()
	return NewLedgerService(repository.NewTransactionRepository(setupTestDB(t)))
}

func testDay(offset int) time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func mustAppend(t *testing.T, svc *LedgerService, day time.Time, txType enum.TransactionType, amount float64) *entity.Transaction {
	t.Helper()
	tx, err := svc.Append(context.Background(), &CreateTransactionInput{
		Date:        day,
		Description: "test entry",
		Type:        txType,
		Amount:      amount,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	return tx
}

func TestAppendComputesRunningBalances(t *testing.T) {
	svc := newLedgerService(t)

	credit := mustAppend(t, svc, testDay(0), enum.TransactionTypeCredit, 1000)
	if credit.PreviousBalance != 0 || credit.RemainingBalance != 100000 {
		t.Errorf("credit balances = (%d, %d), want (0, 100000)", credit.PreviousBalance, credit.RemainingBalance)
	}

	debit := mustAppend(t, svc, testDay(1), enum.TransactionTypeDebit, 300)
	if debit.PreviousBalance != 100000 || debit.RemainingBalance != 70000 {
		t.Errorf("debit balances = (%d, %d), want (100000, 70000)", debit.PreviousBalance, debit.RemainingBalance)
	}
}

func TestAppendDefaultsToManualSource(t *testing.T) {
	svc := newLedgerService(t)

	tx := mustAppend(t, svc, testDay(0), enum.TransactionTypeCredit, 50)
	if tx.Source != enum.SourceManual {
		t.Errorf("source = %s, want manual", tx.Source)
	}
}

func TestAppendValidation(t *testing.T) {
	svc := newLedgerService(t)

	_, err := svc.Append(context.Background(), &CreateTransactionInput{
		Type:   enum.TransactionType("transfer"),
		Amount: -5,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr := apperror.GetAppError(err)
	if appErr.Code != 422 {
		t.Errorf("code = %d, want 422", appErr.Code)
	}
	if len(appErr.Errors) != 4 {
		t.Errorf("field errors = %d, want 4 (date, description, type, amount)", len(appErr.Errors))
	}
}

func TestRemoveRecomputesLaterBalances(t *testing.T) {
	svc := newLedgerService(t)

	first := mustAppend(t, svc, testDay(0), enum.TransactionTypeCredit, 1000)
	second := mustAppend(t, svc, testDay(1), enum.TransactionTypeDebit, 300)
	third := mustAppend(t, svc, testDay(2), enum.TransactionTypeCredit, 500)

	if err := svc.Remove(context.Background(), first.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	second, err := svc.GetByID(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("get second: %v", err)
	}
	if second.PreviousBalance != 0 || second.RemainingBalance != -30000 {
		t.Errorf("second balances = (%d, %d), want (0, -30000)", second.PreviousBalance, second.RemainingBalance)
	}

	third, err = svc.GetByID(context.Background(), third.ID)
	if err != nil {
		t.Fatalf("get third: %v", err)
	}
	if third.PreviousBalance != -30000 || third.RemainingBalance != 20000 {
		t.Errorf("third balances = (%d, %d), want (-30000, 20000)", third.PreviousBalance, third.RemainingBalance)
	}
}

func TestUpdateRecomputesBalances(t *testing.T) {
	svc := newLedgerService(t)

	credit := mustAppend(t, svc, testDay(0), enum.TransactionTypeCredit, 1000)
	debit := mustAppend(t, svc, testDay(1), enum.TransactionTypeDebit, 300)

	newAmount := 250.0
	if _, err := svc.Update(context.Background(), credit.ID, &UpdateTransactionInput{Amount: &newAmount}); err != nil {
		t.Fatalf("update: %v", err)
	}

	debit, err := svc.GetByID(context.Background(), debit.ID)
	if err != nil {
		t.Fatalf("get debit: %v", err)
	}
	if debit.PreviousBalance != 25000 || debit.RemainingBalance != -5000 {
		t.Errorf("debit balances = (%d, %d), want (25000, -5000)", debit.PreviousBalance, debit.RemainingBalance)
	}
}

func TestSystemEntriesAreImmutable(t *testing.T) {
	svc := newLedgerService(t)

	tx, err := svc.AppendSystem(context.Background(), testDay(0), "Processor settlement UTR X1", enum.TransactionTypeCredit, 50000, enum.SourceProcessorSettlement)
	if err != nil {
		t.Fatalf("append system: %v", err)
	}

	desc := "edited"
	_, err = svc.Update(context.Background(), tx.ID, &UpdateTransactionInput{Description: &desc})
	if err == nil || apperror.GetAppError(err).Code != 403 {
		t.Errorf("update system entry: expected 403, got %v", err)
	}

	err = svc.Remove(context.Background(), tx.ID)
	if err == nil || apperror.GetAppError(err).Code != 403 {
		t.Errorf("remove system entry: expected 403, got %v", err)
	}
}

func TestUpdateUnknownTransaction(t *testing.T) {
	svc := newLedgerService(t)

	_, err := svc.Update(context.Background(), uuid.New(), &UpdateTransactionInput{})
	if err == nil || apperror.GetAppError(err).Code != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestBalanceTotals(t *testing.T) {
	svc := newLedgerService(t)

	mustAppend(t, svc, testDay(0), enum.TransactionTypeCredit, 1000)
	mustAppend(t, svc, testDay(1), enum.TransactionTypeDebit, 300)
	mustAppend(t, svc, testDay(2), enum.TransactionTypeCredit, 500)

	balance, err := svc.Balance(context.Background())
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Balance != 1200 {
		t.Errorf("balance = %.2f, want 1200.00", balance.Balance)
	}
	if balance.TotalCredits != 1500 || balance.TotalDebits != 300 {
		t.Errorf("totals = (%.2f, %.2f), want (1500.00, 300.00)", balance.TotalCredits, balance.TotalDebits)
	}
	if balance.Entries != 3 {
		t.Errorf("entries = %d, want 3", balance.Entries)
	}
}

func TestHasSystemEntryDedup(t *testing.T) {
	svc := newLedgerService(t)

	day := testDay(0)
	if _, err := svc.AppendSystem(context.Background(), day, "Processor settlement UTR A7", enum.TransactionTypeCredit, 90000, enum.SourceProcessorSettlement); err != nil {
		t.Fatalf("append system: %v", err)
	}

	exists, err := svc.HasSystemEntry(context.Background(), enum.SourceProcessorSettlement, 90000, "UTR A7", &day)
	if err != nil {
		t.Fatalf("has system entry: %v", err)
	}
	if !exists {
		t.Error("expected dedup hit for matching source/amount/token/date")
	}

	exists, err = svc.HasSystemEntry(context.Background(), enum.SourceProcessorSettlement, 90001, "UTR A7", &day)
	if err != nil {
		t.Fatalf("has system entry: %v", err)
	}
	if exists {
		t.Error("expected no dedup hit for different amount")
	}
}
