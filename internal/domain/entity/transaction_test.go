package entity

import (
	"testing"
	"time"

	"github.com/canteenhq/finance-api/internal/domain/enum"
)

func day(offset int) time.Time {
	return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func entry(d time.Time, txType enum.TransactionType, amount int64) Transaction {
	return Transaction{Date: d, Type: txType, Amount: amount}
}

func TestFoldBalancesRunningPair(t *testing.T) {
	entries := []Transaction{
		entry(day(0), enum.TransactionTypeCredit, 100000),
		entry(day(1), enum.TransactionTypeDebit, 30000),
		entry(day(2), enum.TransactionTypeCredit, 5000),
	}

	changed := FoldBalances(entries)
	if len(changed) != 3 {
		t.Fatalf("expected all 3 entries changed, got %d", len(changed))
	}

	want := []struct{ prev, remaining int64 }{
		{0, 100000},
		{100000, 70000},
		{70000, 75000},
	}
	for i, w := range want {
		if entries[i].PreviousBalance != w.prev || entries[i].RemainingBalance != w.remaining {
			t.Errorf("entry %d: got (%d, %d), want (%d, %d)",
				i, entries[i].PreviousBalance, entries[i].RemainingBalance, w.prev, w.remaining)
		}
	}
}

func TestFoldBalancesChaining(t *testing.T) {
	entries := []Transaction{
		entry(day(0), enum.TransactionTypeCredit, 100000),
		entry(day(1), enum.TransactionTypeDebit, 30000),
	}
	FoldBalances(entries)

	for i := 1; i < len(entries); i++ {
		if entries[i].PreviousBalance != entries[i-1].RemainingBalance {
			t.Errorf("entry %d previous_balance %d != entry %d remaining_balance %d",
				i, entries[i].PreviousBalance, i-1, entries[i-1].RemainingBalance)
		}
	}
}

func TestFoldBalancesOnlyReportsChangedRows(t *testing.T) {
	entries := []Transaction{
		entry(day(0), enum.TransactionTypeCredit, 100000),
		entry(day(1), enum.TransactionTypeDebit, 30000),
	}
	FoldBalances(entries)

	// A second fold over already consistent rows touches nothing.
	if changed := FoldBalances(entries); len(changed) != 0 {
		t.Fatalf("expected no changed rows on refold, got %d", len(changed))
	}

	// Inserting an entry at the head shifts everything after it.
	entries = append([]Transaction{entry(day(-1), enum.TransactionTypeCredit, 1000)}, entries...)
	changed := FoldBalances(entries)
	if len(changed) != 3 {
		t.Fatalf("expected 3 changed rows after head insert, got %d", len(changed))
	}
	if entries[2].RemainingBalance != 71000 {
		t.Errorf("tail balance = %d, want 71000", entries[2].RemainingBalance)
	}
}

func TestFoldBalancesEmpty(t *testing.T) {
	if changed := FoldBalances(nil); changed != nil {
		t.Fatalf("expected nil changed set for empty ledger, got %v", changed)
	}
}

func TestSigned(t *testing.T) {
	credit := entry(day(0), enum.TransactionTypeCredit, 500)
	debit := entry(day(0), enum.TransactionTypeDebit, 500)
	if credit.Signed() != 500 {
		t.Errorf("credit signed = %d, want 500", credit.Signed())
	}
	if debit.Signed() != -500 {
		t.Errorf("debit signed = %d, want -500", debit.Signed())
	}
}
