package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/canteenhq/finance-api/internal/domain/enum"
	"github.com/canteenhq/finance-api/pkg/processor"
)

// ReconciliationService pulls settlement batches from the payment processor
// and mirrors them into the ledger as credits, once each.
type ReconciliationService struct {
	feed              processor.Feed
	ledger            *LedgerService
	pageLimit         int
	maxRecords        int
	defaultWindowDays int
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(feed processor.Feed, ledger *LedgerService, pageLimit, maxRecords, defaultWindowDays int) *ReconciliationService {
	if defaultWindowDays <= 0 {
		defaultWindowDays = 7
	}
	return &ReconciliationService{
		feed:              feed,
		ledger:            ledger,
		pageLimit:         pageLimit,
		maxRecords:        maxRecords,
		defaultWindowDays: defaultWindowDays,
	}
}

// SyncResult summarizes one reconciliation run. Skipped counts both malformed
// batches and batches already present in the ledger.
type SyncResult struct {
	WindowDays int      `json:"window_days"`
	Processed  int      `json:"processed"`
	Added      int      `json:"added"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors,omitempty"`
}

// FetchSettlements pulls settlement batches for an explicit window, page by
// page, bounded by the configured record cap.
func (s *ReconciliationService) FetchSettlements(ctx context.Context, from, till *time.Time) []processor.SettlementBatch {
	return processor.FetchAll(ctx, s.feed, processor.Filters{From: from, Till: till}, s.pageLimit, s.maxRecords)
}

// SyncToLedger mirrors recent settlement batches into the ledger. Running it
// twice over overlapping windows adds nothing the second time: each batch is
// keyed by its UTR, amount and settlement date.
func (s *ReconciliationService) SyncToLedger(ctx context.Context, windowDays int) (*SyncResult, error) {
	if windowDays <= 0 {
		windowDays = s.defaultWindowDays
	}

	till := time.Now().UTC()
	from := till.AddDate(0, 0, -windowDays)
	batches := s.FetchSettlements(ctx, &from, &till)

	result := &SyncResult{WindowDays: windowDays}
	for _, batch := range batches {
		result.Processed++

		if batch.UTR == "" || batch.SettlementDate == nil || batch.AmountSettled <= 0 {
			result.Skipped++
			continue
		}

		day := truncateToDay(*batch.SettlementDate)
		amount := int64(math.Round(batch.AmountSettled * 100))
		token := "UTR " + batch.UTR

		exists, err := s.ledger.HasSystemEntry(ctx, enum.SourceProcessorSettlement, amount, token, &day)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: dedup check failed: %v", batch.UTR, err))
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		description := fmt.Sprintf("Processor settlement %s", token)
		if _, err := s.ledger.AppendSystem(ctx, day, description, enum.TransactionTypeCredit, amount, enum.SourceProcessorSettlement); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: ledger credit failed: %v", batch.UTR, err))
			continue
		}
		result.Added++
	}

	log.Printf("[reconciliation] window=%dd processed=%d added=%d skipped=%d errors=%d",
		windowDays, result.Processed, result.Added, result.Skipped, len(result.Errors))
	return result, nil
}
