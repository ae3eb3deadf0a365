package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/canteenhq/finance-api/internal/domain/entity"
	"github.com/canteenhq/finance-api/internal/domain/enum"
	"github.com/canteenhq/finance-api/internal/domain/repository"
	"github.com/canteenhq/finance-api/pkg/apperror"
)

// NetPayoutFunc computes the vendor's net payout in cents from the day's
// confirmed revenue. Lets the platform fee policy vary without touching the
// settlement flow.
type NetPayoutFunc func(revenueCents int64, ordersCount int) int64

// PayoutService drives per-vendor daily settlements: live amounts before
// settlement, frozen amounts after, and the mirrored ledger debit.
type PayoutService struct {
	payoutRepo repository.PayoutRepository
	orderRepo  repository.OrderRepository
	vendorRepo repository.VendorRepository
	ledger     *LedgerService
	netPayout  NetPayoutFunc
}

// NewPayoutService creates a new payout service. A nil netPayout means the
// vendor keeps the full confirmed revenue.
func NewPayoutService(
	payoutRepo repository.PayoutRepository,
	orderRepo repository.OrderRepository,
	vendorRepo repository.VendorRepository,
	ledger *LedgerService,
	netPayout NetPayoutFunc,
) *PayoutService {
	if netPayout == nil {
		netPayout = func(revenueCents int64, _ int) int64 { return revenueCents }
	}
	return &PayoutService{
		payoutRepo: payoutRepo,
		orderRepo:  orderRepo,
		vendorRepo: vendorRepo,
		ledger:     ledger,
		netPayout:  netPayout,
	}
}

// PlatformFeeNetPayout returns a NetPayoutFunc deducting a flat fee in basis
// points from the day's revenue.
func PlatformFeeNetPayout(feeBps int) NetPayoutFunc {
	return func(revenueCents int64, _ int) int64 {
		return revenueCents - revenueCents*int64(feeBps)/10000
	}
}

// VendorSettlement is one row of a vendor's settlement sheet. Settled rows
// carry the frozen amount; unsettled rows are recomputed live on every read.
type VendorSettlement struct {
	Date      string            `json:"date"`
	Revenue   float64           `json:"revenue"`
	Orders    int               `json:"orders"`
	NetPayout float64           `json:"net_payout"`
	Status    enum.PayoutStatus `json:"status"`
	SettledAt *time.Time        `json:"settled_at,omitempty"`
}

// ListVendorSettlements returns the vendor's per-day settlement sheet,
// newest day first.
func (s *PayoutService) ListVendorSettlements(ctx context.Context, vendorID uuid.UUID) ([]VendorSettlement, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, apperror.NewNotFoundError("Vendor")
	}

	days, err := s.orderRepo.GetDailyRevenue(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	stored, err := s.payoutRepo.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]*entity.DailyVendorPayout, len(stored))
	for i := range stored {
		byDay[stored[i].PayoutDate.Format("2006-01-02")] = &stored[i]
	}

	settlements := make([]VendorSettlement, 0, len(days))
	for _, day := range days {
		row := VendorSettlement{
			Date:      day.Date.Format("2006-01-02"),
			Revenue:   float64(day.TotalRevenue) / 100,
			Orders:    day.OrdersCount,
			NetPayout: float64(s.netPayout(day.TotalRevenue, day.OrdersCount)) / 100,
			Status:    enum.PayoutStatusUnsettled,
		}
		if payout, ok := byDay[row.Date]; ok && payout.Status == enum.PayoutStatusSettled {
			row.NetPayout = float64(payout.Amount) / 100
			row.Status = enum.PayoutStatusSettled
			row.SettledAt = payout.SettledAt
		}
		settlements = append(settlements, row)
	}
	return settlements, nil
}

// UpdateSettlementStatus is the single supported status transition. Settled
// rows are frozen; anything other than a move to settled is rejected.
func (s *PayoutService) UpdateSettlementStatus(ctx context.Context, vendorID uuid.UUID, day time.Time, status string, settlementDate *time.Time) (*entity.DailyVendorPayout, error) {
	if status != string(enum.PayoutStatusSettled) {
		return nil, apperror.NewUnsupportedOperationError(
			fmt.Sprintf("Unsupported status %q: settled payouts cannot be reverted and the only supported transition is to 'settled'", status))
	}
	return s.Settle(ctx, vendorID, day, settlementDate)
}

// Settle freezes the vendor's payout for one day at its current computed
// amount and mirrors a debit into the ledger. The transition is a single
// conditional write, so two concurrent settles cannot both win.
func (s *PayoutService) Settle(ctx context.Context, vendorID uuid.UUID, day time.Time, settlementDate *time.Time) (*entity.DailyVendorPayout, error) {
	vendor, err := s.vendorRepo.GetByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	if vendor == nil {
		return nil, apperror.NewNotFoundError("Vendor")
	}

	day = truncateToDay(day)
	dayStr := day.Format("2006-01-02")

	revenue, ordersCount, err := s.orderRepo.GetRevenueForDay(ctx, vendorID, day)
	if err != nil {
		return nil, err
	}
	if ordersCount == 0 {
		return nil, apperror.NewNotFoundError(
			fmt.Sprintf("Confirmed revenue for vendor %s on %s", vendor.Name, dayStr))
	}

	amount := s.netPayout(revenue, ordersCount)
	settledAt := time.Now()

	ok, err := s.payoutRepo.MarkSettled(ctx, vendorID, day, amount, settledAt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewAlreadySettledError(
			fmt.Sprintf("Payout for vendor %s on %s is already settled", vendor.Name, dayStr))
	}

	// Mirror the payout into the cash ledger. The settlement itself has
	// already committed; a ledger failure here is logged, never surfaced.
	entryDate := settledAt
	if settlementDate != nil {
		entryDate = *settlementDate
	}
	token := fmt.Sprintf("vendor %s for %s", vendorID, dayStr)
	exists, err := s.ledger.HasSystemEntry(ctx, enum.SourceVendorPayout, amount, token, nil)
	if err != nil {
		log.Printf("[payout] WARNING: dedup check failed for vendor %s on %s: %v", vendorID, dayStr, err)
	}
	if err == nil && !exists {
		description := fmt.Sprintf("Payout to %s (%s)", vendor.Name, token)
		if _, err := s.ledger.AppendSystem(ctx, entryDate, description, enum.TransactionTypeDebit, amount, enum.SourceVendorPayout); err != nil {
			log.Printf("[payout] WARNING: settled vendor %s on %s but ledger debit failed: %v", vendorID, dayStr, err)
		}
	}

	return s.payoutRepo.GetByVendorAndDate(ctx, vendorID, day)
}
