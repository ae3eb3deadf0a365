package service

import (
	"context"
	"testing"
	"time"

	"github.com/canteenhq/finance-api/internal/domain/entity"
	"github.com/canteenhq/finance-api/internal/infrastructure/repository"
	"github.com/canteenhq/finance-api/pkg/apperror"
	"github.com/canteenhq/finance-api/pkg/processor"
	"github.com/canteenhq/finance-api/pkg/revenue"
	"gorm.io/gorm"

	"github.com/google/uuid"
)

// fakeRevenue returns a fixed summary per vendor ID.
type fakeRevenue struct {
	summaries map[string]revenue.Summary
	err       error
}

func (f *fakeRevenue) GetRevenue(ctx context.Context, vendorID string, start, end time.Time) (*revenue.Summary, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := f.summaries[vendorID]
	return &s, nil
}

func seedVendor(t *testing.T, db *gorm.DB, name string) entity.Vendor {
	t.Helper()
	vendor := entity.Vendor{Name: name}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatalf("create vendor: %v", err)
	}
	return vendor
}

func TestComputeNetProfit(t *testing.T) {
	db := setupTestDB(t)
	vendor := seedVendor(t, db, "Spice Route")

	feed := &fakeFeed{batches: []processor.SettlementBatch{
		batch("UTR002", 450, 5),
		batch("UTR001", 900, 2),
	}}
	fetcher := &fakeRevenue{summaries: map[string]revenue.Summary{
		vendor.ID.String(): {Revenue: 1200, Orders: 8},
	}}
	svc := NewProfitService(feed, fetcher, repository.NewVendorRepository(db), 100, 0)

	report, err := svc.ComputeNetProfit(context.Background(), nil, nil, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(report.Periods) != 2 {
		t.Fatalf("periods = %d, want 2", len(report.Periods))
	}

	// Oldest period first regardless of feed order.
	if report.Periods[0].UTR != "UTR001" {
		t.Errorf("first period = %s, want UTR001", report.Periods[0].UTR)
	}

	first := report.Periods[0]
	if first.Revenue != 1200 || first.AmountSettled != 900 || first.NetProfit != 300 {
		t.Errorf("period = revenue %.2f settled %.2f net %.2f, want 1200/900/300", first.Revenue, first.AmountSettled, first.NetProfit)
	}
	if first.Orders != 8 {
		t.Errorf("orders = %d, want 8", first.Orders)
	}

	if report.TotalSettled != 1350 || report.TotalRevenue != 2400 || report.TotalNetProfit != 1050 {
		t.Errorf("totals = revenue %.2f settled %.2f net %.2f, want 2400/1350/1050",
			report.TotalRevenue, report.TotalSettled, report.TotalNetProfit)
	}
}

func TestComputeNetProfitNormalizesWindow(t *testing.T) {
	db := setupTestDB(t)
	seedVendor(t, db, "Spice Route")

	feed := &fakeFeed{batches: []processor.SettlementBatch{batch("UTR001", 900, 3)}}
	svc := NewProfitService(feed, &fakeRevenue{}, repository.NewVendorRepository(db), 100, 0)

	report, err := svc.ComputeNetProfit(context.Background(), nil, nil, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	period := report.Periods[0]
	if h, m, s := period.PaymentFrom.Clock(); h != 0 || m != 0 || s != 0 {
		t.Errorf("payment_from clock = %02d:%02d:%02d, want 00:00:00", h, m, s)
	}
	if h, m, s := period.PaymentTill.Clock(); h != 23 || m != 59 || s != 59 {
		t.Errorf("payment_till clock = %02d:%02d:%02d, want 23:59:59", h, m, s)
	}
}

func TestComputeNetProfitDropsIncompleteWindows(t *testing.T) {
	db := setupTestDB(t)
	seedVendor(t, db, "Spice Route")

	feed := &fakeFeed{batches: []processor.SettlementBatch{
		{UTR: "UTR001", AmountSettled: 900, SettlementDate: ts(2)}, // no payment window
		batch("UTR002", 450, 5),
	}}
	svc := NewProfitService(feed, &fakeRevenue{}, repository.NewVendorRepository(db), 100, 0)

	report, err := svc.ComputeNetProfit(context.Background(), nil, nil, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(report.Periods) != 1 || report.Periods[0].UTR != "UTR002" {
		t.Fatalf("expected only UTR002 to survive, got %+v", report.Periods)
	}
}

func TestComputeNetProfitCollectsVendorErrors(t *testing.T) {
	db := setupTestDB(t)
	seedVendor(t, db, "Spice Route")

	feed := &fakeFeed{batches: []processor.SettlementBatch{batch("UTR001", 900, 2)}}
	fetcher := &fakeRevenue{err: apperror.NewUpstreamError("revenue service returned 503")}
	svc := NewProfitService(feed, fetcher, repository.NewVendorRepository(db), 100, 0)

	report, err := svc.ComputeNetProfit(context.Background(), nil, nil, nil)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	period := report.Periods[0]
	if len(period.Errors) != 1 {
		t.Fatalf("period errors = %d, want 1", len(period.Errors))
	}
	// Failed lookups count as zero revenue, never as a guessed value.
	if period.Revenue != 0 || period.NetProfit != -900 {
		t.Errorf("period = revenue %.2f net %.2f, want 0/-900", period.Revenue, period.NetProfit)
	}
}

func TestComputeNetProfitUnknownVendor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewProfitService(&fakeFeed{}, &fakeRevenue{}, repository.NewVendorRepository(db), 100, 0)

	unknown := uuid.New()
	_, err := svc.ComputeNetProfit(context.Background(), &unknown, nil, nil)
	if err == nil || apperror.GetAppError(err).Code != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}
