package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/canteenhq/finance-api/internal/domain/entity"
	"github.com/canteenhq/finance-api/internal/domain/repository"
	"github.com/canteenhq/finance-api/pkg/apperror"
	"github.com/canteenhq/finance-api/pkg/processor"
	"github.com/canteenhq/finance-api/pkg/revenue"
)

// ProfitService computes net profit per settlement period: confirmed revenue
// over the period's payment window minus the amount the processor settled.
// Read-only; it writes nothing anywhere.
type ProfitService struct {
	feed       processor.Feed
	revenue    revenue.Fetcher
	vendorRepo repository.VendorRepository
	pageLimit  int
	maxRecords int
}

// NewProfitService creates a new profit report service
func NewProfitService(feed processor.Feed, fetcher revenue.Fetcher, vendorRepo repository.VendorRepository, pageLimit, maxRecords int) *ProfitService {
	return &ProfitService{
		feed:       feed,
		revenue:    fetcher,
		vendorRepo: vendorRepo,
		pageLimit:  pageLimit,
		maxRecords: maxRecords,
	}
}

// PeriodProfit is one settlement period in the report. Errors lists vendors
// whose revenue lookup failed; their revenue is counted as zero.
type PeriodProfit struct {
	UTR            string     `json:"utr"`
	PaymentFrom    time.Time  `json:"payment_from"`
	PaymentTill    time.Time  `json:"payment_till"`
	SettlementDate *time.Time `json:"settlement_date,omitempty"`
	AmountSettled  float64    `json:"amount_settled"`
	Revenue        float64    `json:"revenue"`
	Orders         int        `json:"orders"`
	NetProfit      float64    `json:"net_profit"`
	Errors         []string   `json:"errors,omitempty"`
}

// NetProfitReport is the full report, oldest period first.
type NetProfitReport struct {
	Periods        []PeriodProfit `json:"periods"`
	TotalRevenue   float64        `json:"total_revenue"`
	TotalSettled   float64        `json:"total_settled"`
	TotalNetProfit float64        `json:"total_net_profit"`
}

// ComputeNetProfit builds the report. A nil vendorID covers every vendor;
// start/till narrow the settlement feed window when set. Batches without a
// complete payment window cannot anchor a revenue lookup and are dropped.
func (s *ProfitService) ComputeNetProfit(ctx context.Context, vendorID *uuid.UUID, from, till *time.Time) (*NetProfitReport, error) {
	var vendors []entity.Vendor
	if vendorID != nil {
		vendor, err := s.vendorRepo.GetByID(ctx, *vendorID)
		if err != nil {
			return nil, err
		}
		if vendor == nil {
			return nil, apperror.NewNotFoundError("Vendor")
		}
		vendors = []entity.Vendor{*vendor}
	} else {
		var err error
		vendors, err = s.vendorRepo.List(ctx)
		if err != nil {
			return nil, err
		}
	}

	batches := processor.FetchAll(ctx, s.feed, processor.Filters{From: from, Till: till}, s.pageLimit, s.maxRecords)

	var periods []processor.SettlementBatch
	for _, batch := range batches {
		if batch.PaymentFrom == nil || batch.PaymentTill == nil {
			continue
		}
		periods = append(periods, batch)
	}
	sort.Slice(periods, func(i, j int) bool {
		return periods[i].PaymentFrom.Before(*periods[j].PaymentFrom)
	})

	report := &NetProfitReport{Periods: make([]PeriodProfit, 0, len(periods))}
	for _, batch := range periods {
		windowStart := startOfDay(*batch.PaymentFrom)
		windowEnd := endOfDay(*batch.PaymentTill)

		period := PeriodProfit{
			UTR:            batch.UTR,
			PaymentFrom:    windowStart,
			PaymentTill:    windowEnd,
			SettlementDate: batch.SettlementDate,
			AmountSettled:  batch.AmountSettled,
		}

		for _, vendor := range vendors {
			summary, err := s.revenue.GetRevenue(ctx, vendor.ID.String(), windowStart, windowEnd)
			if err != nil {
				period.Errors = append(period.Errors, fmt.Sprintf("vendor %s: %v", vendor.Name, err))
				continue
			}
			period.Revenue += summary.Revenue
			period.Orders += summary.Orders
		}

		period.NetProfit = period.Revenue - period.AmountSettled
		report.TotalRevenue += period.Revenue
		report.TotalSettled += period.AmountSettled
		report.TotalNetProfit += period.NetProfit
		report.Periods = append(report.Periods, period)
	}

	return report, nil
}

// startOfDay and endOfDay pin a settlement period's payment window to whole
// calendar days, matching how the processor reports the bounds.
func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, 0, time.UTC)
}
