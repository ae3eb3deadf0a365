package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/canteenhq/finance-api/pkg/apperror"
)

// SettlementBatch is a processor-reported transfer of funds to the platform
// account, covering the [PaymentFrom, PaymentTill] revenue window. The UTR is
// the processor's unique transfer reference and the dedup key for
// reconciliation.
type SettlementBatch struct {
	UTR            string     `json:"utr"`
	AmountSettled  float64    `json:"amount_settled"`
	PaymentFrom    *time.Time `json:"payment_from"`
	PaymentTill    *time.Time `json:"payment_till"`
	SettlementDate *time.Time `json:"settlement_date"`
}

// Filters narrows a settlement feed query to a date window.
type Filters struct {
	From *time.Time
	Till *time.Time
}

// PageRequest asks the feed for one page of results.
type PageRequest struct {
	Limit  int
	Cursor string
}

// Page is one page of settlement batches. Cursor is the opaque token for the
// next page; empty means the feed is exhausted.
type Page struct {
	Data   []SettlementBatch
	Cursor string
}

// Feed is the settlement feed contract consumed by the reconciler and the
// net-profit report.
type Feed interface {
	FetchPage(ctx context.Context, filters Filters, req PageRequest) (*Page, error)
}

// ClientConfig holds settlement feed connection settings
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the payment processor's settlement feed over HTTP.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a new settlement feed client
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// feedResponse mirrors the processor's settlement feed payload
type feedResponse struct {
	Data       []SettlementBatch `json:"data"`
	Pagination struct {
		Cursor *string `json:"cursor"`
	} `json:"pagination"`
}

// FetchPage fetches a single page from the settlement feed.
func (c *Client) FetchPage(ctx context.Context, filters Filters, req PageRequest) (*Page, error) {
	q := url.Values{}
	if filters.From != nil {
		q.Set("from", filters.From.UTC().Format(time.RFC3339))
	}
	if filters.Till != nil {
		q.Set("till", filters.Till.UTC().Format(time.RFC3339))
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Cursor != "" {
		q.Set("cursor", req.Cursor)
	}

	endpoint := c.config.BaseURL + "/settlements?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build settlement feed request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperror.NewUpstreamError(fmt.Sprintf("settlement feed unreachable: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewUpstreamError(fmt.Sprintf("settlement feed read failed: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.NewUpstreamError(fmt.Sprintf("settlement feed returned %d: %s", resp.StatusCode, string(body)))
	}

	var payload feedResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperror.NewUpstreamError(fmt.Sprintf("settlement feed returned malformed payload: %v", err))
	}

	page := &Page{Data: payload.Data}
	if payload.Pagination.Cursor != nil {
		page.Cursor = *payload.Pagination.Cursor
	}
	return page, nil
}
