package revenue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/canteenhq/finance-api/pkg/apperror"
)

// Summary is a vendor's confirmed revenue and order count over a window.
type Summary struct {
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// Fetcher is the external revenue service contract consumed by the
// net-profit report.
type Fetcher interface {
	GetRevenue(ctx context.Context, vendorID string, start, end time.Time) (*Summary, error)
}

// ClientConfig holds revenue service connection settings
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the external revenue service over HTTP.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
}

// NewClient creates a new revenue service client
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

// GetRevenue fetches a vendor's confirmed revenue for the exact window.
func (c *Client) GetRevenue(ctx context.Context, vendorID string, start, end time.Time) (*Summary, error) {
	q := url.Values{}
	q.Set("vendor_id", vendorID)
	q.Set("start", start.UTC().Format(time.RFC3339))
	q.Set("end", end.UTC().Format(time.RFC3339))

	endpoint := c.config.BaseURL + "/revenue?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build revenue request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.NewUpstreamError(fmt.Sprintf("revenue service unreachable: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewUpstreamError(fmt.Sprintf("revenue service read failed: %v", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.NewUpstreamError(fmt.Sprintf("revenue service returned %d: %s", resp.StatusCode, string(body)))
	}

	var summary Summary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, apperror.NewUpstreamError(fmt.Sprintf("revenue service returned malformed payload: %v", err))
	}
	return &summary, nil
}
