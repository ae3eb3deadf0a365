package processor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/canteenhq/finance-api/pkg/apperror"
)

func TestFetchPageParsesFeed(t *testing.T) {
	var gotAuth, gotCursor string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCursor = r.URL.Query().Get("cursor")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [
				{"utr": "UTR001", "amount_settled": 900.50, "settlement_date": "2026-03-01T00:00:00Z"}
			],
			"pagination": {"cursor": "abc123"}
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "secret"})
	page, err := client.FetchPage(context.Background(), Filters{}, PageRequest{Limit: 10, Cursor: "prev"})
	if err != nil {
		t.Fatalf("fetch page: %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q, want Bearer secret", gotAuth)
	}
	if gotCursor != "prev" {
		t.Errorf("cursor param = %q, want prev", gotCursor)
	}
	if len(page.Data) != 1 || page.Data[0].UTR != "UTR001" || page.Data[0].AmountSettled != 900.50 {
		t.Errorf("unexpected page data: %+v", page.Data)
	}
	if page.Cursor != "abc123" {
		t.Errorf("cursor = %q, want abc123", page.Cursor)
	}
}

func TestFetchPageLastPageHasNoCursor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [], "pagination": {"cursor": null}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	page, err := client.FetchPage(context.Background(), Filters{}, PageRequest{})
	if err != nil {
		t.Fatalf("fetch page: %v", err)
	}
	if page.Cursor != "" {
		t.Errorf("cursor = %q, want empty", page.Cursor)
	}
}

func TestFetchPageUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	_, err := client.FetchPage(context.Background(), Filters{}, PageRequest{})
	if err == nil {
		t.Fatal("expected upstream error")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != http.StatusBadGateway {
		t.Errorf("code = %d, want 502", appErr.Code)
	}
}

func TestFetchPageMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	_, err := client.FetchPage(context.Background(), Filters{}, PageRequest{})
	if err == nil {
		t.Fatal("expected error for malformed payload")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != http.StatusBadGateway {
		t.Errorf("code = %d, want 502", appErr.Code)
	}
}
