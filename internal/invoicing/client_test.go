package invoicing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
)

func testSale() domain.Sale {
	return domain.Sale{
		ID:        "sale-1",
		CreatedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Type:      domain.SaleTypeSale,
		Items: []domain.LineItem{
			{Name: "Yerba Mate 1kg", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(4500)},
		},
		Subtotal:  decimal.NewFromInt(9000),
		TaxAmount: decimal.NewFromInt(1890),
		Total:     decimal.NewFromInt(10890),
	}
}

func TestIssue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/documents" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req issueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.RequestID == "" || req.SaleID != "sale-1" {
			t.Errorf("request = %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(issueResponse{
			Number: "B-0001-00001234",
			CAE:    "71234567890123",
			CAEDue: "2026-03-24",
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "", time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	doc, err := c.Issue(context.Background(), testSale(), domain.Settings{TaxRate: decimal.RequireFromString("0.21")})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if doc.Number != "B-0001-00001234" {
		t.Fatalf("number = %q", doc.Number)
	}
	if doc.Fiscal.CAE != "71234567890123" || doc.Fiscal.Training {
		t.Fatalf("fiscal = %+v", doc.Fiscal)
	}
}

func TestIssueServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "fiscal service offline", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "", time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = c.Issue(context.Background(), testSale(), domain.Settings{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d", apiErr.StatusCode)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("", "", time.Second); !errors.Is(err, ErrMissingBaseURL) {
		t.Fatalf("err = %v, want ErrMissingBaseURL", err)
	}
}
