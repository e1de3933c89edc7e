// Package invoicing talks to the external fiscal service that turns a
// committed sale into a numbered document. The caller owns the fallback:
// every error here is recoverable by issuing a local training document.
package invoicing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
)

var ErrMissingBaseURL = errors.New("invoicing base url is required")

type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("invoicing api error: %s", e.Status)
	}
	return fmt.Sprintf("invoicing api error: %s: %s", e.Status, e.Body)
}

type issueRequest struct {
	RequestID      string          `json:"request_id"`
	SaleID         string          `json:"sale_id"`
	CreatedAt      time.Time       `json:"created_at"`
	Type           string          `json:"type"`
	CustomerTaxID  string          `json:"customer_tax_id,omitempty"`
	CustomerName   string          `json:"customer_name,omitempty"`
	Items          []issueItem     `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	GlobalDiscount decimal.Decimal `json:"global_discount"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
}

type issueItem struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
}

type issueResponse struct {
	Number   string `json:"number"`
	CAE      string `json:"cae"`
	CAEDue   string `json:"cae_due"`
	PDFRef   string `json:"pdf_ref"`
	Training bool   `json:"training"`
}

type Client struct {
	http *resty.Client
}

func NewClient(baseURL string, apiToken string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout).
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond)

	if apiToken != "" {
		httpClient.SetAuthScheme("Bearer")
		httpClient.SetAuthToken(apiToken)
	}

	return &Client{http: httpClient}, nil
}

// Issue requests a fiscal document for one sale. The request id makes the
// call safe to repeat after a timeout whose response was actually applied.
func (c *Client) Issue(ctx context.Context, sale domain.Sale, settings domain.Settings) (domain.IssuedDocument, error) {
	req := issueRequest{
		RequestID:      uuid.NewString(),
		SaleID:         sale.ID,
		CreatedAt:      sale.CreatedAt,
		Type:           string(sale.Type),
		Items:          make([]issueItem, 0, len(sale.Items)),
		Subtotal:       sale.Subtotal,
		GlobalDiscount: sale.GlobalDiscount,
		TaxRate:        settings.TaxRate,
		TaxAmount:      sale.TaxAmount,
		Total:          sale.Total,
	}
	if sale.Customer != nil {
		req.CustomerTaxID = sale.Customer.TaxID
		req.CustomerName = sale.Customer.Name
	}
	for _, item := range sale.Items {
		req.Items = append(req.Items, issueItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
		})
	}

	var out issueResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/v1/documents")
	if err != nil {
		return domain.IssuedDocument{}, err
	}
	if resp.IsError() {
		return domain.IssuedDocument{}, &APIError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       string(resp.Body()),
		}
	}
	if out.Number == "" {
		return domain.IssuedDocument{}, errors.New("invoicing response missing document number")
	}

	return domain.IssuedDocument{
		Number: out.Number,
		Fiscal: domain.FiscalMeta{
			Training: out.Training,
			CAE:      out.CAE,
			CAEDue:   out.CAEDue,
			PDFRef:   out.PDFRef,
		},
	}, nil
}
