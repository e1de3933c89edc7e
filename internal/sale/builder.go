// Package sale assembles immutable Sale records from cart and payment input.
// Validation failures are returned as typed sentinel errors so callers can
// branch with errors.Is; no partial sale is ever produced.
package sale

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
	"puntoventa/backend/internal/pricing"
	"puntoventa/backend/internal/xid"
)

var (
	ErrEmptyCart           = errors.New("empty cart")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrCustomerRequired    = errors.New("customer required")
	ErrNegativeTotal       = errors.New("negative total")
)

// Invoicer is the external fiscal-document collaborator. A call may fail or
// time out; the builder degrades to a local training document and never
// propagates the failure.
type Invoicer interface {
	Issue(ctx context.Context, sale domain.Sale, settings domain.Settings) (domain.IssuedDocument, error)
}

type BuildInput struct {
	Items          []domain.LineItem
	Type           domain.SaleType
	Customer       *domain.Customer
	Method         domain.PaymentMethod
	AmountPaid     decimal.Decimal
	GlobalDiscount decimal.Decimal
	Settings       domain.Settings
}

type Builder struct {
	invoicer Invoicer
	timeout  time.Duration
	now      func() time.Time
}

func NewBuilder(invoicer Invoicer, timeout time.Duration) *Builder {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Builder{
		invoicer: invoicer,
		timeout:  timeout,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the timestamp source. Test helper.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the input and assembles a Sale. The invoicing call, when
// it happens, only decorates the record: cash and stock effects downstream
// never depend on it.
func (b *Builder) Build(ctx context.Context, in BuildInput) (domain.Sale, error) {
	if len(in.Items) == 0 {
		return domain.Sale{}, ErrEmptyCart
	}

	detail := pricing.ComputeDetail(in.Items, in.GlobalDiscount, in.Settings.TaxRate)
	if detail.Total.IsNegative() {
		return domain.Sale{}, ErrNegativeTotal
	}

	if in.Type == domain.SaleTypeSale && in.Method == domain.PayCash && in.AmountPaid.LessThan(detail.Total) {
		return domain.Sale{}, ErrInsufficientPayment
	}
	if in.Type == domain.SaleTypeCredit && in.Customer == nil {
		return domain.Sale{}, ErrCustomerRequired
	}

	change := decimal.Zero
	if in.Method == domain.PayCash {
		if diff := in.AmountPaid.Sub(detail.Total); diff.IsPositive() {
			change = diff
		}
	}

	items := make([]domain.LineItem, len(in.Items))
	copy(items, in.Items)

	var customer *domain.Customer
	if in.Customer != nil {
		snapshot := *in.Customer
		customer = &snapshot
	}

	s := domain.Sale{
		ID:             xid.New("sale"),
		CreatedAt:      b.now(),
		Type:           in.Type,
		Items:          items,
		Subtotal:       detail.Subtotal,
		ItemDiscounts:  detail.ItemDiscounts,
		GlobalDiscount: in.GlobalDiscount,
		TaxRate:        in.Settings.TaxRate,
		TaxAmount:      detail.TaxAmount,
		Total:          detail.Total,
		Profit:         pricing.ComputeProfit(in.Items),
		Payment: domain.Payment{
			Method: in.Method,
			Amount: in.AmountPaid,
			Change: change,
		},
		Customer: customer,
	}

	doc := b.issueDocument(ctx, s, in.Settings)
	s.DocNumber = doc.Number
	fiscal := doc.Fiscal
	s.Fiscal = &fiscal

	return s, nil
}

// BuildFromQuote converts a quote into a brand-new sale record with a fresh
// id and timestamp. The quote itself is never touched.
func (b *Builder) BuildFromQuote(ctx context.Context, quote domain.Sale, method domain.PaymentMethod, amountPaid decimal.Decimal, settings domain.Settings) (domain.Sale, error) {
	if quote.Type != domain.SaleTypeQuote {
		return domain.Sale{}, errors.New("not a quote")
	}
	return b.Build(ctx, BuildInput{
		Items:          quote.Items,
		Type:           domain.SaleTypeSale,
		Customer:       quote.Customer,
		Method:         method,
		AmountPaid:     amountPaid,
		GlobalDiscount: quote.GlobalDiscount,
		Settings:       settings,
	})
}

func (b *Builder) issueDocument(ctx context.Context, s domain.Sale, settings domain.Settings) domain.IssuedDocument {
	invoiceable := s.Type == domain.SaleTypeSale || s.Type == domain.SaleTypeCredit
	if settings.InvoicingEnabled && invoiceable && b.invoicer != nil {
		issueCtx, cancel := context.WithTimeout(ctx, b.timeout)
		defer cancel()

		doc, err := b.invoicer.Issue(issueCtx, s, settings)
		if err == nil && doc.Number != "" {
			return doc
		}
		log.Printf("[sale] WARN: invoicing failed for %s, falling back to training document: %v", s.ID, err)
	}
	return domain.IssuedDocument{
		Number: "TEMP-" + s.ID,
		Fiscal: domain.FiscalMeta{Training: true},
	}
}
