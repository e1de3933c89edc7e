package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleType string

const (
	SaleTypeSale   SaleType = "sale"
	SaleTypeQuote  SaleType = "quote"
	SaleTypeRemit  SaleType = "remit"
	SaleTypeCredit SaleType = "credit"
)

type PaymentMethod string

const (
	PayCash     PaymentMethod = "cash"
	PayTransfer PaymentMethod = "transfer"
	PayMixed    PaymentMethod = "mixed"
	PayCard     PaymentMethod = "card"
	PayAccount  PaymentMethod = "account"
	PayCredit   PaymentMethod = "credit"
)

type MovementKind string

const (
	MovementOpening MovementKind = "opening"
	MovementIncome  MovementKind = "income"
	MovementExpense MovementKind = "expense"
	MovementClosing MovementKind = "closing"
	MovementInfo    MovementKind = "info"
)

type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	Price      decimal.Decimal `json:"price"`
	Cost       decimal.Decimal `json:"cost"`
	Stock      decimal.Decimal `json:"stock"`
	ProviderID string          `json:"provider_id,omitempty"`
	Active     bool            `json:"active"`
}

// LineItem is a cart line. Quantity may be fractional for weighed products.
// UnitPrice and UnitCost are copied from the catalog when the line is added
// so later catalog edits never change an open cart or a committed sale.
type LineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Discount  decimal.Decimal `json:"discount"`
	Note      string          `json:"note,omitempty"`
}

type Cart struct {
	Items []LineItem `json:"items"`
}

func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

func (c Cart) Clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

type Payment struct {
	Method PaymentMethod   `json:"method"`
	Amount decimal.Decimal `json:"amount"`
	Change decimal.Decimal `json:"change"`
}

type Customer struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	TaxID       string          `json:"tax_id,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Email       string          `json:"email,omitempty"`
	Address     string          `json:"address,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

type Provider struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// FiscalMeta is the metadata attached by the external invoicing service.
// Training marks locally generated placeholder documents.
type FiscalMeta struct {
	Training bool   `json:"training"`
	CAE      string `json:"cae,omitempty"`
	CAEDue   string `json:"cae_due,omitempty"`
	PDFRef   string `json:"pdf_ref,omitempty"`
}

type IssuedDocument struct {
	Number string     `json:"number"`
	Fiscal FiscalMeta `json:"fiscal"`
}

// Sale is immutable once built. Totals are carried as computed at commit
// time and are never re-derived from the item snapshot.
type Sale struct {
	ID             string          `json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	Type           SaleType        `json:"type"`
	Items          []LineItem      `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	ItemDiscounts  decimal.Decimal `json:"item_discounts"`
	GlobalDiscount decimal.Decimal `json:"global_discount"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
	Profit         decimal.Decimal `json:"profit"`
	Payment        Payment         `json:"payment"`
	Customer       *Customer       `json:"customer,omitempty"`
	DocNumber      string          `json:"doc_number"`
	Fiscal         *FiscalMeta     `json:"fiscal,omitempty"`
}

type CashMovement struct {
	ID        string          `json:"id"`
	Kind      MovementKind    `json:"kind"`
	Concept   string          `json:"concept"`
	Amount    decimal.Decimal `json:"amount"`
	SaleID    string          `json:"sale_id,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// CashRegister is the single live drawer. CurrentAmount is the running
// estimate of physical cash; SalesByMethod and CashFromMixed feed the
// expected-amount arithmetic on close.
type CashRegister struct {
	IsOpen        bool                              `json:"is_open"`
	OpenedAt      time.Time                         `json:"opened_at"`
	OpeningAmount decimal.Decimal                   `json:"opening_amount"`
	CurrentAmount decimal.Decimal                   `json:"current_amount"`
	SalesByMethod map[PaymentMethod]decimal.Decimal `json:"sales_by_method"`
	CashFromMixed decimal.Decimal                   `json:"cash_from_mixed"`
	Movements     []CashMovement                    `json:"movements"`
}

func NewClosedRegister() CashRegister {
	return CashRegister{
		SalesByMethod: make(map[PaymentMethod]decimal.Decimal),
		Movements:     make([]CashMovement, 0, 16),
	}
}

func (r CashRegister) Clone() CashRegister {
	dup := r
	dup.SalesByMethod = make(map[PaymentMethod]decimal.Decimal, len(r.SalesByMethod))
	for method, amount := range r.SalesByMethod {
		dup.SalesByMethod[method] = amount
	}
	dup.Movements = make([]CashMovement, len(r.Movements))
	copy(dup.Movements, r.Movements)
	return dup
}

// TurnSummary aggregates the non-quote sales whose timestamp fell within
// one open-to-close session.
type TurnSummary struct {
	SalesCount int                               `json:"sales_count"`
	Subtotal   decimal.Decimal                   `json:"subtotal"`
	TaxAmount  decimal.Decimal                   `json:"tax_amount"`
	Total      decimal.Decimal                   `json:"total"`
	Profit     decimal.Decimal                   `json:"profit"`
	ByMethod   map[PaymentMethod]decimal.Decimal `json:"by_method"`
}

// CashClosure is the archival snapshot of one completed session.
// Immutable once appended to the closures history.
type CashClosure struct {
	ID             string                            `json:"id"`
	OpenedAt       time.Time                         `json:"opened_at"`
	ClosedAt       time.Time                         `json:"closed_at"`
	OpeningAmount  decimal.Decimal                   `json:"opening_amount"`
	CurrentAmount  decimal.Decimal                   `json:"current_amount"`
	ExpectedAmount decimal.Decimal                   `json:"expected_amount"`
	Difference     decimal.Decimal                   `json:"difference"`
	ManualNet      decimal.Decimal                   `json:"manual_net"`
	CashFromMixed  decimal.Decimal                   `json:"cash_from_mixed"`
	SalesByMethod  map[PaymentMethod]decimal.Decimal `json:"sales_by_method"`
	Movements      []CashMovement                    `json:"movements"`
	Turn           TurnSummary                       `json:"turn"`
}

// DocumentRecord is one entry in the issued-documents log.
type DocumentRecord struct {
	SaleID    string      `json:"sale_id"`
	Number    string      `json:"number"`
	Fiscal    *FiscalMeta `json:"fiscal,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type Settings struct {
	TaxRate          decimal.Decimal `json:"tax_rate"`
	InvoicingEnabled bool            `json:"invoicing_enabled"`
}

// Snapshot is the persisted ledger state. The live cart is deliberately
// excluded: an in-progress cart does not survive a restart.
type Snapshot struct {
	Register  CashRegister                          `json:"register"`
	Closures  []CashClosure                         `json:"closures"`
	Customers map[string]Customer                   `json:"customers"`
	Products  map[string]Product                    `json:"products"`
	Providers map[string]Provider                   `json:"providers"`
	Restock   map[string]map[string]decimal.Decimal `json:"restock"`
	Sales     []Sale                                `json:"sales"`
	Documents []DocumentRecord                      `json:"documents"`
	SavedAt   time.Time                             `json:"saved_at"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}
