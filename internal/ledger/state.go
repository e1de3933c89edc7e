package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidIndex         = errors.New("invalid cart index")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrMissingID            = errors.New("missing id")
	ErrRegisterAlreadyOpen  = errors.New("register already open")
	ErrRegisterNotOpen      = errors.New("register not open")
	ErrInvalidOpeningAmount = errors.New("invalid opening amount")
	ErrCustomerHasDebt      = errors.New("customer has outstanding debt")
	ErrUnknownAction        = errors.New("unknown action")
)

// State is the whole ledger. The reducer never mutates a State in place:
// Reduce returns a fresh value and the input stays valid, which is what
// makes every transition all-or-nothing.
type State struct {
	Cart           domain.Cart
	Customer       *domain.Customer
	PaymentMethod  domain.PaymentMethod
	PaymentAmount  decimal.Decimal
	GlobalDiscount decimal.Decimal

	Register domain.CashRegister
	Closures []domain.CashClosure

	Customers map[string]domain.Customer
	Products  map[string]domain.Product
	Providers map[string]domain.Provider

	// Restock maps providerID to productID to accumulated sold quantity.
	Restock map[string]map[string]decimal.Decimal

	Sales     []domain.Sale
	Documents []domain.DocumentRecord
}

func NewState() State {
	return State{
		PaymentMethod: domain.PayCash,
		Register:      domain.NewClosedRegister(),
		Closures:      make([]domain.CashClosure, 0),
		Customers:     make(map[string]domain.Customer),
		Products:      make(map[string]domain.Product),
		Providers:     make(map[string]domain.Provider),
		Restock:       make(map[string]map[string]decimal.Decimal),
		Sales:         make([]domain.Sale, 0),
		Documents:     make([]domain.DocumentRecord, 0),
	}
}

func (s State) clone() State {
	dup := s
	dup.Cart = s.Cart.Clone()
	if s.Customer != nil {
		c := *s.Customer
		dup.Customer = &c
	}
	dup.Register = s.Register.Clone()
	dup.Closures = append([]domain.CashClosure(nil), s.Closures...)
	dup.Customers = make(map[string]domain.Customer, len(s.Customers))
	for id, c := range s.Customers {
		dup.Customers[id] = c
	}
	dup.Products = make(map[string]domain.Product, len(s.Products))
	for id, p := range s.Products {
		dup.Products[id] = p
	}
	dup.Providers = make(map[string]domain.Provider, len(s.Providers))
	for id, p := range s.Providers {
		dup.Providers[id] = p
	}
	dup.Restock = make(map[string]map[string]decimal.Decimal, len(s.Restock))
	for prov, byProduct := range s.Restock {
		inner := make(map[string]decimal.Decimal, len(byProduct))
		for prod, qty := range byProduct {
			inner[prod] = qty
		}
		dup.Restock[prov] = inner
	}
	dup.Sales = append([]domain.Sale(nil), s.Sales...)
	dup.Documents = append([]domain.DocumentRecord(nil), s.Documents...)
	return dup
}

// resetCart restores the live cart context to its defaults. Runs after a
// committed sale and on an explicit clear.
func (s *State) resetCart() {
	s.Cart = domain.Cart{}
	s.Customer = nil
	s.PaymentMethod = domain.PayCash
	s.PaymentAmount = decimal.Zero
	s.GlobalDiscount = decimal.Zero
}

// Snapshot converts the state into its persisted form. The live cart and
// payment context are left out on purpose.
func (s State) Snapshot(at time.Time) domain.Snapshot {
	c := s.clone()
	return domain.Snapshot{
		Register:  c.Register,
		Closures:  c.Closures,
		Customers: c.Customers,
		Products:  c.Products,
		Providers: c.Providers,
		Restock:   c.Restock,
		Sales:     c.Sales,
		Documents: c.Documents,
		SavedAt:   at,
	}
}

// FromSnapshot rebuilds a State from persisted data, filling in any nil
// collections so older snapshots rehydrate cleanly.
func FromSnapshot(snap domain.Snapshot) State {
	s := NewState()
	s.Register = snap.Register
	if s.Register.SalesByMethod == nil {
		s.Register.SalesByMethod = make(map[domain.PaymentMethod]decimal.Decimal)
	}
	if s.Register.Movements == nil {
		s.Register.Movements = make([]domain.CashMovement, 0)
	}
	if snap.Closures != nil {
		s.Closures = snap.Closures
	}
	if snap.Customers != nil {
		s.Customers = snap.Customers
	}
	if snap.Products != nil {
		s.Products = snap.Products
	}
	if snap.Providers != nil {
		s.Providers = snap.Providers
	}
	if snap.Restock != nil {
		s.Restock = snap.Restock
	}
	if snap.Sales != nil {
		s.Sales = snap.Sales
	}
	if snap.Documents != nil {
		s.Documents = snap.Documents
	}
	return s
}
