package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
)

// Action is the closed set of state transitions the reducer understands.
// Every mutation of ledger state goes through exactly one Action value.
type Action interface {
	isAction()
}

type AddItem struct {
	Item domain.LineItem
}

type UpdateItem struct {
	Index int
	Item  domain.LineItem
}

type RemoveItem struct {
	Index int
}

type ClearCart struct{}

type SetDiscount struct {
	Amount decimal.Decimal
}

type SelectCustomer struct {
	CustomerID string // empty deselects
}

type SetPayment struct {
	Method domain.PaymentMethod
	Amount decimal.Decimal
}

type UpsertProduct struct {
	Product domain.Product
}

type DeleteProduct struct {
	ProductID string
}

type UpsertProvider struct {
	Provider domain.Provider
}

type UpsertCustomer struct {
	Customer domain.Customer
}

type DeleteCustomer struct {
	CustomerID string
}

// AdjustCustomerBalance records a payment on account (positive delta) or an
// extra charge (negative delta) against a customer's balance.
type AdjustCustomerBalance struct {
	CustomerID string
	Delta      decimal.Decimal
}

// SaveSale commits an already-built sale. The reducer applies stock, cash,
// debt, restock and document effects atomically: either all of them land in
// the next state or the action fails and the state is unchanged.
type SaveSale struct {
	Sale domain.Sale
}

type OpenRegister struct {
	OpeningAmount decimal.Decimal
	At            time.Time
}

type AddCashMovement struct {
	Kind    domain.MovementKind
	Concept string
	Amount  decimal.Decimal
	At      time.Time
}

type CloseRegister struct {
	At time.Time
}

// ResetProviderRestock clears the accumulated restock suggestions for one
// provider, typically after the order was placed.
type ResetProviderRestock struct {
	ProviderID string
}

func (AddItem) isAction()               {}
func (UpdateItem) isAction()            {}
func (RemoveItem) isAction()            {}
func (ClearCart) isAction()             {}
func (SetDiscount) isAction()           {}
func (SelectCustomer) isAction()        {}
func (SetPayment) isAction()            {}
func (UpsertProduct) isAction()         {}
func (DeleteProduct) isAction()         {}
func (UpsertProvider) isAction()        {}
func (UpsertCustomer) isAction()        {}
func (DeleteCustomer) isAction()        {}
func (AdjustCustomerBalance) isAction() {}
func (SaveSale) isAction()              {}
func (OpenRegister) isAction()          {}
func (AddCashMovement) isAction()       {}
func (CloseRegister) isAction()         {}
func (ResetProviderRestock) isAction()  {}
