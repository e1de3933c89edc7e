// Package pricing computes cart totals and profit. Everything here is pure:
// no state, no side effects, callable at any cart state including empty.
package pricing

import (
	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
)

// Detail is the totals breakdown for a cart plus a global discount and tax
// rate. Rounding happens exactly twice, at TaxAmount and Total; the
// intermediate sums stay exact so a closure recomputed from the same inputs
// reconciles to the same cents.
type Detail struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	ItemDiscounts decimal.Decimal `json:"item_discounts"`
	Base          decimal.Decimal `json:"base"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
}

func ComputeDetail(items []domain.LineItem, globalDiscount decimal.Decimal, taxRate decimal.Decimal) Detail {
	subtotal := decimal.Zero
	itemDiscounts := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(item.Quantity))
		itemDiscounts = itemDiscounts.Add(item.Discount)
	}

	base := subtotal.Sub(itemDiscounts)
	taxAmount := base.Mul(taxRate).Round(2)
	total := base.Add(taxAmount).Sub(globalDiscount).Round(2)

	return Detail{
		Subtotal:      subtotal,
		ItemDiscounts: itemDiscounts,
		Base:          base,
		TaxAmount:     taxAmount,
		Total:         total,
	}
}

// ComputeProfit sums (price - cost) * quantity over the cart. No rounding
// is applied; callers round for display only.
func ComputeProfit(items []domain.LineItem) decimal.Decimal {
	profit := decimal.Zero
	for _, item := range items {
		profit = profit.Add(item.UnitPrice.Sub(item.UnitCost).Mul(item.Quantity))
	}
	return profit
}
