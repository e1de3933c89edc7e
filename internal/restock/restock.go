// Package restock projects the accumulated sold quantities into per-provider
// reorder suggestions. Pure reads over ledger state, no caching: catalogs in
// this size class are scanned in microseconds.
package restock

import (
	"sort"

	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
)

type ProductSuggestion struct {
	ProductID    string          `json:"product_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	SoldQuantity decimal.Decimal `json:"sold_quantity"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	// SuggestedQuantity tops the sold amount back up when stock has
	// fallen below what the session moved.
	SuggestedQuantity decimal.Decimal `json:"suggested_quantity"`
}

type ProviderSuggestion struct {
	ProviderID   string              `json:"provider_id"`
	ProviderName string              `json:"provider_name"`
	Phone        string              `json:"phone,omitempty"`
	Products     []ProductSuggestion `json:"products"`
}

// Suggest builds the reorder list for every provider with accumulated sales.
// Providers and products that disappeared from the catalog are skipped.
func Suggest(
	restock map[string]map[string]decimal.Decimal,
	products map[string]domain.Product,
	providers map[string]domain.Provider,
) []ProviderSuggestion {
	out := make([]ProviderSuggestion, 0, len(restock))

	for providerID, byProduct := range restock {
		provider, ok := providers[providerID]
		if !ok {
			continue
		}

		suggestions := make([]ProductSuggestion, 0, len(byProduct))
		for productID, sold := range byProduct {
			product, ok := products[productID]
			if !ok || !sold.IsPositive() {
				continue
			}
			suggested := sold.Sub(product.Stock)
			if suggested.IsNegative() {
				suggested = decimal.Zero
			}
			suggestions = append(suggestions, ProductSuggestion{
				ProductID:         productID,
				Name:              product.Name,
				Unit:              product.Unit,
				SoldQuantity:      sold,
				CurrentStock:      product.Stock,
				SuggestedQuantity: suggested,
			})
		}
		if len(suggestions) == 0 {
			continue
		}

		sort.Slice(suggestions, func(i, j int) bool {
			if !suggestions[i].SoldQuantity.Equal(suggestions[j].SoldQuantity) {
				return suggestions[i].SoldQuantity.GreaterThan(suggestions[j].SoldQuantity)
			}
			return suggestions[i].Name < suggestions[j].Name
		})

		out = append(out, ProviderSuggestion{
			ProviderID:   providerID,
			ProviderName: provider.Name,
			Phone:        provider.Phone,
			Products:     suggestions,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ProviderName < out[j].ProviderName
	})
	return out
}
