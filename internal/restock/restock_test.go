package restock

import (
	"testing"

	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func fixture() (map[string]map[string]decimal.Decimal, map[string]domain.Product, map[string]domain.Provider) {
	restock := map[string]map[string]decimal.Decimal{
		"prov-a": {
			"prod-1": d("10"),
			"prod-2": d("3"),
		},
		"prov-gone": {
			"prod-1": d("5"),
		},
	}
	products := map[string]domain.Product{
		"prod-1": {ID: "prod-1", Name: "Yerba Mate 1kg", Unit: "un", Stock: d("4"), ProviderID: "prov-a"},
		"prod-2": {ID: "prod-2", Name: "Azucar 1kg", Unit: "un", Stock: d("20"), ProviderID: "prov-a"},
	}
	providers := map[string]domain.Provider{
		"prov-a": {ID: "prov-a", Name: "Distribuidora Molinos", Phone: "11-4555-0101"},
	}
	return restock, products, providers
}

func TestSuggest(t *testing.T) {
	restock, products, providers := fixture()

	got := Suggest(restock, products, providers)
	if len(got) != 1 {
		t.Fatalf("providers = %d, want 1 (unknown provider skipped)", len(got))
	}

	p := got[0]
	if p.ProviderID != "prov-a" {
		t.Fatalf("provider = %s", p.ProviderID)
	}
	if len(p.Products) != 2 {
		t.Fatalf("products = %d, want 2", len(p.Products))
	}
	// Sorted by sold quantity, highest first.
	if p.Products[0].ProductID != "prod-1" {
		t.Fatalf("first product = %s, want prod-1", p.Products[0].ProductID)
	}
	if !p.Products[0].SuggestedQuantity.Equal(d("6")) {
		t.Fatalf("suggested = %s, want 6 (sold 10, stock 4)", p.Products[0].SuggestedQuantity)
	}
	// Stock covers what was sold: nothing to top up.
	if !p.Products[1].SuggestedQuantity.IsZero() {
		t.Fatalf("suggested = %s, want 0", p.Products[1].SuggestedQuantity)
	}
}

func TestSuggestEmpty(t *testing.T) {
	if got := Suggest(nil, nil, nil); len(got) != 0 {
		t.Fatalf("got %d suggestions from empty input", len(got))
	}
}
