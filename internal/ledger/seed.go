package ledger

import (
	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// SeedState returns a ready-to-use state with sample catalog data for a
// fresh install or a failed snapshot load.
func SeedState() State {
	providers := []domain.Provider{
		{ID: "prov-molinos", Name: "Distribuidora Molinos", Phone: "11-4555-0101"},
		{ID: "prov-lacteos", Name: "Lacteos del Sur", Phone: "11-4555-0102"},
		{ID: "prov-bebidas", Name: "Bebidas Litoral", Phone: "11-4555-0103"},
	}

	products := []domain.Product{
		{ID: "prod-yerba-1kg", Name: "Yerba Mate 1kg", Unit: "un", Price: d("4500"), Cost: d("3100"), Stock: d("24"), ProviderID: "prov-molinos", Active: true},
		{ID: "prod-harina-000", Name: "Harina 000 1kg", Unit: "un", Price: d("950"), Cost: d("620"), Stock: d("40"), ProviderID: "prov-molinos", Active: true},
		{ID: "prod-fideos-500", Name: "Fideos Guiseros 500g", Unit: "un", Price: d("1350"), Cost: d("880"), Stock: d("36"), ProviderID: "prov-molinos", Active: true},
		{ID: "prod-azucar-1kg", Name: "Azucar 1kg", Unit: "un", Price: d("1200"), Cost: d("790"), Stock: d("30"), ProviderID: "prov-molinos", Active: true},
		{ID: "prod-leche-1l", Name: "Leche Entera 1L", Unit: "un", Price: d("1600"), Cost: d("1150"), Stock: d("18"), ProviderID: "prov-lacteos", Active: true},
		{ID: "prod-queso-cremoso", Name: "Queso Cremoso", Unit: "kg", Price: d("9800"), Cost: d("6900"), Stock: d("6.5"), ProviderID: "prov-lacteos", Active: true},
		{ID: "prod-manteca-200", Name: "Manteca 200g", Unit: "un", Price: d("2100"), Cost: d("1450"), Stock: d("12"), ProviderID: "prov-lacteos", Active: true},
		{ID: "prod-gaseosa-225", Name: "Gaseosa Cola 2.25L", Unit: "un", Price: d("3200"), Cost: d("2150"), Stock: d("20"), ProviderID: "prov-bebidas", Active: true},
		{ID: "prod-agua-2l", Name: "Agua Mineral 2L", Unit: "un", Price: d("1400"), Cost: d("850"), Stock: d("28"), ProviderID: "prov-bebidas", Active: true},
		{ID: "prod-vino-tinto", Name: "Vino Tinto 750ml", Unit: "un", Price: d("5200"), Cost: d("3600"), Stock: d("15"), ProviderID: "prov-bebidas", Active: true},
	}

	customers := []domain.Customer{
		{ID: "cust-consumidor", Name: "Consumidor Final"},
		{ID: "cust-perez", Name: "Marta Perez", Phone: "11-6555-2233", CreditLimit: d("50000")},
		{ID: "cust-comedor", Name: "Comedor El Hornero", TaxID: "30-71234567-8", CreditLimit: d("200000")},
	}

	s := NewState()
	for _, p := range providers {
		s.Providers[p.ID] = p
	}
	for _, p := range products {
		s.Products[p.ID] = p
	}
	for _, c := range customers {
		s.Customers[c.ID] = c
	}
	return s
}
