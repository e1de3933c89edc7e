package httpapi

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
)

func sortedProducts(products map[string]domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedProviders(providers map[string]domain.Provider) []domain.Provider {
	out := make([]domain.Provider, 0, len(providers))
	for _, p := range providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedCustomers(customers map[string]domain.Customer) []domain.Customer {
	out := make([]domain.Customer, 0, len(customers))
	for _, c := range customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func closureToCSV(c domain.CashClosure) string {
	lines := []string{
		"section,key,value",
		fmt.Sprintf("summary,id,%s", c.ID),
		fmt.Sprintf("summary,opened_at,%s", c.OpenedAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("summary,closed_at,%s", c.ClosedAt.Format("2006-01-02 15:04")),
		fmt.Sprintf("summary,opening_amount,%s", c.OpeningAmount),
		fmt.Sprintf("summary,current_amount,%s", c.CurrentAmount),
		fmt.Sprintf("summary,expected_amount,%s", c.ExpectedAmount),
		fmt.Sprintf("summary,difference,%s", c.Difference),
		fmt.Sprintf("summary,manual_net,%s", c.ManualNet),
		fmt.Sprintf("summary,cash_from_mixed,%s", c.CashFromMixed),
		fmt.Sprintf("turn,sales_count,%d", c.Turn.SalesCount),
		fmt.Sprintf("turn,subtotal,%s", c.Turn.Subtotal),
		fmt.Sprintf("turn,tax_amount,%s", c.Turn.TaxAmount),
		fmt.Sprintf("turn,total,%s", c.Turn.Total),
		fmt.Sprintf("turn,profit,%s", c.Turn.Profit),
	}
	for _, method := range sortedMethods(c.SalesByMethod) {
		lines = append(lines, fmt.Sprintf("payment,%s,%s", method, c.SalesByMethod[method]))
	}
	for _, m := range c.Movements {
		concept := strings.ReplaceAll(m.Concept, ",", " ")
		lines = append(lines, fmt.Sprintf("movement,%s %s,%s", m.Kind, concept, m.Amount))
	}
	return strings.Join(lines, "\n") + "\n"
}

func salesToCSV(sales []domain.Sale) string {
	lines := []string{"id,created_at,type,doc_number,customer,method,subtotal,tax_amount,total,profit"}
	for _, s := range sales {
		customer := ""
		if s.Customer != nil {
			customer = strings.ReplaceAll(s.Customer.Name, ",", " ")
		}
		lines = append(lines, fmt.Sprintf("%s,%s,%s,%s,%s,%s,%s,%s,%s,%s",
			s.ID,
			s.CreatedAt.Format("2006-01-02 15:04"),
			s.Type,
			s.DocNumber,
			customer,
			s.Payment.Method,
			s.Subtotal,
			s.TaxAmount,
			s.Total,
			s.Profit,
		))
	}
	return strings.Join(lines, "\n") + "\n"
}

func sortedMethods(byMethod map[domain.PaymentMethod]decimal.Decimal) []domain.PaymentMethod {
	methods := make([]domain.PaymentMethod, 0, len(byMethod))
	for method := range byMethod {
		methods = append(methods, method)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })
	return methods
}

// closureHTMLTmpl renders the printable session summary. User-controlled
// fields (concepts, names) are auto-escaped by html/template.
var closureHTMLTmpl = template.Must(template.New("closure").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Cierre de caja {{.ID}}</title>
  <style>
    body { font-family: sans-serif; margin: 24px; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th, td { border: 1px solid #ddd; padding: 6px; font-size: 13px; }
    h2, h3 { margin-bottom: 4px; }
    .num { text-align: right; }
  </style>
</head>
<body>
  <h2>Cierre de caja</h2>
  <p>Apertura: {{.OpenedAt.Format "2006-01-02 15:04"}} | Cierre: {{.ClosedAt.Format "2006-01-02 15:04"}}</p>
  <p>Inicial: {{.OpeningAmount}} | En caja: {{.CurrentAmount}} | Esperado: {{.ExpectedAmount}} | Diferencia: {{.Difference}}</p>
  <p>Ventas del turno: {{.Turn.SalesCount}} | Total: {{.Turn.Total}} | Ganancia: {{.Turn.Profit}}</p>

  <h3>Por medio de pago</h3>
  <table>
    <thead><tr><th>Medio</th><th>Total</th></tr></thead>
    <tbody>{{range $method, $amount := .SalesByMethod}}<tr><td>{{$method}}</td><td class="num">{{$amount}}</td></tr>{{end}}</tbody>
  </table>

  <h3>Movimientos</h3>
  <table>
    <thead><tr><th>Hora</th><th>Tipo</th><th>Concepto</th><th>Monto</th></tr></thead>
    <tbody>{{range .Movements}}<tr><td>{{.CreatedAt.Format "15:04"}}</td><td>{{.Kind}}</td><td>{{.Concept}}</td><td class="num">{{.Amount}}</td></tr>{{end}}</tbody>
  </table>
</body>
</html>
`))

func closureToPrintableHTML(c domain.CashClosure) string {
	var buf bytes.Buffer
	if err := closureHTMLTmpl.Execute(&buf, c); err != nil {
		return "<!doctype html><html><body><p>Report rendering error.</p></body></html>"
	}
	return buf.String()
}
