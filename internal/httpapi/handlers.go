package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
	"puntoventa/backend/internal/ledger"
	"puntoventa/backend/internal/pricing"
	"puntoventa/backend/internal/restock"
	"puntoventa/backend/internal/xid"
)

type addItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
	Note      string          `json:"note"`
}

type updateItemRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
	Discount decimal.Decimal `json:"discount"`
	Note     string          `json:"note"`
}

type discountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type selectCustomerRequest struct {
	CustomerID string `json:"customer_id"`
}

type paymentRequest struct {
	Method domain.PaymentMethod `json:"method"`
	Amount decimal.Decimal      `json:"amount"`
}

type commitRequest struct {
	Type domain.SaleType `json:"type"`
}

type convertQuoteRequest struct {
	Method domain.PaymentMethod `json:"method"`
	Amount decimal.Decimal      `json:"amount"`
}

type productRequest struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Unit       string          `json:"unit"`
	Price      decimal.Decimal `json:"price"`
	Cost       decimal.Decimal `json:"cost"`
	Stock      decimal.Decimal `json:"stock"`
	ProviderID string          `json:"provider_id"`
	Active     *bool           `json:"active"`
}

type providerRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type customerRequest struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	TaxID       string          `json:"tax_id"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	Address     string          `json:"address"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

type customerPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type openRegisterRequest struct {
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

type movementRequest struct {
	Kind    domain.MovementKind `json:"kind"`
	Concept string              `json:"concept"`
	Amount  decimal.Decimal     `json:"amount"`
}

func (a *API) cartView(s ledger.State) map[string]any {
	detail := pricing.ComputeDetail(s.Cart.Items, s.GlobalDiscount, a.engine.Settings().TaxRate)
	view := map[string]any{
		"items":           s.Cart.Items,
		"payment_method":  s.PaymentMethod,
		"payment_amount":  s.PaymentAmount,
		"global_discount": s.GlobalDiscount,
		"subtotal":        detail.Subtotal,
		"item_discounts":  detail.ItemDiscounts,
		"tax_amount":      detail.TaxAmount,
		"total":           detail.Total,
	}
	if s.Customer != nil {
		view["customer"] = s.Customer
	}
	return view
}

func (a *API) handleCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": a.cartView(a.engine.State())})
}

func (a *API) handleCartItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !req.Quantity.IsPositive() {
		writeError(w, http.StatusBadRequest, errors.New("quantity must be positive"))
		return
	}
	if req.Discount.IsNegative() {
		writeError(w, http.StatusBadRequest, errors.New("discount must not be negative"))
		return
	}

	product, ok := a.engine.State().Products[strings.TrimSpace(req.ProductID)]
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("product not found"))
		return
	}
	if !product.Active {
		writeError(w, http.StatusBadRequest, errors.New("product is inactive"))
		return
	}

	// Catalog price and cost are copied into the line so later edits never
	// change an open cart.
	item := domain.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Quantity:  req.Quantity,
		UnitPrice: product.Price,
		UnitCost:  product.Cost,
		Discount:  req.Discount,
		Note:      strings.TrimSpace(req.Note),
	}
	if err := a.engine.Apply(r.Context(), ledger.AddItem{Item: item}); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": a.cartView(a.engine.State())})
}

func (a *API) handleCartItemActions(w http.ResponseWriter, r *http.Request) {
	tail := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/cart/items/"), "/")
	index, err := strconv.Atoi(tail)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid cart item index"))
		return
	}

	switch r.Method {
	case http.MethodPatch:
		var req updateItemRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if !req.Quantity.IsPositive() {
			writeError(w, http.StatusBadRequest, errors.New("quantity must be positive"))
			return
		}
		if req.Discount.IsNegative() {
			writeError(w, http.StatusBadRequest, errors.New("discount must not be negative"))
			return
		}

		s := a.engine.State()
		if index < 0 || index >= len(s.Cart.Items) {
			writeError(w, http.StatusNotFound, errors.New("cart item not found"))
			return
		}
		item := s.Cart.Items[index]
		item.Quantity = req.Quantity
		item.Discount = req.Discount
		item.Note = strings.TrimSpace(req.Note)

		if err := a.engine.Apply(r.Context(), ledger.UpdateItem{Index: index, Item: item}); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cart": a.cartView(a.engine.State())})

	case http.MethodDelete:
		if err := a.engine.Apply(r.Context(), ledger.RemoveItem{Index: index}); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cart": a.cartView(a.engine.State())})

	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCartClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if err := a.engine.Apply(r.Context(), ledger.ClearCart{}); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": a.cartView(a.engine.State())})
}

func (a *API) handleCartDiscount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req discountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.engine.Apply(r.Context(), ledger.SetDiscount{Amount: req.Amount}); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": a.cartView(a.engine.State())})
}

func (a *API) handleCartCustomer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req selectCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.engine.Apply(r.Context(), ledger.SelectCustomer{CustomerID: strings.TrimSpace(req.CustomerID)}); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": a.cartView(a.engine.State())})
}

func (a *API) handleCartPayment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.engine.Apply(r.Context(), ledger.SetPayment{Method: req.Method, Amount: req.Amount}); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": a.cartView(a.engine.State())})
}

func (a *API) handleSales(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := parsePositiveLimit(r.URL.Query().Get("limit"), 100, 500)
		sales := a.engine.State().Sales
		if len(sales) > limit {
			sales = sales[len(sales)-limit:]
		}
		writeJSON(w, http.StatusOK, map[string]any{"sales": sales})

	case http.MethodPost:
		var req commitRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		saleType := req.Type
		if saleType == "" {
			saleType = domain.SaleTypeSale
		}
		switch saleType {
		case domain.SaleTypeSale, domain.SaleTypeQuote, domain.SaleTypeRemit, domain.SaleTypeCredit:
		default:
			writeError(w, http.StatusBadRequest, errors.New("unknown sale type"))
			return
		}

		committed, err := a.engine.CommitSale(r.Context(), saleType)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"sale": committed})

	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleSalesExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sales.csv"`)
	_, _ = w.Write([]byte(salesToCSV(a.engine.State().Sales)))
}

func (a *API) handleQuoteActions(w http.ResponseWriter, r *http.Request) {
	tail := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/quotes/"), "/")
	quoteID, action, found := strings.Cut(tail, "/")
	if !found || action != "convert" || quoteID == "" {
		writeError(w, http.StatusBadRequest, errors.New("invalid quote action path"))
		return
	}
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req convertQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Method == "" {
		req.Method = domain.PayCash
	}

	converted, err := a.engine.ConvertQuote(r.Context(), quoteID, req.Method, req.Amount)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"sale": converted})
}

func (a *API) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": a.engine.State().Documents})
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"register": a.engine.State().Register})
}

func (a *API) handleRegisterOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req openRegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := a.engine.Apply(r.Context(), ledger.OpenRegister{OpeningAmount: req.OpeningAmount, At: time.Now().UTC()}); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"register": a.engine.State().Register})
}

func (a *API) handleRegisterClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if err := a.engine.Apply(r.Context(), ledger.CloseRegister{At: time.Now().UTC()}); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	closures := a.engine.State().Closures
	writeJSON(w, http.StatusOK, map[string]any{"closure": closures[len(closures)-1]})
}

func (a *API) handleRegisterMovements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	var req movementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Kind != domain.MovementIncome && req.Kind != domain.MovementExpense && req.Kind != domain.MovementInfo {
		writeError(w, http.StatusBadRequest, errors.New("movement kind must be income, expense or info"))
		return
	}
	if strings.TrimSpace(req.Concept) == "" {
		writeError(w, http.StatusBadRequest, errors.New("concept is required"))
		return
	}

	err := a.engine.Apply(r.Context(), ledger.AddCashMovement{
		Kind:    req.Kind,
		Concept: strings.TrimSpace(req.Concept),
		Amount:  req.Amount,
		At:      time.Now().UTC(),
	})
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"register": a.engine.State().Register})
}

func (a *API) handleClosures(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"closures": a.engine.State().Closures})
}

func (a *API) handleClosureActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	tail := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/closures/"), "/")
	closureID, format, found := strings.Cut(tail, "/")
	if !found || closureID == "" {
		writeError(w, http.StatusBadRequest, errors.New("invalid closure action path"))
		return
	}

	var closure *domain.CashClosure
	for _, c := range a.engine.State().Closures {
		if c.ID == closureID {
			dup := c
			closure = &dup
			break
		}
	}
	if closure == nil {
		writeError(w, http.StatusNotFound, errors.New("closure not found"))
		return
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="closure-`+closure.ID+`.csv"`)
		_, _ = w.Write([]byte(closureToCSV(*closure)))
	case "print":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(closureToPrintableHTML(*closure)))
	default:
		writeError(w, http.StatusBadRequest, errors.New("unknown export format"))
	}
}

func (a *API) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"products": sortedProducts(a.engine.State().Products)})

	case http.MethodPost:
		actor, ok := ledger.ActorFromContext(r.Context())
		if !ok || actor.Role != "admin" {
			writeError(w, http.StatusForbidden, errors.New("forbidden role"))
			return
		}

		var req productRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		product, err := productFromRequest(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		if err := a.engine.Apply(r.Context(), ledger.UpsertProduct{Product: product}); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"product": product})

	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleProductActions(w http.ResponseWriter, r *http.Request) {
	productID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/products/"), "/")
	if productID == "" {
		writeError(w, http.StatusBadRequest, errors.New("product id required"))
		return
	}

	switch r.Method {
	case http.MethodPatch:
		existing, ok := a.engine.State().Products[productID]
		if !ok {
			writeError(w, http.StatusNotFound, errors.New("product not found"))
			return
		}

		var req productRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		updated := applyProductPatch(existing, req)

		if err := a.engine.Apply(r.Context(), ledger.UpsertProduct{Product: updated}); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"product": updated})

	case http.MethodDelete:
		if err := a.engine.Apply(r.Context(), ledger.DeleteProduct{ProductID: productID}); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": productID})

	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleProviders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"providers": sortedProviders(a.engine.State().Providers)})

	case http.MethodPost:
		actor, ok := ledger.ActorFromContext(r.Context())
		if !ok || actor.Role != "admin" {
			writeError(w, http.StatusForbidden, errors.New("forbidden role"))
			return
		}

		var req providerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, errors.New("provider name is required"))
			return
		}
		provider := domain.Provider{
			ID:    strings.TrimSpace(req.ID),
			Name:  strings.TrimSpace(req.Name),
			Phone: strings.TrimSpace(req.Phone),
		}
		if provider.ID == "" {
			provider.ID = xid.New("prov")
		}

		if err := a.engine.Apply(r.Context(), ledger.UpsertProvider{Provider: provider}); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"provider": provider})

	default:
		writeMethodNotAllowed(w)
	}
}

// handleProviderActions marks a provider's restock list as attended, which
// clears the accumulated suggestions after the order was placed.
func (a *API) handleProviderActions(w http.ResponseWriter, r *http.Request) {
	tail := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/providers/"), "/")
	providerID, action, found := strings.Cut(tail, "/")
	if !found || action != "attended" || providerID == "" {
		writeError(w, http.StatusBadRequest, errors.New("invalid provider action path"))
		return
	}
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	if _, ok := a.engine.State().Providers[providerID]; !ok {
		writeError(w, http.StatusNotFound, errors.New("provider not found"))
		return
	}
	if err := a.engine.Apply(r.Context(), ledger.ResetProviderRestock{ProviderID: providerID}); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"attended": providerID})
}

func (a *API) handleCustomers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"customers": sortedCustomers(a.engine.State().Customers)})

	case http.MethodPost:
		var req customerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			writeError(w, http.StatusBadRequest, errors.New("customer name is required"))
			return
		}
		customer := domain.Customer{
			ID:          strings.TrimSpace(req.ID),
			Name:        strings.TrimSpace(req.Name),
			TaxID:       strings.TrimSpace(req.TaxID),
			Phone:       strings.TrimSpace(req.Phone),
			Email:       strings.TrimSpace(req.Email),
			Address:     strings.TrimSpace(req.Address),
			CreditLimit: req.CreditLimit,
		}
		if customer.ID == "" {
			customer.ID = xid.New("cust")
		}

		if err := a.engine.Apply(r.Context(), ledger.UpsertCustomer{Customer: customer}); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"customer": customer})

	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCustomerActions(w http.ResponseWriter, r *http.Request) {
	tail := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/customers/"), "/")
	customerID, action, hasAction := strings.Cut(tail, "/")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, errors.New("customer id required"))
		return
	}

	if hasAction {
		if action != "payments" {
			writeError(w, http.StatusBadRequest, errors.New("invalid customer action path"))
			return
		}
		a.handleCustomerPayment(w, r, customerID)
		return
	}

	switch r.Method {
	case http.MethodPatch:
		existing, ok := a.engine.State().Customers[customerID]
		if !ok {
			writeError(w, http.StatusNotFound, errors.New("customer not found"))
			return
		}

		var req customerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		updated := applyCustomerPatch(existing, req)

		if err := a.engine.Apply(r.Context(), ledger.UpsertCustomer{Customer: updated}); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"customer": updated})

	case http.MethodDelete:
		if err := a.engine.Apply(r.Context(), ledger.DeleteCustomer{CustomerID: customerID}); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": customerID})

	default:
		writeMethodNotAllowed(w)
	}
}

// handleCustomerPayment registers a payment on account. The drawer movement
// is recorded separately so the session reconciliation still balances.
func (a *API) handleCustomerPayment(w http.ResponseWriter, r *http.Request, customerID string) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req customerPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !req.Amount.IsPositive() {
		writeError(w, http.StatusBadRequest, errors.New("payment amount must be positive"))
		return
	}

	customer, ok := a.engine.State().Customers[customerID]
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("customer not found"))
		return
	}

	if err := a.engine.Apply(r.Context(), ledger.AdjustCustomerBalance{CustomerID: customerID, Delta: req.Amount}); err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	// Best effort: silently skipped while the register is closed.
	_ = a.engine.Apply(r.Context(), ledger.AddCashMovement{
		Kind:    domain.MovementIncome,
		Concept: "Pago cuenta corriente " + customer.Name,
		Amount:  req.Amount,
		At:      time.Now().UTC(),
	})

	writeJSON(w, http.StatusOK, map[string]any{"customer": a.engine.State().Customers[customerID]})
}

func (a *API) handleRestockSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	s := a.engine.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"suggestions": restock.Suggest(s.Restock, s.Products, s.Providers),
	})
}

func productFromRequest(req productRequest) (domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Product{}, errors.New("product name is required")
	}
	if req.Price.IsNegative() || req.Cost.IsNegative() || req.Stock.IsNegative() {
		return domain.Product{}, errors.New("price, cost and stock must not be negative")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = xid.New("prod")
	}

	unit := strings.TrimSpace(req.Unit)
	if unit == "" {
		unit = "un"
	}

	return domain.Product{
		ID:         id,
		Name:       name,
		Unit:       unit,
		Price:      req.Price,
		Cost:       req.Cost,
		Stock:      req.Stock,
		ProviderID: strings.TrimSpace(req.ProviderID),
		Active:     active,
	}, nil
}

func applyProductPatch(existing domain.Product, req productRequest) domain.Product {
	if name := strings.TrimSpace(req.Name); name != "" {
		existing.Name = name
	}
	if unit := strings.TrimSpace(req.Unit); unit != "" {
		existing.Unit = unit
	}
	if req.Price.IsPositive() {
		existing.Price = req.Price
	}
	if req.Cost.IsPositive() {
		existing.Cost = req.Cost
	}
	if !req.Stock.IsNegative() && !req.Stock.IsZero() {
		existing.Stock = req.Stock
	}
	if provider := strings.TrimSpace(req.ProviderID); provider != "" {
		existing.ProviderID = provider
	}
	if req.Active != nil {
		existing.Active = *req.Active
	}
	return existing
}

func applyCustomerPatch(existing domain.Customer, req customerRequest) domain.Customer {
	if name := strings.TrimSpace(req.Name); name != "" {
		existing.Name = name
	}
	if taxID := strings.TrimSpace(req.TaxID); taxID != "" {
		existing.TaxID = taxID
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		existing.Phone = phone
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		existing.Email = email
	}
	if address := strings.TrimSpace(req.Address); address != "" {
		existing.Address = address
	}
	if req.CreditLimit.IsPositive() {
		existing.CreditLimit = req.CreditLimit
	}
	return existing
}
