package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"puntoventa/backend/internal/domain"
	"puntoventa/backend/internal/ledger"
	"puntoventa/backend/internal/sale"
	"puntoventa/backend/internal/statestore"
)

// newTestAPI builds a full API with a seeded engine, real AuthManager and an
// in-memory snapshot store so handler tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	builder := sale.NewBuilder(nil, time.Second)
	settings := domain.Settings{TaxRate: decimal.RequireFromString("0.21")}
	engine := ledger.NewEngine(builder, statestore.NewMemory(), nil, settings)
	auth := NewAuthManager("test-secret-key", time.Hour, "admin-pass", "cashier-pass")

	return New(engine, auth, "*")
}

type session struct {
	token string
	csrf  string
}

func loginAs(t *testing.T, api *API, username, password string) session {
	t.Helper()
	handler := api.Handler()

	payload, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login as %s: %d (body: %s)", username, rec.Code, rec.Body.String())
	}
	var loginBody map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&loginBody); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/csrf-token", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var csrfBody map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&csrfBody); err != nil {
		t.Fatalf("decode csrf: %v", err)
	}

	return session{token: loginBody["access_token"], csrf: csrfBody["csrf_token"]}
}

func doJSON(t *testing.T, api *API, sess session, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sess.token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.token)
	}
	if sess.csrf != "" {
		req.Header.Set("X-CSRF-Token", sess.csrf)
	}
	rec := httptest.NewRecorder()
	api.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, session{}, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, session{}, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	api := newTestAPI(t)

	rec := doJSON(t, api, session{}, http.MethodGet, "/api/v1/products", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCashierCannotCreateProducts(t *testing.T) {
	api := newTestAPI(t)
	sess := loginAs(t, api, "cashier", "cashier-pass")

	rec := doJSON(t, api, sess, http.MethodPost, "/api/v1/products", map[string]any{
		"name":  "Pan Flauta",
		"price": "800",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestMutatingRequestRequiresCSRFToken(t *testing.T) {
	api := newTestAPI(t)
	sess := loginAs(t, api, "cashier", "cashier-pass")
	sess.csrf = ""

	rec := doJSON(t, api, sess, http.MethodPost, "/api/v1/cart/clear", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without CSRF token, got %d", rec.Code)
	}
}

func TestCheckoutFlow(t *testing.T) {
	api := newTestAPI(t)
	sess := loginAs(t, api, "cashier", "cashier-pass")

	rec := doJSON(t, api, sess, http.MethodPost, "/api/v1/register/open", map[string]string{"opening_amount": "1000"})
	if rec.Code != http.StatusOK {
		t.Fatalf("open register: %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, api, sess, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product_id": "prod-agua-2l",
		"quantity":   "2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add item: %d (body: %s)", rec.Code, rec.Body.String())
	}

	// 2x1400 plus 21% tax
	rec = doJSON(t, api, sess, http.MethodPost, "/api/v1/cart/payment", map[string]string{
		"method": "cash",
		"amount": "3500",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set payment: %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, api, sess, http.MethodPost, "/api/v1/sales", map[string]string{"type": "sale"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("commit: %d (body: %s)", rec.Code, rec.Body.String())
	}
	var commitBody struct {
		Sale domain.Sale `json:"sale"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&commitBody); err != nil {
		t.Fatalf("decode sale: %v", err)
	}
	if !commitBody.Sale.Total.Equal(decimal.RequireFromString("3388")) {
		t.Fatalf("total = %s, want 3388", commitBody.Sale.Total)
	}

	rec = doJSON(t, api, sess, http.MethodGet, "/api/v1/register", nil)
	var regBody struct {
		Register domain.CashRegister `json:"register"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&regBody); err != nil {
		t.Fatalf("decode register: %v", err)
	}
	// 1000 + 3388 - 112 change
	if !regBody.Register.CurrentAmount.Equal(decimal.RequireFromString("4276")) {
		t.Fatalf("currentAmount = %s, want 4276", regBody.Register.CurrentAmount)
	}
}

func TestCheckoutInsufficientCashReturns400(t *testing.T) {
	api := newTestAPI(t)
	sess := loginAs(t, api, "cashier", "cashier-pass")

	rec := doJSON(t, api, sess, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product_id": "prod-agua-2l",
		"quantity":   "1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add item: %d", rec.Code)
	}
	rec = doJSON(t, api, sess, http.MethodPost, "/api/v1/cart/payment", map[string]string{
		"method": "cash",
		"amount": "10",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set payment: %d", rec.Code)
	}

	rec = doJSON(t, api, sess, http.MethodPost, "/api/v1/sales", map[string]string{"type": "sale"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestAddUnknownProductReturns404(t *testing.T) {
	api := newTestAPI(t)
	sess := loginAs(t, api, "cashier", "cashier-pass")

	rec := doJSON(t, api, sess, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product_id": "prod-nope",
		"quantity":   "1",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDoubleOpenRegisterReturns409(t *testing.T) {
	api := newTestAPI(t)
	sess := loginAs(t, api, "cashier", "cashier-pass")

	rec := doJSON(t, api, sess, http.MethodPost, "/api/v1/register/open", map[string]string{"opening_amount": "500"})
	if rec.Code != http.StatusOK {
		t.Fatalf("first open: %d", rec.Code)
	}
	rec = doJSON(t, api, sess, http.MethodPost, "/api/v1/register/open", map[string]string{"opening_amount": "500"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestCloseRegisterWhileClosedReturns409(t *testing.T) {
	api := newTestAPI(t)
	sess := loginAs(t, api, "cashier", "cashier-pass")

	rec := doJSON(t, api, sess, http.MethodPost, "/api/v1/register/close", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestClosureCSVExport(t *testing.T) {
	api := newTestAPI(t)
	admin := loginAs(t, api, "admin", "admin-pass")

	rec := doJSON(t, api, admin, http.MethodPost, "/api/v1/register/open", map[string]string{"opening_amount": "300"})
	if rec.Code != http.StatusOK {
		t.Fatalf("open: %d", rec.Code)
	}
	rec = doJSON(t, api, admin, http.MethodPost, "/api/v1/register/close", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("close: %d (body: %s)", rec.Code, rec.Body.String())
	}
	var closeBody struct {
		Closure domain.CashClosure `json:"closure"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&closeBody); err != nil {
		t.Fatalf("decode closure: %v", err)
	}

	rec = doJSON(t, api, admin, http.MethodGet, "/api/v1/closures/"+closeBody.Closure.ID+"/csv", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("csv export: %d (body: %s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Fatalf("content type = %q", got)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("summary,opening_amount,300")) {
		t.Fatalf("csv missing opening amount: %s", rec.Body.String())
	}

	rec = doJSON(t, api, admin, http.MethodGet, "/api/v1/closures/"+closeBody.Closure.ID+"/print", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("print export: %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("Cierre de caja")) {
		t.Fatalf("print export missing title")
	}
}

func TestSalesCSVExport(t *testing.T) {
	api := newTestAPI(t)
	admin := loginAs(t, api, "admin", "admin-pass")

	rec := doJSON(t, api, admin, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product_id": "prod-agua-2l",
		"quantity":   "2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add item: %d (body: %s)", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, api, admin, http.MethodPost, "/api/v1/cart/payment", map[string]string{
		"method": "cash",
		"amount": "3500",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set payment: %d", rec.Code)
	}
	rec = doJSON(t, api, admin, http.MethodPost, "/api/v1/sales", map[string]string{"type": "sale"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("commit: %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, api, admin, http.MethodGet, "/api/v1/sales/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sales export: %d (body: %s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv; charset=utf-8" {
		t.Fatalf("content type = %q", got)
	}
	body := rec.Body.String()
	if !bytes.Contains([]byte(body), []byte("id,created_at,type,doc_number")) {
		t.Fatalf("csv missing header: %s", body)
	}
	if !bytes.Contains([]byte(body), []byte(",cash,")) || !bytes.Contains([]byte(body), []byte(",3388,")) {
		t.Fatalf("csv missing sale row: %s", body)
	}

	cashier := loginAs(t, api, "cashier", "cashier-pass")
	rec = doJSON(t, api, cashier, http.MethodGet, "/api/v1/sales/export", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cashier export: %d, want 403", rec.Code)
	}
}

func TestCustomerLifecycle(t *testing.T) {
	api := newTestAPI(t)
	sess := loginAs(t, api, "cashier", "cashier-pass")

	rec := doJSON(t, api, sess, http.MethodPost, "/api/v1/customers", map[string]any{
		"name":  "Carlos Gomez",
		"phone": "11-5555-1234",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d (body: %s)", rec.Code, rec.Body.String())
	}
	var createBody struct {
		Customer domain.Customer `json:"customer"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&createBody); err != nil {
		t.Fatalf("decode: %v", err)
	}
	id := createBody.Customer.ID

	rec = doJSON(t, api, sess, http.MethodPatch, "/api/v1/customers/"+id, map[string]string{"email": "carlos@example.com"})
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, api, sess, http.MethodPost, "/api/v1/customers/"+id+"/payments", map[string]string{"amount": "500"})
	if rec.Code != http.StatusOK {
		t.Fatalf("payment: %d (body: %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, api, sess, http.MethodDelete, "/api/v1/customers/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestRestockSuggestionsRequiresAdmin(t *testing.T) {
	api := newTestAPI(t)

	cashier := loginAs(t, api, "cashier", "cashier-pass")
	rec := doJSON(t, api, cashier, http.MethodGet, "/api/v1/restock/suggestions", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for cashier, got %d", rec.Code)
	}

	admin := loginAs(t, api, "admin", "admin-pass")
	rec = doJSON(t, api, admin, http.MethodGet, "/api/v1/restock/suggestions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}
