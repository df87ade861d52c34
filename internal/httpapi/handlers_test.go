package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cukuraja/backend/internal/cache"
	"cukuraja/backend/internal/domain"
	"cukuraja/backend/internal/service"
	"cukuraja/backend/internal/store/memory"
)

// newTestAPI builds a full API with an in-memory store, real AuthManager and
// real Service so handler tests exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	repo := memory.NewSeeded()
	svc := service.New(repo, cache.NoopPricelistCache{}, 5*time.Minute, "outlet-main")
	auth := NewAuthManager("test-secret-key", time.Hour, "427913", repo)

	return New(svc, auth, "*", t.TempDir())
}

func loginToken(t *testing.T, handler http.Handler, username string, password string) string {
	t.Helper()

	payload, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("login as %s failed: %d %s", username, rec.Code, rec.Body.String())
	}
	var resp domain.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.AccessToken
}

func csrfToken(t *testing.T, handler http.Handler) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/csrf-token", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("csrf token fetch failed: %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode csrf response: %v", err)
	}
	return body["csrf_token"]
}

func authedJSONRequest(t *testing.T, handler http.Handler, method string, path string, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-CSRF-Token", csrfToken(t, handler))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	handler := newTestAPI(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	handler := newTestAPI(t).Handler()

	payload, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrongpassword"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleLogin_RateLimit(t *testing.T) {
	handler := newTestAPI(t).Handler()

	payload, _ := json.Marshal(map[string]string{"username": "admin", "password": "badpass"})

	var lastCode int
	for i := 0; i < 6; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after 6 attempts, got %d", lastCode)
	}
}

func TestHandleProducts_RequiresAuth(t *testing.T) {
	handler := newTestAPI(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestHandlePricelist_IsPublic(t *testing.T) {
	handler := newTestAPI(t).Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricelist", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 without auth, got %d", rec.Code)
	}
	var body map[string][]domain.ServiceItem
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body["services"]) == 0 {
		t.Fatalf("expected seeded services in pricelist")
	}
}

func TestSaleFlowOverHTTP(t *testing.T) {
	handler := newTestAPI(t).Handler()
	token := loginToken(t, handler, "kasir", "kasir123")

	rec := authedJSONRequest(t, handler, http.MethodPost, "/api/v1/sales", token, domain.SaleCreateRequest{
		OutletID:      "outlet-main",
		PaymentMethod: "cash",
		AmountPaid:    100000,
		Products: []domain.SaleProductInput{
			{SKU: "SKU-POMADE-01", Qty: 1},
		},
		Services: []domain.SaleServiceInput{
			{ServiceID: "svc-shaving", CapsterUsername: "agus"},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var created domain.SaleResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode sale response: %v", err)
	}
	if created.Sale.Subtotal != 65000+25000 {
		t.Fatalf("expected subtotal 90000, got %d", created.Sale.Subtotal)
	}
	if created.Sale.Type != "mixed" {
		t.Fatalf("expected mixed sale type, got %s", created.Sale.Type)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/sales/"+created.Sale.ID, nil)
	getReq.Header.Set("Authorization", "Bearer "+token)
	getRec := httptest.NewRecorder()
	handler.ServeHTTP(getRec, getReq)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200 on get sale, got %d", getRec.Code)
	}

	printReq := httptest.NewRequest(http.MethodGet, "/api/v1/receipts/print/"+created.Sale.ID, nil)
	printRec := httptest.NewRecorder()
	handler.ServeHTTP(printRec, printReq)
	if printRec.Code != http.StatusOK {
		t.Fatalf("expected 200 on public receipt print, got %d", printRec.Code)
	}
	if ct := printRec.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Fatalf("expected html receipt, got content type %s", ct)
	}
	if !strings.Contains(printRec.Body.String(), created.Sale.ReceiptNumber) {
		t.Fatalf("expected receipt number in printed page")
	}
}

func TestVoidSaleRequiresOwnerPIN(t *testing.T) {
	handler := newTestAPI(t).Handler()
	adminToken := loginToken(t, handler, "admin", "admin123")
	kasirToken := loginToken(t, handler, "kasir", "kasir123")

	rec := authedJSONRequest(t, handler, http.MethodPost, "/api/v1/sales", kasirToken, domain.SaleCreateRequest{
		PaymentMethod: "cash",
		AmountPaid:    50000,
		Products:      []domain.SaleProductInput{{SKU: "SKU-POWDER-01", Qty: 1}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create sale failed: %d %s", rec.Code, rec.Body.String())
	}
	var created domain.SaleResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode sale: %v", err)
	}
	voidPath := "/api/v1/sales/" + created.Sale.ID + "/void"

	badPIN := authedJSONRequest(t, handler, http.MethodPost, voidPath, adminToken, domain.VoidSaleRequest{
		Reason:   "salah input",
		OwnerPIN: "000000",
	})
	if badPIN.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong owner pin, got %d", badPIN.Code)
	}

	goodPIN := authedJSONRequest(t, handler, http.MethodPost, voidPath, adminToken, domain.VoidSaleRequest{
		Reason:   "salah input",
		OwnerPIN: "427913",
	})
	if goodPIN.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid void, got %d (body: %s)", goodPIN.Code, goodPIN.Body.String())
	}

	again := authedJSONRequest(t, handler, http.MethodPost, voidPath, adminToken, domain.VoidSaleRequest{
		Reason:   "dobel",
		OwnerPIN: "427913",
	})
	if again.Code != http.StatusConflict {
		t.Fatalf("expected 409 for double void, got %d", again.Code)
	}
}

func TestAdminOnlyEndpointsRejectKasir(t *testing.T) {
	handler := newTestAPI(t).Handler()
	kasirToken := loginToken(t, handler, "kasir", "kasir123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/staff", nil)
	req.Header.Set("Authorization", "Bearer "+kasirToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for kasir on staff list, got %d", rec.Code)
	}
}

func TestStaffAndCommissionFlowOverHTTP(t *testing.T) {
	handler := newTestAPI(t).Handler()
	adminToken := loginToken(t, handler, "admin", "admin123")

	created := authedJSONRequest(t, handler, http.MethodPost, "/api/v1/staff", adminToken, domain.StaffCreateRequest{
		Username: "rudi",
		Password: "rahasia-sekali",
		Role:     "capster",
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("create staff failed: %d %s", created.Code, created.Body.String())
	}

	setPct := authedJSONRequest(t, handler, http.MethodPut, "/api/v1/commissions/rudi", adminToken, domain.CommissionSetRequest{Percent: 30})
	if setPct.Code != http.StatusOK {
		t.Fatalf("set commission failed: %d %s", setPct.Code, setPct.Body.String())
	}

	login := loginToken(t, handler, "rudi", "rahasia-sekali")
	if login == "" {
		t.Fatalf("expected new staff to be able to log in")
	}
}

func TestSalesReportCSVExport(t *testing.T) {
	handler := newTestAPI(t).Handler()
	adminToken := loginToken(t, handler, "admin", "admin123")
	kasirToken := loginToken(t, handler, "kasir", "kasir123")

	rec := authedJSONRequest(t, handler, http.MethodPost, "/api/v1/sales", kasirToken, domain.SaleCreateRequest{
		PaymentMethod: "cash",
		AmountPaid:    50000,
		Products:      []domain.SaleProductInput{{SKU: "SKU-POWDER-01", Qty: 1}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create sale failed: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales?format=csv", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	csvRec := httptest.NewRecorder()
	handler.ServeHTTP(csvRec, req)

	if csvRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", csvRec.Code, csvRec.Body.String())
	}
	if ct := csvRec.Header().Get("Content-Type"); !strings.Contains(ct, "text/csv") {
		t.Fatalf("expected csv content type, got %s", ct)
	}
	if !strings.Contains(csvRec.Body.String(), "summary,gross_sales,15000") {
		t.Fatalf("expected gross sales line in csv, got:\n%s", csvRec.Body.String())
	}
}

func TestSalesReportXLSXExport(t *testing.T) {
	handler := newTestAPI(t).Handler()
	adminToken := loginToken(t, handler, "admin", "admin123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/sales?format=xlsx", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("expected xlsx content type, got %s", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatalf("expected non-empty workbook body")
	}
}

func TestExpenseLifecycleOverHTTP(t *testing.T) {
	handler := newTestAPI(t).Handler()
	adminToken := loginToken(t, handler, "admin", "admin123")
	kasirToken := loginToken(t, handler, "kasir", "kasir123")

	created := authedJSONRequest(t, handler, http.MethodPost, "/api/v1/expenses", kasirToken, domain.ExpenseCreateRequest{
		Category: "listrik",
		Amount:   350000,
		Note:     "token listrik bulanan",
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", created.Code, created.Body.String())
	}
	var body map[string]domain.Expense
	if err := json.NewDecoder(created.Body).Decode(&body); err != nil {
		t.Fatalf("decode expense: %v", err)
	}
	expenseID := body["expense"].ID

	kasirDelete := authedJSONRequest(t, handler, http.MethodDelete, "/api/v1/expenses/"+expenseID, kasirToken, nil)
	if kasirDelete.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for kasir delete, got %d", kasirDelete.Code)
	}

	adminDelete := authedJSONRequest(t, handler, http.MethodDelete, "/api/v1/expenses/"+expenseID, adminToken, nil)
	if adminDelete.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin delete, got %d (body: %s)", adminDelete.Code, adminDelete.Body.String())
	}
}

func TestPayslipForbiddenForOtherStaff(t *testing.T) {
	handler := newTestAPI(t).Handler()
	kasirToken := loginToken(t, handler, "kasir", "kasir123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/payslip?username=agus", nil)
	req.Header.Set("Authorization", "Bearer "+kasirToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for cross-staff payslip, got %d", rec.Code)
	}

	own := httptest.NewRequest(http.MethodGet, "/api/v1/payroll/payslip", nil)
	own.Header.Set("Authorization", "Bearer "+kasirToken)
	ownRec := httptest.NewRecorder()
	handler.ServeHTTP(ownRec, own)
	if ownRec.Code != http.StatusOK {
		t.Fatalf("expected 200 for own payslip, got %d (body: %s)", ownRec.Code, ownRec.Body.String())
	}
}
