package httpapi

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"cukuraja/backend/internal/domain"
	"cukuraja/backend/internal/service"
	"cukuraja/backend/internal/store"
)

type API struct {
	service       *service.Service
	auth          *AuthManager
	allowedOrigin string
	uploadDir     string
	loginLimiter  *attemptLimiter
	pinLimiter    *attemptLimiter
	csrfSecret    []byte
}

func New(svc *service.Service, auth *AuthManager, allowedOrigin string, uploadDir string) *API {
	csrfSecret := make([]byte, 32)
	if _, err := rand.Read(csrfSecret); err != nil {
		// Fall back to a deterministic secret if crypto/rand fails (should not happen in practice).
		csrfSecret = []byte("csrf-fallback-secret-change-me!!")
	}
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	return &API{
		service:       svc,
		auth:          auth,
		allowedOrigin: allowedOrigin,
		uploadDir:     uploadDir,
		loginLimiter:  newAttemptLimiter(5, time.Minute),
		pinLimiter:    newAttemptLimiter(8, time.Minute),
		csrfSecret:    csrfSecret,
	}
}

// csrfTokenForHour computes an HMAC-SHA256 token for the given hour bucket
// (expressed as Unix time truncated to the hour). The token is hex-encoded.
func (a *API) csrfTokenForHour(hourBucket int64) string {
	h := hmac.New(sha256.New, a.csrfSecret)
	fmt.Fprintf(h, "%d", hourBucket)
	return hex.EncodeToString(h.Sum(nil))
}

func (a *API) generateCSRFToken() string {
	now := time.Now().UTC()
	bucket := now.Truncate(time.Hour).Unix()
	return a.csrfTokenForHour(bucket)
}

// validateCSRFToken checks whether the provided token matches the current or
// previous hour bucket, giving a 2-hour validity window.
func (a *API) validateCSRFToken(token string) bool {
	if token == "" {
		return false
	}
	now := time.Now().UTC()
	currentBucket := now.Truncate(time.Hour).Unix()
	prevBucket := currentBucket - 3600

	expected1 := a.csrfTokenForHour(currentBucket)
	expected2 := a.csrfTokenForHour(prevBucket)

	return hmac.Equal([]byte(token), []byte(expected1)) ||
		hmac.Equal([]byte(token), []byte(expected2))
}

type attemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string][]time.Time
}

func newAttemptLimiter(max int, window time.Duration) *attemptLimiter {
	if max < 1 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &attemptLimiter{max: max, window: window, entries: make(map[string][]time.Time)}
}

func (l *attemptLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	history := l.entries[key]
	kept := make([]time.Time, 0, len(history)+1)
	for _, ts := range history {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.entries[key] = kept
		return false
	}
	kept = append(kept, now)
	l.entries[key] = kept
	return true
}

func clientKey(r *http.Request) string {
	host := strings.TrimSpace(r.RemoteAddr)
	if host == "" {
		return "unknown"
	}
	if addr, err := netip.ParseAddrPort(host); err == nil {
		return addr.Addr().String()
	}
	if idx := strings.LastIndex(host, ":"); idx > 0 {
		return host[:idx]
	}
	return host
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", a.handleHealth)
	mux.HandleFunc("/api/v1/auth/login", a.handleLogin)
	mux.HandleFunc("/api/v1/auth/csrf-token", a.handleCSRFToken)

	// Public endpoints: the pricelist board and the reprint page need no login.
	mux.HandleFunc("/api/v1/pricelist", a.handlePricelist)
	mux.HandleFunc("/api/v1/receipts/print/", a.handleReceiptPrint)
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(a.uploadDir))))

	mux.HandleFunc("/api/v1/outlets", a.requireAuth(a.handleOutlets, "kasir", "capster", "admin"))
	mux.HandleFunc("/api/v1/outlets/", a.requireAuth(a.handleOutletActions, "admin"))
	mux.HandleFunc("/api/v1/products", a.requireAuth(a.handleProducts, "kasir", "admin"))
	mux.HandleFunc("/api/v1/products/", a.requireAuth(a.handleProductActions, "admin"))
	mux.HandleFunc("/api/v1/stock", a.requireAuth(a.handleStock, "kasir", "admin"))
	mux.HandleFunc("/api/v1/stock/adjust", a.requireAuth(a.handleStockAdjust, "admin"))
	mux.HandleFunc("/api/v1/services", a.requireAuth(a.handleServices, "admin"))
	mux.HandleFunc("/api/v1/services/", a.requireAuth(a.handleServiceActions, "admin"))

	mux.HandleFunc("/api/v1/sales", a.requireAuth(a.handleSales, "kasir", "admin"))
	mux.HandleFunc("/api/v1/sales/", a.requireAuth(a.handleSaleActions, "kasir", "admin"))

	mux.HandleFunc("/api/v1/staff", a.requireAuth(a.handleStaff, "admin"))
	mux.HandleFunc("/api/v1/staff/", a.requireAuth(a.handleStaffActions, "admin"))
	mux.HandleFunc("/api/v1/commissions", a.requireAuth(a.handleCommissions, "admin"))
	mux.HandleFunc("/api/v1/commissions/", a.requireAuth(a.handleCommissionActions, "admin"))
	mux.HandleFunc("/api/v1/salaries/", a.requireAuth(a.handleSalaryActions, "admin"))
	mux.HandleFunc("/api/v1/bonuses", a.requireAuth(a.handleBonuses, "admin"))
	mux.HandleFunc("/api/v1/deductions", a.requireAuth(a.handleDeductions, "admin"))
	mux.HandleFunc("/api/v1/cash-advances", a.requireAuth(a.handleCashAdvances, "admin"))
	mux.HandleFunc("/api/v1/cash-advances/", a.requireAuth(a.handleCashAdvanceActions, "admin"))
	mux.HandleFunc("/api/v1/payroll/payslip", a.requireAuth(a.handlePayslip, "kasir", "capster", "admin"))
	mux.HandleFunc("/api/v1/payroll/report", a.requireAuth(a.handlePayrollReport, "admin"))

	mux.HandleFunc("/api/v1/expenses", a.requireAuth(a.handleExpenses, "kasir", "admin"))
	mux.HandleFunc("/api/v1/expenses/", a.requireAuth(a.handleExpenseActions, "admin"))

	mux.HandleFunc("/api/v1/reports/sales", a.requireAuth(a.handleSalesReport, "admin"))
	mux.HandleFunc("/api/v1/reports/commissions", a.requireAuth(a.handleCommissionReport, "admin"))
	mux.HandleFunc("/api/v1/reports/expenses", a.requireAuth(a.handleExpenseReport, "admin"))

	mux.HandleFunc("/api/v1/profile", a.requireAuth(a.handleProfile, "kasir", "capster", "admin"))
	mux.HandleFunc("/api/v1/profile/logo", a.requireAuth(a.handleProfileLogo, "admin"))
	mux.HandleFunc("/api/v1/audit-logs", a.requireAuth(a.handleAuditLogs, "admin"))

	return a.withMiddleware(mux)
}

func (a *API) requireAuth(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorization := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
			writeError(w, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}

		token := strings.TrimSpace(authorization[len("Bearer "):])
		actor, err := a.auth.ParseToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err)
			return
		}

		if len(roles) > 0 && !isRoleAllowed(actor.Role, roles) {
			writeError(w, http.StatusForbidden, errors.New("forbidden role"))
			return
		}

		next(w, r.WithContext(service.WithActor(r.Context(), actor)))
	}
}

func isRoleAllowed(role string, allowed []string) bool {
	for _, allow := range allowed {
		if role == allow {
			return true
		}
	}
	return false
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if !a.loginLimiter.Allow(clientKey(r)) {
		writeError(w, http.StatusTooManyRequests, errors.New("too many login attempts"))
		return
	}

	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := a.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleCSRFToken returns a stateless CSRF token valid for the current hour bucket.
// Clients must include this token in the X-CSRF-Token header for all mutating requests.
func (a *API) handleCSRFToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"csrf_token": a.generateCSRFToken(),
	})
}

// csrfExemptPaths lists paths that are exempt from CSRF validation.
// Login is excluded because it is called before any CSRF token fetch.
var csrfExemptPaths = []string{
	"/api/v1/auth/login",
}

// checkCSRF enforces CSRF token validation for state-changing methods.
// Returns false and writes an error response if validation fails.
func (a *API) checkCSRF(w http.ResponseWriter, r *http.Request) bool {
	method := r.Method
	if method != http.MethodPost && method != http.MethodPut && method != http.MethodPatch && method != http.MethodDelete {
		return true
	}
	for _, exempt := range csrfExemptPaths {
		if r.URL.Path == exempt {
			return true
		}
	}
	token := strings.TrimSpace(r.Header.Get("X-CSRF-Token"))
	if !a.validateCSRFToken(token) {
		writeError(w, http.StatusForbidden, errors.New("missing or invalid CSRF token"))
		return false
	}
	return true
}

func (a *API) handlePricelist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	items, err := a.service.Pricelist(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": items})
}

func (a *API) handleReceiptPrint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	prefix := "/api/v1/receipts/print/"
	saleID := strings.TrimSpace(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"))
	if saleID == "" {
		writeError(w, http.StatusBadRequest, errors.New("sale id required"))
		return
	}

	page, err := a.service.ReceiptHTML(r.Context(), saleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (a *API) handleOutlets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		outlets, err := a.service.ListOutlets(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"outlets": outlets})
	case http.MethodPost:
		var req domain.OutletCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		outlet, err := a.service.CreateOutlet(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"outlet": outlet})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleOutletActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeMethodNotAllowed(w)
		return
	}

	outletID := pathTail(r.URL.Path, "/api/v1/outlets/")
	if outletID == "" {
		writeError(w, http.StatusBadRequest, errors.New("outlet id required"))
		return
	}

	var req domain.OutletUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	outlet, err := a.service.UpdateOutlet(r.Context(), outletID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"outlet": outlet})
}

func (a *API) handleProducts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		products, err := a.service.ListProducts(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"products": products})
	case http.MethodPost:
		var req domain.ProductCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		product, err := a.service.CreateProduct(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"product": product})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleProductActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeMethodNotAllowed(w)
		return
	}

	sku := pathTail(r.URL.Path, "/api/v1/products/")
	if sku == "" {
		writeError(w, http.StatusBadRequest, errors.New("product sku required"))
		return
	}

	var req domain.ProductUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	product, err := a.service.UpdateProduct(r.Context(), sku, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": product})
}

func (a *API) handleStock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	levels, err := a.service.StockLevels(r.Context(), r.URL.Query().Get("outlet_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stock": levels})
}

func (a *API) handleStockAdjust(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req domain.StockAdjustRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	level, err := a.service.AdjustStock(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"stock": level})
}

func (a *API) handleServices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req domain.ServiceCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	item, err := a.service.CreateService(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"service": item})
}

func (a *API) handleServiceActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeMethodNotAllowed(w)
		return
	}

	serviceID := pathTail(r.URL.Path, "/api/v1/services/")
	if serviceID == "" {
		writeError(w, http.StatusBadRequest, errors.New("service id required"))
		return
	}

	var req domain.ServiceUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	item, err := a.service.UpdateService(r.Context(), serviceID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"service": item})
}

func (a *API) handleSales(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := parsePositiveLimit(r.URL.Query().Get("limit"), 100, 500)
		sales, err := a.service.ListSales(r.Context(), r.URL.Query().Get("outlet_id"), r.URL.Query().Get("from"), r.URL.Query().Get("to"), limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, domain.SaleListResponse{Sales: sales})
	case http.MethodPost:
		var req domain.SaleCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		sale, err := a.service.CreateSale(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, domain.SaleResponse{Sale: sale})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleSaleActions(w http.ResponseWriter, r *http.Request) {
	tail := pathTail(r.URL.Path, "/api/v1/sales/")
	if tail == "" {
		writeError(w, http.StatusBadRequest, errors.New("sale id required"))
		return
	}

	if saleID, ok := strings.CutSuffix(tail, "/void"); ok {
		a.handleVoidSale(w, r, strings.Trim(saleID, "/"))
		return
	}
	if saleID, ok := strings.CutSuffix(tail, "/payment-proof"); ok {
		a.handleSalePaymentProof(w, r, strings.Trim(saleID, "/"))
		return
	}

	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	sale, err := a.service.GetSale(r.Context(), tail)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.SaleResponse{Sale: sale})
}

func (a *API) handleVoidSale(w http.ResponseWriter, r *http.Request, saleID string) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if saleID == "" {
		writeError(w, http.StatusBadRequest, errors.New("sale id required"))
		return
	}

	var req domain.VoidSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !a.pinLimiter.Allow("pin:void:" + clientKey(r)) {
		writeError(w, http.StatusTooManyRequests, errors.New("too many owner pin attempts"))
		return
	}
	if !a.auth.ValidateOwnerPIN(req.OwnerPIN) {
		writeError(w, http.StatusForbidden, errors.New("invalid owner pin"))
		return
	}

	resp, err := a.service.VoidSale(r.Context(), saleID, req.Reason)
	if err != nil {
		if errors.Is(err, store.ErrInvalidSale) {
			// Already voided.
			writeError(w, http.StatusConflict, err)
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleSalePaymentProof(w http.ResponseWriter, r *http.Request, saleID string) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if saleID == "" {
		writeError(w, http.StatusBadRequest, errors.New("sale id required"))
		return
	}

	path, err := a.saveUploadedFile(w, r, "proof", "payment", maxPaymentProofBytes, imageAndPDFExts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sale, err := a.service.AttachSalePaymentProof(r.Context(), saleID, path)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.SaleResponse{Sale: sale})
}

func (a *API) handleStaff(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		staff, err := a.service.ListStaff(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"staff": staff})
	case http.MethodPost:
		var req domain.StaffCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		created, err := a.service.CreateStaff(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"staff": created})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleStaffActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		writeMethodNotAllowed(w)
		return
	}

	username := pathTail(r.URL.Path, "/api/v1/staff/")
	if username == "" {
		writeError(w, http.StatusBadRequest, errors.New("username required"))
		return
	}

	var req domain.StaffUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := a.service.UpdateStaff(r.Context(), username, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"staff": updated})
}

func (a *API) handleCommissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	settings, err := a.service.ListCommissions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"commissions": settings})
}

func (a *API) handleCommissionActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeMethodNotAllowed(w)
		return
	}

	username := pathTail(r.URL.Path, "/api/v1/commissions/")
	if username == "" {
		writeError(w, http.StatusBadRequest, errors.New("username required"))
		return
	}

	var req domain.CommissionSetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	setting, err := a.service.SetCommission(r.Context(), username, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"commission": setting})
}

func (a *API) handleSalaryActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeMethodNotAllowed(w)
		return
	}

	username := pathTail(r.URL.Path, "/api/v1/salaries/")
	if username == "" {
		writeError(w, http.StatusBadRequest, errors.New("username required"))
		return
	}

	var req domain.SalarySetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	setting, err := a.service.SetSalary(r.Context(), username, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"salary": setting})
}

func (a *API) handleBonuses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		bonuses, err := a.service.ListBonuses(r.Context(), r.URL.Query().Get("username"), r.URL.Query().Get("period"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"bonuses": bonuses})
	case http.MethodPost:
		var req domain.BonusCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		bonus, err := a.service.CreateBonus(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"bonus": bonus})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleDeductions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		deductions, err := a.service.ListDeductions(r.Context(), r.URL.Query().Get("username"), r.URL.Query().Get("period"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deductions": deductions})
	case http.MethodPost:
		var req domain.DeductionCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		deduction, err := a.service.CreateDeduction(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"deduction": deduction})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCashAdvances(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		advances, err := a.service.ListCashAdvances(r.Context(), r.URL.Query().Get("username"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"cash_advances": advances})
	case http.MethodPost:
		var req domain.CashAdvanceCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		advance, err := a.service.CreateCashAdvance(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"cash_advance": advance})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleCashAdvanceActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	tail := pathTail(r.URL.Path, "/api/v1/cash-advances/")
	advanceID, ok := strings.CutSuffix(tail, "/repay")
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("unknown cash advance action"))
		return
	}
	advanceID = strings.Trim(advanceID, "/")
	if advanceID == "" {
		writeError(w, http.StatusBadRequest, errors.New("cash advance id required"))
		return
	}

	var req domain.CashAdvanceRepayRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	advance, err := a.service.RepayCashAdvance(r.Context(), advanceID, req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cash_advance": advance})
}

func (a *API) handlePayslip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	username := strings.TrimSpace(r.URL.Query().Get("username"))
	actor, _ := service.ActorFromContext(r.Context())
	if username == "" {
		username = actor.Username
	}
	// Staff can only see their own slip.
	if actor.Role != domain.RoleAdmin && !strings.EqualFold(username, actor.Username) {
		writeError(w, http.StatusForbidden, errors.New("forbidden"))
		return
	}

	slip, err := a.service.Payslip(r.Context(), username, r.URL.Query().Get("period"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payslip": slip})
}

func (a *API) handlePayrollReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	report, err := a.service.PayrollReport(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	switch reportFormat(r) {
	case "csv":
		writeCSV(w, fmt.Sprintf("payroll-%s.csv", report.Period), payrollReportToCSV(report))
	case "xlsx":
		writeXLSX(w, fmt.Sprintf("payroll-%s.xlsx", report.Period), buildPayrollXLSX(report))
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

func (a *API) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := parsePositiveLimit(r.URL.Query().Get("limit"), 100, 500)
		expenses, err := a.service.ListExpenses(r.Context(), r.URL.Query().Get("outlet_id"), r.URL.Query().Get("from"), r.URL.Query().Get("to"), limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
	case http.MethodPost:
		req, proofPath, err := a.decodeExpenseCreate(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		expense, err := a.service.CreateExpense(r.Context(), req, proofPath)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"expense": expense})
	default:
		writeMethodNotAllowed(w)
	}
}

// decodeExpenseCreate accepts either a plain JSON body or a multipart form
// with an attached proof file.
func (a *API) decodeExpenseCreate(w http.ResponseWriter, r *http.Request) (domain.ExpenseCreateRequest, string, error) {
	var req domain.ExpenseCreateRequest

	contentType := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "multipart/form-data") {
		err := decodeJSON(r, &req)
		return req, "", err
	}

	proofPath, err := a.saveUploadedFile(w, r, "proof", "expense", maxExpenseProofBytes, imageAndPDFExts)
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		return req, "", err
	}

	req.OutletID = strings.TrimSpace(r.FormValue("outlet_id"))
	req.Category = strings.TrimSpace(r.FormValue("category"))
	req.Note = strings.TrimSpace(r.FormValue("note"))
	req.SpentAt = strings.TrimSpace(r.FormValue("spent_at"))
	if raw := strings.TrimSpace(r.FormValue("amount")); raw != "" {
		amount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, "", errors.New("invalid amount")
		}
		req.Amount = amount
	}
	return req, proofPath, nil
}

func (a *API) handleExpenseActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w)
		return
	}

	expenseID := pathTail(r.URL.Path, "/api/v1/expenses/")
	if expenseID == "" {
		writeError(w, http.StatusBadRequest, errors.New("expense id required"))
		return
	}

	if err := a.service.DeleteExpense(r.Context(), expenseID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleSalesReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	report, err := a.service.SalesReport(r.Context(), r.URL.Query().Get("outlet_id"), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	switch reportFormat(r) {
	case "csv":
		writeCSV(w, fmt.Sprintf("sales-report-%s.csv", report.To), salesReportToCSV(report))
	case "xlsx":
		writeXLSX(w, fmt.Sprintf("sales-report-%s.xlsx", report.To), buildSalesReportXLSX(report))
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

func (a *API) handleCommissionReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	report, err := a.service.CommissionReport(r.Context(), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	switch reportFormat(r) {
	case "csv":
		writeCSV(w, fmt.Sprintf("commission-report-%s.csv", report.To), commissionReportToCSV(report))
	case "xlsx":
		writeXLSX(w, fmt.Sprintf("commission-report-%s.xlsx", report.To), buildCommissionReportXLSX(report))
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

func (a *API) handleExpenseReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	report, err := a.service.ExpenseReport(r.Context(), r.URL.Query().Get("outlet_id"), r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	switch reportFormat(r) {
	case "csv":
		writeCSV(w, fmt.Sprintf("expense-report-%s.csv", report.To), expenseReportToCSV(report))
	case "xlsx":
		writeXLSX(w, fmt.Sprintf("expense-report-%s.xlsx", report.To), buildExpenseReportXLSX(report))
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		profile, err := a.service.GetBusinessProfile(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
	case http.MethodPatch:
		var req domain.BusinessProfileUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		profile, err := a.service.UpdateBusinessProfile(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleProfileLogo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	path, err := a.saveUploadedFile(w, r, "logo", "logo", maxLogoBytes, imageExts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	profile, err := a.service.SetBusinessLogo(r.Context(), path)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"profile": profile})
}

func (a *API) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	limit := parsePositiveLimit(r.URL.Query().Get("limit"), 100, 500)
	logs, err := a.service.ListAuditLogs(r.Context(), r.URL.Query().Get("date"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

func (a *API) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-CSRF-Token")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if (r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut) && strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if !a.checkCSRF(w, r) {
			return
		}

		startedAt := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(startedAt))
	})
}

func pathTail(path string, prefix string) string {
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.Trim(strings.TrimPrefix(path, prefix), "/"))
}

func reportFormat(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

func parsePositiveLimit(raw string, fallback int, max int) int {
	limit := fallback
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

// writeServiceError maps store sentinels and role errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, store.ErrInsufficientStock):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, store.ErrInvalidSale):
		writeError(w, http.StatusBadRequest, err)
	case strings.Contains(strings.ToLower(err.Error()), "role required"):
		writeError(w, http.StatusForbidden, err)
	default:
		writeError(w, http.StatusUnprocessableEntity, err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	// For 5xx responses, return a generic message to avoid leaking internal
	// implementation details (stack traces, SQL errors, file paths, etc.).
	// 4xx responses are user-facing so we return the original error message.
	msg := err.Error()
	if status >= 500 {
		log.Printf("internal error (status %d): %v", status, err)
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
