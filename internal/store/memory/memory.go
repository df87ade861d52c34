package memory

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cukuraja/backend/internal/domain"
	"cukuraja/backend/internal/store"
	"cukuraja/backend/internal/xid"
)

type Store struct {
	mu                 sync.RWMutex
	outlets            map[string]domain.Outlet
	products           map[string]domain.Product
	inventory          map[string]map[string]int
	services           map[string]domain.ServiceItem
	salesByID          map[string]*domain.Sale
	receiptSeqByDay    map[string]int
	commissionSettings map[string]domain.CommissionSetting
	salarySettings     map[string]domain.SalarySetting
	bonusesByID        map[string]domain.Bonus
	deductionsByID     map[string]domain.Deduction
	advancesByID       map[string]domain.CashAdvance
	expensesByID       map[string]domain.Expense
	profile            domain.BusinessProfile
	auditLogs          []domain.AuditLog
	usersByUsername    map[string]domain.UserAccount
}

// seedUsers builds the initial in-memory user accounts for dev/demo mode.
// Credentials are read from SEED_ADMIN_PASSWORD, SEED_KASIR_PASSWORD and
// SEED_CAPSTER_PASSWORD environment variables. If unset, hardcoded dev
// defaults are used with a warning printed to stdout. These credentials are
// never used in production (the backend uses PostgreSQL when DATABASE_URL
// is set).
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	kasirPwd := envOr("SEED_KASIR_PASSWORD", "kasir123")
	capsterPwd := envOr("SEED_CAPSTER_PASSWORD", "capster123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_KASIR_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD, SEED_KASIR_PASSWORD and SEED_CAPSTER_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, domain.RoleAdmin},
		{"kasir", kasirPwd, domain.RoleKasir},
		{"agus", capsterPwd, domain.RoleCapster},
		{"dedi", capsterPwd, domain.RoleCapster},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewSeeded() *Store {
	now := time.Now().UTC()

	outlets := map[string]domain.Outlet{
		"outlet-main": {ID: "outlet-main", Code: "01", Name: "CukurAja Pusat", Address: "Jl. Merdeka No. 12, Bandung", Phone: "022-555-0101", Active: true, CreatedAt: now},
		"outlet-02":   {ID: "outlet-02", Code: "02", Name: "CukurAja Cabang Dago", Address: "Jl. Dago No. 88, Bandung", Phone: "022-555-0202", Active: true, CreatedAt: now},
	}

	products := []domain.Product{
		{SKU: "SKU-POMADE-01", Name: "Pomade Heavy Hold", Category: "styling", CostPrice: 45000, SalePrice: 65000, Active: true},
		{SKU: "SKU-POMADE-02", Name: "Pomade Water Based", Category: "styling", CostPrice: 38000, SalePrice: 55000, Active: true},
		{SKU: "SKU-SHAMPOO-01", Name: "Shampoo Anti Ketombe", Category: "haircare", CostPrice: 14000, SalePrice: 20000, Active: true},
		{SKU: "SKU-TONIC-01", Name: "Hair Tonic Mint", Category: "haircare", CostPrice: 22000, SalePrice: 35000, Active: true},
		{SKU: "SKU-POWDER-01", Name: "Bedak Cukur", Category: "supplies", CostPrice: 9000, SalePrice: 15000, Active: true},
		{SKU: "SKU-RAZOR-01", Name: "Silet Isi 5", Category: "supplies", CostPrice: 11000, SalePrice: 18000, Active: true},
		{SKU: "SKU-WAX-01", Name: "Clay Wax Matte", Category: "styling", CostPrice: 42000, SalePrice: 60000, Active: true},
		{SKU: "SKU-VITAMIN-01", Name: "Vitamin Rambut", Category: "haircare", CostPrice: 17000, SalePrice: 28000, Active: true},
	}

	services := []domain.ServiceItem{
		{ID: "svc-cukur-dewasa", Name: "Cukur Dewasa", DurationMinutes: 30, Price: 50000, Active: true},
		{ID: "svc-cukur-anak", Name: "Cukur Anak", DurationMinutes: 20, Price: 35000, Active: true},
		{ID: "svc-shaving", Name: "Shaving", DurationMinutes: 15, Price: 25000, Active: true},
		{ID: "svc-creambath", Name: "Creambath", DurationMinutes: 45, Price: 75000, Active: true},
		{ID: "svc-hair-color", Name: "Semir Rambut", DurationMinutes: 60, Price: 120000, Active: true},
	}

	productMap := make(map[string]domain.Product, len(products))
	inventory := make(map[string]map[string]int)
	inventory["outlet-main"] = make(map[string]int)
	inventory["outlet-02"] = make(map[string]int)
	for _, p := range products {
		productMap[p.SKU] = p
		inventory["outlet-main"][p.SKU] = 20
		inventory["outlet-02"][p.SKU] = 10
	}

	serviceMap := make(map[string]domain.ServiceItem, len(services))
	for _, svc := range services {
		serviceMap[svc.ID] = svc
	}

	return &Store{
		outlets:   outlets,
		products:  productMap,
		inventory: inventory,
		services:  serviceMap,
		salesByID: make(map[string]*domain.Sale),
		receiptSeqByDay: make(map[string]int),
		commissionSettings: map[string]domain.CommissionSetting{
			"agus": {Username: "agus", Percent: 40, UpdatedAt: now},
			"dedi": {Username: "dedi", Percent: 35, UpdatedAt: now},
		},
		salarySettings: map[string]domain.SalarySetting{
			"agus":  {Username: "agus", BaseMonthly: 1500000, DailyAllowance: 25000, UpdatedAt: now},
			"dedi":  {Username: "dedi", BaseMonthly: 1500000, DailyAllowance: 25000, UpdatedAt: now},
			"kasir": {Username: "kasir", BaseMonthly: 2200000, DailyAllowance: 20000, UpdatedAt: now},
		},
		bonusesByID:    make(map[string]domain.Bonus),
		deductionsByID: make(map[string]domain.Deduction),
		advancesByID:   make(map[string]domain.CashAdvance),
		expensesByID:   make(map[string]domain.Expense),
		profile: domain.BusinessProfile{
			Name:          "CukurAja Barbershop",
			Address:       "Jl. Merdeka No. 12, Bandung",
			Phone:         "022-555-0101",
			ReceiptFooter: "Terima kasih, ditunggu kedatangannya kembali!",
			UpdatedAt:     now,
		},
		auditLogs:       make([]domain.AuditLog, 0, 128),
		usersByUsername: seedUsers(),
	}
}

func (s *Store) ListOutlets(_ context.Context) ([]domain.Outlet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	outlets := make([]domain.Outlet, 0, len(s.outlets))
	for _, o := range s.outlets {
		outlets = append(outlets, o)
	}
	slices.SortFunc(outlets, func(a, b domain.Outlet) int {
		return cmpString(a.Code, b.Code)
	})
	return outlets, nil
}

func (s *Store) GetOutletByID(_ context.Context, outletID string) (*domain.Outlet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	outlet, exists := s.outlets[outletID]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyOutlet := outlet
	return &copyOutlet, nil
}

func (s *Store) CreateOutlet(_ context.Context, outlet domain.Outlet) (*domain.Outlet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if outlet.Code == "" || outlet.Name == "" {
		return nil, store.ErrInvalidSale
	}
	for _, existing := range s.outlets {
		if existing.Code == outlet.Code {
			return nil, store.ErrConflict
		}
	}
	if outlet.ID == "" {
		outlet.ID = xid.New("outlet")
	}
	if outlet.CreatedAt.IsZero() {
		outlet.CreatedAt = time.Now().UTC()
	}
	outlet.Active = true

	s.outlets[outlet.ID] = outlet
	if _, ok := s.inventory[outlet.ID]; !ok {
		s.inventory[outlet.ID] = make(map[string]int)
	}
	created := outlet
	return &created, nil
}

func (s *Store) UpdateOutlet(_ context.Context, outlet domain.Outlet) (*domain.Outlet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.outlets[outlet.ID]; !exists {
		return nil, store.ErrNotFound
	}
	if outlet.Name == "" || outlet.Code == "" {
		return nil, store.ErrInvalidSale
	}
	s.outlets[outlet.ID] = outlet
	updated := outlet
	return &updated, nil
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if !p.Active {
			continue
		}
		products = append(products, p)
	}

	slices.SortFunc(products, func(a, b domain.Product) int {
		if a.Category == b.Category {
			return cmpString(a.Name, b.Name)
		}
		return cmpString(a.Category, b.Category)
	})

	return products, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.SKU == "" || product.Name == "" || product.Category == "" {
		return nil, store.ErrInvalidSale
	}
	if product.CostPrice < 0 || product.SalePrice < 1 {
		return nil, store.ErrInvalidSale
	}
	if _, exists := s.products[product.SKU]; exists {
		return nil, store.ErrConflict
	}

	product.Active = true
	s.products[product.SKU] = product
	created := product
	return &created, nil
}

func (s *Store) GetProductBySKU(_ context.Context, sku string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[sku]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyProduct := product
	return &copyProduct, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.SKU == "" || product.Name == "" || product.Category == "" {
		return nil, store.ErrInvalidSale
	}
	if product.CostPrice < 0 || product.SalePrice < 1 {
		return nil, store.ErrInvalidSale
	}
	if _, exists := s.products[product.SKU]; !exists {
		return nil, store.ErrNotFound
	}

	s.products[product.SKU] = product
	updated := product
	return &updated, nil
}

func (s *Store) GetProductsBySKUs(_ context.Context, skus []string) (map[string]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]domain.Product, len(skus))
	for _, sku := range skus {
		if p, ok := s.products[sku]; ok && p.Active {
			result[sku] = p
		}
	}
	return result, nil
}

func (s *Store) GetStockMap(_ context.Context, outletID string, skus []string) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stockMap := make(map[string]int, len(skus))
	outletStock := s.inventory[outletID]
	for _, sku := range skus {
		if outletStock == nil {
			stockMap[sku] = 0
			continue
		}
		stockMap[sku] = outletStock[sku]
	}
	return stockMap, nil
}

func (s *Store) SetStock(_ context.Context, outletID string, sku string, qty int) error {
	if sku == "" || qty < 0 {
		return store.ErrInvalidSale
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[sku]; !exists {
		return fmt.Errorf("sku %s unavailable", sku)
	}
	outletStock, ok := s.inventory[outletID]
	if !ok {
		outletStock = make(map[string]int)
		s.inventory[outletID] = outletStock
	}
	outletStock[sku] = qty
	return nil
}

func (s *Store) AdjustStock(_ context.Context, outletID string, sku string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.outlets[outletID]; !exists {
		return 0, store.ErrNotFound
	}
	if _, exists := s.products[sku]; !exists {
		return 0, store.ErrNotFound
	}
	outletStock, ok := s.inventory[outletID]
	if !ok {
		outletStock = make(map[string]int)
		s.inventory[outletID] = outletStock
	}
	next := outletStock[sku] + delta
	if next < 0 {
		return 0, store.ErrInsufficientStock
	}
	outletStock[sku] = next
	return next, nil
}

func (s *Store) ListServices(_ context.Context) ([]domain.ServiceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	services := make([]domain.ServiceItem, 0, len(s.services))
	for _, svc := range s.services {
		if !svc.Active {
			continue
		}
		services = append(services, svc)
	}
	slices.SortFunc(services, func(a, b domain.ServiceItem) int {
		return cmpString(a.Name, b.Name)
	})
	return services, nil
}

func (s *Store) CreateService(_ context.Context, svc domain.ServiceItem) (*domain.ServiceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if svc.Name == "" || svc.Price < 1 || svc.DurationMinutes < 1 {
		return nil, store.ErrInvalidSale
	}
	if svc.ID == "" {
		svc.ID = xid.New("svc")
	}
	if _, exists := s.services[svc.ID]; exists {
		return nil, store.ErrConflict
	}
	svc.Active = true
	s.services[svc.ID] = svc
	created := svc
	return &created, nil
}

func (s *Store) GetServiceByID(_ context.Context, serviceID string) (*domain.ServiceItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, exists := s.services[serviceID]
	if !exists {
		return nil, store.ErrNotFound
	}
	copySvc := svc
	return &copySvc, nil
}

func (s *Store) UpdateService(_ context.Context, svc domain.ServiceItem) (*domain.ServiceItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if svc.Name == "" || svc.Price < 1 || svc.DurationMinutes < 1 {
		return nil, store.ErrInvalidSale
	}
	if _, exists := s.services[svc.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.services[svc.ID] = svc
	updated := svc
	return &updated, nil
}

func (s *Store) CreateSale(_ context.Context, sale domain.Sale) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outlet, exists := s.outlets[sale.OutletID]
	if !exists || !outlet.Active {
		return nil, store.ErrNotFound
	}
	if len(sale.Products) == 0 && len(sale.Services) == 0 {
		return nil, store.ErrInvalidSale
	}

	outletStock, ok := s.inventory[sale.OutletID]
	if !ok {
		outletStock = make(map[string]int)
		s.inventory[sale.OutletID] = outletStock
	}

	subtotal := int64(0)
	productLines := make([]domain.SaleProductLine, 0, len(sale.Products))
	for _, line := range sale.Products {
		if line.Qty < 1 {
			return nil, store.ErrInvalidSale
		}
		product, exists := s.products[line.SKU]
		if !exists || !product.Active {
			return nil, fmt.Errorf("sku %s unavailable", line.SKU)
		}
		if outletStock[line.SKU]-line.Qty < 0 {
			return nil, store.ErrInsufficientStock
		}
		unitPrice := product.SalePrice
		if line.UnitPrice > 0 {
			unitPrice = line.UnitPrice
		}
		lineTotal := int64(line.Qty) * unitPrice
		productLines = append(productLines, domain.SaleProductLine{
			SKU:       line.SKU,
			Name:      product.Name,
			Qty:       line.Qty,
			UnitCost:  product.CostPrice,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
			Profit:    (unitPrice - product.CostPrice) * int64(line.Qty),
		})
		subtotal += lineTotal
	}

	serviceLines := make([]domain.SaleServiceLine, 0, len(sale.Services))
	for _, line := range sale.Services {
		svc, exists := s.services[line.ServiceID]
		if !exists || !svc.Active {
			return nil, fmt.Errorf("service %s unavailable", line.ServiceID)
		}
		pct := float64(0)
		if setting, ok := s.commissionSettings[line.CapsterUsername]; ok {
			pct = setting.Percent
		}
		serviceLines = append(serviceLines, domain.SaleServiceLine{
			ServiceID:         svc.ID,
			Name:              svc.Name,
			Price:             svc.Price,
			CapsterUsername:   line.CapsterUsername,
			CommissionPercent: pct,
			CommissionAmount:  int64(math.Round(float64(svc.Price) * pct / 100)),
		})
		subtotal += svc.Price
	}

	if sale.PaymentMethod == domain.PaymentCash {
		if sale.AmountPaid < subtotal {
			return nil, store.ErrInvalidSale
		}
		sale.ChangeAmount = sale.AmountPaid - subtotal
	} else {
		sale.AmountPaid = subtotal
		sale.ChangeAmount = 0
	}

	if sale.ID == "" {
		sale.ID = xid.New("sale")
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}
	day := sale.CreatedAt.UTC().Format("060102")
	seqKey := sale.OutletID + "::" + day
	seq := s.receiptSeqByDay[seqKey] + 1
	s.receiptSeqByDay[seqKey] = seq

	sale.ReceiptNumber = fmt.Sprintf("%s/%s/%04d", outlet.Code, day, seq)
	sale.Products = productLines
	sale.Services = serviceLines
	sale.Subtotal = subtotal
	if sale.Status == "" {
		sale.Status = domain.SaleStatusPaid
	}

	for _, line := range productLines {
		outletStock[line.SKU] -= line.Qty
	}

	saleCopy := cloneSale(&sale)
	s.salesByID[sale.ID] = saleCopy

	return cloneSale(saleCopy), nil
}

func (s *Store) FindSaleByID(_ context.Context, id string) (*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sale, ok := s.salesByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneSale(sale), nil
}

func (s *Store) ListSales(_ context.Context, outletID string, from time.Time, to time.Time, limit int) ([]domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Sale, 0, 64)
	for _, sale := range s.salesByID {
		if outletID != "" && sale.OutletID != outletID {
			continue
		}
		if sale.CreatedAt.Before(from) || !sale.CreatedAt.Before(to) {
			continue
		}
		result = append(result, *cloneSale(sale))
	}
	slices.SortFunc(result, func(a, b domain.Sale) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) VoidSale(_ context.Context, id string, reason string, at time.Time) (*domain.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.salesByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if sale.Status != domain.SaleStatusPaid {
		return nil, store.ErrInvalidSale
	}

	outletStock, ok := s.inventory[sale.OutletID]
	if !ok {
		outletStock = make(map[string]int)
		s.inventory[sale.OutletID] = outletStock
	}
	for _, line := range sale.Products {
		outletStock[line.SKU] += line.Qty
	}

	sale.Status = domain.SaleStatusVoided
	sale.VoidReason = reason
	sale.VoidedAt = &at

	return cloneSale(sale), nil
}

func (s *Store) AttachPaymentProof(_ context.Context, id string, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale, ok := s.salesByID[id]
	if !ok {
		return store.ErrNotFound
	}
	sale.PaymentProofPath = path
	return nil
}

func (s *Store) GetCommissionSetting(_ context.Context, username string) (*domain.CommissionSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	setting, exists := s.commissionSettings[username]
	if !exists {
		return nil, store.ErrNotFound
	}
	copySetting := setting
	return &copySetting, nil
}

func (s *Store) UpsertCommissionSetting(_ context.Context, setting domain.CommissionSetting) error {
	if setting.Username == "" || setting.Percent < 0 || setting.Percent > 100 {
		return store.ErrInvalidSale
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if setting.UpdatedAt.IsZero() {
		setting.UpdatedAt = time.Now().UTC()
	}
	s.commissionSettings[setting.Username] = setting
	return nil
}

func (s *Store) ListCommissionSettings(_ context.Context) ([]domain.CommissionSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := make([]domain.CommissionSetting, 0, len(s.commissionSettings))
	for _, setting := range s.commissionSettings {
		settings = append(settings, setting)
	}
	slices.SortFunc(settings, func(a, b domain.CommissionSetting) int {
		return cmpString(a.Username, b.Username)
	})
	return settings, nil
}

func (s *Store) GetSalarySetting(_ context.Context, username string) (*domain.SalarySetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	setting, exists := s.salarySettings[username]
	if !exists {
		return nil, store.ErrNotFound
	}
	copySetting := setting
	return &copySetting, nil
}

func (s *Store) UpsertSalarySetting(_ context.Context, setting domain.SalarySetting) error {
	if setting.Username == "" || setting.BaseMonthly < 0 || setting.DailyAllowance < 0 {
		return store.ErrInvalidSale
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if setting.UpdatedAt.IsZero() {
		setting.UpdatedAt = time.Now().UTC()
	}
	s.salarySettings[setting.Username] = setting
	return nil
}

func (s *Store) CreateBonus(_ context.Context, bonus domain.Bonus) (*domain.Bonus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bonus.Username == "" || bonus.Amount < 1 {
		return nil, store.ErrInvalidSale
	}
	if bonus.ID == "" {
		bonus.ID = xid.New("bonus")
	}
	if bonus.GivenAt.IsZero() {
		bonus.GivenAt = time.Now().UTC()
	}
	s.bonusesByID[bonus.ID] = bonus
	created := bonus
	return &created, nil
}

func (s *Store) ListBonuses(_ context.Context, username string, from time.Time, to time.Time) ([]domain.Bonus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Bonus, 0, 16)
	for _, bonus := range s.bonusesByID {
		if username != "" && bonus.Username != username {
			continue
		}
		if bonus.GivenAt.Before(from) || !bonus.GivenAt.Before(to) {
			continue
		}
		result = append(result, bonus)
	}
	slices.SortFunc(result, func(a, b domain.Bonus) int {
		if a.GivenAt.Equal(b.GivenAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.GivenAt.After(b.GivenAt) {
			return -1
		}
		return 1
	})
	return result, nil
}

func (s *Store) CreateDeduction(_ context.Context, deduction domain.Deduction) (*domain.Deduction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if deduction.Username == "" || deduction.Amount < 1 || deduction.Period == "" {
		return nil, store.ErrInvalidSale
	}
	if deduction.ID == "" {
		deduction.ID = xid.New("potongan")
	}
	if deduction.Kind == "" {
		deduction.Kind = domain.DeductionKindGeneral
	}
	if deduction.CreatedAt.IsZero() {
		deduction.CreatedAt = time.Now().UTC()
	}
	s.deductionsByID[deduction.ID] = deduction
	created := deduction
	return &created, nil
}

func (s *Store) ListDeductions(_ context.Context, username string, period string) ([]domain.Deduction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Deduction, 0, 16)
	for _, deduction := range s.deductionsByID {
		if username != "" && deduction.Username != username {
			continue
		}
		if period != "" && deduction.Period != period {
			continue
		}
		result = append(result, deduction)
	}
	slices.SortFunc(result, func(a, b domain.Deduction) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return result, nil
}

func (s *Store) CreateCashAdvance(_ context.Context, advance domain.CashAdvance) (*domain.CashAdvance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if advance.Username == "" || advance.Amount < 1 || advance.TenorMonths < 1 {
		return nil, store.ErrInvalidSale
	}
	if advance.ID == "" {
		advance.ID = xid.New("kasbon")
	}
	if advance.CreatedAt.IsZero() {
		advance.CreatedAt = time.Now().UTC()
	}
	if advance.Status == "" {
		advance.Status = domain.AdvanceStatusActive
	}
	s.advancesByID[advance.ID] = advance
	created := advance
	return &created, nil
}

func (s *Store) GetCashAdvanceByID(_ context.Context, id string) (*domain.CashAdvance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	advance, exists := s.advancesByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyAdvance := advance
	return &copyAdvance, nil
}

func (s *Store) ListCashAdvances(_ context.Context, username string) ([]domain.CashAdvance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.CashAdvance, 0, 16)
	for _, advance := range s.advancesByID {
		if username != "" && advance.Username != username {
			continue
		}
		result = append(result, advance)
	}
	slices.SortFunc(result, func(a, b domain.CashAdvance) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	return result, nil
}

func (s *Store) UpdateCashAdvance(_ context.Context, advance domain.CashAdvance) (*domain.CashAdvance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.advancesByID[advance.ID]; !exists {
		return nil, store.ErrNotFound
	}
	s.advancesByID[advance.ID] = advance
	updated := advance
	return &updated, nil
}

func (s *Store) CreateExpense(_ context.Context, expense domain.Expense) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expense.OutletID == "" || expense.Category == "" || expense.Amount < 1 {
		return nil, store.ErrInvalidSale
	}
	if _, exists := s.outlets[expense.OutletID]; !exists {
		return nil, store.ErrNotFound
	}
	if expense.ID == "" {
		expense.ID = xid.New("exp")
	}
	if expense.SpentAt.IsZero() {
		expense.SpentAt = time.Now().UTC()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}
	s.expensesByID[expense.ID] = expense
	created := expense
	return &created, nil
}

func (s *Store) ListExpenses(_ context.Context, outletID string, from time.Time, to time.Time, limit int) ([]domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Expense, 0, 32)
	for _, expense := range s.expensesByID {
		if outletID != "" && expense.OutletID != outletID {
			continue
		}
		if expense.SpentAt.Before(from) || !expense.SpentAt.Before(to) {
			continue
		}
		result = append(result, expense)
	}
	slices.SortFunc(result, func(a, b domain.Expense) int {
		if a.SpentAt.Equal(b.SpentAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.SpentAt.After(b.SpentAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.expensesByID[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.expensesByID, id)
	return nil
}

func (s *Store) GetSalesReport(_ context.Context, outletID string, from time.Time, to time.Time) (domain.SalesReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := domain.SalesReport{
		OutletID:  outletID,
		ByPayment: make([]domain.SalesReportPayment, 0, 4),
		ByType:    make([]domain.SalesReportType, 0, 3),
	}
	byPayment := map[string]*domain.SalesReportPayment{}
	byType := map[string]*domain.SalesReportType{}

	for _, sale := range s.salesByID {
		if outletID != "" && sale.OutletID != outletID {
			continue
		}
		if sale.CreatedAt.Before(from) || !sale.CreatedAt.Before(to) {
			continue
		}
		if sale.Status == domain.SaleStatusVoided {
			continue
		}

		report.Transactions++
		report.GrossSales += sale.Subtotal
		for _, line := range sale.Products {
			report.ProductRevenue += line.LineTotal
			report.ProductProfit += line.Profit
		}
		for _, line := range sale.Services {
			report.ServiceRevenue += line.Price
			report.CommissionTotal += line.CommissionAmount
		}

		payment := byPayment[sale.PaymentMethod]
		if payment == nil {
			payment = &domain.SalesReportPayment{PaymentMethod: sale.PaymentMethod}
			byPayment[sale.PaymentMethod] = payment
		}
		payment.Transactions++
		payment.Total += sale.Subtotal

		saleType := byType[sale.Type]
		if saleType == nil {
			saleType = &domain.SalesReportType{Type: sale.Type}
			byType[sale.Type] = saleType
		}
		saleType.Transactions++
		saleType.Total += sale.Subtotal
	}

	for _, entry := range byPayment {
		report.ByPayment = append(report.ByPayment, *entry)
	}
	for _, entry := range byType {
		report.ByType = append(report.ByType, *entry)
	}

	slices.SortFunc(report.ByPayment, func(a, b domain.SalesReportPayment) int {
		return cmpString(a.PaymentMethod, b.PaymentMethod)
	})
	slices.SortFunc(report.ByType, func(a, b domain.SalesReportType) int {
		return cmpString(a.Type, b.Type)
	})

	return report, nil
}

func (s *Store) GetCommissionReport(_ context.Context, from time.Time, to time.Time) (domain.CommissionReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := domain.CommissionReport{Rows: make([]domain.CommissionReportRow, 0, 8)}
	byCapster := map[string]*domain.CommissionReportRow{}

	for _, sale := range s.salesByID {
		if sale.Status == domain.SaleStatusVoided {
			continue
		}
		if sale.CreatedAt.Before(from) || !sale.CreatedAt.Before(to) {
			continue
		}
		for _, line := range sale.Services {
			row := byCapster[line.CapsterUsername]
			if row == nil {
				row = &domain.CommissionReportRow{CapsterUsername: line.CapsterUsername}
				byCapster[line.CapsterUsername] = row
			}
			row.Services++
			row.CommissionTotal += line.CommissionAmount
			report.Total += line.CommissionAmount
		}
	}

	for _, row := range byCapster {
		report.Rows = append(report.Rows, *row)
	}
	slices.SortFunc(report.Rows, func(a, b domain.CommissionReportRow) int {
		return cmpString(a.CapsterUsername, b.CapsterUsername)
	})

	return report, nil
}

func (s *Store) GetCommissionTotal(_ context.Context, username string, from time.Time, to time.Time) (int64, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := int64(0)
	count := 0
	for _, sale := range s.salesByID {
		if sale.Status == domain.SaleStatusVoided {
			continue
		}
		if sale.CreatedAt.Before(from) || !sale.CreatedAt.Before(to) {
			continue
		}
		for _, line := range sale.Services {
			if line.CapsterUsername != username {
				continue
			}
			total += line.CommissionAmount
			count++
		}
	}
	return total, count, nil
}

func (s *Store) GetExpenseReport(_ context.Context, outletID string, from time.Time, to time.Time) (domain.ExpenseReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := domain.ExpenseReport{OutletID: outletID, Rows: make([]domain.ExpenseReportRow, 0, 8)}
	byCategory := map[string]*domain.ExpenseReportRow{}

	for _, expense := range s.expensesByID {
		if outletID != "" && expense.OutletID != outletID {
			continue
		}
		if expense.SpentAt.Before(from) || !expense.SpentAt.Before(to) {
			continue
		}
		row := byCategory[expense.Category]
		if row == nil {
			row = &domain.ExpenseReportRow{Category: expense.Category}
			byCategory[expense.Category] = row
		}
		row.Entries++
		row.Total += expense.Amount
		report.Total += expense.Amount
	}

	for _, row := range byCategory {
		report.Rows = append(report.Rows, *row)
	}
	slices.SortFunc(report.Rows, func(a, b domain.ExpenseReportRow) int {
		return cmpString(a.Category, b.Category)
	})

	return report, nil
}

func (s *Store) GetBusinessProfile(_ context.Context) (*domain.BusinessProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile := s.profile
	return &profile, nil
}

func (s *Store) UpdateBusinessProfile(_ context.Context, profile domain.BusinessProfile) (*domain.BusinessProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if profile.Name == "" {
		return nil, store.ErrInvalidSale
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = time.Now().UTC()
	}
	s.profile = profile
	updated := profile
	return &updated, nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.AuditLog, 0, 64)
	for _, entry := range s.auditLogs {
		if entry.CreatedAt.Before(from) || !entry.CreatedAt.Before(to) {
			continue
		}
		result = append(result, entry)
	}

	slices.SortFunc(result, func(a, b domain.AuditLog) int {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return cmpString(b.ID, a.ID)
		}
		if a.CreatedAt.After(b.CreatedAt) {
			return -1
		}
		return 1
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidSale
	}
	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrConflict
	}
	user.Username = username
	if user.Role == "" {
		user.Role = domain.RoleKasir
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Active = true
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) GetUser(_ context.Context, username string) (*domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByUsername[strings.ToLower(strings.TrimSpace(username))]
	if !exists {
		return nil, store.ErrNotFound
	}
	dup := user
	return &dup, nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return cmpString(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidSale
	}
	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

func (s *Store) SetUserActive(_ context.Context, username string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Active = active
	s.usersByUsername[username] = user
	return nil
}

func cmpString(a string, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

func cloneSale(src *domain.Sale) *domain.Sale {
	if src == nil {
		return nil
	}
	dup := *src
	products := make([]domain.SaleProductLine, len(src.Products))
	copy(products, src.Products)
	dup.Products = products
	services := make([]domain.SaleServiceLine, len(src.Services))
	copy(services, src.Services)
	dup.Services = services
	if src.VoidedAt != nil {
		at := src.VoidedAt.UTC()
		dup.VoidedAt = &at
	}
	return &dup
}
