package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cukuraja/backend/internal/cache"
	"cukuraja/backend/internal/domain"
	"cukuraja/backend/internal/store"
	"cukuraja/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo            store.Repository
	pricelist       cache.PricelistCache
	pricelistTTL    time.Duration
	defaultOutletID string
}

func New(repo store.Repository, pricelist cache.PricelistCache, pricelistTTL time.Duration, defaultOutletID string) *Service {
	if pricelist == nil {
		pricelist = cache.NoopPricelistCache{}
	}
	if pricelistTTL < time.Second {
		pricelistTTL = 5 * time.Minute
	}
	if defaultOutletID == "" {
		defaultOutletID = "outlet-main"
	}

	return &Service{
		repo:            repo,
		pricelist:       pricelist,
		pricelistTTL:    pricelistTTL,
		defaultOutletID: defaultOutletID,
	}
}

func (s *Service) ListOutlets(ctx context.Context) ([]domain.Outlet, error) {
	return s.repo.ListOutlets(ctx)
}

func (s *Service) CreateOutlet(ctx context.Context, req domain.OutletCreateRequest) (domain.Outlet, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Outlet{}, fmt.Errorf("admin role required")
	}

	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	if len(req.Code) != 2 || req.Name == "" {
		return domain.Outlet{}, store.ErrInvalidSale
	}

	created, err := s.repo.CreateOutlet(ctx, domain.Outlet{
		ID:        xid.New("outlet"),
		Code:      req.Code,
		Name:      req.Name,
		Address:   strings.TrimSpace(req.Address),
		Phone:     strings.TrimSpace(req.Phone),
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.Outlet{}, err
	}

	s.logAudit(ctx, "outlet_create", "outlet", created.ID, fmt.Sprintf("code=%s,name=%s", created.Code, created.Name))
	return *created, nil
}

func (s *Service) UpdateOutlet(ctx context.Context, outletID string, req domain.OutletUpdateRequest) (domain.Outlet, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Outlet{}, fmt.Errorf("admin role required")
	}

	existing, err := s.repo.GetOutletByID(ctx, outletID)
	if err != nil {
		return domain.Outlet{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Outlet{}, store.ErrInvalidSale
		}
		updated.Name = name
	}
	if req.Address != nil {
		updated.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		updated.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}

	saved, err := s.repo.UpdateOutlet(ctx, updated)
	if err != nil {
		return domain.Outlet{}, err
	}

	s.logAudit(ctx, "outlet_update", "outlet", saved.ID, fmt.Sprintf("active=%t", saved.Active))
	return *saved, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	if req.OutletID == "" {
		req.OutletID = s.defaultOutletID
	}
	req.SKU = strings.ToUpper(strings.TrimSpace(req.SKU))
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)

	if req.SKU == "" || req.Name == "" || req.Category == "" {
		return domain.Product{}, store.ErrInvalidSale
	}
	if req.CostPrice < 0 || req.SalePrice < 1 || req.InitialStock < 0 {
		return domain.Product{}, store.ErrInvalidSale
	}

	created, err := s.repo.CreateProduct(ctx, domain.Product{
		SKU:       req.SKU,
		Name:      req.Name,
		Category:  req.Category,
		CostPrice: req.CostPrice,
		SalePrice: req.SalePrice,
		Active:    true,
	})
	if err != nil {
		return domain.Product{}, err
	}

	if req.InitialStock > 0 {
		if err := s.repo.SetStock(ctx, req.OutletID, created.SKU, req.InitialStock); err != nil {
			return domain.Product{}, err
		}
	}

	s.logAudit(ctx, "product_create", "product", created.SKU, fmt.Sprintf("name=%s,sale_price=%d,stock=%d", created.Name, created.SalePrice, req.InitialStock))
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, sku string, req domain.ProductUpdateRequest) (domain.Product, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Product{}, fmt.Errorf("admin role required")
	}

	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return domain.Product{}, store.ErrInvalidSale
	}

	existing, err := s.repo.GetProductBySKU(ctx, sku)
	if err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, store.ErrInvalidSale
		}
		updated.Name = name
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			return domain.Product{}, store.ErrInvalidSale
		}
		updated.Category = category
	}
	if req.CostPrice != nil {
		if *req.CostPrice < 0 {
			return domain.Product{}, store.ErrInvalidSale
		}
		updated.CostPrice = *req.CostPrice
	}
	if req.SalePrice != nil {
		if *req.SalePrice < 1 {
			return domain.Product{}, store.ErrInvalidSale
		}
		updated.SalePrice = *req.SalePrice
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}

	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}

	s.logAudit(ctx, "product_update", "product", saved.SKU, fmt.Sprintf("active=%t,sale_price=%d", saved.Active, saved.SalePrice))
	return *saved, nil
}

func (s *Service) StockLevels(ctx context.Context, outletID string) ([]domain.StockLevel, error) {
	if outletID == "" {
		outletID = s.defaultOutletID
	}
	if _, err := s.repo.GetOutletByID(ctx, outletID); err != nil {
		return nil, err
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	skus := make([]string, 0, len(products))
	for _, product := range products {
		skus = append(skus, product.SKU)
	}
	stockMap, err := s.repo.GetStockMap(ctx, outletID, skus)
	if err != nil {
		return nil, err
	}

	levels := make([]domain.StockLevel, 0, len(products))
	for _, product := range products {
		levels = append(levels, domain.StockLevel{
			OutletID: outletID,
			SKU:      product.SKU,
			Qty:      stockMap[product.SKU],
		})
	}
	return levels, nil
}

func (s *Service) AdjustStock(ctx context.Context, req domain.StockAdjustRequest) (domain.StockLevel, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.StockLevel{}, fmt.Errorf("admin role required")
	}

	if req.OutletID == "" {
		req.OutletID = s.defaultOutletID
	}
	req.SKU = strings.ToUpper(strings.TrimSpace(req.SKU))
	if req.SKU == "" || req.Delta == 0 {
		return domain.StockLevel{}, store.ErrInvalidSale
	}

	qty, err := s.repo.AdjustStock(ctx, req.OutletID, req.SKU, req.Delta)
	if err != nil {
		return domain.StockLevel{}, err
	}

	s.logAudit(ctx, "stock_adjust", "stock", req.SKU, fmt.Sprintf("outlet=%s,delta=%d,qty=%d,note=%s", req.OutletID, req.Delta, qty, req.Note))
	return domain.StockLevel{OutletID: req.OutletID, SKU: req.SKU, Qty: qty}, nil
}

// Pricelist serves the public service menu, cache-first.
func (s *Service) Pricelist(ctx context.Context) ([]domain.ServiceItem, error) {
	if items, hit, err := s.pricelist.Get(ctx); err == nil && hit {
		return items, nil
	} else if err != nil {
		log.Printf("[service] WARN: pricelist cache read failed: %v", err)
	}

	items, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.pricelist.Set(ctx, items, s.pricelistTTL); err != nil {
		log.Printf("[service] WARN: pricelist cache write failed: %v", err)
	}
	return items, nil
}

func (s *Service) CreateService(ctx context.Context, req domain.ServiceCreateRequest) (domain.ServiceItem, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.ServiceItem{}, fmt.Errorf("admin role required")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Price < 1 || req.DurationMinutes < 1 {
		return domain.ServiceItem{}, store.ErrInvalidSale
	}

	created, err := s.repo.CreateService(ctx, domain.ServiceItem{
		ID:              xid.New("svc"),
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Active:          true,
	})
	if err != nil {
		return domain.ServiceItem{}, err
	}

	s.invalidatePricelist(ctx)
	s.logAudit(ctx, "service_create", "service", created.ID, fmt.Sprintf("name=%s,price=%d", created.Name, created.Price))
	return *created, nil
}

func (s *Service) UpdateService(ctx context.Context, serviceID string, req domain.ServiceUpdateRequest) (domain.ServiceItem, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.ServiceItem{}, fmt.Errorf("admin role required")
	}

	existing, err := s.repo.GetServiceByID(ctx, serviceID)
	if err != nil {
		return domain.ServiceItem{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.ServiceItem{}, store.ErrInvalidSale
		}
		updated.Name = name
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes < 1 {
			return domain.ServiceItem{}, store.ErrInvalidSale
		}
		updated.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		if *req.Price < 1 {
			return domain.ServiceItem{}, store.ErrInvalidSale
		}
		updated.Price = *req.Price
	}
	if req.Active != nil {
		updated.Active = *req.Active
	}

	saved, err := s.repo.UpdateService(ctx, updated)
	if err != nil {
		return domain.ServiceItem{}, err
	}

	s.invalidatePricelist(ctx)
	s.logAudit(ctx, "service_update", "service", saved.ID, fmt.Sprintf("active=%t,price=%d", saved.Active, saved.Price))
	return *saved, nil
}

func (s *Service) invalidatePricelist(ctx context.Context) {
	if err := s.pricelist.Invalidate(ctx); err != nil {
		log.Printf("[service] WARN: pricelist cache invalidate failed: %v", err)
	}
}

func (s *Service) CreateSale(ctx context.Context, req domain.SaleCreateRequest) (domain.Sale, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || (actor.Role != domain.RoleAdmin && actor.Role != domain.RoleKasir) {
		return domain.Sale{}, fmt.Errorf("kasir or admin role required")
	}

	if req.OutletID == "" {
		req.OutletID = s.defaultOutletID
	}
	req.PaymentMethod = strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if req.PaymentMethod == "" {
		req.PaymentMethod = domain.PaymentCash
	}
	if !isSupportedPaymentMethod(req.PaymentMethod) {
		return domain.Sale{}, store.ErrInvalidSale
	}

	products := normalizeSaleProducts(req.Products)
	services := req.Services
	if len(products) == 0 && len(services) == 0 {
		return domain.Sale{}, store.ErrInvalidSale
	}

	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	if req.Type == "" {
		req.Type = deriveSaleType(products, services)
	}
	if !saleTypeMatches(req.Type, products, services) {
		return domain.Sale{}, store.ErrInvalidSale
	}

	productLines := make([]domain.SaleProductLine, 0, len(products))
	for _, item := range products {
		productLines = append(productLines, domain.SaleProductLine{
			SKU:       item.SKU,
			Qty:       item.Qty,
			UnitPrice: item.UnitPrice,
		})
	}

	serviceLines := make([]domain.SaleServiceLine, 0, len(services))
	for _, item := range services {
		item.ServiceID = strings.TrimSpace(item.ServiceID)
		item.CapsterUsername = strings.ToLower(strings.TrimSpace(item.CapsterUsername))
		if item.ServiceID == "" || item.CapsterUsername == "" {
			return domain.Sale{}, store.ErrInvalidSale
		}

		capster, err := s.repo.GetUser(ctx, item.CapsterUsername)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Sale{}, fmt.Errorf("capster %s not found", item.CapsterUsername)
			}
			return domain.Sale{}, err
		}
		if capster.Role != domain.RoleCapster || !capster.Active {
			return domain.Sale{}, store.ErrInvalidSale
		}

		serviceLines = append(serviceLines, domain.SaleServiceLine{
			ServiceID:       item.ServiceID,
			CapsterUsername: item.CapsterUsername,
		})
	}

	created, err := s.repo.CreateSale(ctx, domain.Sale{
		ID:              xid.New("sale"),
		OutletID:        req.OutletID,
		CashierUsername: actor.Username,
		Type:            req.Type,
		PaymentMethod:   req.PaymentMethod,
		AmountPaid:      req.AmountPaid,
		Status:          domain.SaleStatusPaid,
		Note:            strings.TrimSpace(req.Note),
		CreatedAt:       time.Now().UTC(),
		Products:        productLines,
		Services:        serviceLines,
	})
	if err != nil {
		return domain.Sale{}, err
	}

	s.logAudit(ctx, "sale_create", "sale", created.ID, fmt.Sprintf("receipt=%s,subtotal=%d,payment=%s", created.ReceiptNumber, created.Subtotal, created.PaymentMethod))
	return *created, nil
}

func (s *Service) GetSale(ctx context.Context, saleID string) (domain.Sale, error) {
	saleID = strings.TrimSpace(saleID)
	if saleID == "" {
		return domain.Sale{}, store.ErrInvalidSale
	}
	sale, err := s.repo.FindSaleByID(ctx, saleID)
	if err != nil {
		return domain.Sale{}, err
	}
	return *sale, nil
}

func (s *Service) ListSales(ctx context.Context, outletID string, from string, to string, limit int) ([]domain.Sale, error) {
	fromAt, toAt, err := parseDateRange(from, to)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 100
	}
	return s.repo.ListSales(ctx, outletID, fromAt, toAt, limit)
}

func (s *Service) VoidSale(ctx context.Context, saleID string, reason string) (domain.VoidSaleResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.VoidSaleResponse{}, fmt.Errorf("admin role required")
	}

	saleID = strings.TrimSpace(saleID)
	if saleID == "" {
		return domain.VoidSaleResponse{}, store.ErrInvalidSale
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "unspecified"
	}

	voidedAt := time.Now().UTC()
	sale, err := s.repo.VoidSale(ctx, saleID, reason, voidedAt)
	if err != nil {
		return domain.VoidSaleResponse{}, err
	}

	s.logAudit(ctx, "sale_void", "sale", sale.ID, reason)
	return domain.VoidSaleResponse{
		SaleID:   sale.ID,
		Status:   sale.Status,
		VoidedAt: voidedAt.Format(time.RFC3339),
	}, nil
}

func (s *Service) AttachSalePaymentProof(ctx context.Context, saleID string, path string) (domain.Sale, error) {
	saleID = strings.TrimSpace(saleID)
	if saleID == "" || path == "" {
		return domain.Sale{}, store.ErrInvalidSale
	}

	if err := s.repo.AttachPaymentProof(ctx, saleID, path); err != nil {
		return domain.Sale{}, err
	}

	s.logAudit(ctx, "sale_payment_proof", "sale", saleID, path)
	return s.GetSale(ctx, saleID)
}

func (s *Service) CreateStaff(ctx context.Context, req domain.StaffCreateRequest) (domain.StaffUser, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.StaffUser{}, fmt.Errorf("admin role required")
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Username == "" || len(req.Password) < 8 {
		return domain.StaffUser{}, store.ErrInvalidSale
	}
	if req.Role != domain.RoleKasir && req.Role != domain.RoleCapster {
		return domain.StaffUser{}, store.ErrInvalidSale
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.StaffUser{}, err
	}

	user := domain.UserAccount{
		Username:  req.Username,
		Password:  string(hash),
		Role:      req.Role,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return domain.StaffUser{}, err
	}

	s.logAudit(ctx, "staff_create", "staff", user.Username, fmt.Sprintf("role=%s", user.Role))
	return domain.StaffUser{
		Username:  user.Username,
		Role:      user.Role,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *Service) ListStaff(ctx context.Context) ([]domain.StaffUser, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("admin role required")
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	staff := make([]domain.StaffUser, 0, len(users))
	for _, user := range users {
		staff = append(staff, domain.StaffUser{
			Username:  user.Username,
			Role:      user.Role,
			Active:    user.Active,
			CreatedAt: user.CreatedAt,
		})
	}
	return staff, nil
}

func (s *Service) UpdateStaff(ctx context.Context, username string, req domain.StaffUpdateRequest) (domain.StaffUser, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.StaffUser{}, fmt.Errorf("admin role required")
	}

	username = strings.ToLower(strings.TrimSpace(username))
	user, err := s.repo.GetUser(ctx, username)
	if err != nil {
		return domain.StaffUser{}, err
	}
	if user.Role == domain.RoleAdmin && req.Active != nil && !*req.Active {
		return domain.StaffUser{}, store.ErrInvalidSale
	}

	if req.Password != nil {
		if len(*req.Password) < 8 {
			return domain.StaffUser{}, store.ErrInvalidSale
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return domain.StaffUser{}, err
		}
		if err := s.repo.UpdateUserPassword(ctx, username, string(hash)); err != nil {
			return domain.StaffUser{}, err
		}
	}
	if req.Active != nil {
		if err := s.repo.SetUserActive(ctx, username, *req.Active); err != nil {
			return domain.StaffUser{}, err
		}
		user.Active = *req.Active
	}

	s.logAudit(ctx, "staff_update", "staff", username, fmt.Sprintf("active=%t,password_changed=%t", user.Active, req.Password != nil))
	return domain.StaffUser{
		Username:  user.Username,
		Role:      user.Role,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *Service) SetCommission(ctx context.Context, username string, req domain.CommissionSetRequest) (domain.CommissionSetting, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.CommissionSetting{}, fmt.Errorf("admin role required")
	}

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || req.Percent < 0 || req.Percent > 100 {
		return domain.CommissionSetting{}, store.ErrInvalidSale
	}

	user, err := s.repo.GetUser(ctx, username)
	if err != nil {
		return domain.CommissionSetting{}, err
	}
	if user.Role != domain.RoleCapster {
		return domain.CommissionSetting{}, store.ErrInvalidSale
	}

	setting := domain.CommissionSetting{
		Username:  username,
		Percent:   req.Percent,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.UpsertCommissionSetting(ctx, setting); err != nil {
		return domain.CommissionSetting{}, err
	}

	s.logAudit(ctx, "commission_set", "commission", username, fmt.Sprintf("percent=%.2f", req.Percent))
	return setting, nil
}

func (s *Service) ListCommissions(ctx context.Context) ([]domain.CommissionSetting, error) {
	return s.repo.ListCommissionSettings(ctx)
}

func (s *Service) SetSalary(ctx context.Context, username string, req domain.SalarySetRequest) (domain.SalarySetting, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.SalarySetting{}, fmt.Errorf("admin role required")
	}

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || req.BaseMonthly < 0 || req.DailyAllowance < 0 {
		return domain.SalarySetting{}, store.ErrInvalidSale
	}
	if _, err := s.repo.GetUser(ctx, username); err != nil {
		return domain.SalarySetting{}, err
	}

	setting := domain.SalarySetting{
		Username:       username,
		BaseMonthly:    req.BaseMonthly,
		DailyAllowance: req.DailyAllowance,
		UpdatedAt:      time.Now().UTC(),
	}
	if err := s.repo.UpsertSalarySetting(ctx, setting); err != nil {
		return domain.SalarySetting{}, err
	}

	s.logAudit(ctx, "salary_set", "salary", username, fmt.Sprintf("base=%d,allowance=%d", req.BaseMonthly, req.DailyAllowance))
	return setting, nil
}

func (s *Service) CreateBonus(ctx context.Context, req domain.BonusCreateRequest) (domain.Bonus, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Bonus{}, fmt.Errorf("admin role required")
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || req.Amount < 1 {
		return domain.Bonus{}, store.ErrInvalidSale
	}
	if _, err := s.repo.GetUser(ctx, req.Username); err != nil {
		return domain.Bonus{}, err
	}

	givenAt := time.Now().UTC()
	if strings.TrimSpace(req.GivenAt) != "" {
		parsed, err := time.Parse("2006-01-02", req.GivenAt)
		if err != nil {
			return domain.Bonus{}, store.ErrInvalidSale
		}
		givenAt = parsed.UTC()
	}

	created, err := s.repo.CreateBonus(ctx, domain.Bonus{
		ID:        xid.New("bonus"),
		Username:  req.Username,
		Amount:    req.Amount,
		Note:      strings.TrimSpace(req.Note),
		GivenAt:   givenAt,
		CreatedBy: actor.Username,
	})
	if err != nil {
		return domain.Bonus{}, err
	}

	s.logAudit(ctx, "bonus_create", "bonus", created.ID, fmt.Sprintf("username=%s,amount=%d", created.Username, created.Amount))
	return *created, nil
}

func (s *Service) ListBonuses(ctx context.Context, username string, period string) ([]domain.Bonus, error) {
	from, to, _, err := parsePeriod(period)
	if err != nil {
		return nil, err
	}
	return s.repo.ListBonuses(ctx, strings.ToLower(strings.TrimSpace(username)), from, to)
}

func (s *Service) CreateDeduction(ctx context.Context, req domain.DeductionCreateRequest) (domain.Deduction, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.Deduction{}, fmt.Errorf("admin role required")
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || req.Amount < 1 {
		return domain.Deduction{}, store.ErrInvalidSale
	}
	if _, err := s.repo.GetUser(ctx, req.Username); err != nil {
		return domain.Deduction{}, err
	}

	_, _, period, err := parsePeriod(req.Period)
	if err != nil {
		return domain.Deduction{}, err
	}

	created, err := s.repo.CreateDeduction(ctx, domain.Deduction{
		ID:        xid.New("potongan"),
		Username:  req.Username,
		Amount:    req.Amount,
		Kind:      domain.DeductionKindGeneral,
		Period:    period,
		Note:      strings.TrimSpace(req.Note),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.Deduction{}, err
	}

	s.logAudit(ctx, "deduction_create", "deduction", created.ID, fmt.Sprintf("username=%s,amount=%d,period=%s", created.Username, created.Amount, created.Period))
	return *created, nil
}

func (s *Service) ListDeductions(ctx context.Context, username string, period string) ([]domain.Deduction, error) {
	if strings.TrimSpace(period) != "" {
		_, _, normalized, err := parsePeriod(period)
		if err != nil {
			return nil, err
		}
		period = normalized
	}
	return s.repo.ListDeductions(ctx, strings.ToLower(strings.TrimSpace(username)), period)
}

func (s *Service) CreateCashAdvance(ctx context.Context, req domain.CashAdvanceCreateRequest) (domain.CashAdvance, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.CashAdvance{}, fmt.Errorf("admin role required")
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	if req.Username == "" || req.Amount < 1 || req.TenorMonths < 1 || req.TenorMonths > 24 {
		return domain.CashAdvance{}, store.ErrInvalidSale
	}
	if _, err := s.repo.GetUser(ctx, req.Username); err != nil {
		return domain.CashAdvance{}, err
	}

	now := time.Now().UTC()
	created, err := s.repo.CreateCashAdvance(ctx, domain.CashAdvance{
		ID:                 xid.New("kasbon"),
		Username:           req.Username,
		Amount:             req.Amount,
		TenorMonths:        req.TenorMonths,
		MonthlyInstallment: req.Amount / int64(req.TenorMonths),
		Status:             domain.AdvanceStatusActive,
		Note:               strings.TrimSpace(req.Note),
		DueDate:            now.AddDate(0, req.TenorMonths, 0),
		CreatedAt:          now,
	})
	if err != nil {
		return domain.CashAdvance{}, err
	}

	s.logAudit(ctx, "cash_advance_create", "cash_advance", created.ID, fmt.Sprintf("username=%s,amount=%d,tenor=%d", created.Username, created.Amount, created.TenorMonths))
	return *created, nil
}

// ListCashAdvances also flips active advances past their due date to lapsed,
// so stale kasbon never show as collectible.
func (s *Service) ListCashAdvances(ctx context.Context, username string) ([]domain.CashAdvance, error) {
	advances, err := s.repo.ListCashAdvances(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for i, advance := range advances {
		if advance.Status != domain.AdvanceStatusActive || !advance.DueDate.Before(now) {
			continue
		}
		advance.Status = domain.AdvanceStatusLapsed
		if _, err := s.repo.UpdateCashAdvance(ctx, advance); err != nil {
			log.Printf("[service] WARN: failed to lapse cash advance id=%s: %v", advance.ID, err)
			continue
		}
		advances[i].Status = domain.AdvanceStatusLapsed
	}
	return advances, nil
}

func (s *Service) RepayCashAdvance(ctx context.Context, advanceID string, req domain.CashAdvanceRepayRequest) (domain.CashAdvance, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.CashAdvance{}, fmt.Errorf("admin role required")
	}

	advanceID = strings.TrimSpace(advanceID)
	if advanceID == "" || req.Amount < 1 {
		return domain.CashAdvance{}, store.ErrInvalidSale
	}

	advance, err := s.repo.GetCashAdvanceByID(ctx, advanceID)
	if err != nil {
		return domain.CashAdvance{}, err
	}
	if advance.Status == domain.AdvanceStatusCompleted {
		return domain.CashAdvance{}, store.ErrInvalidSale
	}
	if advance.RepaidAmount+req.Amount > advance.Amount {
		return domain.CashAdvance{}, store.ErrInvalidSale
	}

	_, _, period, err := parsePeriod(req.Period)
	if err != nil {
		return domain.CashAdvance{}, err
	}

	if _, err := s.repo.CreateDeduction(ctx, domain.Deduction{
		ID:        xid.New("potongan"),
		Username:  advance.Username,
		Amount:    req.Amount,
		Kind:      domain.DeductionKindInstallment,
		Period:    period,
		Note:      "angsuran kasbon",
		AdvanceID: advance.ID,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return domain.CashAdvance{}, err
	}

	advance.RepaidAmount += req.Amount
	if advance.RepaidAmount >= advance.Amount {
		advance.Status = domain.AdvanceStatusCompleted
	}
	saved, err := s.repo.UpdateCashAdvance(ctx, *advance)
	if err != nil {
		return domain.CashAdvance{}, err
	}

	s.logAudit(ctx, "cash_advance_repay", "cash_advance", saved.ID, fmt.Sprintf("amount=%d,repaid=%d,status=%s", req.Amount, saved.RepaidAmount, saved.Status))
	return *saved, nil
}

func (s *Service) Payslip(ctx context.Context, username string, period string) (domain.Payslip, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return domain.Payslip{}, store.ErrInvalidSale
	}
	if _, err := s.repo.GetUser(ctx, username); err != nil {
		return domain.Payslip{}, err
	}

	from, to, normalized, err := parsePeriod(period)
	if err != nil {
		return domain.Payslip{}, err
	}

	slip := domain.Payslip{Username: username, Period: normalized}

	if salary, err := s.repo.GetSalarySetting(ctx, username); err == nil {
		slip.BaseSalary = salary.BaseMonthly
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Payslip{}, err
	}

	bonuses, err := s.repo.ListBonuses(ctx, username, from, to)
	if err != nil {
		return domain.Payslip{}, err
	}
	for _, bonus := range bonuses {
		slip.BonusTotal += bonus.Amount
	}

	commission, serviceCount, err := s.repo.GetCommissionTotal(ctx, username, from, to)
	if err != nil {
		return domain.Payslip{}, err
	}
	slip.CommissionTotal = commission
	slip.ServiceCount = serviceCount

	if setting, err := s.repo.GetCommissionSetting(ctx, username); err == nil {
		slip.CommissionPct = setting.Percent
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Payslip{}, err
	}

	deductions, err := s.repo.ListDeductions(ctx, username, normalized)
	if err != nil {
		return domain.Payslip{}, err
	}
	for _, deduction := range deductions {
		if deduction.Kind == domain.DeductionKindGeneral {
			slip.DeductionTotal += deduction.Amount
		}
	}

	advances, err := s.repo.ListCashAdvances(ctx, username)
	if err != nil {
		return domain.Payslip{}, err
	}
	for _, advance := range advances {
		if advance.Status == domain.AdvanceStatusCompleted {
			continue
		}
		remaining := advance.Amount - advance.RepaidAmount
		due := advance.MonthlyInstallment
		if due > remaining {
			due = remaining
		}
		slip.InstallmentDue += due
	}

	slip.NetPay = slip.BaseSalary + slip.BonusTotal + slip.CommissionTotal - slip.DeductionTotal - slip.InstallmentDue
	return slip, nil
}

func (s *Service) PayrollReport(ctx context.Context, period string) (domain.PayrollReport, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.PayrollReport{}, fmt.Errorf("admin role required")
	}

	_, _, normalized, err := parsePeriod(period)
	if err != nil {
		return domain.PayrollReport{}, err
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return domain.PayrollReport{}, err
	}

	report := domain.PayrollReport{Period: normalized, Payslips: make([]domain.Payslip, 0, len(users))}
	for _, user := range users {
		if user.Role == domain.RoleAdmin || !user.Active {
			continue
		}
		slip, err := s.Payslip(ctx, user.Username, normalized)
		if err != nil {
			return domain.PayrollReport{}, err
		}
		report.Payslips = append(report.Payslips, slip)
		report.TotalNet += slip.NetPay
	}
	return report, nil
}

func (s *Service) CreateExpense(ctx context.Context, req domain.ExpenseCreateRequest, proofPath string) (domain.Expense, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || (actor.Role != domain.RoleAdmin && actor.Role != domain.RoleKasir) {
		return domain.Expense{}, fmt.Errorf("kasir or admin role required")
	}

	if req.OutletID == "" {
		req.OutletID = s.defaultOutletID
	}
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	if req.Category == "" || req.Amount < 1 {
		return domain.Expense{}, store.ErrInvalidSale
	}
	if _, err := s.repo.GetOutletByID(ctx, req.OutletID); err != nil {
		return domain.Expense{}, err
	}

	spentAt := time.Now().UTC()
	if strings.TrimSpace(req.SpentAt) != "" {
		parsed, err := time.Parse("2006-01-02", req.SpentAt)
		if err != nil {
			return domain.Expense{}, store.ErrInvalidSale
		}
		spentAt = parsed.UTC()
	}

	created, err := s.repo.CreateExpense(ctx, domain.Expense{
		ID:        xid.New("exp"),
		OutletID:  req.OutletID,
		Category:  req.Category,
		Amount:    req.Amount,
		Note:      strings.TrimSpace(req.Note),
		ProofPath: proofPath,
		SpentAt:   spentAt,
		CreatedBy: actor.Username,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return domain.Expense{}, err
	}

	s.logAudit(ctx, "expense_create", "expense", created.ID, fmt.Sprintf("category=%s,amount=%d", created.Category, created.Amount))
	return *created, nil
}

func (s *Service) ListExpenses(ctx context.Context, outletID string, from string, to string, limit int) ([]domain.Expense, error) {
	fromAt, toAt, err := parseDateRange(from, to)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 100
	}
	return s.repo.ListExpenses(ctx, outletID, fromAt, toAt, limit)
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return store.ErrInvalidSale
	}
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}

	s.logAudit(ctx, "expense_delete", "expense", id, "deleted")
	return nil
}

func (s *Service) SalesReport(ctx context.Context, outletID string, from string, to string) (domain.SalesReport, error) {
	fromAt, toAt, err := parseDateRange(from, to)
	if err != nil {
		return domain.SalesReport{}, err
	}

	report, err := s.repo.GetSalesReport(ctx, outletID, fromAt, toAt)
	if err != nil {
		return domain.SalesReport{}, err
	}
	report.From = fromAt.Format("2006-01-02")
	report.To = toAt.Add(-24 * time.Hour).Format("2006-01-02")
	return report, nil
}

func (s *Service) CommissionReport(ctx context.Context, from string, to string) (domain.CommissionReport, error) {
	fromAt, toAt, err := parseDateRange(from, to)
	if err != nil {
		return domain.CommissionReport{}, err
	}

	report, err := s.repo.GetCommissionReport(ctx, fromAt, toAt)
	if err != nil {
		return domain.CommissionReport{}, err
	}
	report.From = fromAt.Format("2006-01-02")
	report.To = toAt.Add(-24 * time.Hour).Format("2006-01-02")
	return report, nil
}

func (s *Service) ExpenseReport(ctx context.Context, outletID string, from string, to string) (domain.ExpenseReport, error) {
	fromAt, toAt, err := parseDateRange(from, to)
	if err != nil {
		return domain.ExpenseReport{}, err
	}

	report, err := s.repo.GetExpenseReport(ctx, outletID, fromAt, toAt)
	if err != nil {
		return domain.ExpenseReport{}, err
	}
	report.From = fromAt.Format("2006-01-02")
	report.To = toAt.Add(-24 * time.Hour).Format("2006-01-02")
	return report, nil
}

func (s *Service) GetBusinessProfile(ctx context.Context) (domain.BusinessProfile, error) {
	profile, err := s.repo.GetBusinessProfile(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.BusinessProfile{Name: "CukurAja Barbershop"}, nil
		}
		return domain.BusinessProfile{}, err
	}
	return *profile, nil
}

func (s *Service) UpdateBusinessProfile(ctx context.Context, req domain.BusinessProfileUpdateRequest) (domain.BusinessProfile, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.BusinessProfile{}, fmt.Errorf("admin role required")
	}

	current, err := s.GetBusinessProfile(ctx)
	if err != nil {
		return domain.BusinessProfile{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.BusinessProfile{}, store.ErrInvalidSale
		}
		current.Name = name
	}
	if req.Address != nil {
		current.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		current.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.ReceiptFooter != nil {
		current.ReceiptFooter = strings.TrimSpace(*req.ReceiptFooter)
	}
	current.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.UpdateBusinessProfile(ctx, current)
	if err != nil {
		return domain.BusinessProfile{}, err
	}

	s.logAudit(ctx, "profile_update", "profile", "business", fmt.Sprintf("name=%s", saved.Name))
	return *saved, nil
}

func (s *Service) SetBusinessLogo(ctx context.Context, path string) (domain.BusinessProfile, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.BusinessProfile{}, fmt.Errorf("admin role required")
	}
	if path == "" {
		return domain.BusinessProfile{}, store.ErrInvalidSale
	}

	current, err := s.GetBusinessProfile(ctx)
	if err != nil {
		return domain.BusinessProfile{}, err
	}
	current.LogoPath = path
	current.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.UpdateBusinessProfile(ctx, current)
	if err != nil {
		return domain.BusinessProfile{}, err
	}

	s.logAudit(ctx, "profile_logo", "profile", "business", path)
	return *saved, nil
}

func (s *Service) ListAuditLogs(ctx context.Context, date string, limit int) ([]domain.AuditLog, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("admin role required")
	}

	if limit < 1 {
		limit = 100
	}

	var from time.Time
	if strings.TrimSpace(date) == "" {
		from = time.Now().UTC().Add(-24 * time.Hour)
	} else {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, store.ErrInvalidSale
		}
		from = parsed.UTC()
	}
	to := from.Add(24 * time.Hour)

	return s.repo.ListAuditLogs(ctx, from, to, limit)
}

// ReceiptHTML renders a printable receipt page for a sale. No auth, the
// sale id in the URL is the only capability needed to reprint.
func (s *Service) ReceiptHTML(ctx context.Context, saleID string) (string, error) {
	sale, err := s.GetSale(ctx, saleID)
	if err != nil {
		return "", err
	}
	profile, err := s.GetBusinessProfile(ctx)
	if err != nil {
		return "", err
	}
	outlet, err := s.repo.GetOutletByID(ctx, sale.OutletID)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = receiptTemplate.Execute(&buf, struct {
		Profile domain.BusinessProfile
		Outlet  domain.Outlet
		Sale    domain.Sale
	}{Profile: profile, Outlet: *outlet, Sale: sale})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	if err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:            xid.New("audit"),
		ActorUsername: actor.Username,
		ActorRole:     actor.Role,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		log.Printf("[audit] WARN: failed to write audit log action=%s entity=%s/%s: %v", action, entityType, entityID, err)
	}
}

func normalizeSaleProducts(items []domain.SaleProductInput) []domain.SaleProductInput {
	qtyBySKU := make(map[string]int, len(items))
	priceBySKU := make(map[string]int64, len(items))
	order := make([]string, 0, len(items))

	for _, item := range items {
		sku := strings.ToUpper(strings.TrimSpace(item.SKU))
		if sku == "" || item.Qty < 1 {
			continue
		}
		if _, seen := qtyBySKU[sku]; !seen {
			order = append(order, sku)
		}
		qtyBySKU[sku] += item.Qty
		if item.UnitPrice > 0 {
			priceBySKU[sku] = item.UnitPrice
		}
	}

	normalized := make([]domain.SaleProductInput, 0, len(order))
	for _, sku := range order {
		normalized = append(normalized, domain.SaleProductInput{
			SKU:       sku,
			Qty:       qtyBySKU[sku],
			UnitPrice: priceBySKU[sku],
		})
	}
	return normalized
}

func deriveSaleType(products []domain.SaleProductInput, services []domain.SaleServiceInput) string {
	switch {
	case len(products) > 0 && len(services) > 0:
		return domain.SaleTypeMixed
	case len(services) > 0:
		return domain.SaleTypeService
	default:
		return domain.SaleTypeProduct
	}
}

func saleTypeMatches(saleType string, products []domain.SaleProductInput, services []domain.SaleServiceInput) bool {
	switch saleType {
	case domain.SaleTypeProduct:
		return len(products) > 0 && len(services) == 0
	case domain.SaleTypeService:
		return len(services) > 0 && len(products) == 0
	case domain.SaleTypeMixed:
		return len(products) > 0 && len(services) > 0
	default:
		return false
	}
}

func isSupportedPaymentMethod(method string) bool {
	switch method {
	case domain.PaymentCash, domain.PaymentCard, domain.PaymentQRIS, domain.PaymentEwallet:
		return true
	default:
		return false
	}
}

// parseDateRange turns optional YYYY-MM-DD bounds into a half-open UTC
// range. The "to" day is inclusive on the wire, so one day is added.
func parseDateRange(from string, to string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	fromAt := today.AddDate(0, 0, -30)
	if strings.TrimSpace(from) != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return time.Time{}, time.Time{}, store.ErrInvalidSale
		}
		fromAt = parsed.UTC()
	}

	toAt := today.AddDate(0, 0, 1)
	if strings.TrimSpace(to) != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return time.Time{}, time.Time{}, store.ErrInvalidSale
		}
		toAt = parsed.UTC().AddDate(0, 0, 1)
	}

	if !fromAt.Before(toAt) {
		return time.Time{}, time.Time{}, store.ErrInvalidSale
	}
	return fromAt, toAt, nil
}

// parsePeriod parses a YYYY-MM payroll period, defaulting to the current
// month, and returns its half-open UTC range plus the normalized label.
func parsePeriod(period string) (time.Time, time.Time, string, error) {
	period = strings.TrimSpace(period)
	var from time.Time
	if period == "" {
		now := time.Now().UTC()
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		parsed, err := time.Parse("2006-01", period)
		if err != nil {
			return time.Time{}, time.Time{}, "", store.ErrInvalidSale
		}
		from = parsed.UTC()
	}
	to := from.AddDate(0, 1, 0)
	return from, to, from.Format("2006-01"), nil
}

func formatRupiah(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, digit := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}

	if negative {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"rupiah": formatRupiah,
}).Parse(`<!DOCTYPE html>
<html lang="id">
<head>
<meta charset="utf-8">
<title>Struk {{.Sale.ReceiptNumber}}</title>
<style>
body { font-family: monospace; max-width: 320px; margin: 0 auto; }
h1 { font-size: 14px; text-align: center; margin-bottom: 0; }
p.head { text-align: center; margin-top: 2px; font-size: 11px; }
table { width: 100%; font-size: 12px; border-collapse: collapse; }
td.amount { text-align: right; }
hr { border: none; border-top: 1px dashed #000; }
p.footer { text-align: center; font-size: 11px; }
</style>
</head>
<body onload="window.print()">
<h1>{{.Profile.Name}}</h1>
<p class="head">{{.Outlet.Name}}{{if .Outlet.Address}}<br>{{.Outlet.Address}}{{end}}{{if .Profile.Phone}}<br>{{.Profile.Phone}}{{end}}</p>
<hr>
<table>
<tr><td>No</td><td class="amount">{{.Sale.ReceiptNumber}}</td></tr>
<tr><td>Tanggal</td><td class="amount">{{.Sale.CreatedAt.Format "02-01-2006 15:04"}}</td></tr>
<tr><td>Kasir</td><td class="amount">{{.Sale.CashierUsername}}</td></tr>
</table>
<hr>
<table>
{{range .Sale.Services}}
<tr><td>{{.Name}} ({{.CapsterUsername}})</td><td class="amount">{{rupiah .Price}}</td></tr>
{{end}}
{{range .Sale.Products}}
<tr><td>{{.Name}} x{{.Qty}}</td><td class="amount">{{rupiah .LineTotal}}</td></tr>
{{end}}
</table>
<hr>
<table>
<tr><td>Total</td><td class="amount">{{rupiah .Sale.Subtotal}}</td></tr>
<tr><td>Bayar ({{.Sale.PaymentMethod}})</td><td class="amount">{{rupiah .Sale.AmountPaid}}</td></tr>
<tr><td>Kembali</td><td class="amount">{{rupiah .Sale.ChangeAmount}}</td></tr>
</table>
<hr>
{{if eq .Sale.Status "voided"}}<p class="footer"><strong>*** TRANSAKSI DIBATALKAN ***</strong></p>{{end}}
{{if .Profile.ReceiptFooter}}<p class="footer">{{.Profile.ReceiptFooter}}</p>{{end}}
</body>
</html>
`))
