package store

import (
	"context"
	"errors"
	"time"

	"cukuraja/backend/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidSale       = errors.New("invalid sale")
	ErrConflict          = errors.New("conflict")
)

type Repository interface {
	ListOutlets(ctx context.Context) ([]domain.Outlet, error)
	GetOutletByID(ctx context.Context, outletID string) (*domain.Outlet, error)
	CreateOutlet(ctx context.Context, outlet domain.Outlet) (*domain.Outlet, error)
	UpdateOutlet(ctx context.Context, outlet domain.Outlet) (*domain.Outlet, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	GetProductsBySKUs(ctx context.Context, skus []string) (map[string]domain.Product, error)
	GetStockMap(ctx context.Context, outletID string, skus []string) (map[string]int, error)
	SetStock(ctx context.Context, outletID string, sku string, qty int) error
	AdjustStock(ctx context.Context, outletID string, sku string, delta int) (int, error)
	ListServices(ctx context.Context) ([]domain.ServiceItem, error)
	CreateService(ctx context.Context, svc domain.ServiceItem) (*domain.ServiceItem, error)
	GetServiceByID(ctx context.Context, serviceID string) (*domain.ServiceItem, error)
	UpdateService(ctx context.Context, svc domain.ServiceItem) (*domain.ServiceItem, error)
	CreateSale(ctx context.Context, sale domain.Sale) (*domain.Sale, error)
	FindSaleByID(ctx context.Context, id string) (*domain.Sale, error)
	ListSales(ctx context.Context, outletID string, from time.Time, to time.Time, limit int) ([]domain.Sale, error)
	VoidSale(ctx context.Context, id string, reason string, at time.Time) (*domain.Sale, error)
	AttachPaymentProof(ctx context.Context, id string, path string) error
	GetCommissionSetting(ctx context.Context, username string) (*domain.CommissionSetting, error)
	UpsertCommissionSetting(ctx context.Context, setting domain.CommissionSetting) error
	ListCommissionSettings(ctx context.Context) ([]domain.CommissionSetting, error)
	GetSalarySetting(ctx context.Context, username string) (*domain.SalarySetting, error)
	UpsertSalarySetting(ctx context.Context, setting domain.SalarySetting) error
	CreateBonus(ctx context.Context, bonus domain.Bonus) (*domain.Bonus, error)
	ListBonuses(ctx context.Context, username string, from time.Time, to time.Time) ([]domain.Bonus, error)
	CreateDeduction(ctx context.Context, deduction domain.Deduction) (*domain.Deduction, error)
	ListDeductions(ctx context.Context, username string, period string) ([]domain.Deduction, error)
	CreateCashAdvance(ctx context.Context, advance domain.CashAdvance) (*domain.CashAdvance, error)
	GetCashAdvanceByID(ctx context.Context, id string) (*domain.CashAdvance, error)
	ListCashAdvances(ctx context.Context, username string) ([]domain.CashAdvance, error)
	UpdateCashAdvance(ctx context.Context, advance domain.CashAdvance) (*domain.CashAdvance, error)
	CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	ListExpenses(ctx context.Context, outletID string, from time.Time, to time.Time, limit int) ([]domain.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	GetSalesReport(ctx context.Context, outletID string, from time.Time, to time.Time) (domain.SalesReport, error)
	GetCommissionReport(ctx context.Context, from time.Time, to time.Time) (domain.CommissionReport, error)
	GetCommissionTotal(ctx context.Context, username string, from time.Time, to time.Time) (int64, int, error)
	GetExpenseReport(ctx context.Context, outletID string, from time.Time, to time.Time) (domain.ExpenseReport, error)
	GetBusinessProfile(ctx context.Context) (*domain.BusinessProfile, error)
	UpdateBusinessProfile(ctx context.Context, profile domain.BusinessProfile) (*domain.BusinessProfile, error)
	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error)
	CreateUser(ctx context.Context, user domain.UserAccount) error
	GetUser(ctx context.Context, username string) (*domain.UserAccount, error)
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
	SetUserActive(ctx context.Context, username string, active bool) error
}
