package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cukuraja/backend/internal/cache"
	"cukuraja/backend/internal/domain"
	"cukuraja/backend/internal/store"
	"cukuraja/backend/internal/store/memory"
)

func newTestService() (*Service, *memory.Store) {
	repo := memory.NewSeeded()
	svc := New(repo, cache.NoopPricelistCache{}, 5*time.Minute, "outlet-main")
	return svc, repo
}

func adminCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "admin", Role: "admin"})
}

func kasirCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "kasir", Role: "kasir"})
}

func stockOf(t *testing.T, svc *Service, outletID string, sku string) int {
	t.Helper()
	levels, err := svc.StockLevels(context.Background(), outletID)
	if err != nil {
		t.Fatalf("stock levels failed: %v", err)
	}
	for _, level := range levels {
		if level.SKU == sku {
			return level.Qty
		}
	}
	t.Fatalf("sku %s not found in stock levels", sku)
	return 0
}

func TestCreateSaleDecrementsStockAndComputesTotals(t *testing.T) {
	svc, _ := newTestService()
	ctx := kasirCtx()

	sale, err := svc.CreateSale(ctx, domain.SaleCreateRequest{
		OutletID:      "outlet-main",
		PaymentMethod: "cash",
		AmountPaid:    50000,
		Products: []domain.SaleProductInput{
			{SKU: "SKU-SHAMPOO-01", Qty: 2},
		},
	})
	if err != nil {
		t.Fatalf("create sale failed: %v", err)
	}

	if sale.Subtotal != 40000 {
		t.Fatalf("expected subtotal 40000, got %d", sale.Subtotal)
	}
	if sale.ChangeAmount != 10000 {
		t.Fatalf("expected change 10000, got %d", sale.ChangeAmount)
	}
	if sale.Type != domain.SaleTypeProduct {
		t.Fatalf("expected product sale type, got %s", sale.Type)
	}
	if got := stockOf(t, svc, "outlet-main", "SKU-SHAMPOO-01"); got != 18 {
		t.Fatalf("expected stock 18 after sale, got %d", got)
	}

	line := sale.Products[0]
	if line.Profit != 2*(20000-14000) {
		t.Fatalf("expected line profit 12000, got %d", line.Profit)
	}
}

func TestCreateSaleInsufficientStockLeavesInventoryUntouched(t *testing.T) {
	svc, _ := newTestService()
	ctx := kasirCtx()

	_, err := svc.CreateSale(ctx, domain.SaleCreateRequest{
		OutletID:      "outlet-main",
		PaymentMethod: "cash",
		AmountPaid:    1000000,
		Products: []domain.SaleProductInput{
			{SKU: "SKU-TONIC-01", Qty: 25},
		},
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if got := stockOf(t, svc, "outlet-main", "SKU-TONIC-01"); got != 20 {
		t.Fatalf("expected stock unchanged at 20, got %d", got)
	}
}

func TestCreateSaleComputesCapsterCommission(t *testing.T) {
	svc, _ := newTestService()
	ctx := kasirCtx()

	sale, err := svc.CreateSale(ctx, domain.SaleCreateRequest{
		OutletID:      "outlet-main",
		PaymentMethod: "cash",
		AmountPaid:    50000,
		Services: []domain.SaleServiceInput{
			{ServiceID: "svc-cukur-dewasa", CapsterUsername: "agus"},
		},
	})
	if err != nil {
		t.Fatalf("create sale failed: %v", err)
	}

	if sale.Subtotal != 50000 {
		t.Fatalf("expected subtotal 50000, got %d", sale.Subtotal)
	}
	line := sale.Services[0]
	if line.CommissionPercent != 40 {
		t.Fatalf("expected commission percent 40, got %.2f", line.CommissionPercent)
	}
	if line.CommissionAmount != 20000 {
		t.Fatalf("expected commission 20000, got %d", line.CommissionAmount)
	}
}

func TestCreateSaleRejectsUnknownCapster(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateSale(kasirCtx(), domain.SaleCreateRequest{
		PaymentMethod: "cash",
		AmountPaid:    50000,
		Services: []domain.SaleServiceInput{
			{ServiceID: "svc-cukur-dewasa", CapsterUsername: "budi"},
		},
	})
	if err == nil {
		t.Fatalf("expected sale with unknown capster to fail")
	}
}

func TestCreateSaleRejectsNonCapsterAssignment(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateSale(kasirCtx(), domain.SaleCreateRequest{
		PaymentMethod: "cash",
		AmountPaid:    50000,
		Services: []domain.SaleServiceInput{
			{ServiceID: "svc-cukur-dewasa", CapsterUsername: "kasir"},
		},
	})
	if !errors.Is(err, store.ErrInvalidSale) {
		t.Fatalf("expected ErrInvalidSale for non-capster assignment, got %v", err)
	}
}

func TestCreateSaleCashUnderpaymentRejected(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateSale(kasirCtx(), domain.SaleCreateRequest{
		PaymentMethod: "cash",
		AmountPaid:    10000,
		Products: []domain.SaleProductInput{
			{SKU: "SKU-SHAMPOO-01", Qty: 1},
		},
	})
	if !errors.Is(err, store.ErrInvalidSale) {
		t.Fatalf("expected ErrInvalidSale for cash underpayment, got %v", err)
	}
}

func TestCreateSaleNonCashForcesExactPayment(t *testing.T) {
	svc, _ := newTestService()

	sale, err := svc.CreateSale(kasirCtx(), domain.SaleCreateRequest{
		PaymentMethod: "qris",
		AmountPaid:    999999,
		Products: []domain.SaleProductInput{
			{SKU: "SKU-SHAMPOO-01", Qty: 1},
		},
	})
	if err != nil {
		t.Fatalf("create sale failed: %v", err)
	}
	if sale.AmountPaid != sale.Subtotal {
		t.Fatalf("expected non-cash paid forced to subtotal %d, got %d", sale.Subtotal, sale.AmountPaid)
	}
	if sale.ChangeAmount != 0 {
		t.Fatalf("expected zero change for non-cash, got %d", sale.ChangeAmount)
	}
}

func TestCreateSaleMergesDuplicateProductLines(t *testing.T) {
	svc, _ := newTestService()

	sale, err := svc.CreateSale(kasirCtx(), domain.SaleCreateRequest{
		PaymentMethod: "cash",
		AmountPaid:    100000,
		Products: []domain.SaleProductInput{
			{SKU: "SKU-SHAMPOO-01", Qty: 1},
			{SKU: "sku-shampoo-01", Qty: 2},
		},
	})
	if err != nil {
		t.Fatalf("create sale failed: %v", err)
	}
	if len(sale.Products) != 1 {
		t.Fatalf("expected merged single product line, got %d", len(sale.Products))
	}
	if sale.Products[0].Qty != 3 {
		t.Fatalf("expected merged qty 3, got %d", sale.Products[0].Qty)
	}
}

func TestCreateSaleRequiresKasirOrAdmin(t *testing.T) {
	svc, _ := newTestService()
	ctx := WithActor(context.Background(), domain.Actor{Username: "agus", Role: "capster"})

	_, err := svc.CreateSale(ctx, domain.SaleCreateRequest{
		PaymentMethod: "cash",
		AmountPaid:    50000,
		Products: []domain.SaleProductInput{
			{SKU: "SKU-SHAMPOO-01", Qty: 1},
		},
	})
	if err == nil {
		t.Fatalf("expected capster-initiated sale to fail")
	}
}

func TestReceiptNumbersAreSequentialPerOutletAndDay(t *testing.T) {
	svc, _ := newTestService()
	ctx := kasirCtx()

	day := time.Now().UTC().Format("060102")
	for i, want := range []string{"01/" + day + "/0001", "01/" + day + "/0002"} {
		sale, err := svc.CreateSale(ctx, domain.SaleCreateRequest{
			OutletID:      "outlet-main",
			PaymentMethod: "cash",
			AmountPaid:    50000,
			Products: []domain.SaleProductInput{
				{SKU: "SKU-POWDER-01", Qty: 1},
			},
		})
		if err != nil {
			t.Fatalf("sale #%d failed: %v", i, err)
		}
		if sale.ReceiptNumber != want {
			t.Fatalf("expected receipt %s, got %s", want, sale.ReceiptNumber)
		}
	}

	other, err := svc.CreateSale(ctx, domain.SaleCreateRequest{
		OutletID:      "outlet-02",
		PaymentMethod: "cash",
		AmountPaid:    50000,
		Products: []domain.SaleProductInput{
			{SKU: "SKU-POWDER-01", Qty: 1},
		},
	})
	if err != nil {
		t.Fatalf("sale on second outlet failed: %v", err)
	}
	if !strings.HasPrefix(other.ReceiptNumber, "02/") || !strings.HasSuffix(other.ReceiptNumber, "/0001") {
		t.Fatalf("expected independent counter for second outlet, got %s", other.ReceiptNumber)
	}
}

func TestVoidSaleRestoresStockAndRejectsDoubleVoid(t *testing.T) {
	svc, _ := newTestService()

	sale, err := svc.CreateSale(kasirCtx(), domain.SaleCreateRequest{
		OutletID:      "outlet-main",
		PaymentMethod: "cash",
		AmountPaid:    200000,
		Products: []domain.SaleProductInput{
			{SKU: "SKU-WAX-01", Qty: 2},
		},
	})
	if err != nil {
		t.Fatalf("create sale failed: %v", err)
	}
	if got := stockOf(t, svc, "outlet-main", "SKU-WAX-01"); got != 18 {
		t.Fatalf("expected stock 18 after sale, got %d", got)
	}

	resp, err := svc.VoidSale(adminCtx(), sale.ID, "salah input")
	if err != nil {
		t.Fatalf("void failed: %v", err)
	}
	if resp.Status != domain.SaleStatusVoided {
		t.Fatalf("expected voided status, got %s", resp.Status)
	}
	if got := stockOf(t, svc, "outlet-main", "SKU-WAX-01"); got != 20 {
		t.Fatalf("expected stock restored to 20, got %d", got)
	}

	if _, err := svc.VoidSale(adminCtx(), sale.ID, "dobel"); !errors.Is(err, store.ErrInvalidSale) {
		t.Fatalf("expected second void to return ErrInvalidSale, got %v", err)
	}
}

func TestVoidSaleRequiresAdmin(t *testing.T) {
	svc, _ := newTestService()

	sale, err := svc.CreateSale(kasirCtx(), domain.SaleCreateRequest{
		PaymentMethod: "cash",
		AmountPaid:    50000,
		Products: []domain.SaleProductInput{
			{SKU: "SKU-POWDER-01", Qty: 1},
		},
	})
	if err != nil {
		t.Fatalf("create sale failed: %v", err)
	}
	if _, err := svc.VoidSale(kasirCtx(), sale.ID, "bukan admin"); err == nil {
		t.Fatalf("expected kasir void to be rejected")
	}
}

func TestCreateProductRequiresAdmin(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateProduct(kasirCtx(), domain.ProductCreateRequest{
		SKU:          "SKU-GEL-01",
		Name:         "Gel Rambut",
		Category:     "styling",
		CostPrice:    20000,
		SalePrice:    30000,
		InitialStock: 10,
	})
	if err == nil {
		t.Fatalf("expected non-admin create product to fail")
	}
}

func TestCreateProductSeedsInitialStock(t *testing.T) {
	svc, _ := newTestService()

	product, err := svc.CreateProduct(adminCtx(), domain.ProductCreateRequest{
		OutletID:     "outlet-main",
		SKU:          "sku-gel-01",
		Name:         "Gel Rambut",
		Category:     "styling",
		CostPrice:    20000,
		SalePrice:    30000,
		InitialStock: 12,
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if product.SKU != "SKU-GEL-01" {
		t.Fatalf("expected uppercased sku, got %s", product.SKU)
	}
	if got := stockOf(t, svc, "outlet-main", "SKU-GEL-01"); got != 12 {
		t.Fatalf("expected initial stock 12, got %d", got)
	}
}

func TestSetCommissionRejectsNonCapster(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.SetCommission(adminCtx(), "kasir", domain.CommissionSetRequest{Percent: 30}); !errors.Is(err, store.ErrInvalidSale) {
		t.Fatalf("expected ErrInvalidSale when target is not a capster, got %v", err)
	}
	if _, err := svc.SetCommission(adminCtx(), "agus", domain.CommissionSetRequest{Percent: 45}); err != nil {
		t.Fatalf("set commission failed: %v", err)
	}
}

func TestStaffLifecycle(t *testing.T) {
	svc, _ := newTestService()

	created, err := svc.CreateStaff(adminCtx(), domain.StaffCreateRequest{
		Username: "Rudi",
		Password: "rahasia-sekali",
		Role:     "capster",
	})
	if err != nil {
		t.Fatalf("create staff failed: %v", err)
	}
	if created.Username != "rudi" {
		t.Fatalf("expected lowercased username, got %s", created.Username)
	}

	inactive := false
	updated, err := svc.UpdateStaff(adminCtx(), "rudi", domain.StaffUpdateRequest{Active: &inactive})
	if err != nil {
		t.Fatalf("update staff failed: %v", err)
	}
	if updated.Active {
		t.Fatalf("expected staff to be deactivated")
	}

	if _, err := svc.UpdateStaff(adminCtx(), "admin", domain.StaffUpdateRequest{Active: &inactive}); !errors.Is(err, store.ErrInvalidSale) {
		t.Fatalf("expected deactivating admin to fail, got %v", err)
	}
}

func TestCreateStaffRejectsWeakPasswordAndBadRole(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.CreateStaff(adminCtx(), domain.StaffCreateRequest{Username: "eko", Password: "short", Role: "capster"}); !errors.Is(err, store.ErrInvalidSale) {
		t.Fatalf("expected short password to fail, got %v", err)
	}
	if _, err := svc.CreateStaff(adminCtx(), domain.StaffCreateRequest{Username: "eko", Password: "rahasia-sekali", Role: "admin"}); !errors.Is(err, store.ErrInvalidSale) {
		t.Fatalf("expected admin role via staff endpoint to fail, got %v", err)
	}
}

func TestCashAdvanceLifecycle(t *testing.T) {
	svc, _ := newTestService()

	advance, err := svc.CreateCashAdvance(adminCtx(), domain.CashAdvanceCreateRequest{
		Username:    "agus",
		Amount:      600000,
		TenorMonths: 3,
		Note:        "perbaikan motor",
	})
	if err != nil {
		t.Fatalf("create cash advance failed: %v", err)
	}
	if advance.MonthlyInstallment != 200000 {
		t.Fatalf("expected monthly installment 200000, got %d", advance.MonthlyInstallment)
	}

	if _, err := svc.RepayCashAdvance(adminCtx(), advance.ID, domain.CashAdvanceRepayRequest{Amount: 700000}); !errors.Is(err, store.ErrInvalidSale) {
		t.Fatalf("expected over-repayment to fail, got %v", err)
	}

	for i := 0; i < 3; i++ {
		updated, err := svc.RepayCashAdvance(adminCtx(), advance.ID, domain.CashAdvanceRepayRequest{Amount: 200000})
		if err != nil {
			t.Fatalf("repayment #%d failed: %v", i, err)
		}
		if i == 2 && updated.Status != domain.AdvanceStatusCompleted {
			t.Fatalf("expected completed advance after full repayment, got %s", updated.Status)
		}
	}

	if _, err := svc.RepayCashAdvance(adminCtx(), advance.ID, domain.CashAdvanceRepayRequest{Amount: 1000}); !errors.Is(err, store.ErrInvalidSale) {
		t.Fatalf("expected repayment on completed advance to fail, got %v", err)
	}
}

func TestCashAdvanceLapsesWhenPastDue(t *testing.T) {
	svc, repo := newTestService()

	past := time.Now().UTC().AddDate(0, -1, 0)
	created, err := repo.CreateCashAdvance(context.Background(), domain.CashAdvance{
		Username:           "dedi",
		Amount:             300000,
		TenorMonths:        2,
		MonthlyInstallment: 150000,
		Status:             domain.AdvanceStatusActive,
		DueDate:            past,
		CreatedAt:          past.AddDate(0, -2, 0),
	})
	if err != nil {
		t.Fatalf("seed cash advance failed: %v", err)
	}

	advances, err := svc.ListCashAdvances(adminCtx(), "dedi")
	if err != nil {
		t.Fatalf("list cash advances failed: %v", err)
	}

	found := false
	for _, advance := range advances {
		if advance.ID == created.ID {
			found = true
			if advance.Status != domain.AdvanceStatusLapsed {
				t.Fatalf("expected lapsed status, got %s", advance.Status)
			}
		}
	}
	if !found {
		t.Fatalf("expected seeded advance in list")
	}
}

func TestPayslipArithmetic(t *testing.T) {
	svc, _ := newTestService()
	period := time.Now().UTC().Format("2006-01")

	// Commission: Cukur Dewasa 50000 at 40% = 20000.
	if _, err := svc.CreateSale(kasirCtx(), domain.SaleCreateRequest{
		PaymentMethod: "cash",
		AmountPaid:    50000,
		Services: []domain.SaleServiceInput{
			{ServiceID: "svc-cukur-dewasa", CapsterUsername: "agus"},
		},
	}); err != nil {
		t.Fatalf("create sale failed: %v", err)
	}

	if _, err := svc.CreateBonus(adminCtx(), domain.BonusCreateRequest{Username: "agus", Amount: 100000, Note: "rajin"}); err != nil {
		t.Fatalf("create bonus failed: %v", err)
	}
	if _, err := svc.CreateDeduction(adminCtx(), domain.DeductionCreateRequest{Username: "agus", Amount: 50000, Period: period, Note: "telat"}); err != nil {
		t.Fatalf("create deduction failed: %v", err)
	}
	if _, err := svc.CreateCashAdvance(adminCtx(), domain.CashAdvanceCreateRequest{Username: "agus", Amount: 300000, TenorMonths: 3}); err != nil {
		t.Fatalf("create cash advance failed: %v", err)
	}

	slip, err := svc.Payslip(adminCtx(), "agus", period)
	if err != nil {
		t.Fatalf("payslip failed: %v", err)
	}

	if slip.BaseSalary != 1500000 {
		t.Fatalf("expected base salary 1500000, got %d", slip.BaseSalary)
	}
	if slip.BonusTotal != 100000 {
		t.Fatalf("expected bonus total 100000, got %d", slip.BonusTotal)
	}
	if slip.CommissionTotal != 20000 {
		t.Fatalf("expected commission total 20000, got %d", slip.CommissionTotal)
	}
	if slip.DeductionTotal != 50000 {
		t.Fatalf("expected deduction total 50000, got %d", slip.DeductionTotal)
	}
	if slip.InstallmentDue != 100000 {
		t.Fatalf("expected installment due 100000, got %d", slip.InstallmentDue)
	}
	want := int64(1500000 + 100000 + 20000 - 50000 - 100000)
	if slip.NetPay != want {
		t.Fatalf("expected net pay %d, got %d", want, slip.NetPay)
	}
}

func TestPayslipSkipsInstallmentRepaymentsInDeductions(t *testing.T) {
	svc, _ := newTestService()
	period := time.Now().UTC().Format("2006-01")

	advance, err := svc.CreateCashAdvance(adminCtx(), domain.CashAdvanceCreateRequest{Username: "dedi", Amount: 200000, TenorMonths: 2})
	if err != nil {
		t.Fatalf("create cash advance failed: %v", err)
	}
	if _, err := svc.RepayCashAdvance(adminCtx(), advance.ID, domain.CashAdvanceRepayRequest{Amount: 100000, Period: period}); err != nil {
		t.Fatalf("repay failed: %v", err)
	}

	slip, err := svc.Payslip(adminCtx(), "dedi", period)
	if err != nil {
		t.Fatalf("payslip failed: %v", err)
	}
	if slip.DeductionTotal != 0 {
		t.Fatalf("expected installment repayment excluded from deductions, got %d", slip.DeductionTotal)
	}
	if slip.InstallmentDue != 100000 {
		t.Fatalf("expected remaining installment 100000, got %d", slip.InstallmentDue)
	}
}

func TestPayrollReportSkipsAdminAndInactive(t *testing.T) {
	svc, _ := newTestService()

	inactive := false
	if _, err := svc.UpdateStaff(adminCtx(), "dedi", domain.StaffUpdateRequest{Active: &inactive}); err != nil {
		t.Fatalf("deactivate staff failed: %v", err)
	}

	report, err := svc.PayrollReport(adminCtx(), "")
	if err != nil {
		t.Fatalf("payroll report failed: %v", err)
	}
	for _, slip := range report.Payslips {
		if slip.Username == "admin" {
			t.Fatalf("expected admin excluded from payroll")
		}
		if slip.Username == "dedi" {
			t.Fatalf("expected inactive staff excluded from payroll")
		}
	}
}

func TestExpenseRequiresKnownOutlet(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateExpense(kasirCtx(), domain.ExpenseCreateRequest{
		OutletID: "outlet-unknown",
		Category: "listrik",
		Amount:   250000,
	}, "")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown outlet, got %v", err)
	}
}

func TestDeleteExpenseRequiresAdmin(t *testing.T) {
	svc, _ := newTestService()

	expense, err := svc.CreateExpense(kasirCtx(), domain.ExpenseCreateRequest{
		Category: "Listrik",
		Amount:   250000,
	}, "")
	if err != nil {
		t.Fatalf("create expense failed: %v", err)
	}
	if expense.Category != "listrik" {
		t.Fatalf("expected lowercased category, got %s", expense.Category)
	}

	if err := svc.DeleteExpense(kasirCtx(), expense.ID); err == nil {
		t.Fatalf("expected kasir delete to be rejected")
	}
	if err := svc.DeleteExpense(adminCtx(), expense.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
}

func TestSalesReportExcludesVoidedSales(t *testing.T) {
	svc, _ := newTestService()

	keep, err := svc.CreateSale(kasirCtx(), domain.SaleCreateRequest{
		PaymentMethod: "cash",
		AmountPaid:    50000,
		Products:      []domain.SaleProductInput{{SKU: "SKU-POWDER-01", Qty: 1}},
	})
	if err != nil {
		t.Fatalf("first sale failed: %v", err)
	}
	voided, err := svc.CreateSale(kasirCtx(), domain.SaleCreateRequest{
		PaymentMethod: "cash",
		AmountPaid:    100000,
		Products:      []domain.SaleProductInput{{SKU: "SKU-RAZOR-01", Qty: 2}},
	})
	if err != nil {
		t.Fatalf("second sale failed: %v", err)
	}
	if _, err := svc.VoidSale(adminCtx(), voided.ID, "batal"); err != nil {
		t.Fatalf("void failed: %v", err)
	}

	report, err := svc.SalesReport(adminCtx(), "outlet-main", "", "")
	if err != nil {
		t.Fatalf("sales report failed: %v", err)
	}
	if report.Transactions != 1 {
		t.Fatalf("expected 1 counted transaction, got %d", report.Transactions)
	}
	if report.GrossSales != keep.Subtotal {
		t.Fatalf("expected gross %d, got %d", keep.Subtotal, report.GrossSales)
	}
}

type recordingCache struct {
	items       []domain.ServiceItem
	sets        int
	invalidates int
}

func (c *recordingCache) Get(context.Context) ([]domain.ServiceItem, bool, error) {
	if c.items == nil {
		return nil, false, nil
	}
	return c.items, true, nil
}

func (c *recordingCache) Set(_ context.Context, items []domain.ServiceItem, _ time.Duration) error {
	c.items = items
	c.sets++
	return nil
}

func (c *recordingCache) Invalidate(context.Context) error {
	c.items = nil
	c.invalidates++
	return nil
}

func TestPricelistCachesAndInvalidatesOnServiceChange(t *testing.T) {
	repo := memory.NewSeeded()
	rec := &recordingCache{}
	svc := New(repo, rec, time.Minute, "outlet-main")

	first, err := svc.Pricelist(context.Background())
	if err != nil {
		t.Fatalf("pricelist failed: %v", err)
	}
	if len(first) == 0 || rec.sets != 1 {
		t.Fatalf("expected cache fill on first read")
	}

	if _, err := svc.Pricelist(context.Background()); err != nil {
		t.Fatalf("cached pricelist failed: %v", err)
	}
	if rec.sets != 1 {
		t.Fatalf("expected cache hit on second read, sets=%d", rec.sets)
	}

	newPrice := int64(60000)
	if _, err := svc.UpdateService(adminCtx(), "svc-cukur-dewasa", domain.ServiceUpdateRequest{Price: &newPrice}); err != nil {
		t.Fatalf("update service failed: %v", err)
	}
	if rec.invalidates != 1 {
		t.Fatalf("expected cache invalidation after price change, invalidates=%d", rec.invalidates)
	}
}

func TestReceiptHTMLContainsSaleDetails(t *testing.T) {
	svc, _ := newTestService()

	sale, err := svc.CreateSale(kasirCtx(), domain.SaleCreateRequest{
		OutletID:      "outlet-main",
		PaymentMethod: "cash",
		AmountPaid:    50000,
		Services: []domain.SaleServiceInput{
			{ServiceID: "svc-cukur-anak", CapsterUsername: "dedi"},
		},
	})
	if err != nil {
		t.Fatalf("create sale failed: %v", err)
	}

	page, err := svc.ReceiptHTML(context.Background(), sale.ID)
	if err != nil {
		t.Fatalf("receipt html failed: %v", err)
	}
	for _, want := range []string{sale.ReceiptNumber, "Cukur Anak", "dedi", "Rp 35.000", "CukurAja"} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected receipt to contain %q", want)
		}
	}
}

func TestFormatRupiah(t *testing.T) {
	cases := map[int64]string{
		0:       "Rp 0",
		950:     "Rp 950",
		35000:   "Rp 35.000",
		1250000: "Rp 1.250.000",
		-4500:   "-Rp 4.500",
	}
	for amount, want := range cases {
		if got := formatRupiah(amount); got != want {
			t.Fatalf("formatRupiah(%d) = %q, want %q", amount, got, want)
		}
	}
}

func TestParseDateRangeRejectsInvertedRange(t *testing.T) {
	if _, _, err := parseDateRange("2026-02-10", "2026-02-01"); !errors.Is(err, store.ErrInvalidSale) {
		t.Fatalf("expected inverted range to fail, got %v", err)
	}
	from, to, err := parseDateRange("2026-02-01", "2026-02-01")
	if err != nil {
		t.Fatalf("single-day range failed: %v", err)
	}
	if to.Sub(from) != 24*time.Hour {
		t.Fatalf("expected inclusive single-day range of 24h, got %v", to.Sub(from))
	}
}
