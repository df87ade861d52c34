package domain

import "time"

type Outlet struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type OutletCreateRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type OutletUpdateRequest struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

type Product struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	CostPrice int64  `json:"cost_price"`
	SalePrice int64  `json:"sale_price"`
	Active    bool   `json:"active"`
}

type ProductCreateRequest struct {
	OutletID     string `json:"outlet_id"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	CostPrice    int64  `json:"cost_price"`
	SalePrice    int64  `json:"sale_price"`
	InitialStock int    `json:"initial_stock"`
}

type ProductUpdateRequest struct {
	Name      *string `json:"name,omitempty"`
	Category  *string `json:"category,omitempty"`
	CostPrice *int64  `json:"cost_price,omitempty"`
	SalePrice *int64  `json:"sale_price,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

type StockLevel struct {
	OutletID string `json:"outlet_id"`
	SKU      string `json:"sku"`
	Qty      int    `json:"qty"`
}

type StockAdjustRequest struct {
	OutletID string `json:"outlet_id"`
	SKU      string `json:"sku"`
	Delta    int    `json:"delta"`
	Note     string `json:"note"`
}

type ServiceItem struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	Price           int64  `json:"price"`
	Active          bool   `json:"active"`
}

type ServiceCreateRequest struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	Price           int64  `json:"price"`
}

type ServiceUpdateRequest struct {
	Name            *string `json:"name,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Price           *int64  `json:"price,omitempty"`
	Active          *bool   `json:"active,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type StaffCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type StaffUpdateRequest struct {
	Password *string `json:"password,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

type StaffUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

type CommissionSetting struct {
	Username  string    `json:"username"`
	Percent   float64   `json:"percent"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CommissionSetRequest struct {
	Percent float64 `json:"percent"`
}

type SalarySetting struct {
	Username       string    `json:"username"`
	BaseMonthly    int64     `json:"base_monthly"`
	DailyAllowance int64     `json:"daily_allowance"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type SalarySetRequest struct {
	BaseMonthly    int64 `json:"base_monthly"`
	DailyAllowance int64 `json:"daily_allowance"`
}

type SaleProductLine struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitCost  int64  `json:"unit_cost"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
	Profit    int64  `json:"profit"`
}

type SaleServiceLine struct {
	ServiceID         string  `json:"service_id"`
	Name              string  `json:"name"`
	Price             int64   `json:"price"`
	CapsterUsername   string  `json:"capster_username"`
	CommissionPercent float64 `json:"commission_percent"`
	CommissionAmount  int64   `json:"commission_amount"`
}

type SaleProductInput struct {
	SKU       string `json:"sku"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unit_price,omitempty"`
}

type SaleServiceInput struct {
	ServiceID       string `json:"service_id"`
	CapsterUsername string `json:"capster_username"`
}

type SaleCreateRequest struct {
	OutletID      string             `json:"outlet_id"`
	Type          string             `json:"type"`
	PaymentMethod string             `json:"payment_method"`
	AmountPaid    int64              `json:"amount_paid"`
	Note          string             `json:"note,omitempty"`
	Products      []SaleProductInput `json:"products,omitempty"`
	Services      []SaleServiceInput `json:"services,omitempty"`
}

type Sale struct {
	ID               string            `json:"id"`
	OutletID         string            `json:"outlet_id"`
	CashierUsername  string            `json:"cashier_username"`
	Type             string            `json:"type"`
	PaymentMethod    string            `json:"payment_method"`
	ReceiptNumber    string            `json:"receipt_number"`
	Subtotal         int64             `json:"subtotal"`
	AmountPaid       int64             `json:"amount_paid"`
	ChangeAmount     int64             `json:"change_amount"`
	Status           string            `json:"status"`
	Note             string            `json:"note,omitempty"`
	VoidReason       string            `json:"void_reason,omitempty"`
	VoidedAt         *time.Time        `json:"voided_at,omitempty"`
	PaymentProofPath string            `json:"payment_proof_path,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	Products         []SaleProductLine `json:"products,omitempty"`
	Services         []SaleServiceLine `json:"services,omitempty"`
}

type SaleResponse struct {
	Sale Sale `json:"sale"`
}

type SaleListResponse struct {
	Sales []Sale `json:"sales"`
}

type VoidSaleRequest struct {
	Reason   string `json:"reason"`
	OwnerPIN string `json:"owner_pin"`
}

type VoidSaleResponse struct {
	SaleID   string `json:"sale_id"`
	Status   string `json:"status"`
	VoidedAt string `json:"voided_at"`
}

type Bonus struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Amount    int64     `json:"amount"`
	Note      string    `json:"note"`
	GivenAt   time.Time `json:"given_at"`
	CreatedBy string    `json:"created_by"`
}

type BonusCreateRequest struct {
	Username string `json:"username"`
	Amount   int64  `json:"amount"`
	Note     string `json:"note"`
	GivenAt  string `json:"given_at,omitempty"`
}

type Deduction struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Amount    int64     `json:"amount"`
	Kind      string    `json:"kind"`
	Period    string    `json:"period"`
	Note      string    `json:"note"`
	AdvanceID string    `json:"advance_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type DeductionCreateRequest struct {
	Username string `json:"username"`
	Amount   int64  `json:"amount"`
	Period   string `json:"period"`
	Note     string `json:"note"`
}

type CashAdvance struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	Amount             int64     `json:"amount"`
	TenorMonths        int       `json:"tenor_months"`
	MonthlyInstallment int64     `json:"monthly_installment"`
	RepaidAmount       int64     `json:"repaid_amount"`
	Status             string    `json:"status"`
	Note               string    `json:"note"`
	DueDate            time.Time `json:"due_date"`
	CreatedAt          time.Time `json:"created_at"`
}

type CashAdvanceCreateRequest struct {
	Username    string `json:"username"`
	Amount      int64  `json:"amount"`
	TenorMonths int    `json:"tenor_months"`
	Note        string `json:"note"`
}

type CashAdvanceRepayRequest struct {
	Amount int64  `json:"amount"`
	Period string `json:"period"`
}

type Payslip struct {
	Username        string  `json:"username"`
	Period          string  `json:"period"`
	BaseSalary      int64   `json:"base_salary"`
	BonusTotal      int64   `json:"bonus_total"`
	CommissionTotal int64   `json:"commission_total"`
	DeductionTotal  int64   `json:"deduction_total"`
	InstallmentDue  int64   `json:"installment_due"`
	NetPay          int64   `json:"net_pay"`
	CommissionPct   float64 `json:"commission_pct,omitempty"`
	ServiceCount    int     `json:"service_count"`
}

type PayrollReport struct {
	Period   string    `json:"period"`
	Payslips []Payslip `json:"payslips"`
	TotalNet int64     `json:"total_net"`
}

type Expense struct {
	ID        string    `json:"id"`
	OutletID  string    `json:"outlet_id"`
	Category  string    `json:"category"`
	Amount    int64     `json:"amount"`
	Note      string    `json:"note"`
	ProofPath string    `json:"proof_path,omitempty"`
	SpentAt   time.Time `json:"spent_at"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type ExpenseCreateRequest struct {
	OutletID string `json:"outlet_id"`
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
	Note     string `json:"note"`
	SpentAt  string `json:"spent_at,omitempty"`
}

type BusinessProfile struct {
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	ReceiptFooter string    `json:"receipt_footer"`
	LogoPath      string    `json:"logo_path,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type BusinessProfileUpdateRequest struct {
	Name          *string `json:"name,omitempty"`
	Address       *string `json:"address,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	ReceiptFooter *string `json:"receipt_footer,omitempty"`
}

type SalesReportPayment struct {
	PaymentMethod string `json:"payment_method"`
	Transactions  int64  `json:"transactions"`
	Total         int64  `json:"total"`
}

type SalesReportType struct {
	Type         string `json:"type"`
	Transactions int64  `json:"transactions"`
	Total        int64  `json:"total"`
}

type SalesReport struct {
	OutletID        string               `json:"outlet_id"`
	From            string               `json:"from"`
	To              string               `json:"to"`
	Transactions    int64                `json:"transactions"`
	GrossSales      int64                `json:"gross_sales"`
	ProductRevenue  int64                `json:"product_revenue"`
	ServiceRevenue  int64                `json:"service_revenue"`
	ProductProfit   int64                `json:"product_profit"`
	CommissionTotal int64                `json:"commission_total"`
	ByPayment       []SalesReportPayment `json:"by_payment"`
	ByType          []SalesReportType    `json:"by_type"`
}

type CommissionReportRow struct {
	CapsterUsername string `json:"capster_username"`
	Services        int64  `json:"services"`
	CommissionTotal int64  `json:"commission_total"`
}

type CommissionReport struct {
	From  string                `json:"from"`
	To    string                `json:"to"`
	Rows  []CommissionReportRow `json:"rows"`
	Total int64                 `json:"total"`
}

type ExpenseReportRow struct {
	Category string `json:"category"`
	Entries  int64  `json:"entries"`
	Total    int64  `json:"total"`
}

type ExpenseReport struct {
	OutletID string             `json:"outlet_id"`
	From     string             `json:"from"`
	To       string             `json:"to"`
	Rows     []ExpenseReportRow `json:"rows"`
	Total    int64              `json:"total"`
}

type AuditLog struct {
	ID            string    `json:"id"`
	ActorUsername string    `json:"actor_username"`
	ActorRole     string    `json:"actor_role"`
	Action        string    `json:"action"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	RoleAdmin   = "admin"
	RoleKasir   = "kasir"
	RoleCapster = "capster"
)

const (
	SaleTypeProduct = "product"
	SaleTypeService = "service"
	SaleTypeMixed   = "mixed"
)

const (
	SaleStatusPaid   = "paid"
	SaleStatusVoided = "voided"
)

const (
	PaymentCash    = "cash"
	PaymentCard    = "card"
	PaymentQRIS    = "qris"
	PaymentEwallet = "ewallet"
)

const (
	AdvanceStatusActive    = "active"
	AdvanceStatusCompleted = "completed"
	AdvanceStatusLapsed    = "lapsed"
)

const (
	DeductionKindGeneral     = "general"
	DeductionKindInstallment = "installment"
)
