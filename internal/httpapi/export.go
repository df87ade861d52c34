package httpapi

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"

	"cukuraja/backend/internal/domain"
)

func writeCSV(w http.ResponseWriter, filename string, content string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write([]byte(content))
}

func writeXLSX(w http.ResponseWriter, filename string, f *excelize.File) {
	defer func() { _ = f.Close() }()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		log.Printf("write xlsx %s: %v", filename, err)
	}
}

func csvEscape(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

func salesReportToCSV(report domain.SalesReport) string {
	lines := []string{
		"section,key,value",
		fmt.Sprintf("summary,outlet_id,%s", csvEscape(report.OutletID)),
		fmt.Sprintf("summary,from,%s", report.From),
		fmt.Sprintf("summary,to,%s", report.To),
		fmt.Sprintf("summary,transactions,%d", report.Transactions),
		fmt.Sprintf("summary,gross_sales,%d", report.GrossSales),
		fmt.Sprintf("summary,product_revenue,%d", report.ProductRevenue),
		fmt.Sprintf("summary,service_revenue,%d", report.ServiceRevenue),
		fmt.Sprintf("summary,product_profit,%d", report.ProductProfit),
		fmt.Sprintf("summary,commission_total,%d", report.CommissionTotal),
	}
	for _, row := range report.ByPayment {
		lines = append(lines, fmt.Sprintf("by_payment,%s,%d", csvEscape(row.PaymentMethod), row.Total))
	}
	for _, row := range report.ByType {
		lines = append(lines, fmt.Sprintf("by_type,%s,%d", csvEscape(row.Type), row.Total))
	}
	return strings.Join(lines, "\n") + "\n"
}

func commissionReportToCSV(report domain.CommissionReport) string {
	lines := []string{
		"capster,services,commission_total",
	}
	for _, row := range report.Rows {
		lines = append(lines, fmt.Sprintf("%s,%d,%d", csvEscape(row.CapsterUsername), row.Services, row.CommissionTotal))
	}
	lines = append(lines, fmt.Sprintf("total,,%d", report.Total))
	return strings.Join(lines, "\n") + "\n"
}

func expenseReportToCSV(report domain.ExpenseReport) string {
	lines := []string{
		"category,entries,total",
	}
	for _, row := range report.Rows {
		lines = append(lines, fmt.Sprintf("%s,%d,%d", csvEscape(row.Category), row.Entries, row.Total))
	}
	lines = append(lines, fmt.Sprintf("total,,%d", report.Total))
	return strings.Join(lines, "\n") + "\n"
}

func payrollReportToCSV(report domain.PayrollReport) string {
	lines := []string{
		"username,base_salary,bonus_total,commission_total,deduction_total,installment_due,net_pay",
	}
	for _, slip := range report.Payslips {
		lines = append(lines, fmt.Sprintf("%s,%d,%d,%d,%d,%d,%d",
			csvEscape(slip.Username), slip.BaseSalary, slip.BonusTotal, slip.CommissionTotal,
			slip.DeductionTotal, slip.InstallmentDue, slip.NetPay))
	}
	lines = append(lines, fmt.Sprintf("total,,,,,,%d", report.TotalNet))
	return strings.Join(lines, "\n") + "\n"
}

func setRow(f *excelize.File, sheet string, rowIdx int, values ...any) {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
		if err != nil {
			continue
		}
		_ = f.SetCellValue(sheet, cell, value)
	}
}

func buildSalesReportXLSX(report domain.SalesReport) *excelize.File {
	f := excelize.NewFile()
	sheet := "Sales"
	_ = f.SetSheetName(f.GetSheetName(0), sheet)

	setRow(f, sheet, 1, "Sales Report", report.From+" s/d "+report.To)
	setRow(f, sheet, 2, "Outlet", report.OutletID)
	setRow(f, sheet, 4, "Transactions", report.Transactions)
	setRow(f, sheet, 5, "Gross Sales", report.GrossSales)
	setRow(f, sheet, 6, "Product Revenue", report.ProductRevenue)
	setRow(f, sheet, 7, "Service Revenue", report.ServiceRevenue)
	setRow(f, sheet, 8, "Product Profit", report.ProductProfit)
	setRow(f, sheet, 9, "Commission Total", report.CommissionTotal)

	row := 11
	setRow(f, sheet, row, "Payment Method", "Transactions", "Total")
	for _, p := range report.ByPayment {
		row++
		setRow(f, sheet, row, p.PaymentMethod, p.Transactions, p.Total)
	}

	row += 2
	setRow(f, sheet, row, "Sale Type", "Transactions", "Total")
	for _, t := range report.ByType {
		row++
		setRow(f, sheet, row, t.Type, t.Transactions, t.Total)
	}
	return f
}

func buildCommissionReportXLSX(report domain.CommissionReport) *excelize.File {
	f := excelize.NewFile()
	sheet := "Commissions"
	_ = f.SetSheetName(f.GetSheetName(0), sheet)

	setRow(f, sheet, 1, "Commission Report", report.From+" s/d "+report.To)
	setRow(f, sheet, 3, "Capster", "Services", "Commission")
	row := 3
	for _, r := range report.Rows {
		row++
		setRow(f, sheet, row, r.CapsterUsername, r.Services, r.CommissionTotal)
	}
	setRow(f, sheet, row+1, "Total", "", report.Total)
	return f
}

func buildExpenseReportXLSX(report domain.ExpenseReport) *excelize.File {
	f := excelize.NewFile()
	sheet := "Expenses"
	_ = f.SetSheetName(f.GetSheetName(0), sheet)

	setRow(f, sheet, 1, "Expense Report", report.From+" s/d "+report.To)
	setRow(f, sheet, 2, "Outlet", report.OutletID)
	setRow(f, sheet, 4, "Category", "Entries", "Total")
	row := 4
	for _, r := range report.Rows {
		row++
		setRow(f, sheet, row, r.Category, r.Entries, r.Total)
	}
	setRow(f, sheet, row+1, "Total", "", report.Total)
	return f
}

func buildPayrollXLSX(report domain.PayrollReport) *excelize.File {
	f := excelize.NewFile()
	sheet := "Payroll"
	_ = f.SetSheetName(f.GetSheetName(0), sheet)

	setRow(f, sheet, 1, "Payroll", report.Period)
	setRow(f, sheet, 3, "Username", "Base Salary", "Bonus", "Commission", "Deductions", "Installments", "Net Pay")
	row := 3
	for _, slip := range report.Payslips {
		row++
		setRow(f, sheet, row, slip.Username, slip.BaseSalary, slip.BonusTotal, slip.CommissionTotal,
			slip.DeductionTotal, slip.InstallmentDue, slip.NetPay)
	}
	setRow(f, sheet, row+1, "Total", "", "", "", "", "", report.TotalNet)
	return f
}
