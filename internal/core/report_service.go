package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// VATReport is the monthly VAT position used to prepare the PP.30 filing.
// Output VAT comes from invoices, input VAT from VAT-bearing expenses; the
// net figure is what is owed to (positive) or reclaimable from (negative)
// the Revenue Department.
type VATReport struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	TotalSales decimal.Decimal `json:"total_sales"` // sum of invoice subtotals
	OutputVAT  decimal.Decimal `json:"output_vat"`  // sum of invoice VAT totals
	Purchases  decimal.Decimal `json:"purchases"`   // VAT-expense bases plus non-VAT expense amounts
	InputVAT   decimal.Decimal `json:"input_vat"`   // sum of expense VAT amounts
	NetVAT     decimal.Decimal `json:"net_vat"`     // OutputVAT - InputVAT
}

// DashboardSummary is the aggregate snapshot behind the landing page.
type DashboardSummary struct {
	MonthRevenue      decimal.Decimal `json:"month_revenue"`      // grand totals of invoices paid this month
	MonthExpenses     decimal.Decimal `json:"month_expenses"`     // expense amounts dated this month
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"` // grand totals of issued and overdue invoices
	OutstandingCount  int             `json:"outstanding_count"`
	OpenQuotations    int             `json:"open_quotations"` // draft and sent quotations
	LowStockProducts  int             `json:"low_stock_products"`
	Customers         int             `json:"customers"`
	Products          int             `json:"products"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportService provides read-only aggregations over documents and expenses.
type ReportService interface {
	// VATReport computes the VAT position for one calendar month. Draft and
	// cancelled invoices carry no tax liability and are excluded.
	VATReport(ctx context.Context, year int, month int) (*VATReport, error)

	// DashboardSummary computes the landing-page aggregates for the current
	// calendar month.
	DashboardSummary(ctx context.Context) (*DashboardSummary, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type reportService struct {
	pool *pgxpool.Pool
}

func NewReportService(pool *pgxpool.Pool) ReportService {
	return &reportService{pool: pool}
}

func (s *reportService) VATReport(ctx context.Context, year int, month int) (*VATReport, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be 1..12, got %d", month)
	}

	report := &VATReport{Year: year, Month: month}

	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(subtotal), 0),
		       COALESCE(SUM(vat_total), 0)
		FROM invoices
		WHERE status NOT IN ('draft', 'cancelled')
		  AND EXTRACT(YEAR  FROM date)::int = $1
		  AND EXTRACT(MONTH FROM date)::int = $2
	`, year, month).Scan(&report.TotalSales, &report.OutputVAT)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate output VAT: %w", err)
	}

	// The purchase base of a VAT expense is its amount net of the extracted
	// VAT; non-VAT expenses count in full.
	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount - vat_amount), 0),
		       COALESCE(SUM(vat_amount), 0)
		FROM expenses
		WHERE EXTRACT(YEAR  FROM date)::int = $1
		  AND EXTRACT(MONTH FROM date)::int = $2
	`, year, month).Scan(&report.Purchases, &report.InputVAT)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate input VAT: %w", err)
	}

	report.NetVAT = report.OutputVAT.Sub(report.InputVAT)
	return report, nil
}

func (s *reportService) DashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	sum := &DashboardSummary{}

	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(grand_total), 0)
		FROM invoices
		WHERE status = 'paid'
		  AND date_trunc('month', date) = date_trunc('month', CURRENT_DATE)
	`).Scan(&sum.MonthRevenue)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate month revenue: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE date_trunc('month', date) = date_trunc('month', CURRENT_DATE)
	`).Scan(&sum.MonthExpenses)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate month expenses: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(grand_total), 0), COUNT(*)
		FROM invoices
		WHERE status IN ('issued', 'overdue')
	`).Scan(&sum.OutstandingAmount, &sum.OutstandingCount)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate outstanding invoices: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT (SELECT COUNT(*) FROM quotations WHERE status IN ('draft', 'sent')),
		       (SELECT COUNT(*) FROM products WHERE stock_quantity <= min_stock_level),
		       (SELECT COUNT(*) FROM customers),
		       (SELECT COUNT(*) FROM products)
	`).Scan(&sum.OpenQuotations, &sum.LowStockProducts, &sum.Customers, &sum.Products)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate entity counts: %w", err)
	}

	return sum, nil
}
