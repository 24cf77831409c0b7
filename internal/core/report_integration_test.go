package core_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"micro-account/internal/core"
)

func TestExpense_VATComputedServerSide(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	expSvc := core.NewExpenseService(pool)
	ctx := context.Background()

	e, err := expSvc.Create(ctx, core.ExpenseInput{
		Date:        "2026-08-10",
		Description: "Office supplies",
		Amount:      decimal.NewFromInt(1500),
		IsVAT:       true,
		Category:    "office",
		Recipient:   "OfficeMate",
	})
	if err != nil {
		t.Fatalf("Create expense failed: %v", err)
	}

	// 1500 * 7/107, inclusive extraction, rounded to satang. The exclusive
	// formula would have given 105.
	want := decimal.NewFromFloat(98.13)
	if !e.VATAmount.Equal(want) {
		t.Errorf("Expected vat_amount %s, got %s", want, e.VATAmount)
	}

	plain, err := expSvc.Create(ctx, core.ExpenseInput{
		Date:        "2026-08-11",
		Description: "Motorbike courier",
		Amount:      decimal.NewFromInt(200),
	})
	if err != nil {
		t.Fatalf("Create non-VAT expense failed: %v", err)
	}
	if !plain.VATAmount.IsZero() {
		t.Errorf("Expected zero vat_amount for non-VAT expense, got %s", plain.VATAmount)
	}
}

func TestReport_MonthlyVATPosition(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	ctx := context.Background()
	stockSvc := core.NewStockService(pool, zap.NewNop())
	customerSvc := core.NewCustomerService(pool)
	docSvc := core.NewDocumentService(pool, stockSvc, zap.NewNop())
	expSvc := core.NewExpenseService(pool)
	reportSvc := core.NewReportService(pool)

	c, err := customerSvc.Create(ctx, core.CustomerInput{Name: "Acme Co., Ltd."})
	if err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}

	mkInvoice := func(number string, amount int64) *core.Invoice {
		t.Helper()
		inv, err := docSvc.CreateInvoice(ctx, core.DocumentInput{
			Number:     number,
			Date:       "2026-08-15",
			DueDate:    "2026-09-14",
			CustomerID: c.ID,
			Items: []core.LineItem{
				{Description: "Consulting", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(amount), VATRate: core.DefaultVATRate},
			},
			VATRate: core.DefaultVATRate,
		})
		if err != nil {
			t.Fatalf("CreateInvoice %s failed: %v", number, err)
		}
		return inv
	}

	// Issued invoice of 10000 and a draft of 99999; only the issued one counts.
	issued := mkInvoice("INV-20260815-001", 10000)
	if err := docSvc.UpdateInvoiceStatus(ctx, issued.ID, core.InvoiceIssued); err != nil {
		t.Fatalf("UpdateInvoiceStatus failed: %v", err)
	}
	mkInvoice("INV-20260815-002", 99999)

	// 1070 VAT-inclusive expense contributes 70 input VAT and a 1000 base.
	if _, err := expSvc.Create(ctx, core.ExpenseInput{
		Date:        "2026-08-20",
		Description: "Fuel",
		Amount:      decimal.NewFromInt(1070),
		IsVAT:       true,
	}); err != nil {
		t.Fatalf("Create expense failed: %v", err)
	}
	// Non-VAT expense counts toward purchases only.
	if _, err := expSvc.Create(ctx, core.ExpenseInput{
		Date:        "2026-08-21",
		Description: "Street food allowance",
		Amount:      decimal.NewFromInt(500),
	}); err != nil {
		t.Fatalf("Create expense failed: %v", err)
	}

	report, err := reportSvc.VATReport(ctx, 2026, 8)
	if err != nil {
		t.Fatalf("VATReport failed: %v", err)
	}

	if !report.TotalSales.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("Expected total sales 10000, got %s", report.TotalSales)
	}
	if !report.OutputVAT.Equal(decimal.NewFromInt(700)) {
		t.Errorf("Expected output VAT 700, got %s", report.OutputVAT)
	}
	if !report.InputVAT.Equal(decimal.NewFromInt(70)) {
		t.Errorf("Expected input VAT 70, got %s", report.InputVAT)
	}
	if !report.Purchases.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Expected purchases 1500, got %s", report.Purchases)
	}
	if !report.NetVAT.Equal(decimal.NewFromInt(630)) {
		t.Errorf("Expected net VAT 630, got %s", report.NetVAT)
	}

	// Neighbouring month is empty.
	empty, err := reportSvc.VATReport(ctx, 2026, 7)
	if err != nil {
		t.Fatalf("VATReport for empty month failed: %v", err)
	}
	if !empty.NetVAT.IsZero() || !empty.TotalSales.IsZero() {
		t.Errorf("Expected empty report for July, got sales=%s net=%s", empty.TotalSales, empty.NetVAT)
	}
}
