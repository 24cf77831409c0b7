package core_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"micro-account/internal/core"
)

// setupDocumentTestDB wires the document stack with one customer and one
// stocked product.
func setupDocumentTestDB(t *testing.T) (*pgxpool.Pool, core.DocumentService, core.StockService, *core.Customer, *core.Product, context.Context) {
	t.Helper()
	pool := setupTestDB(t)
	ctx := context.Background()

	stockSvc := core.NewStockService(pool, zap.NewNop())
	productSvc := core.NewProductService(pool, stockSvc)
	customerSvc := core.NewCustomerService(pool)
	docSvc := core.NewDocumentService(pool, stockSvc, zap.NewNop())

	c, err := customerSvc.Create(ctx, core.CustomerInput{
		Name:    "Acme Co., Ltd.",
		TaxID:   "0105551234567",
		Address: "88 Sukhumvit Rd, Bangkok",
		Branch:  "head office",
	})
	if err != nil {
		t.Fatalf("Failed to seed customer: %v", err)
	}

	p, err := productSvc.Create(ctx, core.ProductInput{
		Name:            "Widget A",
		SKU:             "WID-A",
		Price:           decimal.NewFromInt(500),
		Unit:            "unit",
		InitialQuantity: decimal.NewFromInt(100),
		MinStockLevel:   decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}

	return pool, docSvc, stockSvc, c, p, ctx
}

func widgetLine(p *core.Product, qty int64) core.LineItem {
	return core.LineItem{
		ProductID:   &p.ID,
		Description: p.Name,
		Quantity:    decimal.NewFromInt(qty),
		Price:       p.Price,
		VATRate:     core.DefaultVATRate,
	}
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestDocument_CreateInvoiceDeductsStock(t *testing.T) {
	pool, docSvc, stockSvc, c, p, ctx := setupDocumentTestDB(t)
	defer pool.Close()

	inv, err := docSvc.CreateInvoice(ctx, core.DocumentInput{
		Number:     "INV-20260829-001",
		Date:       "2026-08-29",
		DueDate:    "2026-09-28",
		CustomerID: c.ID,
		Items: []core.LineItem{
			widgetLine(p, 10),
			{Description: "Delivery", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(300), VATRate: core.DefaultVATRate},
		},
		VATRate: core.DefaultVATRate,
	})
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	if inv.Status != core.InvoiceDraft {
		t.Errorf("Expected new invoice status draft, got %s", inv.Status)
	}
	if inv.CustomerName != c.Name {
		t.Errorf("Expected customer snapshot %q, got %q", c.Name, inv.CustomerName)
	}
	// 10*500 + 300 = 5300; VAT 371; grand 5671
	if !inv.Subtotal.Equal(decimal.NewFromInt(5300)) {
		t.Errorf("Expected subtotal 5300, got %s", inv.Subtotal)
	}
	if !inv.VATTotal.Equal(decimal.NewFromInt(371)) {
		t.Errorf("Expected vat_total 371, got %s", inv.VATTotal)
	}
	if !inv.GrandTotal.Equal(decimal.NewFromInt(5671)) {
		t.Errorf("Expected grand_total 5671, got %s", inv.GrandTotal)
	}
	if len(inv.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(inv.Items))
	}

	// Only the product-linked line touches the ledger, referencing the invoice.
	movements, err := stockSvc.GetMovements(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetMovements failed: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("Expected opening + sale movements, got %d", len(movements))
	}
	sale := movements[0]
	if sale.Type != core.MovementOut || !sale.Quantity.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected out movement of 10, got %s %s", sale.Type, sale.Quantity)
	}
	if sale.ReferenceID == nil || *sale.ReferenceID != inv.ID {
		t.Error("Expected sale movement to reference the invoice")
	}
}

func TestDocument_FailedInvoiceLeavesNothingBehind(t *testing.T) {
	pool, docSvc, stockSvc, c, p, ctx := setupDocumentTestDB(t)
	defer pool.Close()

	// Second line references a product that does not exist, so the stock
	// deduction fails mid-transaction and the whole creation must roll back,
	// including the deduction already applied for the first line.
	ghost := uuid.New()
	_, err := docSvc.CreateInvoice(ctx, core.DocumentInput{
		Number:     "INV-20260829-002",
		Date:       "2026-08-29",
		DueDate:    "2026-09-28",
		CustomerID: c.ID,
		Items: []core.LineItem{
			widgetLine(p, 10),
			{ProductID: &ghost, Description: "Phantom", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(100), VATRate: core.DefaultVATRate},
		},
		VATRate: core.DefaultVATRate,
	})
	if err == nil {
		t.Fatal("Expected invoice creation to fail, got nil error")
	}

	invoices, err := docSvc.ListInvoices(ctx, nil)
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(invoices) != 0 {
		t.Errorf("Expected no invoices after failed creation, got %d", len(invoices))
	}

	movements, err := stockSvc.GetMovements(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetMovements failed: %v", err)
	}
	if len(movements) != 1 {
		t.Errorf("Expected only the opening movement, got %d", len(movements))
	}
}

func TestDocument_DuplicateNumberRejected(t *testing.T) {
	pool, docSvc, _, c, p, ctx := setupDocumentTestDB(t)
	defer pool.Close()

	in := core.DocumentInput{
		Number:     "INV-20260829-003",
		Date:       "2026-08-29",
		DueDate:    "2026-09-28",
		CustomerID: c.ID,
		Items:      []core.LineItem{widgetLine(p, 1)},
		VATRate:    core.DefaultVATRate,
	}
	if _, err := docSvc.CreateInvoice(ctx, in); err != nil {
		t.Fatalf("First CreateInvoice failed: %v", err)
	}
	if _, err := docSvc.CreateInvoice(ctx, in); err == nil {
		t.Error("Expected duplicate number to be rejected, got nil error")
	}
}

func TestDocument_GeneratedNumberFormat(t *testing.T) {
	pool, docSvc, _, c, p, ctx := setupDocumentTestDB(t)
	defer pool.Close()

	q, err := docSvc.CreateQuotation(ctx, core.DocumentInput{
		Date:       "2026-08-29",
		DueDate:    "2026-09-12",
		CustomerID: c.ID,
		Items:      []core.LineItem{widgetLine(p, 2)},
		VATRate:    core.DefaultVATRate,
	})
	if err != nil {
		t.Fatalf("CreateQuotation failed: %v", err)
	}
	if len(q.Number) != len("QUO-20060102-000") || q.Number[:4] != "QUO-" {
		t.Errorf("Generated quotation number %q has unexpected shape", q.Number)
	}
	if q.Status != core.QuotationDraft {
		t.Errorf("Expected new quotation status draft, got %s", q.Status)
	}
}

func TestDocument_InvoiceStatusLifecycle(t *testing.T) {
	pool, docSvc, _, c, p, ctx := setupDocumentTestDB(t)
	defer pool.Close()

	inv, err := docSvc.CreateInvoice(ctx, core.DocumentInput{
		Number:     "INV-20260829-004",
		Date:       "2026-08-29",
		DueDate:    "2026-09-28",
		CustomerID: c.ID,
		Items:      []core.LineItem{widgetLine(p, 1)},
		VATRate:    core.DefaultVATRate,
	})
	if err != nil {
		t.Fatalf("CreateInvoice failed: %v", err)
	}

	// draft → paid skips issuance and must fail.
	if err := docSvc.UpdateInvoiceStatus(ctx, inv.ID, core.InvoicePaid); err == nil {
		t.Error("Expected draft→paid to be rejected, got nil error")
	}

	for _, next := range []core.InvoiceStatus{core.InvoiceIssued, core.InvoicePaid} {
		if err := docSvc.UpdateInvoiceStatus(ctx, inv.ID, next); err != nil {
			t.Fatalf("UpdateInvoiceStatus to %s failed: %v", next, err)
		}
	}

	// paid is terminal.
	if err := docSvc.UpdateInvoiceStatus(ctx, inv.ID, core.InvoiceCancelled); err == nil {
		t.Error("Expected paid→cancelled to be rejected, got nil error")
	}

	got, err := docSvc.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice failed: %v", err)
	}
	if got.Status != core.InvoicePaid {
		t.Errorf("Expected final status paid, got %s", got.Status)
	}
}

func TestDocument_ConvertQuotation(t *testing.T) {
	pool, docSvc, stockSvc, c, p, ctx := setupDocumentTestDB(t)
	defer pool.Close()

	q, err := docSvc.CreateQuotation(ctx, core.DocumentInput{
		Number:     "QUO-20260829-001",
		Date:       "2026-08-29",
		DueDate:    "2026-09-12",
		CustomerID: c.ID,
		Items:      []core.LineItem{widgetLine(p, 10)},
		VATRate:    core.DefaultVATRate,
	})
	if err != nil {
		t.Fatalf("CreateQuotation failed: %v", err)
	}

	// A draft quotation is not convertible.
	if _, err := docSvc.ConvertQuotationToInvoice(ctx, q.ID); err == nil {
		t.Error("Expected conversion of draft quotation to fail, got nil error")
	}

	if err := docSvc.UpdateQuotationStatus(ctx, q.ID, core.QuotationSent); err != nil {
		t.Fatalf("UpdateQuotationStatus to sent failed: %v", err)
	}
	if err := docSvc.UpdateQuotationStatus(ctx, q.ID, core.QuotationAccepted); err != nil {
		t.Fatalf("UpdateQuotationStatus to accepted failed: %v", err)
	}

	// Quotations never deduct stock; conversion does.
	movements, err := stockSvc.GetMovements(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetMovements failed: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("Expected only the opening movement before conversion, got %d", len(movements))
	}

	inv, err := docSvc.ConvertQuotationToInvoice(ctx, q.ID)
	if err != nil {
		t.Fatalf("ConvertQuotationToInvoice failed: %v", err)
	}
	if inv.Status != core.InvoiceIssued {
		t.Errorf("Expected converted invoice status issued, got %s", inv.Status)
	}
	if inv.QuotationID == nil || *inv.QuotationID != q.ID {
		t.Error("Expected invoice to back-reference the quotation")
	}
	if !inv.GrandTotal.Equal(q.GrandTotal) {
		t.Errorf("Expected totals copied: invoice %s, quotation %s", inv.GrandTotal, q.GrandTotal)
	}
	if len(inv.Items) != 1 || inv.Items[0].ProductID == nil || *inv.Items[0].ProductID != p.ID {
		t.Error("Expected line items copied with their product references")
	}

	gotQ, err := docSvc.GetQuotation(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetQuotation failed: %v", err)
	}
	if gotQ.Status != core.QuotationInvoiced {
		t.Errorf("Expected quotation status invoiced, got %s", gotQ.Status)
	}

	movements, err = stockSvc.GetMovements(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetMovements failed: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("Expected opening + conversion movements, got %d", len(movements))
	}
	if movements[0].ReferenceID == nil || *movements[0].ReferenceID != inv.ID {
		t.Error("Expected conversion movement to reference the new invoice")
	}
}

func TestDocument_ConversionIsIdempotent(t *testing.T) {
	pool, docSvc, stockSvc, c, p, ctx := setupDocumentTestDB(t)
	defer pool.Close()

	q, err := docSvc.CreateQuotation(ctx, core.DocumentInput{
		Number:     "QUO-20260829-002",
		Date:       "2026-08-29",
		DueDate:    "2026-09-12",
		CustomerID: c.ID,
		Items:      []core.LineItem{widgetLine(p, 5)},
		VATRate:    core.DefaultVATRate,
	})
	if err != nil {
		t.Fatalf("CreateQuotation failed: %v", err)
	}
	if err := docSvc.UpdateQuotationStatus(ctx, q.ID, core.QuotationSent); err != nil {
		t.Fatalf("UpdateQuotationStatus failed: %v", err)
	}

	first, err := docSvc.ConvertQuotationToInvoice(ctx, q.ID)
	if err != nil {
		t.Fatalf("First conversion failed: %v", err)
	}
	second, err := docSvc.ConvertQuotationToInvoice(ctx, q.ID)
	if err != nil {
		t.Fatalf("Second conversion failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Expected repeat conversion to return the same invoice: %s vs %s", first.ID, second.ID)
	}

	invoices, err := docSvc.ListInvoices(ctx, nil)
	if err != nil {
		t.Fatalf("ListInvoices failed: %v", err)
	}
	if len(invoices) != 1 {
		t.Errorf("Expected exactly one invoice after repeat conversion, got %d", len(invoices))
	}

	// Stock was deducted exactly once.
	movements, err := stockSvc.GetMovements(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetMovements failed: %v", err)
	}
	if len(movements) != 2 {
		t.Errorf("Expected opening + one sale movement, got %d", len(movements))
	}
}

func TestDocument_InvoicedIsUnreachableByStatusUpdate(t *testing.T) {
	pool, docSvc, _, c, p, ctx := setupDocumentTestDB(t)
	defer pool.Close()

	q, err := docSvc.CreateQuotation(ctx, core.DocumentInput{
		Number:     "QUO-20260829-003",
		Date:       "2026-08-29",
		DueDate:    "2026-09-12",
		CustomerID: c.ID,
		Items:      []core.LineItem{widgetLine(p, 1)},
		VATRate:    core.DefaultVATRate,
	})
	if err != nil {
		t.Fatalf("CreateQuotation failed: %v", err)
	}
	if err := docSvc.UpdateQuotationStatus(ctx, q.ID, core.QuotationSent); err != nil {
		t.Fatalf("UpdateQuotationStatus failed: %v", err)
	}
	if err := docSvc.UpdateQuotationStatus(ctx, q.ID, core.QuotationInvoiced); err == nil {
		t.Error("Expected direct update to invoiced to be rejected, got nil error")
	}
}
