package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DocumentService manages quotation and invoice lifecycles, including the
// quotation→invoice conversion. Every multi-step write (header, items, stock
// movements, status change) runs in a single transaction: a document and its
// lines appear together or not at all, and no dangling stock movement can
// survive a failed creation.
type DocumentService interface {
	CreateQuotation(ctx context.Context, in DocumentInput) (*Quotation, error)
	// CreateInvoice persists the invoice and records an 'out' stock movement
	// for every line carrying a product reference, all atomically.
	CreateInvoice(ctx context.Context, in DocumentInput) (*Invoice, error)

	GetQuotation(ctx context.Context, id uuid.UUID) (*Quotation, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListQuotations(ctx context.Context, status *QuotationStatus) ([]Quotation, error)
	ListInvoices(ctx context.Context, status *InvoiceStatus) ([]Invoice, error)

	// UpdateQuotationStatus applies one step of the quotation state machine.
	// 'invoiced' is rejected here: conversion is the only path to it.
	UpdateQuotationStatus(ctx context.Context, id uuid.UUID, status QuotationStatus) error
	UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status InvoiceStatus) error

	// ConvertQuotationToInvoice turns a sent or accepted quotation into an
	// issued invoice: copies the customer snapshot, totals and line items,
	// marks the quotation invoiced, and deducts stock — one transaction.
	// Converting an already-invoiced quotation returns the existing invoice
	// instead of creating a second one.
	ConvertQuotationToInvoice(ctx context.Context, quotationID uuid.UUID) (*Invoice, error)
}

// DocumentInput is the shared creation payload for both document kinds.
// Number may be empty, in which case one is generated (PREFIX-YYYYMMDD-NNN).
type DocumentInput struct {
	Number     string
	Date       string // YYYY-MM-DD
	DueDate    string // YYYY-MM-DD; quotation expiry or invoice due date
	CustomerID uuid.UUID
	Items      []LineItem
	VATRate    decimal.Decimal
	Notes      string
}

func (in *DocumentInput) validate() error {
	if err := ValidateItems(in.Items); err != nil {
		return err
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return fmt.Errorf("invalid document date %q: %w", in.Date, err)
	}
	if _, err := time.Parse("2006-01-02", in.DueDate); err != nil {
		return fmt.Errorf("invalid due date %q: %w", in.DueDate, err)
	}
	if in.CustomerID == uuid.Nil {
		return errors.New("document must reference a customer")
	}
	if in.VATRate.IsNegative() || in.VATRate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("vat rate must be between 0 and 100, got %s", in.VATRate)
	}
	return nil
}

type documentService struct {
	pool  *pgxpool.Pool
	stock StockService
	log   *zap.Logger
}

func NewDocumentService(pool *pgxpool.Pool, stock StockService, log *zap.Logger) DocumentService {
	return &documentService{pool: pool, stock: stock, log: log}
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// customerSnapshot resolves the denormalized customer fields written onto a
// document header at creation time.
func customerSnapshot(ctx context.Context, q pgxQuerier, id uuid.UUID) (name, address, taxID string, err error) {
	err = q.QueryRow(ctx,
		"SELECT name, address, tax_id FROM customers WHERE id = $1", id,
	).Scan(&name, &address, &taxID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", "", fmt.Errorf("customer %s not found", id)
		}
		return "", "", "", fmt.Errorf("failed to resolve customer %s: %w", id, err)
	}
	return name, address, taxID, nil
}

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared
// query helpers.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgxRowQuerier is the multi-row counterpart of pgxQuerier.
type pgxRowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ── Creation ─────────────────────────────────────────────────────────────────

func (s *documentService) CreateQuotation(ctx context.Context, in DocumentInput) (*Quotation, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var id uuid.UUID
	err := s.withGeneratedNumber(in.Number, QuotationPrefix, func(number string) error {
		var err error
		id, err = s.insertQuotation(ctx, in, number)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetQuotation(ctx, id)
}

func (s *documentService) insertQuotation(ctx context.Context, in DocumentInput, number string) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	name, address, taxID, err := customerSnapshot(ctx, tx, in.CustomerID)
	if err != nil {
		return uuid.Nil, err
	}

	totals := ComputeTotals(in.Items, in.VATRate)

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO quotations (number, date, due_date, customer_id, customer_name, customer_address, customer_tax_id,
		                        subtotal, discount_total, vat_total, grand_total, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'draft', $12)
		RETURNING id
	`, number, in.Date, in.DueDate, in.CustomerID, name, address, taxID,
		totals.Subtotal, totals.DiscountTotal, totals.VATTotal, totals.GrandTotal, in.Notes).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert quotation: %w", err)
	}

	if err := insertItems(ctx, tx, "quotation_items", "quotation_id", id, in.Items); err != nil {
		return uuid.Nil, err
	}

	// A quotation is not yet a sale: no stock movements here.

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit quotation creation: %w", err)
	}
	return id, nil
}

func (s *documentService) CreateInvoice(ctx context.Context, in DocumentInput) (*Invoice, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var id uuid.UUID
	err := s.withGeneratedNumber(in.Number, InvoicePrefix, func(number string) error {
		var err error
		id, err = s.insertInvoice(ctx, in, number)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetInvoice(ctx, id)
}

func (s *documentService) insertInvoice(ctx context.Context, in DocumentInput, number string) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	name, address, taxID, err := customerSnapshot(ctx, tx, in.CustomerID)
	if err != nil {
		return uuid.Nil, err
	}

	totals := ComputeTotals(in.Items, in.VATRate)

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (number, date, due_date, customer_id, customer_name, customer_address, customer_tax_id,
		                      subtotal, discount_total, vat_total, grand_total, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'draft', $12)
		RETURNING id
	`, number, in.Date, in.DueDate, in.CustomerID, name, address, taxID,
		totals.Subtotal, totals.DiscountTotal, totals.VATTotal, totals.GrandTotal, in.Notes).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert invoice: %w", err)
	}

	if err := insertItems(ctx, tx, "invoice_items", "invoice_id", id, in.Items); err != nil {
		return uuid.Nil, err
	}

	// Deduct stock for every product-linked line within the same transaction.
	if err := s.deductStockTx(ctx, tx, id, number, in.Items); err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit invoice creation: %w", err)
	}
	return id, nil
}

// withGeneratedNumber runs op with the caller-supplied number, or with fresh
// generated numbers, retrying on unique-constraint conflicts. A caller-supplied
// number is never regenerated: a conflict there is the caller's error.
func (s *documentService) withGeneratedNumber(fixed, prefix string, op func(number string) error) error {
	if fixed != "" {
		if err := op(fixed); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("document number %s already exists", fixed)
			}
			return err
		}
		return nil
	}

	var err error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		number := NewDocumentNumber(prefix, time.Now())
		if err = op(number); err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
		s.log.Warn("document number collision, regenerating", zap.String("number", number))
	}
	return fmt.Errorf("could not generate a unique document number after %d attempts: %w", numberAttempts, err)
}

func insertItems(ctx context.Context, tx pgx.Tx, table, fkColumn string, docID uuid.UUID, items []LineItem) error {
	for i, li := range items {
		_, err := tx.Exec(ctx, fmt.Sprintf(`
			INSERT INTO %s (%s, product_id, description, quantity, price, discount, vat_rate, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, table, fkColumn), docID, li.ProductID, li.Description, li.Quantity, li.Price, li.Discount, li.VATRate, i+1)
		if err != nil {
			return fmt.Errorf("failed to insert line %d: %w", i+1, err)
		}
	}
	return nil
}

// deductStockTx records an 'out' movement per product-linked line, referencing
// the invoice. Lines without a product reference are free-text services and
// never touch the ledger.
func (s *documentService) deductStockTx(ctx context.Context, tx pgx.Tx, invoiceID uuid.UUID, number string, items []LineItem) error {
	for _, li := range items {
		if li.ProductID == nil {
			continue
		}
		ref := invoiceID
		_, err := s.stock.RecordMovementTx(ctx, tx, MovementInput{
			ProductID:   *li.ProductID,
			Type:        MovementOut,
			Quantity:    li.Quantity,
			ReferenceID: &ref,
			Notes:       fmt.Sprintf("sold on invoice %s", number),
		})
		if err != nil {
			return fmt.Errorf("failed to deduct stock for invoice %s: %w", number, err)
		}
	}
	return nil
}

// ── Conversion ───────────────────────────────────────────────────────────────

// ErrAlreadyInvoiced marks a conversion attempt against a quotation that has
// already produced an invoice.
var ErrAlreadyInvoiced = errors.New("quotation has already been invoiced")

func (s *documentService) ConvertQuotationToInvoice(ctx context.Context, quotationID uuid.UUID) (*Invoice, error) {
	var invoiceID uuid.UUID
	err := s.withGeneratedNumber("", InvoicePrefix, func(number string) error {
		var err error
		invoiceID, err = s.convertOnce(ctx, quotationID, number)
		return err
	})
	if err != nil {
		// Re-converting resolves to the invoice the quotation already produced.
		if errors.Is(err, ErrAlreadyInvoiced) && invoiceID != uuid.Nil {
			return s.GetInvoice(ctx, invoiceID)
		}
		return nil, err
	}
	return s.GetInvoice(ctx, invoiceID)
}

// convertOnce runs one conversion attempt in a single transaction. The
// quotation row is locked for the duration, so two concurrent conversions
// serialize and the loser sees status 'invoiced'.
func (s *documentService) convertOnce(ctx context.Context, quotationID uuid.UUID, number string) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		q      Quotation
		status string
	)
	err = tx.QueryRow(ctx, `
		SELECT id, number, customer_id, customer_name, customer_address, customer_tax_id,
		       subtotal, discount_total, vat_total, grand_total, status, notes
		FROM quotations
		WHERE id = $1
		FOR UPDATE
	`, quotationID).Scan(&q.ID, &q.Number, &q.CustomerID, &q.CustomerName, &q.CustomerAddress, &q.CustomerTaxID,
		&q.Subtotal, &q.DiscountTotal, &q.VATTotal, &q.GrandTotal, &status, &q.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, fmt.Errorf("quotation %s not found", quotationID)
		}
		return uuid.Nil, fmt.Errorf("failed to lock quotation %s: %w", quotationID, err)
	}
	q.Status = QuotationStatus(status)

	// Idempotency guard: an invoiced quotation resolves to its existing
	// invoice and never produces a second one.
	if q.Status == QuotationInvoiced {
		var existingID uuid.UUID
		err := tx.QueryRow(ctx,
			"SELECT id FROM invoices WHERE quotation_id = $1", quotationID,
		).Scan(&existingID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// Marked invoiced but no invoice exists: a partially converted
				// state that an operator must reconcile. Surface, never mask.
				s.log.Error("quotation marked invoiced but no invoice references it",
					zap.String("quotation_id", quotationID.String()))
				return uuid.Nil, fmt.Errorf("quotation %s: %w, but no invoice references it", q.Number, ErrAlreadyInvoiced)
			}
			return uuid.Nil, fmt.Errorf("failed to look up existing invoice: %w", err)
		}
		return existingID, ErrAlreadyInvoiced
	}
	if !ConvertibleQuotationStatus(q.Status) {
		return uuid.Nil, fmt.Errorf("quotation %s cannot be converted: status is %s (must be sent or accepted)", q.Number, q.Status)
	}

	items, err := fetchItems(ctx, tx, "quotation_items", "quotation_id", quotationID)
	if err != nil {
		return uuid.Nil, err
	}

	// Invoice dated today, due in 30 days; totals and customer snapshot are
	// copied verbatim from the quotation.
	now := time.Now()
	date := now.Format("2006-01-02")
	dueDate := now.AddDate(0, 0, 30).Format("2006-01-02")

	var invoiceID uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (number, date, due_date, customer_id, customer_name, customer_address, customer_tax_id,
		                      quotation_id, subtotal, discount_total, vat_total, grand_total, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'issued', $13)
		RETURNING id
	`, number, date, dueDate, q.CustomerID, q.CustomerName, q.CustomerAddress, q.CustomerTaxID,
		quotationID, q.Subtotal, q.DiscountTotal, q.VATTotal, q.GrandTotal, q.Notes).Scan(&invoiceID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert converted invoice: %w", err)
	}

	if err := insertItems(ctx, tx, "invoice_items", "invoice_id", invoiceID, items); err != nil {
		return uuid.Nil, err
	}

	if _, err := tx.Exec(ctx,
		"UPDATE quotations SET status = 'invoiced' WHERE id = $1", quotationID,
	); err != nil {
		return uuid.Nil, fmt.Errorf("failed to mark quotation %s as invoiced: %w", q.Number, err)
	}

	for _, li := range items {
		if li.ProductID == nil {
			continue
		}
		ref := invoiceID
		_, err := s.stock.RecordMovementTx(ctx, tx, MovementInput{
			ProductID:   *li.ProductID,
			Type:        MovementOut,
			Quantity:    li.Quantity,
			ReferenceID: &ref,
			Notes:       fmt.Sprintf("sold on invoice %s (converted from quotation %s)", number, q.Number),
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed to deduct stock during conversion of %s: %w", q.Number, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit conversion of quotation %s: %w", q.Number, err)
	}
	return invoiceID, nil
}

// ── Status transitions ───────────────────────────────────────────────────────

func (s *documentService) UpdateQuotationStatus(ctx context.Context, id uuid.UUID, status QuotationStatus) error {
	if status == QuotationInvoiced {
		return errors.New("status invoiced is only reachable by converting the quotation")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current QuotationStatus
	err = tx.QueryRow(ctx,
		"SELECT status FROM quotations WHERE id = $1 FOR UPDATE", id,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("quotation %s not found", id)
		}
		return fmt.Errorf("failed to fetch quotation %s: %w", id, err)
	}

	if !CanTransitionQuotation(current, status) {
		return fmt.Errorf("quotation %s cannot move from %s to %s", id, current, status)
	}

	if _, err := tx.Exec(ctx, "UPDATE quotations SET status = $1 WHERE id = $2", string(status), id); err != nil {
		return fmt.Errorf("failed to update quotation status: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *documentService) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status InvoiceStatus) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current InvoiceStatus
	err = tx.QueryRow(ctx,
		"SELECT status FROM invoices WHERE id = $1 FOR UPDATE", id,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("invoice %s not found", id)
		}
		return fmt.Errorf("failed to fetch invoice %s: %w", id, err)
	}

	if !CanTransitionInvoice(current, status) {
		return fmt.Errorf("invoice %s cannot move from %s to %s", id, current, status)
	}

	if _, err := tx.Exec(ctx, "UPDATE invoices SET status = $1 WHERE id = $2", string(status), id); err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	return tx.Commit(ctx)
}

// ── Queries ──────────────────────────────────────────────────────────────────

const quotationColumns = `id, number, date::text, due_date::text, customer_id, customer_name, customer_address,
	customer_tax_id, subtotal, discount_total, vat_total, grand_total, status, notes, created_at`

const invoiceColumns = `id, number, date::text, due_date::text, customer_id, customer_name, customer_address,
	customer_tax_id, quotation_id, subtotal, discount_total, vat_total, grand_total, status, notes, created_at`

func (s *documentService) GetQuotation(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	var q Quotation
	err := s.pool.QueryRow(ctx,
		"SELECT "+quotationColumns+" FROM quotations WHERE id = $1", id,
	).Scan(&q.ID, &q.Number, &q.Date, &q.DueDate, &q.CustomerID, &q.CustomerName, &q.CustomerAddress,
		&q.CustomerTaxID, &q.Subtotal, &q.DiscountTotal, &q.VATTotal, &q.GrandTotal, &q.Status, &q.Notes, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quotation %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch quotation %s: %w", id, err)
	}

	q.Items, err = fetchItems(ctx, s.pool, "quotation_items", "quotation_id", id)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *documentService) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	var inv Invoice
	err := s.pool.QueryRow(ctx,
		"SELECT "+invoiceColumns+" FROM invoices WHERE id = $1", id,
	).Scan(&inv.ID, &inv.Number, &inv.Date, &inv.DueDate, &inv.CustomerID, &inv.CustomerName, &inv.CustomerAddress,
		&inv.CustomerTaxID, &inv.QuotationID, &inv.Subtotal, &inv.DiscountTotal, &inv.VATTotal, &inv.GrandTotal,
		&inv.Status, &inv.Notes, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("invoice %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch invoice %s: %w", id, err)
	}

	inv.Items, err = fetchItems(ctx, s.pool, "invoice_items", "invoice_id", id)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *documentService) ListQuotations(ctx context.Context, status *QuotationStatus) ([]Quotation, error) {
	query := "SELECT " + quotationColumns + " FROM quotations"
	args := []any{}
	if status != nil {
		query += " WHERE status = $1"
		args = append(args, string(*status))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotations: %w", err)
	}
	defer rows.Close()

	var quotations []Quotation
	for rows.Next() {
		var q Quotation
		if err := rows.Scan(&q.ID, &q.Number, &q.Date, &q.DueDate, &q.CustomerID, &q.CustomerName, &q.CustomerAddress,
			&q.CustomerTaxID, &q.Subtotal, &q.DiscountTotal, &q.VATTotal, &q.GrandTotal, &q.Status, &q.Notes, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quotation: %w", err)
		}
		quotations = append(quotations, q)
	}
	return quotations, rows.Err()
}

func (s *documentService) ListInvoices(ctx context.Context, status *InvoiceStatus) ([]Invoice, error) {
	query := "SELECT " + invoiceColumns + " FROM invoices"
	args := []any{}
	if status != nil {
		query += " WHERE status = $1"
		args = append(args, string(*status))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.Date, &inv.DueDate, &inv.CustomerID, &inv.CustomerName,
			&inv.CustomerAddress, &inv.CustomerTaxID, &inv.QuotationID, &inv.Subtotal, &inv.DiscountTotal,
			&inv.VATTotal, &inv.GrandTotal, &inv.Status, &inv.Notes, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func fetchItems(ctx context.Context, q pgxRowQuerier, table, fkColumn string, docID uuid.UUID) ([]LineItem, error) {
	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT id, product_id, description, quantity, price, discount, vat_rate
		FROM %s
		WHERE %s = $1
		ORDER BY position
	`, table, fkColumn), docID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var li LineItem
		if err := rows.Scan(&li.ID, &li.ProductID, &li.Description, &li.Quantity, &li.Price, &li.Discount, &li.VATRate); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, li)
	}
	return items, rows.Err()
}
