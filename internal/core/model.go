package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceIssued    InvoiceStatus = "issued"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

type QuotationStatus string

const (
	QuotationDraft    QuotationStatus = "draft"
	QuotationSent     QuotationStatus = "sent"
	QuotationAccepted QuotationStatus = "accepted"
	QuotationRejected QuotationStatus = "rejected"
	QuotationInvoiced QuotationStatus = "invoiced"
	QuotationExpired  QuotationStatus = "expired"
)

type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
	// MovementAdjustment is an annotation-only record: it appears in the
	// movement history but carries a zero quantity delta.
	MovementAdjustment MovementType = "adjustment"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleViewer Role = "viewer"
)

// Customer is a billable party. Documents snapshot its name/address/tax-id at
// creation time, so later edits never rewrite issued paperwork.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Address   string    `json:"address"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Branch    string    `json:"branch"` // head office / branch designation on Thai tax invoices
	CreatedAt time.Time `json:"created_at"`
}

// Product is a sellable, optionally stockable item. StockQuantity is a cached
// projection of the stock_movements ledger, never edited directly.
type Product struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Price         decimal.Decimal `json:"price"`
	Unit          string          `json:"unit"`
	Description   string          `json:"description"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LineItem is the shared line shape for quotations and invoices. Lines are
// owned by exactly one document and are never shared or re-parented.
type LineItem struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"` // absolute amount in THB, not a percentage
	VATRate     decimal.Decimal `json:"vat_rate"`
}

// Validate checks the construction-time invariants of a line. Callers validate
// once here; downstream code trusts validated lines.
func (li LineItem) Validate() error {
	if li.Description == "" {
		return errors.New("line item description must not be empty")
	}
	if !li.Quantity.IsPositive() {
		return fmt.Errorf("line item quantity must be > 0, got %s", li.Quantity)
	}
	if li.Price.IsNegative() {
		return fmt.Errorf("line item price must be >= 0, got %s", li.Price)
	}
	if li.Discount.IsNegative() {
		return fmt.Errorf("line item discount must be >= 0, got %s", li.Discount)
	}
	if li.VATRate.IsNegative() || li.VATRate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("line item vat rate must be between 0 and 100, got %s", li.VATRate)
	}
	return nil
}

// Quotation is a non-binding price offer. Totals are a snapshot computed at
// creation, not a live view over the items.
type Quotation struct {
	ID              uuid.UUID       `json:"id"`
	Number          string          `json:"number"`
	Date            string          `json:"date"`     // YYYY-MM-DD
	DueDate         string          `json:"due_date"` // expiry date of the offer
	CustomerID      uuid.UUID       `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerAddress string          `json:"customer_address"`
	CustomerTaxID   string          `json:"customer_tax_id"`
	Items           []LineItem      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountTotal   decimal.Decimal `json:"discount_total"`
	VATTotal        decimal.Decimal `json:"vat_total"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	Status          QuotationStatus `json:"status"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Invoice mirrors Quotation plus an optional back-reference to the quotation
// it was converted from.
type Invoice struct {
	ID              uuid.UUID       `json:"id"`
	Number          string          `json:"number"`
	Date            string          `json:"date"`
	DueDate         string          `json:"due_date"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerAddress string          `json:"customer_address"`
	CustomerTaxID   string          `json:"customer_tax_id"`
	QuotationID     *uuid.UUID      `json:"quotation_id,omitempty"`
	Items           []LineItem      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountTotal   decimal.Decimal `json:"discount_total"`
	VATTotal        decimal.Decimal `json:"vat_total"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	Status          InvoiceStatus   `json:"status"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
}

// StockMovement is one immutable row of the stock ledger. Quantity is always a
// positive magnitude; direction is carried by Type. ReferenceID links sale
// movements back to the invoice that caused them.
type StockMovement struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Type        MovementType    `json:"type"`
	Quantity    decimal.Decimal `json:"quantity"`
	ReferenceID *uuid.UUID      `json:"reference_id,omitempty"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Expense is an outgoing cost, independent of the stock ledger. VATAmount is
// only meaningful when IsVAT is set and is extracted from the VAT-inclusive
// Amount (see ExpenseVATFromGross).
type Expense struct {
	ID          uuid.UUID       `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	IsVAT       bool            `json:"is_vat"`
	VATAmount   decimal.Decimal `json:"vat_amount"`
	Category    string          `json:"category"`
	Recipient   string          `json:"recipient"`
	CreatedAt   time.Time       `json:"created_at"`
}

// User is an authenticated account. Role gates the admin endpoints.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// invoiceTransitions is the invoice state machine. paid and cancelled are
// terminal; an overdue invoice can still be settled or voided.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:   {InvoiceIssued, InvoiceCancelled},
	InvoiceIssued:  {InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoiceOverdue: {InvoicePaid, InvoiceCancelled},
}

// quotationTransitions is the quotation state machine. invoiced is reachable
// only through conversion (see DocumentService.ConvertQuotationToInvoice) and
// deliberately absent here.
var quotationTransitions = map[QuotationStatus][]QuotationStatus{
	QuotationDraft: {QuotationSent},
	QuotationSent:  {QuotationAccepted, QuotationRejected, QuotationExpired},
}

// CanTransitionInvoice reports whether an invoice may move from one status to another.
func CanTransitionInvoice(from, to InvoiceStatus) bool {
	for _, s := range invoiceTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanTransitionQuotation reports whether a quotation may move from one status
// to another via a plain status update. Conversion to invoiced is not a plain
// status update and always returns false here.
func CanTransitionQuotation(from, to QuotationStatus) bool {
	for _, s := range quotationTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ConvertibleQuotationStatus reports whether a quotation in the given status
// may be converted to an invoice.
func ConvertibleQuotationStatus(s QuotationStatus) bool {
	return s == QuotationSent || s == QuotationAccepted
}

// ValidMovementType reports whether t is one of the three ledger movement types.
func ValidMovementType(t MovementType) bool {
	return t == MovementIn || t == MovementOut || t == MovementAdjustment
}

// ValidRole reports whether r is an assignable user role.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleUser || r == RoleViewer
}
