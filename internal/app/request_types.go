package app

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerRequest is the input for creating or updating a customer.
type CustomerRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Branch  string `json:"branch"`
}

// ProductRequest is the input for creating or updating a product.
// InitialQuantity only applies to creation, where it seeds the opening stock
// movement; it is ignored on update.
type ProductRequest struct {
	Name            string          `json:"name"`
	SKU             string          `json:"sku"`
	Price           decimal.Decimal `json:"price"`
	Unit            string          `json:"unit"`
	Description     string          `json:"description"`
	InitialQuantity decimal.Decimal `json:"initial_quantity"`
	MinStockLevel   decimal.Decimal `json:"min_stock_level"`
}

// StockMovementRequest is the input for a manual stock movement.
type StockMovementRequest struct {
	ProductID uuid.UUID       `json:"product_id"`
	Type      string          `json:"type"` // in | out | adjustment
	Quantity  decimal.Decimal `json:"quantity"`
	Notes     string          `json:"notes"`
}

// DocumentRequest is the shared input for creating a quotation or invoice.
// Number, Date, DueDate and VATRate may be left empty/nil; defaults are a
// generated number, today, today+30 days and 7 percent.
type DocumentRequest struct {
	Number     string              `json:"number"`
	Date       string              `json:"date"`     // YYYY-MM-DD
	DueDate    string              `json:"due_date"` // YYYY-MM-DD
	CustomerID uuid.UUID           `json:"customer_id"`
	Items      []DocumentLineInput `json:"items"`
	VATRate    *decimal.Decimal    `json:"vat_rate"`
	Notes      string              `json:"notes"`
}

// DocumentLineInput is a single line within a DocumentRequest. When ProductID
// is set, an empty Description and a zero Price are filled in from the product.
type DocumentLineInput struct {
	ProductID   *uuid.UUID      `json:"product_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	VATRate     *decimal.Decimal `json:"vat_rate"`
}

// ExpenseRequest is the input for creating or updating an expense. Amount is
// the gross amount paid; when IsVAT is set the deductible VAT portion is
// extracted server-side.
type ExpenseRequest struct {
	Date        string          `json:"date"` // YYYY-MM-DD, defaults to today
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	IsVAT       bool            `json:"is_vat"`
	Category    string          `json:"category"`
	Recipient   string          `json:"recipient"`
}

// RegisterUserRequest is the input for creating a user account.
type RegisterUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}
