package app

import (
	"context"

	"github.com/google/uuid"

	"micro-account/internal/core"
)

// ApplicationService is the single interface the web adapter calls. It
// decouples presentation from business logic: implementations contain no
// HTTP types and no display logic of any kind.
type ApplicationService interface {
	// ── Customers ──
	ListCustomers(ctx context.Context) ([]core.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*core.Customer, error)
	CreateCustomer(ctx context.Context, req CustomerRequest) (*core.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req CustomerRequest) (*core.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	// ── Products & stock ──
	ListProducts(ctx context.Context) ([]core.Product, error)
	ListLowStockProducts(ctx context.Context) ([]core.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*core.Product, error)
	CreateProduct(ctx context.Context, req ProductRequest) (*core.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req ProductRequest) (*core.Product, error)
	// DeleteProduct removes a product from the catalogue. Its movement history
	// stays queryable through GetStockMovements.
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	// RecordStockMovement appends a manual ledger entry ('in', 'out' or the
	// zero-delta 'adjustment' annotation).
	RecordStockMovement(ctx context.Context, req StockMovementRequest) (*core.StockMovement, error)
	GetStockMovements(ctx context.Context, productID uuid.UUID) ([]core.StockMovement, error)
	ReconcileStock(ctx context.Context, productID uuid.UUID) (*core.StockReconciliation, error)

	// ── Quotations & invoices ──
	CreateQuotation(ctx context.Context, req DocumentRequest) (*core.Quotation, error)
	GetQuotation(ctx context.Context, id uuid.UUID) (*core.Quotation, error)
	ListQuotations(ctx context.Context, status *core.QuotationStatus) ([]core.Quotation, error)
	UpdateQuotationStatus(ctx context.Context, id uuid.UUID, status core.QuotationStatus) (*core.Quotation, error)
	// ConvertQuotation turns a sent or accepted quotation into an issued
	// invoice. Re-converting returns the invoice created the first time.
	ConvertQuotation(ctx context.Context, id uuid.UUID) (*core.Invoice, error)

	CreateInvoice(ctx context.Context, req DocumentRequest) (*core.Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*core.Invoice, error)
	ListInvoices(ctx context.Context, status *core.InvoiceStatus) ([]core.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status core.InvoiceStatus) (*core.Invoice, error)

	// ── Expenses ──
	ListExpenses(ctx context.Context, fromDate, toDate string) ([]core.Expense, error)
	CreateExpense(ctx context.Context, req ExpenseRequest) (*core.Expense, error)
	UpdateExpense(ctx context.Context, id uuid.UUID, req ExpenseRequest) (*core.Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error

	// ── Reports ──
	GetVATReport(ctx context.Context, year, month int) (*core.VATReport, error)
	GetDashboardSummary(ctx context.Context) (*core.DashboardSummary, error)

	// ── Users & auth ──
	// AuthenticateUser verifies credentials and returns a session on success.
	AuthenticateUser(ctx context.Context, email, password string) (*UserSession, error)
	GetUser(ctx context.Context, id uuid.UUID) (*core.User, error)
	ListUsers(ctx context.Context) ([]core.User, error)
	// RegisterUser creates an account with a freshly hashed password.
	RegisterUser(ctx context.Context, req RegisterUserRequest) (*core.User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role core.Role) error
	SetUserActive(ctx context.Context, id uuid.UUID, active bool) error
}

// UserSession is the authenticated identity carried in the JWT claims.
type UserSession struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        core.Role `json:"role"`
}
