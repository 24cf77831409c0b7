package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"micro-account/internal/core"
)

// ErrInvalidCredentials is returned for any login failure. The cause (unknown
// email, wrong password, deactivated account) is deliberately not revealed.
var ErrInvalidCredentials = errors.New("invalid email or password")

const minPasswordLength = 8

type appService struct {
	customers core.CustomerService
	products  core.ProductService
	stock     core.StockService
	documents core.DocumentService
	expenses  core.ExpenseService
	reports   core.ReportService
	users     core.UserService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	customers core.CustomerService,
	products core.ProductService,
	stock core.StockService,
	documents core.DocumentService,
	expenses core.ExpenseService,
	reports core.ReportService,
	users core.UserService,
) ApplicationService {
	return &appService{
		customers: customers,
		products:  products,
		stock:     stock,
		documents: documents,
		expenses:  expenses,
		reports:   reports,
		users:     users,
	}
}

// ── Customers ─────────────────────────────────────────────────────────────────

func (s *appService) ListCustomers(ctx context.Context) ([]core.Customer, error) {
	return s.customers.List(ctx)
}

func (s *appService) GetCustomer(ctx context.Context, id uuid.UUID) (*core.Customer, error) {
	return s.customers.Get(ctx, id)
}

func (s *appService) CreateCustomer(ctx context.Context, req CustomerRequest) (*core.Customer, error) {
	return s.customers.Create(ctx, customerInput(req))
}

func (s *appService) UpdateCustomer(ctx context.Context, id uuid.UUID, req CustomerRequest) (*core.Customer, error) {
	return s.customers.Update(ctx, id, customerInput(req))
}

func (s *appService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return s.customers.Delete(ctx, id)
}

func customerInput(req CustomerRequest) core.CustomerInput {
	return core.CustomerInput{
		Name:    req.Name,
		TaxID:   req.TaxID,
		Address: req.Address,
		Email:   req.Email,
		Phone:   req.Phone,
		Branch:  req.Branch,
	}
}

// ── Products & stock ──────────────────────────────────────────────────────────

func (s *appService) ListProducts(ctx context.Context) ([]core.Product, error) {
	return s.products.List(ctx)
}

func (s *appService) ListLowStockProducts(ctx context.Context) ([]core.Product, error) {
	return s.products.ListLowStock(ctx)
}

func (s *appService) GetProduct(ctx context.Context, id uuid.UUID) (*core.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *appService) CreateProduct(ctx context.Context, req ProductRequest) (*core.Product, error) {
	return s.products.Create(ctx, productInput(req))
}

func (s *appService) UpdateProduct(ctx context.Context, id uuid.UUID, req ProductRequest) (*core.Product, error) {
	return s.products.Update(ctx, id, productInput(req))
}

func (s *appService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.products.Delete(ctx, id)
}

func productInput(req ProductRequest) core.ProductInput {
	return core.ProductInput{
		Name:            req.Name,
		SKU:             req.SKU,
		Price:           req.Price,
		Unit:            req.Unit,
		Description:     req.Description,
		InitialQuantity: req.InitialQuantity,
		MinStockLevel:   req.MinStockLevel,
	}
}

func (s *appService) RecordStockMovement(ctx context.Context, req StockMovementRequest) (*core.StockMovement, error) {
	return s.stock.RecordMovement(ctx, core.MovementInput{
		ProductID: req.ProductID,
		Type:      core.MovementType(req.Type),
		Quantity:  req.Quantity,
		Notes:     req.Notes,
	})
}

func (s *appService) GetStockMovements(ctx context.Context, productID uuid.UUID) ([]core.StockMovement, error) {
	return s.stock.GetMovements(ctx, productID)
}

func (s *appService) ReconcileStock(ctx context.Context, productID uuid.UUID) (*core.StockReconciliation, error) {
	return s.stock.Reconcile(ctx, productID)
}

// ── Quotations & invoices ─────────────────────────────────────────────────────

func (s *appService) CreateQuotation(ctx context.Context, req DocumentRequest) (*core.Quotation, error) {
	in, err := s.documentInput(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.documents.CreateQuotation(ctx, in)
}

func (s *appService) GetQuotation(ctx context.Context, id uuid.UUID) (*core.Quotation, error) {
	return s.documents.GetQuotation(ctx, id)
}

func (s *appService) ListQuotations(ctx context.Context, status *core.QuotationStatus) ([]core.Quotation, error) {
	return s.documents.ListQuotations(ctx, status)
}

func (s *appService) UpdateQuotationStatus(ctx context.Context, id uuid.UUID, status core.QuotationStatus) (*core.Quotation, error) {
	if err := s.documents.UpdateQuotationStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.documents.GetQuotation(ctx, id)
}

func (s *appService) ConvertQuotation(ctx context.Context, id uuid.UUID) (*core.Invoice, error) {
	return s.documents.ConvertQuotationToInvoice(ctx, id)
}

func (s *appService) CreateInvoice(ctx context.Context, req DocumentRequest) (*core.Invoice, error) {
	in, err := s.documentInput(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.documents.CreateInvoice(ctx, in)
}

func (s *appService) GetInvoice(ctx context.Context, id uuid.UUID) (*core.Invoice, error) {
	return s.documents.GetInvoice(ctx, id)
}

func (s *appService) ListInvoices(ctx context.Context, status *core.InvoiceStatus) ([]core.Invoice, error) {
	return s.documents.ListInvoices(ctx, status)
}

func (s *appService) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, status core.InvoiceStatus) (*core.Invoice, error) {
	if err := s.documents.UpdateInvoiceStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.documents.GetInvoice(ctx, id)
}

// documentInput applies the request defaults and resolves product-linked lines.
// An empty line description or zero price is filled in from the product record.
func (s *appService) documentInput(ctx context.Context, req DocumentRequest) (core.DocumentInput, error) {
	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	dueDate := req.DueDate
	if dueDate == "" {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			return core.DocumentInput{}, fmt.Errorf("invalid document date %q: %w", date, err)
		}
		dueDate = d.AddDate(0, 0, 30).Format("2006-01-02")
	}

	vatRate := core.DefaultVATRate
	if req.VATRate != nil {
		vatRate = *req.VATRate
	}

	items := make([]core.LineItem, len(req.Items))
	for i, l := range req.Items {
		li := core.LineItem{
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			Price:       l.Price,
			Discount:    l.Discount,
			VATRate:     vatRate,
		}
		if l.VATRate != nil {
			li.VATRate = *l.VATRate
		}
		if l.ProductID != nil && (li.Description == "" || li.Price.IsZero()) {
			p, err := s.products.Get(ctx, *l.ProductID)
			if err != nil {
				return core.DocumentInput{}, fmt.Errorf("line %d: %w", i+1, err)
			}
			if li.Description == "" {
				li.Description = p.Name
			}
			if li.Price.IsZero() {
				li.Price = p.Price
			}
		}
		items[i] = li
	}

	return core.DocumentInput{
		Number:     req.Number,
		Date:       date,
		DueDate:    dueDate,
		CustomerID: req.CustomerID,
		Items:      items,
		VATRate:    vatRate,
		Notes:      req.Notes,
	}, nil
}

// ── Expenses ──────────────────────────────────────────────────────────────────

func (s *appService) ListExpenses(ctx context.Context, fromDate, toDate string) ([]core.Expense, error) {
	return s.expenses.List(ctx, fromDate, toDate)
}

func (s *appService) CreateExpense(ctx context.Context, req ExpenseRequest) (*core.Expense, error) {
	return s.expenses.Create(ctx, expenseInput(req))
}

func (s *appService) UpdateExpense(ctx context.Context, id uuid.UUID, req ExpenseRequest) (*core.Expense, error) {
	return s.expenses.Update(ctx, id, expenseInput(req))
}

func (s *appService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	return s.expenses.Delete(ctx, id)
}

func expenseInput(req ExpenseRequest) core.ExpenseInput {
	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	return core.ExpenseInput{
		Date:        date,
		Description: req.Description,
		Amount:      req.Amount,
		IsVAT:       req.IsVAT,
		Category:    req.Category,
		Recipient:   req.Recipient,
	}
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (s *appService) GetVATReport(ctx context.Context, year, month int) (*core.VATReport, error) {
	return s.reports.VATReport(ctx, year, month)
}

func (s *appService) GetDashboardSummary(ctx context.Context) (*core.DashboardSummary, error) {
	return s.reports.DashboardSummary(ctx)
}

// ── Users & auth ──────────────────────────────────────────────────────────────

func (s *appService) AuthenticateUser(ctx context.Context, email, password string) (*UserSession, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &UserSession{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}, nil
}

func (s *appService) GetUser(ctx context.Context, id uuid.UUID) (*core.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *appService) ListUsers(ctx context.Context) ([]core.User, error) {
	return s.users.List(ctx)
}

func (s *appService) RegisterUser(ctx context.Context, req RegisterUserRequest) (*core.User, error) {
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	role := core.Role(req.Role)
	if req.Role == "" {
		role = core.RoleUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.Create(ctx, core.UserInput{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
		Role:         role,
	})
}

func (s *appService) UpdateUserRole(ctx context.Context, id uuid.UUID, role core.Role) error {
	return s.users.UpdateRole(ctx, id, role)
}

func (s *appService) SetUserActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.users.SetActive(ctx, id, active)
}
