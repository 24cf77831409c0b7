package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ExpenseService manages outgoing costs. Expenses are independent of the stock
// ledger and the document lifecycle; their only downstream consumer is the VAT
// report, which reads VATAmount as deductible input VAT.
type ExpenseService interface {
	// Create persists the expense. For VAT-bearing expenses the VAT portion is
	// always recomputed server-side from the VAT-inclusive amount; a client-
	// supplied figure is never trusted.
	Create(ctx context.Context, in ExpenseInput) (*Expense, error)
	Get(ctx context.Context, id uuid.UUID) (*Expense, error)
	// List returns expenses within the optional date range (YYYY-MM-DD bounds,
	// empty string for no bound), most recent first.
	List(ctx context.Context, fromDate, toDate string) ([]Expense, error)
	Update(ctx context.Context, id uuid.UUID, in ExpenseInput) (*Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ExpenseInput carries the writable expense fields. Amount is the gross amount
// paid; when IsVAT is set it is treated as VAT-inclusive.
type ExpenseInput struct {
	Date        string // YYYY-MM-DD
	Description string
	Amount      decimal.Decimal
	IsVAT       bool
	Category    string
	Recipient   string
}

func (in ExpenseInput) validate() error {
	if in.Description == "" {
		return errors.New("expense description must not be empty")
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("expense amount must be > 0, got %s", in.Amount)
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return fmt.Errorf("invalid expense date %q: %w", in.Date, err)
	}
	return nil
}

// vatAmount extracts the VAT portion for storage: zero for non-VAT expenses,
// gross * 7/107 otherwise, rounded to satang since the extraction can produce
// a repeating decimal.
func (in ExpenseInput) vatAmount() decimal.Decimal {
	if !in.IsVAT {
		return decimal.Zero
	}
	return ExpenseVATFromGross(in.Amount, DefaultVATRate).Round(2)
}

type expenseService struct {
	pool *pgxpool.Pool
}

func NewExpenseService(pool *pgxpool.Pool) ExpenseService {
	return &expenseService{pool: pool}
}

const expenseColumns = "id, date::text, description, amount, is_vat, vat_amount, category, recipient, created_at"

func scanExpense(row pgx.Row) (*Expense, error) {
	var e Expense
	err := row.Scan(&e.ID, &e.Date, &e.Description, &e.Amount, &e.IsVAT, &e.VATAmount,
		&e.Category, &e.Recipient, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *expenseService) Create(ctx context.Context, in ExpenseInput) (*Expense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	e, err := scanExpense(s.pool.QueryRow(ctx, `
		INSERT INTO expenses (date, description, amount, is_vat, vat_amount, category, recipient)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+expenseColumns,
		in.Date, in.Description, in.Amount, in.IsVAT, in.vatAmount(), in.Category, in.Recipient,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return e, nil
}

func (s *expenseService) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	e, err := scanExpense(s.pool.QueryRow(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("expense %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch expense %s: %w", id, err)
	}
	return e, nil
}

func (s *expenseService) List(ctx context.Context, fromDate, toDate string) ([]Expense, error) {
	q := "SELECT " + expenseColumns + " FROM expenses"
	var (
		args  []any
		where []string
	)
	if fromDate != "" {
		args = append(args, fromDate)
		where = append(where, fmt.Sprintf("date >= $%d::date", len(args)))
	}
	if toDate != "" {
		args = append(args, toDate)
		where = append(where, fmt.Sprintf("date <= $%d::date", len(args)))
	}
	for i, cond := range where {
		if i == 0 {
			q += " WHERE " + cond
		} else {
			q += " AND " + cond
		}
	}
	q += " ORDER BY date DESC, created_at DESC"

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Date, &e.Description, &e.Amount, &e.IsVAT, &e.VATAmount,
			&e.Category, &e.Recipient, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *expenseService) Update(ctx context.Context, id uuid.UUID, in ExpenseInput) (*Expense, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE expenses
		SET date = $1, description = $2, amount = $3, is_vat = $4, vat_amount = $5, category = $6, recipient = $7
		WHERE id = $8
	`, in.Date, in.Description, in.Amount, in.IsVAT, in.vatAmount(), in.Category, in.Recipient, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("expense %s not found", id)
	}
	return s.Get(ctx, id)
}

func (s *expenseService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM expenses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("expense %s not found", id)
	}
	return nil
}
