package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerService manages the customer register.
type CustomerService interface {
	Create(ctx context.Context, in CustomerInput) (*Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, id uuid.UUID, in CustomerInput) (*Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerInput carries the writable customer fields.
type CustomerInput struct {
	Name    string
	TaxID   string
	Address string
	Email   string
	Phone   string
	Branch  string
}

type customerService struct {
	pool *pgxpool.Pool
}

func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

const customerColumns = "id, name, tax_id, address, email, phone, branch, created_at"

func (s *customerService) Create(ctx context.Context, in CustomerInput) (*Customer, error) {
	if in.Name == "" {
		return nil, errors.New("customer name must not be empty")
	}

	var c Customer
	err := s.pool.QueryRow(ctx, `
		INSERT INTO customers (name, tax_id, address, email, phone, branch)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+customerColumns,
		in.Name, in.TaxID, in.Address, in.Email, in.Phone, in.Branch,
	).Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.Email, &c.Phone, &c.Branch, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &c, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	var c Customer
	err := s.pool.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = $1", id,
	).Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.Email, &c.Phone, &c.Branch, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("customer %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch customer %s: %w", id, err)
	}
	return &c, nil
}

func (s *customerService) List(ctx context.Context) ([]Customer, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+customerColumns+" FROM customers ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxID, &c.Address, &c.Email, &c.Phone, &c.Branch, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, in CustomerInput) (*Customer, error) {
	if in.Name == "" {
		return nil, errors.New("customer name must not be empty")
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE customers
		SET name = $1, tax_id = $2, address = $3, email = $4, phone = $5, branch = $6
		WHERE id = $7
	`, in.Name, in.TaxID, in.Address, in.Email, in.Phone, in.Branch, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update customer %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("customer %s not found", id)
	}
	return s.Get(ctx, id)
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete customer %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("customer %s not found", id)
	}
	return nil
}
