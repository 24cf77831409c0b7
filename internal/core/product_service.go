package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ProductService manages the product catalogue. Stock quantity is owned by
// the StockService; the only write this service performs against it is the
// synthetic opening movement at creation time.
type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*Product, error)
	Get(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, id uuid.UUID, in ProductInput) (*Product, error)
	// Delete removes the product. Its stock movements are kept: the ledger is
	// append-only and history must outlive the product it describes.
	Delete(ctx context.Context, id uuid.UUID) error
	// ListLowStock returns products at or below their minimum stock level.
	ListLowStock(ctx context.Context) ([]Product, error)
}

// ProductInput carries the writable product fields. InitialQuantity is only
// honoured by Create, where it produces an opening 'in' movement.
type ProductInput struct {
	Name            string
	SKU             string
	Price           decimal.Decimal
	Unit            string
	Description     string
	InitialQuantity decimal.Decimal
	MinStockLevel   decimal.Decimal
}

func (in ProductInput) validate() error {
	if in.Name == "" {
		return errors.New("product name must not be empty")
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("product price must be >= 0, got %s", in.Price)
	}
	if in.InitialQuantity.IsNegative() {
		return fmt.Errorf("initial quantity must be >= 0, got %s", in.InitialQuantity)
	}
	if in.MinStockLevel.IsNegative() {
		return fmt.Errorf("minimum stock level must be >= 0, got %s", in.MinStockLevel)
	}
	return nil
}

type productService struct {
	pool  *pgxpool.Pool
	stock StockService
}

func NewProductService(pool *pgxpool.Pool, stock StockService) ProductService {
	return &productService{pool: pool, stock: stock}
}

const productColumns = "id, name, sku, price, unit, description, stock_quantity, min_stock_level, created_at"

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.Unit, &p.Description,
		&p.StockQuantity, &p.MinStockLevel, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the product and, when an initial quantity is given, records
// the opening 'in' movement in the same transaction, so the cached quantity
// and the ledger agree from the first moment.
func (s *productService) Create(ctx context.Context, in ProductInput) (*Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx, `
		INSERT INTO products (name, sku, price, unit, description, stock_quantity, min_stock_level)
		VALUES ($1, $2, $3, $4, $5, 0, $6)
		RETURNING id
	`, in.Name, in.SKU, in.Price, in.Unit, in.Description, in.MinStockLevel).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}

	if in.InitialQuantity.IsPositive() {
		_, err = s.stock.RecordMovementTx(ctx, tx, MovementInput{
			ProductID: id,
			Type:      MovementIn,
			Quantity:  in.InitialQuantity,
			Notes:     "opening quantity at product creation",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to record opening stock movement: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit product creation: %w", err)
	}

	return s.Get(ctx, id)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %s not found", id)
		}
		return nil, fmt.Errorf("failed to fetch product %s: %w", id, err)
	}
	return p, nil
}

func (s *productService) List(ctx context.Context) ([]Product, error) {
	return s.listWhere(ctx, "", nil)
}

func (s *productService) ListLowStock(ctx context.Context) ([]Product, error) {
	return s.listWhere(ctx, "WHERE stock_quantity <= min_stock_level", nil)
}

func (s *productService) listWhere(ctx context.Context, where string, args []any) ([]Product, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+productColumns+" FROM products "+where+" ORDER BY name", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.Unit, &p.Description,
			&p.StockQuantity, &p.MinStockLevel, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Update rewrites the catalogue fields. Stock quantity is deliberately not
// touchable here; it only moves through the ledger.
func (s *productService) Update(ctx context.Context, id uuid.UUID, in ProductInput) (*Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE products
		SET name = $1, sku = $2, price = $3, unit = $4, description = $5, min_stock_level = $6
		WHERE id = $7
	`, in.Name, in.SKU, in.Price, in.Unit, in.Description, in.MinStockLevel, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("product %s not found", id)
	}
	return s.Get(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", id)
	}
	return nil
}
