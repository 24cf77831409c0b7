package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockService is the append-only stock ledger. Movements are the sole source
// of truth for stock history; products.stock_quantity is a cached projection
// maintained in the same transaction as each movement insert.
type StockService interface {
	// RecordMovement appends a movement and applies its quantity delta in one
	// transaction. Direction is carried by the movement type, never by sign.
	RecordMovement(ctx context.Context, in MovementInput) (*StockMovement, error)

	// RecordMovementTx is the composition variant: it runs within the caller's
	// transaction so document creation and stock deduction commit atomically.
	RecordMovementTx(ctx context.Context, tx pgx.Tx, in MovementInput) (*StockMovement, error)

	// GetMovements returns the full movement history for a product, most
	// recent first. Pure read. The product itself may no longer exist;
	// history outlives deletion.
	GetMovements(ctx context.Context, productID uuid.UUID) ([]StockMovement, error)

	// Reconcile recomputes the stock quantity as the signed sum of in/out
	// movements (adjustments are ignored) and compares it with the cached
	// value, logging any divergence as a reportable inconsistency.
	Reconcile(ctx context.Context, productID uuid.UUID) (*StockReconciliation, error)
}

// MovementInput describes a movement to append.
type MovementInput struct {
	ProductID   uuid.UUID
	Type        MovementType
	Quantity    decimal.Decimal // positive magnitude
	ReferenceID *uuid.UUID      // originating document, if any
	Notes       string
}

// StockReconciliation reports a ledger-vs-cache comparison for one product.
type StockReconciliation struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Cached     decimal.Decimal `json:"cached"`
	Computed   decimal.Decimal `json:"computed"`
	Consistent bool            `json:"consistent"`
}

type stockService struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func NewStockService(pool *pgxpool.Pool, log *zap.Logger) StockService {
	return &stockService{pool: pool, log: log}
}

func (s *stockService) RecordMovement(ctx context.Context, in MovementInput) (*StockMovement, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	m, err := s.RecordMovementTx(ctx, tx, in)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit stock movement: %w", err)
	}
	return m, nil
}

// RecordMovementTx appends the movement row and applies the delta inside the
// caller's transaction. The quantity update is a single server-side
// `stock_quantity = stock_quantity + delta`, so concurrent writers to the
// same product never lose updates, and a reader inside a later snapshot can
// never see the movement without its delta (or vice versa).
func (s *stockService) RecordMovementTx(ctx context.Context, tx pgx.Tx, in MovementInput) (*StockMovement, error) {
	if !ValidMovementType(in.Type) {
		return nil, fmt.Errorf("invalid movement type %q", in.Type)
	}
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("movement quantity must be > 0, got %s", in.Quantity)
	}

	// The product must exist when the movement is recorded, even though
	// history later survives its deletion.
	var exists bool
	err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)", in.ProductID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check product %s: %w", in.ProductID, err)
	}
	if !exists {
		return nil, fmt.Errorf("product %s not found", in.ProductID)
	}

	m := &StockMovement{
		ProductID:   in.ProductID,
		Type:        in.Type,
		Quantity:    in.Quantity,
		ReferenceID: in.ReferenceID,
		Notes:       in.Notes,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO stock_movements (product_id, type, quantity, reference_id, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, in.ProductID, string(in.Type), in.Quantity, in.ReferenceID, in.Notes).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert stock movement: %w", err)
	}

	// in = +qty, out = -qty, adjustment = annotation only (no delta).
	var delta decimal.Decimal
	switch in.Type {
	case MovementIn:
		delta = in.Quantity
	case MovementOut:
		delta = in.Quantity.Neg()
	case MovementAdjustment:
		return m, nil
	}

	// Atomic server-side increment. Out movements may drive the quantity
	// negative; the ledger records, it does not block — low-stock reporting
	// flags the condition instead.
	_, err = tx.Exec(ctx,
		"UPDATE products SET stock_quantity = stock_quantity + $1 WHERE id = $2",
		delta, in.ProductID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update stock quantity for product %s: %w", in.ProductID, err)
	}

	return m, nil
}

func (s *stockService) GetMovements(ctx context.Context, productID uuid.UUID) ([]StockMovement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, product_id, type, quantity, reference_id, notes, created_at
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock movements: %w", err)
	}
	defer rows.Close()

	var movements []StockMovement
	for rows.Next() {
		var m StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.ReferenceID, &m.Notes, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

func (s *stockService) Reconcile(ctx context.Context, productID uuid.UUID) (*StockReconciliation, error) {
	var cached decimal.Decimal
	err := s.pool.QueryRow(ctx,
		"SELECT stock_quantity FROM products WHERE id = $1", productID,
	).Scan(&cached)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %s not found", productID)
		}
		return nil, fmt.Errorf("failed to read cached stock quantity: %w", err)
	}

	var computed decimal.Decimal
	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE type
			WHEN 'in'  THEN quantity
			WHEN 'out' THEN -quantity
			ELSE 0 END), 0)
		FROM stock_movements
		WHERE product_id = $1
	`, productID).Scan(&computed)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute stock from movements: %w", err)
	}

	rec := &StockReconciliation{
		ProductID:  productID,
		Cached:     cached,
		Computed:   computed,
		Consistent: cached.Equal(computed),
	}
	if !rec.Consistent {
		s.log.Warn("stock ledger divergence",
			zap.String("product_id", productID.String()),
			zap.String("cached", cached.String()),
			zap.String("computed", computed.String()),
		)
	}
	return rec, nil
}
