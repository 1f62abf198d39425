package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignite/engage/internal/domain"
	"github.com/ignite/engage/internal/service/order"
)

// OrderRepository implements order.Repository on Postgres.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates an order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order and bumps the customer accumulators in one
// transaction. The customer row is locked so concurrent orders for the
// same customer serialize instead of losing updates.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning order tx: %w", err)
	}
	defer tx.Rollback()

	var customerID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM customers WHERE owner_id = $1 AND id = $2 FOR UPDATE`,
		o.OwnerID, o.CustomerID).Scan(&customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return order.ErrCustomerNotFound
	}
	if err != nil {
		return fmt.Errorf("locking customer: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, owner_id, customer_id, amount, order_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.OwnerID, o.CustomerID, o.Amount, o.OrderDate, o.CreatedAt); err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE customers
		SET total_spend = total_spend + $1,
		    total_orders = total_orders + 1,
		    last_order_date = GREATEST(COALESCE(last_order_date, $2), $2)
		WHERE owner_id = $3 AND id = $4`,
		o.Amount, o.OrderDate, o.OwnerID, o.CustomerID); err != nil {
		return fmt.Errorf("updating customer accumulators: %w", err)
	}

	return tx.Commit()
}

func (r *OrderRepository) List(ctx context.Context, ownerID string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, customer_id, amount, order_date, created_at
		FROM orders
		WHERE owner_id = $1
		ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.OwnerID, &o.CustomerID, &o.Amount, &o.OrderDate, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Count returns the number of orders for an owner.
func (r *OrderRepository) Count(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE owner_id = $1`, ownerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting orders: %w", err)
	}
	return n, nil
}

// Revenue returns the total order amount for an owner.
func (r *OrderRepository) Revenue(ctx context.Context, ownerID string) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM orders WHERE owner_id = $1`, ownerID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing revenue: %w", err)
	}
	return total, nil
}
