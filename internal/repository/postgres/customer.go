package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/engage/internal/domain"
	"github.com/ignite/engage/internal/segment"
	"github.com/ignite/engage/internal/service/customer"
)

// CustomerRepository implements customer.Repository and the segmentation
// audience source on Postgres.
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a customer repository.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, c *domain.Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, owner_id, name, email, phone, total_spend, total_orders, last_order_date, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9)`,
		c.ID, c.OwnerID, c.Name, c.Email, c.Phone,
		c.TotalSpend, c.TotalOrders, c.LastOrderDate, c.CreatedAt,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", customer.ErrDuplicate, c.Email)
	}
	if err != nil {
		return fmt.Errorf("inserting customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) List(ctx context.Context, ownerID string) ([]domain.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, email, COALESCE(phone, ''), total_spend, total_orders, last_order_date, created_at
		FROM customers
		WHERE owner_id = $1
		ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	defer rows.Close()
	return scanCustomers(rows)
}

func (r *CustomerRepository) Get(ctx context.Context, ownerID, id string) (*domain.Customer, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, email, COALESCE(phone, ''), total_spend, total_orders, last_order_date, created_at
		FROM customers
		WHERE owner_id = $1 AND id = $2`, ownerID, id)

	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customer.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading customer: %w", err)
	}
	return c, nil
}

// MatchSegment resolves a rule to its matching customers with a single
// generated query.
func (r *CustomerRepository) MatchSegment(ctx context.Context, ownerID string, rule *segment.Rule) ([]domain.Customer, error) {
	// Builders carry per-build state, so each request gets its own.
	query, args := segment.NewQueryBuilder().BuildQuery(ownerID, rule)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("matching segment: %w", err)
	}
	defer rows.Close()
	return scanCustomers(rows)
}

// Count returns the number of customers for an owner.
func (r *CustomerRepository) Count(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE owner_id = $1`, ownerID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting customers: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*domain.Customer, error) {
	var (
		c    domain.Customer
		last sql.NullTime
	)
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone,
		&c.TotalSpend, &c.TotalOrders, &last, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if last.Valid {
		t := last.Time
		c.LastOrderDate = &t
	}
	return &c, nil
}

func scanCustomers(rows *sql.Rows) ([]domain.Customer, error) {
	var out []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
