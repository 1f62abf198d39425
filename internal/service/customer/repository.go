package customer

import (
	"context"

	"github.com/ignite/engage/internal/domain"
)

// Repository persists customers.
type Repository interface {
	Create(ctx context.Context, c *domain.Customer) error
	// List returns the owner's customers, newest first.
	List(ctx context.Context, ownerID string) ([]domain.Customer, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Customer, error)
}
