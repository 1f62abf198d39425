package order

import (
	"context"

	"github.com/ignite/engage/internal/domain"
)

// Repository persists orders. Create must atomically insert the order and
// bump the customer's totalSpend/totalOrders/lastOrderDate accumulators;
// implementations return ErrCustomerNotFound when the customer does not
// exist under the owner.
type Repository interface {
	Create(ctx context.Context, o *domain.Order) error
	// List returns the owner's orders, newest first.
	List(ctx context.Context, ownerID string) ([]domain.Order, error)
}
