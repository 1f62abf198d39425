// Package order records purchases and keeps the customer segmentation
// accumulators in sync with them.
package order

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/engage/internal/cache"
	"github.com/ignite/engage/internal/domain"
)

// CreateRequest carries the fields for a new order. OrderDate defaults to
// now when zero.
type CreateRequest struct {
	CustomerID string    `json:"customer_id"`
	Amount     float64   `json:"amount"`
	OrderDate  time.Time `json:"order_date,omitempty"`
}

// Service implements order creation and listing.
type Service struct {
	repo  Repository
	cache cache.Cache
}

// NewService creates an order service. cache may be nil.
func NewService(repo Repository, c cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

// Create validates and persists an order. The repository bumps the
// customer accumulators in the same transaction, so a failed insert leaves
// the accumulators untouched.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (*domain.Order, error) {
	if req.CustomerID == "" {
		return nil, fmt.Errorf("%w: empty customer id", ErrCustomerNotFound)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: %.2f", ErrInvalidAmount, req.Amount)
	}

	orderDate := req.OrderDate
	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}

	o := &domain.Order{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
		OrderDate:  orderDate,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.invalidate(ctx, ownerID)
	return o, nil
}

// List returns the owner's orders, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]domain.Order, error) {
	return s.repo.List(ctx, ownerID)
}

func (s *Service) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.OwnerKeys(ownerID)...); err != nil {
		log.Printf("[Order] cache invalidation failed for owner %s: %v", ownerID, err)
	}
}
