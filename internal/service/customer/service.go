// Package customer manages an owner's contact list. The customer list is
// the hottest read in the system, so List goes through the cache with a
// long TTL and every write invalidates the owner's keys.
package customer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/engage/internal/cache"
	"github.com/ignite/engage/internal/domain"
)

// CreateRequest carries the fields for a new customer.
type CreateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Service implements customer creation and listing.
type Service struct {
	repo    Repository
	cache   cache.Cache
	listTTL time.Duration
}

// NewService creates a customer service. cache may be nil.
func NewService(repo Repository, c cache.Cache, listTTL time.Duration) *Service {
	return &Service{repo: repo, cache: c, listTTL: listTTL}
}

// Create validates and persists a new customer with zeroed accumulators.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (*domain.Customer, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}
	if req.Email == "" {
		return nil, fmt.Errorf("%w: email", ErrMissingField)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, req.Email)
	}

	c := &domain.Customer{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("storing customer: %w", err)
	}

	s.invalidate(ctx, ownerID)
	return c, nil
}

// List returns the owner's customers, newest first, cache-aside.
func (s *Service) List(ctx context.Context, ownerID string) ([]domain.Customer, error) {
	key := cache.CustomersKey(ownerID)
	if s.cache != nil {
		if val, ok, err := s.cache.Get(ctx, key); err != nil {
			log.Printf("[Customer] cache read failed, falling back to store: %v", err)
		} else if ok {
			var cached []domain.Customer
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	customers, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(customers); err == nil {
			if err := s.cache.Set(ctx, key, string(data), s.listTTL); err != nil {
				log.Printf("[Customer] cache write failed for owner %s: %v", ownerID, err)
			}
		}
	}
	return customers, nil
}

// Get returns one customer scoped to the owner.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*domain.Customer, error) {
	return s.repo.Get(ctx, ownerID, id)
}

func (s *Service) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.OwnerKeys(ownerID)...); err != nil {
		log.Printf("[Customer] cache invalidation failed for owner %s: %v", ownerID, err)
	}
}
