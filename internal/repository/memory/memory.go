// Package memory implements the service repository interfaces on in-memory
// maps. It backs the dev server mode and doubles as a reference
// implementation of the repository contracts: the audience source runs the
// same rule engine the services use, so dev and production segmentation
// agree by construction.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ignite/engage/internal/domain"
	"github.com/ignite/engage/internal/segment"
	"github.com/ignite/engage/internal/service/campaign"
	"github.com/ignite/engage/internal/service/customer"
	"github.com/ignite/engage/internal/service/delivery"
	"github.com/ignite/engage/internal/service/order"
)

// Store holds every entity behind one mutex. Good enough for a dev server;
// not intended for production traffic.
type Store struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
	campaigns map[string]*domain.Campaign
	logs      map[string]*domain.CommunicationLog
	orders    map[string]*domain.Order
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		customers: make(map[string]*domain.Customer),
		campaigns: make(map[string]*domain.Campaign),
		logs:      make(map[string]*domain.CommunicationLog),
		orders:    make(map[string]*domain.Order),
	}
}

// ---- customer.Repository ----

func (s *Store) Create(ctx context.Context, c *domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.customers {
		if existing.OwnerID == c.OwnerID && existing.Email == c.Email {
			return customer.ErrDuplicate
		}
	}
	cp := *c
	s.customers[c.ID] = &cp
	return nil
}

func (s *Store) List(ctx context.Context, ownerID string) ([]domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Customer
	for _, c := range s.customers {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) Get(ctx context.Context, ownerID, id string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[id]
	if !ok || c.OwnerID != ownerID {
		return nil, customer.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// MatchSegment evaluates the rule with the in-memory engine.
func (s *Store) MatchSegment(ctx context.Context, ownerID string, rule *segment.Rule) ([]domain.Customer, error) {
	scoped, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return segment.Evaluate(rule, scoped), nil
}

// Count returns the number of customers for an owner.
func (s *Store) Count(ctx context.Context, ownerID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, c := range s.customers {
		if c.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

// Campaigns exposes the campaign repository view of the store.
func (s *Store) Campaigns() *CampaignRepo { return &CampaignRepo{s} }

// Logs exposes the communication log repository view of the store.
func (s *Store) Logs() *LogRepo { return &LogRepo{s} }

// Orders exposes the order repository view of the store.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s} }

// Stats exposes the rollup source view of the store.
func (s *Store) Stats() *StatsRepo { return &StatsRepo{s} }

// ---- campaign.Repository ----

type CampaignRepo struct{ s *Store }

func (r *CampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *c
	r.s.campaigns[c.ID] = &cp
	return nil
}

func (r *CampaignRepo) List(ctx context.Context, ownerID string) ([]domain.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Campaign
	for _, c := range r.s.campaigns {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *CampaignRepo) Get(ctx context.Context, ownerID, id string) (*domain.Campaign, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.campaigns[id]
	if !ok || c.OwnerID != ownerID {
		return nil, campaign.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// ---- delivery.LogRepository ----

type LogRepo struct{ s *Store }

func (r *LogRepo) CreateBatch(ctx context.Context, logs []domain.CommunicationLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range logs {
		cp := logs[i]
		r.s.logs[cp.ID] = &cp
	}
	return nil
}

func (r *LogRepo) UpdateReceipt(ctx context.Context, ownerID, logID string, status domain.DeliveryStatus, vendorResponse string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.logs[logID]
	if !ok || l.OwnerID != ownerID {
		return delivery.ErrNotFound
	}
	l.Status = status
	l.VendorResponse = vendorResponse
	return nil
}

func (r *LogRepo) ListByCampaign(ctx context.Context, ownerID, campaignID string) ([]domain.CommunicationLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.CommunicationLog
	for _, l := range r.s.logs {
		if l.OwnerID == ownerID && l.CampaignID == campaignID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *LogRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.CommunicationLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.CommunicationLog
	for _, l := range r.s.logs {
		if l.OwnerID == ownerID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ---- order.Repository ----

type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[o.CustomerID]
	if !ok || c.OwnerID != o.OwnerID {
		return order.ErrCustomerNotFound
	}
	cp := *o
	r.s.orders[o.ID] = &cp
	c.TotalSpend += o.Amount
	c.TotalOrders++
	d := o.OrderDate
	if c.LastOrderDate == nil || d.After(*c.LastOrderDate) {
		c.LastOrderDate = &d
	}
	return nil
}

func (r *OrderRepo) List(ctx context.Context, ownerID string) ([]domain.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []domain.Order
	for _, o := range r.s.orders {
		if o.OwnerID == ownerID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderRepo) Count(ctx context.Context, ownerID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, o := range r.s.orders {
		if o.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *OrderRepo) Revenue(ctx context.Context, ownerID string) (float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := 0.0
	for _, o := range r.s.orders {
		if o.OwnerID == ownerID {
			total += o.Amount
		}
	}
	return total, nil
}

// ---- stats.Repository ----

type StatsRepo struct{ s *Store }

func (r *StatsRepo) CampaignsByOwner(ctx context.Context, ownerID string) ([]domain.Campaign, error) {
	return r.s.Campaigns().List(ctx, ownerID)
}

func (r *StatsRepo) LogsByOwner(ctx context.Context, ownerID string) ([]domain.CommunicationLog, error) {
	return r.s.Logs().ListByOwner(ctx, ownerID)
}

func (r *StatsRepo) CustomerCount(ctx context.Context, ownerID string) (int, error) {
	return r.s.Count(ctx, ownerID)
}

func (r *StatsRepo) OrderCount(ctx context.Context, ownerID string) (int, error) {
	return r.s.Orders().Count(ctx, ownerID)
}

func (r *StatsRepo) OrderRevenue(ctx context.Context, ownerID string) (float64, error) {
	return r.s.Orders().Revenue(ctx, ownerID)
}
