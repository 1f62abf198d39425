package order

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/engage/internal/domain"
)

// memRepo mirrors the transactional contract: the order insert and the
// accumulator bump happen together or not at all.
type memRepo struct {
	orders    map[string]domain.Order
	customers map[string]*domain.Customer
}

func newMemRepo() *memRepo {
	return &memRepo{
		orders:    make(map[string]domain.Order),
		customers: make(map[string]*domain.Customer),
	}
}

func (m *memRepo) Create(_ context.Context, o *domain.Order) error {
	c, ok := m.customers[o.CustomerID]
	if !ok || c.OwnerID != o.OwnerID {
		return ErrCustomerNotFound
	}
	m.orders[o.ID] = *o
	c.TotalSpend += o.Amount
	c.TotalOrders++
	d := o.OrderDate
	if c.LastOrderDate == nil || d.After(*c.LastOrderDate) {
		c.LastOrderDate = &d
	}
	return nil
}

func (m *memRepo) List(_ context.Context, ownerID string) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range m.orders {
		if o.OwnerID == ownerID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func TestCreateBumpsAccumulators(t *testing.T) {
	repo := newMemRepo()
	repo.customers["c1"] = &domain.Customer{ID: "c1", OwnerID: "owner-1"}
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), "owner-1", CreateRequest{CustomerID: "c1", Amount: 120.50})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), "owner-1", CreateRequest{CustomerID: "c1", Amount: 80})
	require.NoError(t, err)

	c := repo.customers["c1"]
	assert.Equal(t, 200.50, c.TotalSpend)
	assert.Equal(t, 2, c.TotalOrders)
	require.NotNil(t, c.LastOrderDate)
}

func TestCreateRejectsUnknownCustomer(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	_, err := svc.Create(context.Background(), "owner-1", CreateRequest{CustomerID: "ghost", Amount: 10})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCreateScopedToOwner(t *testing.T) {
	repo := newMemRepo()
	repo.customers["c1"] = &domain.Customer{ID: "c1", OwnerID: "owner-1"}
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), "owner-2", CreateRequest{CustomerID: "c1", Amount: 10})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(newMemRepo(), nil)

	_, err := svc.Create(context.Background(), "owner-1", CreateRequest{CustomerID: "c1", Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Create(context.Background(), "owner-1", CreateRequest{CustomerID: "c1", Amount: -5})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCreateDefaultsOrderDate(t *testing.T) {
	repo := newMemRepo()
	repo.customers["c1"] = &domain.Customer{ID: "c1", OwnerID: "owner-1"}
	svc := NewService(repo, nil)

	o, err := svc.Create(context.Background(), "owner-1", CreateRequest{CustomerID: "c1", Amount: 10})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), o.OrderDate, time.Minute)
}

func TestCreateKeepsExplicitOrderDate(t *testing.T) {
	repo := newMemRepo()
	repo.customers["c1"] = &domain.Customer{ID: "c1", OwnerID: "owner-1"}
	svc := NewService(repo, nil)

	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	o, err := svc.Create(context.Background(), "owner-1", CreateRequest{CustomerID: "c1", Amount: 10, OrderDate: when})
	require.NoError(t, err)
	assert.Equal(t, when, o.OrderDate)
}
