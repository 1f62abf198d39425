package postgres

import (
	"context"
	"database/sql"

	"github.com/ignite/engage/internal/domain"
)

// StatsRepository composes the per-entity repositories into the read-only
// source set the stats aggregator needs.
type StatsRepository struct {
	campaigns *CampaignRepository
	logs      *LogRepository
	customers *CustomerRepository
	orders    *OrderRepository
}

// NewStatsRepository creates a stats source over one database handle.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{
		campaigns: NewCampaignRepository(db),
		logs:      NewLogRepository(db),
		customers: NewCustomerRepository(db),
		orders:    NewOrderRepository(db),
	}
}

func (r *StatsRepository) CampaignsByOwner(ctx context.Context, ownerID string) ([]domain.Campaign, error) {
	return r.campaigns.List(ctx, ownerID)
}

func (r *StatsRepository) LogsByOwner(ctx context.Context, ownerID string) ([]domain.CommunicationLog, error) {
	return r.logs.ListByOwner(ctx, ownerID)
}

func (r *StatsRepository) CustomerCount(ctx context.Context, ownerID string) (int, error) {
	return r.customers.Count(ctx, ownerID)
}

func (r *StatsRepository) OrderCount(ctx context.Context, ownerID string) (int, error) {
	return r.orders.Count(ctx, ownerID)
}

func (r *StatsRepository) OrderRevenue(ctx context.Context, ownerID string) (float64, error) {
	return r.orders.Revenue(ctx, ownerID)
}
