package stats

import (
	"context"

	"github.com/ignite/engage/internal/domain"
)

// Repository reads the source records rollups are computed from.
type Repository interface {
	// CampaignsByOwner returns the owner's campaigns, newest first.
	CampaignsByOwner(ctx context.Context, ownerID string) ([]domain.Campaign, error)
	LogsByOwner(ctx context.Context, ownerID string) ([]domain.CommunicationLog, error)
	CustomerCount(ctx context.Context, ownerID string) (int, error)
	OrderCount(ctx context.Context, ownerID string) (int, error)
	OrderRevenue(ctx context.Context, ownerID string) (float64, error)
}
