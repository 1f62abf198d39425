package campaign

import (
	"context"

	"github.com/ignite/engage/internal/domain"
	"github.com/ignite/engage/internal/segment"
)

// Repository persists campaigns.
type Repository interface {
	Create(ctx context.Context, c *domain.Campaign) error
	// List returns the owner's campaigns, newest first.
	List(ctx context.Context, ownerID string) ([]domain.Campaign, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Campaign, error)
}

// AudienceSource resolves a segment rule to the matching customers.
type AudienceSource interface {
	MatchSegment(ctx context.Context, ownerID string, rule *segment.Rule) ([]domain.Customer, error)
}
