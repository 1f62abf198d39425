package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignite/engage/internal/domain"
	"github.com/ignite/engage/internal/service/campaign"
)

// CampaignRepository implements campaign.Repository on Postgres.
type CampaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a campaign repository.
func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns (id, owner_id, name, message, segment_rules, audience_size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.OwnerID, c.Name, c.Message, []byte(c.SegmentRules), c.AudienceSize, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepository) List(ctx context.Context, ownerID string) ([]domain.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, message, segment_rules, audience_size, created_at
		FROM campaigns
		WHERE owner_id = $1
		ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing campaigns: %w", err)
	}
	defer rows.Close()

	var out []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		var rules []byte
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Message, &rules, &c.AudienceSize, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning campaign: %w", err)
		}
		c.SegmentRules = rules
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CampaignRepository) Get(ctx context.Context, ownerID, id string) (*domain.Campaign, error) {
	var c domain.Campaign
	var rules []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, name, message, segment_rules, audience_size, created_at
		FROM campaigns
		WHERE owner_id = $1 AND id = $2`, ownerID, id).
		Scan(&c.ID, &c.OwnerID, &c.Name, &c.Message, &rules, &c.AudienceSize, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, campaign.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading campaign: %w", err)
	}
	c.SegmentRules = rules
	return &c, nil
}
