package campaign

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/engage/internal/cache"
	"github.com/ignite/engage/internal/domain"
	"github.com/ignite/engage/internal/segment"
)

// CreateRequest carries the fields needed to create a campaign. Rules is
// the raw rule document as submitted by the caller.
type CreateRequest struct {
	Name    string         `json:"name"`
	Message string         `json:"message"`
	Rules   map[string]any `json:"rules"`
}

// CreateResult is the created campaign together with its resolved audience,
// so callers can hand the recipients straight to delivery.
type CreateResult struct {
	Campaign *domain.Campaign
	Audience []domain.Customer
}

// Preview is a dry-run audience count for a rule document.
type Preview struct {
	AudienceSize int               `json:"audience_size"`
	Sample       []domain.Customer `json:"sample,omitempty"`
}

// Service implements campaign creation, listing and audience preview.
type Service struct {
	repo     Repository
	audience AudienceSource
	cache    cache.Cache
}

// NewService creates a campaign service. cache may be nil in tests.
func NewService(repo Repository, audience AudienceSource, c cache.Cache) *Service {
	return &Service{repo: repo, audience: audience, cache: c}
}

// Create validates the rule document, resolves the audience, and persists
// the campaign with its audience size frozen. The rule document is stored
// verbatim.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (*CreateResult, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}
	if req.Message == "" {
		return nil, fmt.Errorf("%w: message", ErrMissingField)
	}
	// An absent document is a client mistake; an empty one is the
	// deliberate match-all rule.
	if req.Rules == nil {
		return nil, fmt.Errorf("%w: rules", ErrMissingField)
	}

	rule, err := segment.Validate(req.Rules)
	if err != nil {
		return nil, err
	}

	audience, err := s.audience.MatchSegment(ctx, ownerID, rule)
	if err != nil {
		return nil, fmt.Errorf("resolving audience: %w", err)
	}

	raw, err := json.Marshal(req.Rules)
	if err != nil {
		return nil, fmt.Errorf("encoding rules: %w", err)
	}

	c := &domain.Campaign{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		Name:         req.Name,
		Message:      req.Message,
		SegmentRules: raw,
		AudienceSize: len(audience),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("storing campaign: %w", err)
	}

	s.invalidate(ctx, ownerID)
	log.Printf("[Campaign] created %s for owner %s (audience %d)", c.ID, ownerID, c.AudienceSize)

	return &CreateResult{Campaign: c, Audience: audience}, nil
}

// List returns the owner's campaigns, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]domain.Campaign, error) {
	return s.repo.List(ctx, ownerID)
}

// Get returns one campaign scoped to the owner.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*domain.Campaign, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// ResolveAudience validates a rule document and returns every matching
// customer. Delivery re-runs use it to resolve the audience at send time.
func (s *Service) ResolveAudience(ctx context.Context, ownerID string, rules map[string]any) ([]domain.Customer, error) {
	rule, err := segment.Validate(rules)
	if err != nil {
		return nil, err
	}
	audience, err := s.audience.MatchSegment(ctx, ownerID, rule)
	if err != nil {
		return nil, fmt.Errorf("resolving audience: %w", err)
	}
	return audience, nil
}

// PreviewAudience validates a rule document and returns the audience size
// without creating anything. Up to sampleSize matching customers are
// included for display.
func (s *Service) PreviewAudience(ctx context.Context, ownerID string, rules map[string]any, sampleSize int) (*Preview, error) {
	rule, err := segment.Validate(rules)
	if err != nil {
		return nil, err
	}

	audience, err := s.audience.MatchSegment(ctx, ownerID, rule)
	if err != nil {
		return nil, fmt.Errorf("resolving audience: %w", err)
	}

	p := &Preview{AudienceSize: len(audience)}
	if sampleSize > 0 && len(audience) > 0 {
		if sampleSize > len(audience) {
			sampleSize = len(audience)
		}
		p.Sample = audience[:sampleSize]
	}
	return p, nil
}

func (s *Service) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.OwnerKeys(ownerID)...); err != nil {
		log.Printf("[Campaign] cache invalidation failed for owner %s: %v", ownerID, err)
	}
}
