package delivery

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/engage/internal/cache"
	"github.com/ignite/engage/internal/domain"
	"github.com/ignite/engage/internal/mailing"
	"github.com/ignite/engage/internal/notifier"
)

// Simulator runs campaign deliveries through a notifier with a bounded
// worker pool.
type Simulator struct {
	logs      LogRepository
	notifier  notifier.Notifier
	templates *mailing.TemplateService
	cache     cache.Cache
	workers   int
	subject   string
}

// NewSimulator creates a delivery simulator. workers bounds the number of
// concurrent sends; values below 1 are clamped to 1. cache may be nil.
func NewSimulator(logs LogRepository, n notifier.Notifier, templates *mailing.TemplateService, c cache.Cache, workers int, subject string) *Simulator {
	if workers < 1 {
		workers = 1
	}
	return &Simulator{
		logs:      logs,
		notifier:  n,
		templates: templates,
		cache:     c,
		workers:   workers,
		subject:   subject,
	}
}

// Simulate delivers the campaign message to every recipient and records
// exactly one communication log per recipient. Send failures are captured
// in the corresponding log and never abort the batch; the returned error
// covers persistence only.
func (s *Simulator) Simulate(ctx context.Context, c *domain.Campaign, audience []domain.Customer) ([]domain.CommunicationLog, error) {
	logs := make([]domain.CommunicationLog, len(audience))
	sem := make(chan struct{}, s.workers)
	done := make(chan struct{})

	for i := range audience {
		sem <- struct{}{}
		go func(i int) {
			defer func() {
				<-sem
				done <- struct{}{}
			}()
			logs[i] = s.deliverOne(ctx, c, &audience[i])
		}(i)
	}
	for range audience {
		<-done
	}

	if err := s.logs.CreateBatch(ctx, logs); err != nil {
		return nil, fmt.Errorf("storing communication logs: %w", err)
	}

	s.invalidate(ctx, c.OwnerID)

	sent := 0
	for i := range logs {
		if logs[i].Status == domain.DeliverySent {
			sent++
		}
	}
	log.Printf("[Delivery] campaign %s: %d sent, %d failed of %d", c.ID, sent, len(logs)-sent, len(logs))

	return logs, nil
}

// deliverOne renders and sends the message for a single recipient. Every
// outcome, success or failure, produces a log entry.
func (s *Simulator) deliverOne(ctx context.Context, c *domain.Campaign, cust *domain.Customer) domain.CommunicationLog {
	entry := domain.CommunicationLog{
		ID:         uuid.New().String(),
		OwnerID:    c.OwnerID,
		CampaignID: c.ID,
		CustomerID: cust.ID,
		CreatedAt:  time.Now().UTC(),
	}

	body, err := s.templates.Render(c.ID, "Hi {{ name }}, "+c.Message, mailing.CustomerContext(cust))
	if err != nil {
		// Render degrades to the raw template; still worth sending.
		log.Printf("[Delivery] render degraded for customer %s: %v", cust.ID, err)
	}
	entry.Message = body

	res, err := s.notifier.Send(ctx, cust.Email, s.subject, body, false)
	if err != nil {
		entry.Status = domain.DeliveryFailed
		entry.VendorResponse = fmt.Sprintf("Error: %v", err)
		return entry
	}

	entry.Status = domain.DeliverySent
	entry.VendorResponse = fmt.Sprintf("Message ID: %s", res.MessageID)
	return entry
}

// UpdateReceipt applies a provider receipt to an existing log.
func (s *Simulator) UpdateReceipt(ctx context.Context, ownerID, logID string, status domain.DeliveryStatus, vendorResponse string) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := s.logs.UpdateReceipt(ctx, ownerID, logID, status, vendorResponse); err != nil {
		return err
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// Logs returns the communication logs for one campaign.
func (s *Simulator) Logs(ctx context.Context, ownerID, campaignID string) ([]domain.CommunicationLog, error) {
	return s.logs.ListByCampaign(ctx, ownerID, campaignID)
}

func (s *Simulator) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.CampaignStatsKey(ownerID), cache.DashboardKey(ownerID)); err != nil {
		log.Printf("[Delivery] cache invalidation failed for owner %s: %v", ownerID, err)
	}
}
