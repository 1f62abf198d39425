package delivery

import (
	"context"

	"github.com/ignite/engage/internal/domain"
)

// LogRepository persists communication logs.
type LogRepository interface {
	// CreateBatch inserts the logs for one simulation run.
	CreateBatch(ctx context.Context, logs []domain.CommunicationLog) error
	// UpdateReceipt applies a delivery receipt to an existing log. This
	// is the only mutation a log ever receives.
	UpdateReceipt(ctx context.Context, ownerID, logID string, status domain.DeliveryStatus, vendorResponse string) error
	// ListByCampaign returns the logs for one campaign, newest first.
	ListByCampaign(ctx context.Context, ownerID, campaignID string) ([]domain.CommunicationLog, error)
}
