package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/engage/internal/domain"
	"github.com/ignite/engage/internal/service/delivery"
)

// LogRepository implements delivery.LogRepository on Postgres.
type LogRepository struct {
	db *sql.DB
}

// NewLogRepository creates a communication log repository.
func NewLogRepository(db *sql.DB) *LogRepository {
	return &LogRepository{db: db}
}

// CreateBatch inserts one simulation run's logs in a single transaction so
// a mid-batch failure never leaves a partial run on record.
func (r *LogRepository) CreateBatch(ctx context.Context, logs []domain.CommunicationLog) error {
	if len(logs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning log batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO communication_logs (id, owner_id, campaign_id, customer_id, message, status, vendor_response, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`)
	if err != nil {
		return fmt.Errorf("preparing log insert: %w", err)
	}
	defer stmt.Close()

	for i := range logs {
		l := &logs[i]
		if _, err := stmt.ExecContext(ctx, l.ID, l.OwnerID, l.CampaignID, l.CustomerID,
			l.Message, string(l.Status), l.VendorResponse, l.CreatedAt); err != nil {
			return fmt.Errorf("inserting log for customer %s: %w", l.CustomerID, err)
		}
	}
	return tx.Commit()
}

func (r *LogRepository) UpdateReceipt(ctx context.Context, ownerID, logID string, status domain.DeliveryStatus, vendorResponse string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE communication_logs
		SET status = $1, vendor_response = $2
		WHERE owner_id = $3 AND id = $4`,
		string(status), vendorResponse, ownerID, logID)
	if err != nil {
		return fmt.Errorf("updating receipt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating receipt: %w", err)
	}
	if n == 0 {
		return delivery.ErrNotFound
	}
	return nil
}

func (r *LogRepository) ListByCampaign(ctx context.Context, ownerID, campaignID string) ([]domain.CommunicationLog, error) {
	return r.list(ctx, `
		SELECT id, owner_id, campaign_id, customer_id, message, status, COALESCE(vendor_response, ''), created_at
		FROM communication_logs
		WHERE owner_id = $1 AND campaign_id = $2
		ORDER BY created_at DESC`, ownerID, campaignID)
}

func (r *LogRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.CommunicationLog, error) {
	return r.list(ctx, `
		SELECT id, owner_id, campaign_id, customer_id, message, status, COALESCE(vendor_response, ''), created_at
		FROM communication_logs
		WHERE owner_id = $1
		ORDER BY created_at DESC`, ownerID)
}

func (r *LogRepository) list(ctx context.Context, query string, args ...any) ([]domain.CommunicationLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing communication logs: %w", err)
	}
	defer rows.Close()

	var out []domain.CommunicationLog
	for rows.Next() {
		var l domain.CommunicationLog
		var status string
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.CampaignID, &l.CustomerID,
			&l.Message, &status, &l.VendorResponse, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning communication log: %w", err)
		}
		l.Status = domain.DeliveryStatus(status)
		out = append(out, l)
	}
	return out, rows.Err()
}
