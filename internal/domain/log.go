package domain

import "time"

// DeliveryStatus is the per-recipient outcome of a delivery attempt.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "SENT"
	DeliveryFailed DeliveryStatus = "FAILED"

	// DeliveryPending is reserved for the asynchronous receipt flow
	// (provider callbacks arriving after the initial attempt). The
	// simulator itself never writes it.
	DeliveryPending DeliveryStatus = "PENDING"
)

// Valid reports whether s is one of the recognized delivery statuses.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliverySent, DeliveryFailed, DeliveryPending:
		return true
	}
	return false
}

// CommunicationLog is the durable record of one delivery attempt to one
// recipient. Exactly one row is written per (campaign, recipient) attempt.
// The only permitted mutation is a receipt update changing Status and
// VendorResponse after the fact.
type CommunicationLog struct {
	ID             string         `json:"id" db:"id"`
	OwnerID        string         `json:"owner_id" db:"owner_id"`
	CampaignID     string         `json:"campaign_id" db:"campaign_id"`
	CustomerID     string         `json:"customer_id" db:"customer_id"`
	Message        string         `json:"message" db:"message"`
	Status         DeliveryStatus `json:"status" db:"status"`
	VendorResponse string         `json:"vendor_response,omitempty" db:"vendor_response"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}
