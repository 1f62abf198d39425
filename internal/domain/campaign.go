package domain

import (
	"encoding/json"
	"time"
)

// Campaign is an immutable-after-create record of a segmented send.
// SegmentRules holds the rule document exactly as submitted, for audit and
// replay. AudienceSize is the matched-customer count captured at creation
// time and is never recomputed, even if customers drift out of the rule.
type Campaign struct {
	ID           string          `json:"id" db:"id"`
	OwnerID      string          `json:"owner_id" db:"owner_id"`
	Name         string          `json:"name" db:"name"`
	Message      string          `json:"message" db:"message"`
	SegmentRules json.RawMessage `json:"segment_rules" db:"segment_rules"`
	AudienceSize int             `json:"audience_size" db:"audience_size"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}
