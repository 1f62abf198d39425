// Package cache defines the owner-scoped cache port used for stats rollups
// and list responses, plus its Redis implementation. The cache is an
// optimization only: callers must treat every error as a miss and recompute.
package cache

import (
	"context"
	"time"
)

// Cache is the port consumed by services. Implementations must be safe for
// concurrent use.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// Keys are namespaced per owner and per resource kind so a write for one
// owner never evicts another owner's entries.

// CampaignStatsKey is the per-campaign rollup list for an owner.
func CampaignStatsKey(ownerID string) string { return "stats:campaigns:" + ownerID }

// DashboardKey is the owner-level summary rollup.
func DashboardKey(ownerID string) string { return "stats:dashboard:" + ownerID }

// CustomersKey is the cached customer list for an owner.
func CustomersKey(ownerID string) string { return "customers:" + ownerID }

// OwnerKeys returns every key that log/customer/order writes must
// invalidate for the owner.
func OwnerKeys(ownerID string) []string {
	return []string{
		CampaignStatsKey(ownerID),
		DashboardKey(ownerID),
		CustomersKey(ownerID),
	}
}
