package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ignite/engage/internal/cache"
	"github.com/ignite/engage/internal/domain"
)

// CampaignStats is the delivery rollup for one campaign.
type CampaignStats struct {
	CampaignID   string `json:"campaign_id"`
	Name         string `json:"name"`
	AudienceSize int    `json:"audience_size"`
	Sent         int    `json:"sent"`
	Failed       int    `json:"failed"`
	Pending      int    `json:"pending"`
	Total        int    `json:"total"`
	// SuccessRate is round(100 * sent / total), 0 when no attempts exist.
	SuccessRate int `json:"success_rate"`
}

// OwnerSummary is the dashboard rollup across all of an owner's data.
type OwnerSummary struct {
	CustomerCount  int     `json:"customer_count"`
	CampaignCount  int     `json:"campaign_count"`
	OrderCount     int     `json:"order_count"`
	TotalRevenue   float64 `json:"total_revenue"`
	MessagesSent   int     `json:"messages_sent"`
	MessagesFailed int     `json:"messages_failed"`
	SuccessRate    int     `json:"success_rate"`
}

// Aggregator computes rollups with a cache-aside strategy.
type Aggregator struct {
	repo         Repository
	cache        cache.Cache
	statsTTL     time.Duration
	summaryTTL   time.Duration
	queryTimeout time.Duration
}

// NewAggregator creates a stats aggregator. cache may be nil, in which case
// every call recomputes.
func NewAggregator(repo Repository, c cache.Cache, statsTTL, summaryTTL time.Duration) *Aggregator {
	return &Aggregator{
		repo:         repo,
		cache:        c,
		statsTTL:     statsTTL,
		summaryTTL:   summaryTTL,
		queryTimeout: 10 * time.Second,
	}
}

// CampaignStats returns the per-campaign rollups for an owner, newest
// campaign first. Campaigns with no delivery attempts yet report zero
// counts and a zero success rate.
func (a *Aggregator) CampaignStats(ctx context.Context, ownerID string) ([]CampaignStats, error) {
	key := cache.CampaignStatsKey(ownerID)
	var out []CampaignStats
	if a.cacheGet(ctx, key, &out) {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
	defer cancel()

	var (
		campaigns []domain.Campaign
		logs      []domain.CommunicationLog
	)
	err := a.parallel(ctx,
		func(ctx context.Context) (err error) {
			campaigns, err = a.repo.CampaignsByOwner(ctx, ownerID)
			return err
		},
		func(ctx context.Context) (err error) {
			logs, err = a.repo.LogsByOwner(ctx, ownerID)
			return err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("loading campaign stats sources: %w", err)
	}

	out = buildCampaignStats(campaigns, logs)
	a.cacheSet(ctx, key, out, a.statsTTL)
	return out, nil
}

// Summary returns the owner-level dashboard rollup. All sources are
// fetched in parallel; any source failure fails the whole summary rather
// than reporting a partially wrong dashboard.
func (a *Aggregator) Summary(ctx context.Context, ownerID string) (*OwnerSummary, error) {
	key := cache.DashboardKey(ownerID)
	var cached OwnerSummary
	if a.cacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
	defer cancel()

	var (
		s         OwnerSummary
		campaigns []domain.Campaign
		logs      []domain.CommunicationLog
	)
	err := a.parallel(ctx,
		func(ctx context.Context) (err error) {
			s.CustomerCount, err = a.repo.CustomerCount(ctx, ownerID)
			return err
		},
		func(ctx context.Context) (err error) {
			campaigns, err = a.repo.CampaignsByOwner(ctx, ownerID)
			return err
		},
		func(ctx context.Context) (err error) {
			s.OrderCount, err = a.repo.OrderCount(ctx, ownerID)
			return err
		},
		func(ctx context.Context) (err error) {
			s.TotalRevenue, err = a.repo.OrderRevenue(ctx, ownerID)
			return err
		},
		func(ctx context.Context) (err error) {
			logs, err = a.repo.LogsByOwner(ctx, ownerID)
			return err
		},
	)
	if err != nil {
		return nil, fmt.Errorf("loading summary sources: %w", err)
	}

	s.CampaignCount = len(campaigns)
	for i := range logs {
		switch logs[i].Status {
		case domain.DeliverySent:
			s.MessagesSent++
		case domain.DeliveryFailed:
			s.MessagesFailed++
		}
	}
	s.SuccessRate = successRate(s.MessagesSent, len(logs))

	a.cacheSet(ctx, key, &s, a.summaryTTL)
	return &s, nil
}

// Invalidate drops the owner's cached rollups.
func (a *Aggregator) Invalidate(ctx context.Context, ownerID string) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Delete(ctx, cache.CampaignStatsKey(ownerID), cache.DashboardKey(ownerID)); err != nil {
		log.Printf("[Stats] cache invalidation failed for owner %s: %v", ownerID, err)
	}
}

// parallel runs the fetch functions concurrently and returns the first
// error, if any.
func (a *Aggregator) parallel(ctx context.Context, fns ...func(context.Context) error) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, fn := range fns {
		wg.Add(1)
		go func(fn func(context.Context) error) {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(fn)
	}
	wg.Wait()
	return firstErr
}

// cacheGet reports whether a valid cached value was decoded into dst.
// Cache errors are logged and treated as misses.
func (a *Aggregator) cacheGet(ctx context.Context, key string, dst any) bool {
	if a.cache == nil {
		return false
	}
	val, ok, err := a.cache.Get(ctx, key)
	if err != nil {
		log.Printf("[Stats] cache read failed for %s, recomputing: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(val), dst); err != nil {
		log.Printf("[Stats] dropping undecodable cache entry %s: %v", key, err)
		return false
	}
	return true
}

func (a *Aggregator) cacheSet(ctx context.Context, key string, v any, ttl time.Duration) {
	if a.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, key, string(data), ttl); err != nil {
		log.Printf("[Stats] cache write failed for %s: %v", key, err)
	}
}

func buildCampaignStats(campaigns []domain.Campaign, logs []domain.CommunicationLog) []CampaignStats {
	type tally struct{ sent, failed, pending, total int }
	byCampaign := make(map[string]*tally, len(campaigns))
	for i := range campaigns {
		byCampaign[campaigns[i].ID] = &tally{}
	}
	for i := range logs {
		t, ok := byCampaign[logs[i].CampaignID]
		if !ok {
			continue
		}
		t.total++
		switch logs[i].Status {
		case domain.DeliverySent:
			t.sent++
		case domain.DeliveryFailed:
			t.failed++
		case domain.DeliveryPending:
			t.pending++
		}
	}

	out := make([]CampaignStats, 0, len(campaigns))
	for i := range campaigns {
		c := &campaigns[i]
		t := byCampaign[c.ID]
		out = append(out, CampaignStats{
			CampaignID:   c.ID,
			Name:         c.Name,
			AudienceSize: c.AudienceSize,
			Sent:         t.sent,
			Failed:       t.failed,
			Pending:      t.pending,
			Total:        t.total,
			SuccessRate:  successRate(t.sent, t.total),
		})
	}
	return out
}

func successRate(sent, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(sent) / float64(total)))
}
