package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/engage/internal/advisor"
	"github.com/ignite/engage/internal/domain"
	"github.com/ignite/engage/internal/mailing"
	"github.com/ignite/engage/internal/notifier"
	"github.com/ignite/engage/internal/repository/memory"
	"github.com/ignite/engage/internal/service/campaign"
	"github.com/ignite/engage/internal/service/customer"
	"github.com/ignite/engage/internal/service/delivery"
	"github.com/ignite/engage/internal/service/order"
	"github.com/ignite/engage/internal/service/stats"
)

type fixedAdvisor struct{ s *advisor.Suggestion }

func (f fixedAdvisor) Suggest(context.Context, string) (*advisor.Suggestion, error) {
	return f.s, nil
}

func newTestHandler(t *testing.T, suggester advisor.RuleSuggester) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()

	customers := customer.NewService(store, nil, time.Hour)
	orders := order.NewService(store.Orders(), nil)
	campaigns := campaign.NewService(store.Campaigns(), store, nil)
	sim := delivery.NewSimulator(store.Logs(), notifier.NewSimulated(0, 1),
		mailing.NewTemplateService(), nil, 4, "Hello")
	agg := stats.NewAggregator(store.Stats(), nil, time.Minute, time.Minute)

	h := NewHandlers(customers, orders, campaigns, sim, agg, suggester)
	return SetupRoutes(h), store
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(OwnerHeader, "owner-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func seedCustomers(t *testing.T, handler http.Handler, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		rec := doRequest(t, handler, http.MethodPost, "/api/customers", map[string]any{
			"name":  fmt.Sprintf("Customer %d", i),
			"email": fmt.Sprintf("c%d@example.com", i),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
}

func TestMissingOwnerHeader(t *testing.T) {
	handler, _ := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), OwnerHeader)
}

func TestHealthNeedsNoOwner(t *testing.T) {
	handler, _ := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCustomerLifecycle(t *testing.T) {
	handler, _ := newTestHandler(t, nil)
	seedCustomers(t, handler, 2)

	rec := doRequest(t, handler, http.MethodGet, "/api/customers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.Customer
	decodeBody(t, rec, &got)
	assert.Len(t, got, 2)
}

func TestCreateCustomerValidation(t *testing.T) {
	handler, _ := newTestHandler(t, nil)

	rec := doRequest(t, handler, http.MethodPost, "/api/customers", map[string]any{"email": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, handler, http.MethodPost, "/api/customers", map[string]any{
		"name": "Ana", "email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCampaignDeliversImmediately(t *testing.T) {
	handler, _ := newTestHandler(t, nil)
	seedCustomers(t, handler, 3)

	rec := doRequest(t, handler, http.MethodPost, "/api/campaigns", map[string]any{
		"name":    "Everyone",
		"message": "welcome aboard!",
		"rules":   map[string]any{},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp createCampaignResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, 3, resp.Campaign.AudienceSize)
	require.Len(t, resp.Logs, 3)
	for _, l := range resp.Logs {
		assert.Equal(t, domain.DeliverySent, l.Status)
		assert.Contains(t, l.Message, "Hi Customer")
	}
}

func TestCreateCampaignInvalidRuleNamesField(t *testing.T) {
	handler, _ := newTestHandler(t, nil)

	rec := doRequest(t, handler, http.MethodPost, "/api/campaigns", map[string]any{
		"name":    "Bad",
		"message": "x",
		"rules":   map[string]any{"favoriteColor": map[string]any{"$eq": "blue"}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "favoriteColor", body["field"])
}

func TestCampaignStatsEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t, nil)
	seedCustomers(t, handler, 4)

	rec := doRequest(t, handler, http.MethodPost, "/api/campaigns", map[string]any{
		"name": "Everyone", "message": "hi", "rules": map[string]any{},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, handler, http.MethodGet, "/api/campaigns/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rollups []stats.CampaignStats
	decodeBody(t, rec, &rollups)
	require.Len(t, rollups, 1)
	assert.Equal(t, 4, rollups[0].Sent)
	assert.Equal(t, 100, rollups[0].SuccessRate)
}

func TestPreviewEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t, nil)
	seedCustomers(t, handler, 3)

	rec := doRequest(t, handler, http.MethodPost, "/api/campaigns/preview", map[string]any{
		"rules": map[string]any{},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var p campaign.Preview
	decodeBody(t, rec, &p)
	assert.Equal(t, 3, p.AudienceSize)
}

func TestDeliveryReceiptFlow(t *testing.T) {
	handler, _ := newTestHandler(t, nil)
	seedCustomers(t, handler, 1)

	rec := doRequest(t, handler, http.MethodPost, "/api/campaigns", map[string]any{
		"name": "One", "message": "hi", "rules": map[string]any{},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp createCampaignResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Logs, 1)

	rec = doRequest(t, handler, http.MethodPost, "/api/delivery/receipt", map[string]any{
		"log_id": resp.Logs[0].ID, "status": "FAILED", "vendor_response": "Error: bounced",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, handler, http.MethodGet, "/api/logs/"+resp.Campaign.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var logs []domain.CommunicationLog
	decodeBody(t, rec, &logs)
	require.Len(t, logs, 1)
	assert.Equal(t, domain.DeliveryFailed, logs[0].Status)
}

func TestDeliveryReceiptRejectsBadStatus(t *testing.T) {
	handler, _ := newTestHandler(t, nil)

	rec := doRequest(t, handler, http.MethodPost, "/api/delivery/receipt", map[string]any{
		"log_id": "some-log", "status": "DELIVERED",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulateEndpointRedelivers(t *testing.T) {
	handler, _ := newTestHandler(t, nil)
	seedCustomers(t, handler, 2)

	rec := doRequest(t, handler, http.MethodPost, "/api/campaigns", map[string]any{
		"name": "Re-run", "message": "hi again", "rules": map[string]any{},
		"defer_delivery": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp createCampaignResponse
	decodeBody(t, rec, &resp)
	assert.Empty(t, resp.Logs)

	rec = doRequest(t, handler, http.MethodPost, "/api/delivery/simulate", map[string]any{
		"campaign_id": resp.Campaign.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var logs []domain.CommunicationLog
	decodeBody(t, rec, &logs)
	assert.Len(t, logs, 2)
}

func TestSimulateUnknownCampaign(t *testing.T) {
	handler, _ := newTestHandler(t, nil)

	rec := doRequest(t, handler, http.MethodPost, "/api/delivery/simulate", map[string]any{
		"campaign_id": "ghost",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderEndpointBumpsDashboard(t *testing.T) {
	handler, _ := newTestHandler(t, nil)
	seedCustomers(t, handler, 1)

	rec := doRequest(t, handler, http.MethodGet, "/api/customers", nil)
	var customers []domain.Customer
	decodeBody(t, rec, &customers)
	require.Len(t, customers, 1)

	rec = doRequest(t, handler, http.MethodPost, "/api/orders", map[string]any{
		"customer_id": customers[0].ID, "amount": 75.25,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, handler, http.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary stats.OwnerSummary
	decodeBody(t, rec, &summary)
	assert.Equal(t, 1, summary.CustomerCount)
	assert.Equal(t, 1, summary.OrderCount)
	assert.Equal(t, 75.25, summary.TotalRevenue)
}

func TestSuggestWithoutAdvisor(t *testing.T) {
	handler, _ := newTestHandler(t, nil)

	rec := doRequest(t, handler, http.MethodPost, "/api/segments/suggest", map[string]any{
		"description": "big spenders",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSuggestWithAdvisor(t *testing.T) {
	handler, _ := newTestHandler(t, fixedAdvisor{s: &advisor.Suggestion{
		Rules:       map[string]any{"totalSpend": map[string]any{"$gte": 1000.0}},
		Explanation: "customers who spent at least 1000",
	}})

	rec := doRequest(t, handler, http.MethodPost, "/api/segments/suggest", map[string]any{
		"description": "big spenders",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var s advisor.Suggestion
	decodeBody(t, rec, &s)
	assert.Contains(t, s.Rules, "totalSpend")
}
