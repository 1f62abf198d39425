package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/engage/internal/domain"
)

type simulateRequest struct {
	CampaignID string `json:"campaign_id"`
}

// SimulateDelivery re-runs delivery for an existing campaign. The audience
// is resolved from the stored rule document at run time, so customers who
// drifted into the segment since creation are included. The frozen
// audience size on the campaign stays untouched.
func (h *Handlers) SimulateDelivery(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.CampaignID == "" {
		respondError(w, http.StatusBadRequest, "campaign_id is required")
		return
	}

	owner := ownerFrom(r)
	c, err := h.campaigns.Get(r.Context(), owner, req.CampaignID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var rules map[string]any
	if err := json.Unmarshal(c.SegmentRules, &rules); err != nil {
		respondError(w, http.StatusInternalServerError, "stored rules are unreadable")
		return
	}
	audience, err := h.campaigns.ResolveAudience(r.Context(), owner, rules)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	logs, err := h.delivery.Simulate(r.Context(), c, audience)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, logs)
}

type receiptRequest struct {
	LogID          string `json:"log_id"`
	Status         string `json:"status"`
	VendorResponse string `json:"vendor_response,omitempty"`
}

// DeliveryReceipt applies a provider receipt to a communication log.
func (h *Handlers) DeliveryReceipt(w http.ResponseWriter, r *http.Request) {
	var req receiptRequest
	if !decode(w, r, &req) {
		return
	}
	if req.LogID == "" {
		respondError(w, http.StatusBadRequest, "log_id is required")
		return
	}

	err := h.delivery.UpdateReceipt(r.Context(), ownerFrom(r), req.LogID,
		domain.DeliveryStatus(req.Status), req.VendorResponse)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// CampaignLogs lists the communication logs for one campaign.
func (h *Handlers) CampaignLogs(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "campaignID")

	logs, err := h.delivery.Logs(r.Context(), ownerFrom(r), campaignID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if logs == nil {
		logs = []domain.CommunicationLog{}
	}
	respondJSON(w, http.StatusOK, logs)
}
