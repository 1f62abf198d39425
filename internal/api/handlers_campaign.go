package api

import (
	"net/http"

	"github.com/ignite/engage/internal/domain"
	"github.com/ignite/engage/internal/service/campaign"
)

type createCampaignRequest struct {
	Name    string         `json:"name"`
	Message string         `json:"message"`
	Rules   map[string]any `json:"rules"`
	// DeferDelivery skips the immediate delivery run; the campaign can
	// be delivered later through the simulate endpoint.
	DeferDelivery bool `json:"defer_delivery,omitempty"`
}

type createCampaignResponse struct {
	Campaign *domain.Campaign          `json:"campaign"`
	Logs     []domain.CommunicationLog `json:"logs,omitempty"`
}

// CreateCampaign creates a campaign and, unless deferred, immediately runs
// delivery to the resolved audience.
func (h *Handlers) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.campaigns.Create(r.Context(), ownerFrom(r), campaign.CreateRequest{
		Name:    req.Name,
		Message: req.Message,
		Rules:   req.Rules,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	resp := createCampaignResponse{Campaign: res.Campaign}
	if !req.DeferDelivery {
		logs, err := h.delivery.Simulate(r.Context(), res.Campaign, res.Audience)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		resp.Logs = logs
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (h *Handlers) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	campaigns, err := h.campaigns.List(r.Context(), ownerFrom(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if campaigns == nil {
		campaigns = []domain.Campaign{}
	}
	respondJSON(w, http.StatusOK, campaigns)
}

func (h *Handlers) CampaignStats(w http.ResponseWriter, r *http.Request) {
	rollups, err := h.stats.CampaignStats(r.Context(), ownerFrom(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rollups)
}

type previewRequest struct {
	Rules map[string]any `json:"rules"`
}

func (h *Handlers) PreviewAudience(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if !decode(w, r, &req) {
		return
	}

	p, err := h.campaigns.PreviewAudience(r.Context(), ownerFrom(r), req.Rules, 5)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}
