package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ignite/engage/internal/advisor"
	"github.com/ignite/engage/internal/segment"
	"github.com/ignite/engage/internal/service/campaign"
	"github.com/ignite/engage/internal/service/customer"
	"github.com/ignite/engage/internal/service/delivery"
	"github.com/ignite/engage/internal/service/order"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message so internals stay internal.
func respondServiceError(w http.ResponseWriter, err error) {
	var vErr *segment.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error": vErr.Error(),
			"field": vErr.Field,
		})
	case errors.Is(err, campaign.ErrNotFound),
		errors.Is(err, customer.ErrNotFound),
		errors.Is(err, delivery.ErrNotFound),
		errors.Is(err, order.ErrCustomerNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, campaign.ErrMissingField),
		errors.Is(err, customer.ErrMissingField),
		errors.Is(err, customer.ErrInvalidEmail),
		errors.Is(err, order.ErrInvalidAmount),
		errors.Is(err, delivery.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, customer.ErrDuplicate):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, advisor.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("[API] internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decode reads a JSON body into dst, reporting a 400 on malformed input.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
