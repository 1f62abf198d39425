package api

import (
	"net/http"

	"github.com/ignite/engage/internal/domain"
	"github.com/ignite/engage/internal/service/customer"
	"github.com/ignite/engage/internal/service/order"
)

func (h *Handlers) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customer.CreateRequest
	if !decode(w, r, &req) {
		return
	}

	c, err := h.customers.Create(r.Context(), ownerFrom(r), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *Handlers) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context(), ownerFrom(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req order.CreateRequest
	if !decode(w, r, &req) {
		return
	}

	o, err := h.orders.Create(r.Context(), ownerFrom(r), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context(), ownerFrom(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}
