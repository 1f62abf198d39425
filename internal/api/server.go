// Package api exposes the HTTP surface: thin chi handlers over the
// customer, order, campaign, delivery and stats services.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/engage/internal/advisor"
	"github.com/ignite/engage/internal/service/campaign"
	"github.com/ignite/engage/internal/service/customer"
	"github.com/ignite/engage/internal/service/delivery"
	"github.com/ignite/engage/internal/service/order"
	"github.com/ignite/engage/internal/service/stats"
)

// Handlers bundles the services the HTTP layer dispatches to.
type Handlers struct {
	customers *customer.Service
	orders    *order.Service
	campaigns *campaign.Service
	delivery  *delivery.Simulator
	stats     *stats.Aggregator
	advisor   advisor.RuleSuggester
}

// NewHandlers creates the handler set. advisor may be nil; the suggest
// endpoint then reports the feature as unavailable.
func NewHandlers(
	customers *customer.Service,
	orders *order.Service,
	campaigns *campaign.Service,
	sim *delivery.Simulator,
	agg *stats.Aggregator,
	suggester advisor.RuleSuggester,
) *Handlers {
	if suggester == nil {
		suggester = advisor.Disabled{}
	}
	return &Handlers{
		customers: customers,
		orders:    orders,
		campaigns: campaigns,
		delivery:  sim,
		stats:     agg,
		advisor:   suggester,
	}
}

// Server wraps the router in an http.Server with sane timeouts.
type Server struct {
	router *chi.Mux
	server *http.Server
}

// NewServer creates a server over the handler set.
func NewServer(h *Handlers) *Server {
	return &Server{router: SetupRoutes(h)}
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.router
}
