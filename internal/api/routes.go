package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the router. Everything under /api is owner-scoped
// through the X-Owner-ID header.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Owner-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Use(RequireOwner)

		r.Post("/customers", h.CreateCustomer)
		r.Get("/customers", h.ListCustomers)

		r.Post("/orders", h.CreateOrder)
		r.Get("/orders", h.ListOrders)

		r.Post("/campaigns", h.CreateCampaign)
		r.Get("/campaigns", h.ListCampaigns)
		r.Get("/campaigns/stats", h.CampaignStats)
		r.Post("/campaigns/preview", h.PreviewAudience)

		r.Post("/delivery/simulate", h.SimulateDelivery)
		r.Post("/delivery/receipt", h.DeliveryReceipt)
		r.Get("/logs/{campaignID}", h.CampaignLogs)

		r.Get("/dashboard/summary", h.DashboardSummary)

		r.Post("/segments/suggest", h.SuggestSegment)
	})

	return r
}
