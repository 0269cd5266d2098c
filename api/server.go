/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the HR frontend

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Department routes
		r.Route("/departments", func(r chi.Router) {
			r.Get("/", h.ListDepartments)
			r.Get("/{id}/templates", h.GetTemplates)
			r.Get("/{id}/pay-periods", h.GetPayPeriods)
			r.Get("/{id}/pay-periods/current", h.GetCurrentPayPeriod)
		})

		// Template routes
		r.Route("/templates", func(r chi.Router) {
			r.Post("/preview", h.PreviewTemplates)
		})

		// Hours routes
		r.Route("/pay-periods", func(r chi.Router) {
			r.Get("/hours", h.GetEmployeeHours)
			r.Post("/totals", h.GetPeriodTotals)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/templates/migrate", h.MigrateTemplates)
			r.Post("/templates/repair", h.RepairTemplates)
		})
	})

	return r
}
