package routes

import (
	"net/http"

	"hangul-fuzzy-search/internal/api/handlers"

	"github.com/go-chi/chi/v5"
)

func SetupSearchRoutes(r *chi.Mux, h *handlers.SearchHandler) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search", h.Search)
		r.Post("/similar", h.Similar)
		r.Post("/explain", h.Explain)
		r.Post("/feedback", h.Feedback)
		r.Get("/feedback/summary", h.FeedbackSummary)
	})

	r.Get("/health", h.HealthCheck)
	r.Get("/metrics", h.Telemetry)
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})
}
