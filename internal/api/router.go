package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hirensai111/Nible/internal/api/middleware"
	"github.com/hirensai111/Nible/internal/handlers"
	"github.com/hirensai111/Nible/internal/push"
	"github.com/hirensai111/Nible/internal/store"
	"github.com/hirensai111/Nible/internal/triggers"
)

// NewRouter creates and configures the HTTP router. Each trigger type is
// registered exactly once; the platform's event delivery is pointed at
// these routes.
func NewRouter(logger zerolog.Logger, st store.DocumentStore, sender push.Sender) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// CORS - trigger deliveries are server-to-server, keep it minimal
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := handlers.NewHandler(
		st,
		triggers.NewStatusTransitionNotifier(st, sender, logger),
		triggers.NewMessageFanoutNotifier(st, sender, logger),
		triggers.NewStatusSyncPropagator(st, logger),
		logger,
	)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/health", h.Health)

	// Trigger deliveries
	r.Post("/triggers/requests/{requestId}", h.RequestUpdated)
	r.Post("/triggers/conversations/{conversationId}/messages/{messageId}", h.MessageCreated)

	return r
}
