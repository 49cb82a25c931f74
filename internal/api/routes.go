package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jmottin/moodcast-server/internal/config"
	"github.com/jmottin/moodcast-server/internal/db"
	"github.com/jmottin/moodcast-server/internal/mood"
	"github.com/jmottin/moodcast-server/internal/weights"
)

func NewRouter(cfg *config.Config, database *db.DB, engine *mood.Engine, tracker *weights.Tracker, loc *time.Location) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)

	handlers := NewHandlers(cfg, database, engine, tracker, loc)

	// Public endpoints
	r.Get("/health", handlers.Health)

	// API v1 routes (authenticated)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg))
		r.Use(JSONContentType)

		r.Post("/mood/infer", handlers.Infer)
		r.Get("/mood/latest", handlers.Latest)
		r.Get("/mood/history", handlers.History)
		r.Post("/mood/outcome", handlers.Outcome)
		r.Post("/sleep", handlers.Sleep)
		r.Get("/weights", handlers.Weights)
	})

	return r
}
