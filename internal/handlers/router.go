package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes builds the API router.
func (h *Handler) Routes(allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/player", h.GetPlayer)
	r.Post("/player", h.CreatePlayer)
	r.Delete("/player", h.DeletePlayer)
	r.Get("/players", h.GetPlayers)
	r.Get("/player/stat", h.GetPlayerStats)
	r.Post("/player/stat", h.CreatePlayerStats)
	r.Get("/players/stats", h.GetAllPlayerStats)

	r.Get("/match", h.GetMatch)
	r.Post("/match", h.CreateMatch)
	r.Get("/matches", h.GetMatches)
	r.Get("/match/timeline", h.GetTimeline)
	r.Post("/match/timeline", h.CreateTimeline)
	r.Get("/matches/timelines", h.GetTimelines)

	r.Get("/match-history", h.GetMatchHistory)
	r.Get("/champion-stats", h.GetChampionStats)

	return r
}
