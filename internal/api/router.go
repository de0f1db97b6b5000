// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kinocat/kinocat/internal/config"
	"github.com/kinocat/kinocat/internal/middleware"
)

// NewRouter builds the Chi router with the full middleware chain and all
// routes mounted.
func NewRouter(h *Handler, cfg config.APIConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}))
	if !cfg.RateLimitDisabled {
		r.Use(httprate.Limit(
			cfg.RateLimitReqs,
			cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
		))
	}

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/feed", func(r chi.Router) {
			r.Get("/", h.InitialFeed)
			r.Post("/next", h.NextFeed)
			r.Get("/popular", h.PopularFeed)
			r.Post("/popular/next", h.NextPopularFeed)
			r.Post("/genre", h.GenreFeed)
			r.Post("/search", h.SearchFeed)
			r.Post("/related", h.RelatedFeed)
		})

		r.Route("/movies", func(r chi.Router) {
			r.Get("/suggest", h.SuggestTitles)
			r.Get("/{id}", h.GetMovie)
		})

		r.Get("/genres", h.Genres)
		r.Get("/stats", h.Stats)

		r.Route("/admin/movies", func(r chi.Router) {
			r.Post("/", h.CreateMovie)
			r.Put("/{id}", h.UpdateMovie)
			r.Delete("/{id}", h.DeleteMovie)
		})
	})

	return r
}
