// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kinocat/kinocat/internal/config"
	"github.com/kinocat/kinocat/internal/feed"
	"github.com/kinocat/kinocat/internal/logging"
	"github.com/kinocat/kinocat/internal/metrics"
	"github.com/kinocat/kinocat/internal/store"
	"github.com/kinocat/kinocat/internal/suggest"
)

// Handler implements all Kinocat HTTP endpoints.
type Handler struct {
	store   *store.Store
	suggest *suggest.Service
	cfg     config.APIConfig
}

// NewHandler creates the endpoint handler.
func NewHandler(st *store.Store, sg *suggest.Service, cfg config.APIConfig) *Handler {
	return &Handler{
		store:   st,
		suggest: sg,
		cfg:     cfg,
	}
}

// serveFeed runs the shared feed pipeline: parse the exclusion set, compile
// the dimension predicate, compose one batch, respond.
func (h *Handler) serveFeed(w http.ResponseWriter, r *http.Request, dim feed.Dimension, param string, excludedIDs []string, batchSize int) {
	ctx := r.Context()

	excl, rejected := feed.ParseExclusionSet(excludedIDs)
	if rejected > 0 {
		metrics.RecordRejectedExcludedIDs(string(dim), rejected)
		logging.Ctx(ctx).Warn().
			Str("dimension", string(dim)).
			Int("rejected", rejected).
			Msg("dropped malformed excluded ids")
	}

	pred, err := feed.Compile(ctx, dim, param, h.store)
	if err != nil {
		metrics.RecordFeedRequest(string(dim), "error")
		respondFeedError(w, err)
		return
	}

	items, err := feed.Compose(ctx, h.store, pred, excl, batchSize, feed.StrategyFor(dim))
	if err != nil {
		metrics.RecordFeedRequest(string(dim), "error")
		respondFeedError(w, err)
		return
	}

	metrics.RecordFeedRequest(string(dim), "ok")
	metrics.RecordFeedBatch(string(dim), len(items))
	respondFeed(w, items)
}

// batchFor picks the batch size for single-endpoint feeds: a request with no
// exclusions is the feed's first page and gets the larger initial batch.
func (h *Handler) batchFor(excludedIDs []string) int {
	if len(excludedIDs) == 0 {
		return h.cfg.InitialBatchSize
	}
	return h.cfg.NextBatchSize
}

// InitialFeed handles GET /api/v1/feed.
// Returns the first batch of the unfiltered random feed.
func (h *Handler) InitialFeed(w http.ResponseWriter, r *http.Request) {
	h.serveFeed(w, r, feed.DimensionAll, "", nil, h.cfg.InitialBatchSize)
}

// NextFeed handles POST /api/v1/feed/next.
// Returns a follow-up batch of the unfiltered feed, excluding seen movies.
func (h *Handler) NextFeed(w http.ResponseWriter, r *http.Request) {
	var req NextFeedRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error())
		return
	}
	h.serveFeed(w, r, feed.DimensionAll, "", req.ExcludedIDs, h.cfg.NextBatchSize)
}

// PopularFeed handles GET /api/v1/feed/popular.
// Returns the most viewed movies, best first.
func (h *Handler) PopularFeed(w http.ResponseWriter, r *http.Request) {
	h.serveFeed(w, r, feed.DimensionPopular, "", nil, h.cfg.InitialBatchSize)
}

// NextPopularFeed handles POST /api/v1/feed/popular/next.
// Returns the next ranked slice of the popularity feed.
func (h *Handler) NextPopularFeed(w http.ResponseWriter, r *http.Request) {
	var req NextFeedRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error())
		return
	}
	h.serveFeed(w, r, feed.DimensionPopular, "", req.ExcludedIDs, h.cfg.NextBatchSize)
}

// GenreFeed handles POST /api/v1/feed/genre.
// The genre field routes to the matching dimension: "all" and "popular" are
// sentinels, anything else filters by genre label.
func (h *Handler) GenreFeed(w http.ResponseWriter, r *http.Request) {
	var req GenreFeedRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error())
		return
	}

	dim, param := feed.ResolveGenreDimension(req.Genre)
	h.serveFeed(w, r, dim, param, req.ExcludedIDs, h.batchFor(req.ExcludedIDs))
}

// SearchFeed handles POST /api/v1/feed/search.
func (h *Handler) SearchFeed(w http.ResponseWriter, r *http.Request) {
	var req SearchFeedRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error())
		return
	}
	h.serveFeed(w, r, feed.DimensionSearch, req.Term, req.ExcludedIDs, h.batchFor(req.ExcludedIDs))
}

// RelatedFeed handles POST /api/v1/feed/related.
func (h *Handler) RelatedFeed(w http.ResponseWriter, r *http.Request) {
	var req RelatedFeedRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error())
		return
	}
	h.serveFeed(w, r, feed.DimensionRelated, req.MovieID, req.ExcludedIDs, h.batchFor(req.ExcludedIDs))
}

// GetMovie handles GET /api/v1/movies/{id}.
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, "invalid movie id")
		return
	}

	movie, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "movie not found")
			return
		}
		logging.Ctx(r.Context()).Err(err).Str("movie_id", id.String()).Msg("movie lookup failed")
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "catalog temporarily unavailable")
		return
	}

	respondData(w, http.StatusOK, movie)
}

// SuggestTitles handles GET /api/v1/movies/suggest?q=term.
func (h *Handler) SuggestTitles(w http.ResponseWriter, r *http.Request) {
	metrics.SuggestRequestsTotal.Inc()

	suggestions, err := h.suggest.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		logging.Ctx(r.Context()).Err(err).Msg("suggestion lookup failed")
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "catalog temporarily unavailable")
		return
	}

	respondData(w, http.StatusOK, suggestions)
}

// Genres handles GET /api/v1/genres.
// Returns every genre present in the catalog with its movie count.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	counts, err := h.store.GenreCounts(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Err(err).Msg("genre listing failed")
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "catalog temporarily unavailable")
		return
	}

	respondData(w, http.StatusOK, counts)
}

// CatalogStats summarizes the catalog for GET /api/v1/stats.
type CatalogStats struct {
	Movies    int   `json:"movies"`
	Genres    int   `json:"genres"`
	Views     int64 `json:"views"`
	Downloads int64 `json:"downloads"`
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	totals, err := h.store.TotalCounters(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Err(err).Msg("stats aggregation failed")
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "catalog temporarily unavailable")
		return
	}

	genres, err := h.store.GenreCounts(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Err(err).Msg("stats aggregation failed")
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "catalog temporarily unavailable")
		return
	}

	respondData(w, http.StatusOK, CatalogStats{
		Movies:    totals.Movies,
		Genres:    len(genres),
		Views:     totals.Views,
		Downloads: totals.Downloads,
	})
}

// Health handles GET /healthz. The store is embedded, so a responsive
// process implies a usable catalog; a cheap count doubles as a probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if _, err := h.store.Count(r.Context(), nil); err != nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "store unavailable")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "ok"})
}
