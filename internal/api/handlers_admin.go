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

	"github.com/kinocat/kinocat/internal/logging"
	"github.com/kinocat/kinocat/internal/models"
	"github.com/kinocat/kinocat/internal/store"
	"github.com/kinocat/kinocat/internal/validation"
)

// CreateMovie handles POST /api/v1/admin/movies.
func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req CreateMovieRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error())
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	movie := movieFromCreate(&req)
	if err := h.store.Put(r.Context(), movie); err != nil {
		logging.Ctx(r.Context()).Err(err).Msg("movie create failed")
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "catalog temporarily unavailable")
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("movie_id", movie.ID.String()).
		Str("name", movie.Name).
		Msg("movie created")
	respondData(w, http.StatusCreated, movie)
}

// UpdateMovie handles PUT /api/v1/admin/movies/{id}.
// The payload fully replaces the entry; creation time and id are kept.
func (h *Handler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, "invalid movie id")
		return
	}

	existing, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "movie not found")
			return
		}
		logging.Ctx(r.Context()).Err(err).Str("movie_id", id.String()).Msg("movie lookup failed")
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "catalog temporarily unavailable")
		return
	}

	var req UpdateMovieRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error())
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	movie := movieFromCreate(&req.CreateMovieRequest)
	movie.ID = existing.ID
	movie.CreatedAt = existing.CreatedAt
	movie.Views = req.Views
	movie.ViewsShort = req.ViewsShort
	movie.DownloadCount = req.DownloadCount
	movie.DownloadCountShort = req.DownloadCountShort

	if err := h.store.Put(r.Context(), movie); err != nil {
		logging.Ctx(r.Context()).Err(err).Str("movie_id", id.String()).Msg("movie update failed")
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "catalog temporarily unavailable")
		return
	}

	respondData(w, http.StatusOK, movie)
}

// DeleteMovie handles DELETE /api/v1/admin/movies/{id}.
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, "invalid movie id")
		return
	}

	if _, err := h.store.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			respondError(w, http.StatusNotFound, ErrCodeNotFound, "movie not found")
			return
		}
		logging.Ctx(r.Context()).Err(err).Str("movie_id", id.String()).Msg("movie lookup failed")
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "catalog temporarily unavailable")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		logging.Ctx(r.Context()).Err(err).Str("movie_id", id.String()).Msg("movie delete failed")
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "catalog temporarily unavailable")
		return
	}

	logging.Ctx(r.Context()).Info().Str("movie_id", id.String()).Msg("movie deleted")
	respondData(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

// movieFromCreate builds a Movie from a create payload. The store assigns
// id and timestamps.
func movieFromCreate(req *CreateMovieRequest) *models.Movie {
	return &models.Movie{
		Name:            req.Name,
		Genre:           req.Genre,
		Description:     req.Description,
		DownloadURL:     req.DownloadURL,
		WatchURL:        req.WatchURL,
		ThumbnailImage:  req.ThumbnailImage,
		ReleaseDate:     req.ReleaseDate,
		IsInterpreted:   req.IsInterpreted,
		Interpreter:     req.Interpreter,
		DisplayLanguage: req.DisplayLanguage,
		Country:         req.Country,
		IsSerie:         req.IsSerie,
		LinkedSerie:     req.LinkedSerie,
		Visibility:      models.Visibility(req.Visibility),
	}
}
