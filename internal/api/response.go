// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

// Package api provides the HTTP surface of Kinocat: feed endpoints, catalog
// lookups and admin CRUD, all sharing one response envelope.
package api

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/kinocat/kinocat/internal/feed"
	"github.com/kinocat/kinocat/internal/logging"
	"github.com/kinocat/kinocat/internal/models"
)

// Error codes for API responses
const (
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeUnavailable     = "UNAVAILABLE"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// respondJSON writes v as JSON with the given status code. Encoding failures
// are logged but cannot be reported to the client, the header is already out.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Err(err).Msg("failed to encode response")
	}
}

// respondFeed writes a successful feed batch. Items is never null in the
// response body: an exhausted feed serializes as an empty array.
func respondFeed(w http.ResponseWriter, items []models.Movie) {
	if items == nil {
		items = []models.Movie{}
	}
	respondJSON(w, http.StatusOK, models.FeedResponse{
		Success: true,
		Items:   items,
		Count:   len(items),
	})
}

// respondData writes a successful non-feed response.
func respondData(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, models.DataResponse{
		Success: true,
		Data:    data,
	})
}

// respondError writes an error response with a machine-readable code.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, models.ErrorResponse{
		Success: false,
		Code:    code,
		Error:   message,
	})
}

// respondFeedError maps feed pipeline errors onto HTTP statuses: bad input
// is 400, a missing anchor is 404, store trouble is 503. Anything else is an
// unexpected internal error.
func respondFeedError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, feed.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error())
	case errors.Is(err, feed.ErrNotFound):
		respondError(w, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, feed.ErrUnavailable):
		logging.Err(err).Msg("feed request failed")
		respondError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "catalog temporarily unavailable")
	default:
		logging.Err(err).Msg("unexpected feed error")
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}
