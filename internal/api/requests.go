// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
)

// maxRequestBody caps request payloads. Exclusion sets grow with scroll
// depth, but even a pathological client stays far below this.
const maxRequestBody = 1 << 20 // 1MB

// NextFeedRequest asks for a follow-up batch of an unfiltered feed.
type NextFeedRequest struct {
	ExcludedIDs []string `json:"excluded_ids"`
}

// GenreFeedRequest asks for a batch of a genre feed. Genre accepts the
// sentinels "all" and "popular" alongside real genre labels.
type GenreFeedRequest struct {
	Genre       string   `json:"genre" validate:"required"`
	ExcludedIDs []string `json:"excluded_ids"`
}

// SearchFeedRequest asks for a batch of a search feed.
type SearchFeedRequest struct {
	Term        string   `json:"term" validate:"required"`
	ExcludedIDs []string `json:"excluded_ids"`
}

// RelatedFeedRequest asks for a batch of movies related to an anchor movie.
type RelatedFeedRequest struct {
	MovieID     string   `json:"movie_id" validate:"required,uuid4"`
	ExcludedIDs []string `json:"excluded_ids"`
}

// CreateMovieRequest carries a new catalog entry.
type CreateMovieRequest struct {
	Name            string `json:"name" validate:"required"`
	Genre           string `json:"genre" validate:"required"`
	Description     string `json:"description" validate:"required,min=100,max=500"`
	DownloadURL     string `json:"download_url" validate:"required,url"`
	WatchURL        string `json:"watch_url" validate:"required,url"`
	ThumbnailImage  string `json:"thumbnail_image" validate:"required,url"`
	ReleaseDate     string `json:"release_date"`
	IsInterpreted   bool   `json:"is_interpreted"`
	Interpreter     string `json:"interpreter"`
	DisplayLanguage string `json:"display_language" validate:"required"`
	Country         string `json:"country"`
	IsSerie         bool   `json:"is_serie"`
	LinkedSerie     string `json:"linked_serie"`
	Visibility      string `json:"visibility" validate:"omitempty,oneof=show hidden"`
}

// UpdateMovieRequest carries a full replacement for an existing entry.
// Counters are updatable here because view and download totals arrive from
// an external ingest job, not from this service.
type UpdateMovieRequest struct {
	CreateMovieRequest
	Views              int64  `json:"views" validate:"min=0"`
	ViewsShort         string `json:"views_short"`
	DownloadCount      int64  `json:"download_count" validate:"min=0"`
	DownloadCountShort string `json:"download_count_short"`
}

// decodeJSON decodes the request body into v, translating decode failures
// into client-facing messages. A type mismatch names the offending field
// (the common case is excluded_ids arriving as a string instead of an
// array), so clients can fix the request without guessing.
func decodeJSON(r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxRequestBody)
	defer body.Close()

	err := json.NewDecoder(body).Decode(v)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Errorf("field %q must be of type %s", typeErr.Field, typeErr.Type)
		}
		return fmt.Errorf("request body must be a JSON object")
	case errors.Is(err, io.EOF):
		return fmt.Errorf("request body must not be empty")
	default:
		return fmt.Errorf("malformed JSON in request body")
	}
}
