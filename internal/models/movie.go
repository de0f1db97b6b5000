// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

// Package models defines the movie document and the API response envelopes
// shared by the store, the feed engine, and the HTTP layer.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Visibility controls whether a movie is eligible for suggestion lookups.
// Feed dimensions do not filter by visibility; only the suggestion path does.
type Visibility string

const (
	// VisibilityShow marks a movie as publicly suggestible.
	VisibilityShow Visibility = "show"

	// VisibilityHidden excludes a movie from suggestion lookups.
	VisibilityHidden Visibility = "hidden"
)

// Movie is the catalog document and the sampling unit of every feed.
//
// The free-text fields Name, Interpreter, Genre, DisplayLanguage and Country
// are eligible for case-insensitive search matching. Views drives the
// popularity ordering. The ID is assigned by the store on first insert.
type Movie struct {
	ID uuid.UUID `json:"id"`

	Name        string `json:"name" validate:"required,min=1,max=200"`
	Genre       string `json:"genre" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"required,min=100,max=500"`

	DownloadURL    string `json:"download_url" validate:"required,url"`
	WatchURL       string `json:"watch_url" validate:"required,url"`
	ThumbnailImage string `json:"thumbnail_image" validate:"required,url"`

	Views              int64  `json:"views" validate:"min=0"`
	ViewsShort         string `json:"views_short,omitempty"`
	DownloadCount      int64  `json:"download_count" validate:"min=0"`
	DownloadCountShort string `json:"download_count_short,omitempty"`

	ReleaseDate string `json:"release_date,omitempty"`

	IsInterpreted   bool   `json:"is_interpreted"`
	Interpreter     string `json:"interpreter,omitempty"`
	DisplayLanguage string `json:"display_language" validate:"required,min=1,max=100"`
	Country         string `json:"country,omitempty"`

	IsSerie     bool   `json:"is_serie"`
	LinkedSerie string `json:"linked_serie,omitempty"`

	Visibility Visibility `json:"visibility" validate:"omitempty,oneof=show hidden"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Visible reports whether the movie may appear in suggestion lookups.
// An unset visibility defaults to show, matching the catalog schema default.
func (m *Movie) Visible() bool {
	return m.Visibility == VisibilityShow || m.Visibility == ""
}
