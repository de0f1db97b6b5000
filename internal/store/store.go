// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

// Package store provides the BadgerDB-backed movie document store.
//
// Movies are stored as JSON documents under "movie:<uuid>" keys. All read
// operations evaluate a Predicate in-process during a single View
// transaction, so every feed request costs exactly one store round-trip.
// Random sampling uses reservoir sampling over the filtered scan, which
// keeps the uniform-without-replacement property without materializing the
// full matching set.
package store

import (
	"errors"
	"strings"
	"time"

	"github.com/kinocat/kinocat/internal/models"
)

// Key prefix for movie documents in BadgerDB.
const movieKeyPrefix = "movie:"

// Sentinel errors returned by store operations.
var (
	// ErrMovieNotFound is returned when a lookup by id finds no document.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrStoreClosed is returned when an operation runs against a closed store.
	ErrStoreClosed = errors.New("store is closed")
)

// Predicate is a declarative matching condition evaluated against movie
// documents. A nil Predicate matches every movie.
type Predicate func(m *models.Movie) bool

// And combines predicates; nil operands are treated as match-all.
func And(preds ...Predicate) Predicate {
	return func(m *models.Movie) bool {
		for _, p := range preds {
			if p != nil && !p(m) {
				return false
			}
		}
		return true
	}
}

// SortKey names a sortable movie attribute for SortedPage.
type SortKey string

// SortKeyViews orders movies by their view counter.
const SortKeyViews SortKey = "views"

// GenreCount is one entry of the per-genre catalog totals.
type GenreCount struct {
	Genre string `json:"genre"`
	Total int    `json:"total"`
}

// Totals aggregates catalog-wide counters.
type Totals struct {
	Movies    int   `json:"movies"`
	Views     int64 `json:"views"`
	Downloads int64 `json:"downloads"`
}

// Options configures a Store.
type Options struct {
	// Path is the on-disk BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory runs Badger without persistence. Used by tests and demos.
	InMemory bool

	// GCInterval is the value-log garbage collection interval for RunGC.
	GCInterval time.Duration

	// Seed fixes the sampling RNG seed. Zero means seed from the clock.
	// Tests use a fixed seed for reproducible sampling assertions.
	Seed int64
}

// DefaultOptions returns production defaults for the given path.
func DefaultOptions(path string) Options {
	return Options{
		Path:       path,
		GCInterval: 10 * time.Minute,
	}
}

// normalizeGenre trims surrounding whitespace from a genre label.
func normalizeGenre(genre string) string {
	return strings.TrimSpace(genre)
}

// foldGenre produces the case-insensitive aggregation key for a genre label.
func foldGenre(genre string) string {
	return strings.ToLower(genre)
}
