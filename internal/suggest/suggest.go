// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

// Package suggest provides fuzzy title suggestions for search-as-you-type.
//
// Unlike the feed search dimension, which matches sanitized substrings across
// all free-text fields, suggestions match titles only and tolerate typos and
// gaps ("imposible" finds "Mission: Impossible"). Hidden movies never appear
// in suggestions.
package suggest

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/kinocat/kinocat/internal/models"
	"github.com/kinocat/kinocat/internal/store"
)

// Suggestion is a single title suggestion.
type Suggestion struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Genre          string    `json:"genre"`
	ThumbnailImage string    `json:"thumbnail_image"`
}

// Catalog is the slice of the movie store the service reads. Satisfied by
// *store.Store.
type Catalog interface {
	All(ctx context.Context, pred store.Predicate) ([]models.Movie, error)
}

// Service ranks visible movie titles against partial queries.
type Service struct {
	catalog Catalog
	limit   int
}

// NewService creates a suggestion service returning at most limit results
// per lookup.
func NewService(catalog Catalog, limit int) *Service {
	return &Service{catalog: catalog, limit: limit}
}

// Suggest returns up to the configured limit of visible movies whose names
// fuzzy-match the query, best matches first. An empty or whitespace-only
// query yields no suggestions.
func (s *Service) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Suggestion{}, nil
	}

	visible, err := s.catalog.All(ctx, func(m *models.Movie) bool {
		return m.Visible()
	})
	if err != nil {
		return nil, err
	}

	// Titles can repeat across movies, so rank names and map ranks back to
	// every movie carrying that name.
	byName := make(map[string][]models.Movie, len(visible))
	names := make([]string, 0, len(visible))
	for _, m := range visible {
		key := strings.ToLower(m.Name)
		if _, seen := byName[key]; !seen {
			names = append(names, key)
		}
		byName[key] = append(byName[key], m)
	}

	matches := fuzzy.RankFindFold(query, names)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	suggestions := make([]Suggestion, 0, s.limit)
	for _, match := range matches {
		for _, m := range byName[match.Target] {
			suggestions = append(suggestions, Suggestion{
				ID:             m.ID,
				Name:           m.Name,
				Genre:          m.Genre,
				ThumbnailImage: m.ThumbnailImage,
			})
			if len(suggestions) >= s.limit {
				return suggestions, nil
			}
		}
	}

	return suggestions, nil
}
