// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

package feed

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/kinocat/kinocat/internal/models"
	"github.com/kinocat/kinocat/internal/store"
)

// AnchorLookup resolves the anchor movie of a related feed. Satisfied by
// *store.Store.
type AnchorLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Movie, error)
}

// Compile turns a feed dimension and its parameter into a store predicate,
// independent of exclusion and batch size.
//
// Parameters per dimension:
//   - DimensionAll, DimensionPopular: param ignored; the predicate matches
//     every movie (ordering distinguishes popular, not filtering).
//   - DimensionGenre: param is the genre label. Matching is exact,
//     case-insensitive, on trimmed labels. An unknown genre compiles fine
//     and simply matches nothing.
//   - DimensionSearch: param is the raw search term. A term that is empty
//     after trimming is ErrInvalidArgument - it signals a malformed request,
//     not an empty result.
//   - DimensionRelated: param is the anchor movie id. A missing anchor is
//     ErrNotFound; an unparsable id is ErrInvalidArgument.
//
// Only DimensionRelated consults the store (to resolve its anchor); every
// other dimension compiles without I/O.
func Compile(ctx context.Context, dim Dimension, param string, anchors AnchorLookup) (store.Predicate, error) {
	switch dim {
	case DimensionAll, DimensionPopular:
		return nil, nil

	case DimensionGenre:
		return genrePredicate(param), nil

	case DimensionSearch:
		return searchPredicate(param)

	case DimensionRelated:
		return relatedPredicate(ctx, param, anchors)

	default:
		return nil, fmt.Errorf("%w: unknown feed dimension %q", ErrInvalidArgument, dim)
	}
}

// genrePredicate matches movies whose trimmed genre equals the requested
// label, case-insensitively.
func genrePredicate(genre string) store.Predicate {
	want := strings.ToLower(strings.TrimSpace(genre))
	return func(m *models.Movie) bool {
		return strings.ToLower(strings.TrimSpace(m.Genre)) == want
	}
}

// searchPredicate matches movies where any free-text field contains the
// sanitized term, case-insensitively.
func searchPredicate(term string) (store.Predicate, error) {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: search term must be a non-empty string", ErrInvalidArgument)
	}

	pattern, err := regexp.Compile("(?i)" + EscapeSearchTerm(trimmed))
	if err != nil {
		// Unreachable after escaping, but a compile failure must never
		// surface as anything other than a bad request.
		return nil, fmt.Errorf("%w: unusable search term: %v", ErrInvalidArgument, err)
	}

	return func(m *models.Movie) bool {
		return pattern.MatchString(m.Name) ||
			pattern.MatchString(m.Interpreter) ||
			pattern.MatchString(m.Genre) ||
			pattern.MatchString(m.DisplayLanguage) ||
			pattern.MatchString(m.Country)
	}, nil
}

// relatedPredicate matches movies sharing the anchor's genre, excluding the
// anchor itself.
func relatedPredicate(ctx context.Context, rawID string, anchors AnchorLookup) (store.Predicate, error) {
	anchorID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid movie id %q", ErrInvalidArgument, rawID)
	}

	anchor, err := anchors.GetByID(ctx, anchorID)
	if err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			return nil, fmt.Errorf("%w: movie %s", ErrNotFound, anchorID)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: resolving anchor: %v", ErrUnavailable, err)
	}

	wantGenre := strings.ToLower(strings.TrimSpace(anchor.Genre))
	return func(m *models.Movie) bool {
		if m.ID == anchorID {
			return false
		}
		return strings.ToLower(strings.TrimSpace(m.Genre)) == wantGenre
	}, nil
}
