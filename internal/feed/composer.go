// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/kinocat/kinocat/internal/models"
	"github.com/kinocat/kinocat/internal/store"
)

// EntityStore is the slice of the movie store the composer consumes.
// Satisfied by *store.Store.
type EntityStore interface {
	Sample(ctx context.Context, pred store.Predicate, n int) ([]models.Movie, error)
	SortedPage(ctx context.Context, pred store.Predicate, key store.SortKey, desc bool, n int) ([]models.Movie, error)
}

// Compose retrieves one feed batch: at most batchSize movies satisfying
// pred and not present in excl.
//
// The exclusion predicate is applied before sampling, never after -
// otherwise excluded movies could occupy sample slots and shrink the batch.
// An empty matching set yields an empty batch, not an error: the caller
// interprets it as "feed exhausted".
//
// Compose is a pure function of its arguments against the current store
// snapshot. It holds no state across calls and performs exactly one store
// round-trip. Store failures surface as ErrUnavailable without retry;
// retrying is safe upstream because the operation is read-only.
func Compose(ctx context.Context, st EntityStore, pred store.Predicate, excl ExclusionSet, batchSize int, strategy Strategy) ([]models.Movie, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidArgument, batchSize)
	}

	matcher := store.And(pred, notExcluded(excl))

	var (
		items []models.Movie
		err   error
	)
	switch strategy {
	case StrategyRanked:
		items, err = st.SortedPage(ctx, matcher, store.SortKeyViews, true, batchSize)
	case StrategySample:
		items, err = st.Sample(ctx, matcher, batchSize)
	default:
		return nil, fmt.Errorf("%w: unknown retrieval strategy %d", ErrInvalidArgument, strategy)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if items == nil {
		items = []models.Movie{}
	}
	return items, nil
}

// notExcluded builds the exclusion predicate. A nil or empty set matches
// everything.
func notExcluded(excl ExclusionSet) store.Predicate {
	if len(excl) == 0 {
		return nil
	}
	return func(m *models.Movie) bool {
		return !excl.Contains(m.ID)
	}
}
