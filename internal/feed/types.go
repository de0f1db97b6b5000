// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

package feed

import "strings"

// Dimension identifies one of the five feed surfaces.
type Dimension string

const (
	// DimensionAll is the unconstrained browse feed.
	DimensionAll Dimension = "all"

	// DimensionPopular is the views-descending popularity feed. It shares
	// the match-all predicate with DimensionAll; ordering, not filtering,
	// distinguishes it.
	DimensionPopular Dimension = "popular"

	// DimensionGenre filters by case-insensitive exact genre match.
	DimensionGenre Dimension = "genre"

	// DimensionSearch filters by case-insensitive substring match over the
	// free-text fields.
	DimensionSearch Dimension = "search"

	// DimensionRelated filters to movies sharing the anchor movie's genre.
	DimensionRelated Dimension = "related"
)

// Strategy selects how a batch is retrieved from the store.
type Strategy int

const (
	// StrategySample draws a uniform without-replacement random sample.
	StrategySample Strategy = iota

	// StrategyRanked takes the top of the views-descending ordering.
	StrategyRanked
)

// StrategyFor returns the retrieval strategy for a dimension. Only the
// popularity feed is rank-ordered; every other dimension samples.
func StrategyFor(dim Dimension) Strategy {
	if dim == DimensionPopular {
		return StrategyRanked
	}
	return StrategySample
}

// Genre sentinels: the genre surface historically doubles as an entry point
// for the browse and popularity feeds.
const (
	sentinelAll     = "all"
	sentinelPopular = "popular"
)

// ResolveGenreDimension maps a client-supplied genre value onto the actual
// dimension it addresses. An absent genre or the sentinel "all" selects the
// browse feed and "popular" selects the popularity feed; anything else is a
// genre filter with the trimmed label as parameter.
func ResolveGenreDimension(genre string) (Dimension, string) {
	trimmed := strings.TrimSpace(genre)
	switch strings.ToLower(trimmed) {
	case "", sentinelAll:
		return DimensionAll, ""
	case sentinelPopular:
		return DimensionPopular, ""
	default:
		return DimensionGenre, trimmed
	}
}
