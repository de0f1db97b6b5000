// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

// Package feed implements the randomized, exclusion-set-driven feed
// pagination engine behind every "load more" surface.
//
// The engine is stateless: the set of already-delivered item ids lives in
// the client and travels with each request. A feed request is processed in
// four steps:
//
//  1. ParseExclusionSet turns the client-submitted id tokens into a set of
//     native ids, silently dropping (and counting) unparsable tokens.
//  2. Compile turns the requested dimension (all, popular, genre, search,
//     related) into a store predicate, independent of exclusion.
//  3. EscapeSearchTerm neutralizes pattern metacharacters in free-text
//     search input before it reaches the predicate.
//  4. Compose combines predicate, exclusion and batch size, and retrieves
//     the batch with the dimension's strategy: a uniform random sample for
//     browsing dimensions, a deterministic views-descending page for the
//     popularity dimension.
//
// Because pagination excludes by identity rather than by position, the
// popular feed pages monotonically through a rank-ordered list even while
// the catalog mutates underneath it; offset-based pagination cannot make
// that guarantee.
package feed
