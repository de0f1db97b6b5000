// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

package feed

import "github.com/google/uuid"

// ExclusionSet is the set of movie ids the requesting client has already
// received in the current feed session. It is client-held: the server never
// persists it, which is what keeps feed pagination stateless.
type ExclusionSet map[uuid.UUID]struct{}

// Contains reports whether id is excluded.
func (s ExclusionSet) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of excluded ids.
func (s ExclusionSet) Len() int {
	return len(s)
}

// ParseExclusionSet parses client-submitted id tokens into an ExclusionSet.
//
// Tokens that do not parse as UUIDs are dropped rather than failing the
// request - an unparsable token merely means that id cannot be excluded.
// The number of dropped tokens is returned so callers can surface the data
// quality issue to observability. Duplicates deduplicate silently; an empty
// input yields a valid empty set ("no items seen yet").
//
// The codec is pure: it never touches the store.
func ParseExclusionSet(tokens []string) (ExclusionSet, int) {
	set := make(ExclusionSet, len(tokens))
	rejected := 0
	for _, tok := range tokens {
		id, err := uuid.Parse(tok)
		if err != nil {
			rejected++
			continue
		}
		set[id] = struct{}{}
	}
	return set, rejected
}
