// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

package feed

import "strings"

// searchMetachars are the characters meaningful in the pattern syntax used
// by the search predicate. Each is escaped with a backslash so client input
// always matches literally.
const searchMetachars = `\^$.*+?()[]{}|`

// EscapeSearchTerm returns term with every pattern metacharacter escaped.
// Case and all other characters are preserved; case-insensitivity is applied
// later when the predicate is compiled. This is a pure string transform with
// no knowledge of the store.
func EscapeSearchTerm(term string) string {
	var b strings.Builder
	b.Grow(len(term))
	for _, r := range term {
		if r < 0x80 && strings.ContainsRune(searchMetachars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
