// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

package feed

import "errors"

// Error taxonomy for feed requests. Every failure is per-request; none is
// fatal to the process.
var (
	// ErrInvalidArgument marks malformed input: an empty search term, an
	// unknown dimension, or a non-positive batch size. Never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a missing related-feed anchor movie. Never retried.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable marks an unreachable entity store. The operation is
	// read-only and idempotent, so callers may safely retry upstream; the
	// engine itself never retries.
	ErrUnavailable = errors.New("store unavailable")
)
