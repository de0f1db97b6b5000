// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

package models

// FeedResponse is the success envelope shared by every feed endpoint.
//
// Items is always present on success, even when the feed is exhausted and the
// batch is empty; clients interpret an empty batch as "nothing new to load".
// Count duplicates len(Items) for clients that only need the number.
//
// Example:
//
//	{
//	  "success": true,
//	  "items": [{"id": "...", "name": "...", ...}],
//	  "count": 12
//	}
type FeedResponse struct {
	Success bool    `json:"success"`
	Items   []Movie `json:"items"`
	Count   int     `json:"count"`
}

// ErrorResponse is the error envelope shared by every endpoint.
//
// Code is a machine-readable error code (INVALID_ARGUMENT, NOT_FOUND,
// UNAVAILABLE, VALIDATION_ERROR, INTERNAL_ERROR); Error is a human-readable
// message. Items is never present on error: a failed request yields either a
// complete valid batch or none at all.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Error   string `json:"error"`
}

// DataResponse is the success envelope for non-feed payloads
// (single movie lookups, genre totals, catalog statistics, suggestions).
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}
