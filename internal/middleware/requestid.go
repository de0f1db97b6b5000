// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

// Package middleware provides HTTP middleware shared by all API routes.
package middleware

import (
	"net/http"

	"github.com/kinocat/kinocat/internal/logging"
)

// RequestID middleware assigns a unique ID to each request and adds it to
// both the response header and the request context, so every log line a
// handler emits can be correlated with the response the client saw.
// An ID supplied by an upstream proxy via X-Request-ID is kept.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.ContextWithRequestID(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
