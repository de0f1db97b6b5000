// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

package services

import (
	"context"

	"github.com/kinocat/kinocat/internal/store"
)

// StoreGCService runs the store's value-log garbage collection loop as a
// supervised service, so a GC crash restarts the loop instead of leaking
// disk space silently.
type StoreGCService struct {
	store *store.Store
}

// NewStoreGCService creates the garbage collection service.
func NewStoreGCService(st *store.Store) *StoreGCService {
	return &StoreGCService{store: st}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	return s.store.RunGC(ctx)
}

// String implements fmt.Stringer; suture uses it in event logs.
func (s *StoreGCService) String() string {
	return "store-gc"
}
