// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

// Package main is the entry point for the Kinocat server.
//
// Kinocat serves randomized, infinitely scrollable movie feeds over a REST
// API. Pagination is stateless: clients hold the set of movie ids they have
// already seen and resubmit it with every follow-up request, so the server
// keeps no per-client cursor and batches never repeat.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered loading via Koanf v2 (env > file > defaults)
//  2. Logging: zerolog global logger
//  3. Store: embedded Badger movie catalog, optionally seeded with mock data
//  4. HTTP API: Chi router with feed, catalog and admin endpoints
//  5. Supervision: suture tree running the HTTP server and store GC
//
// # Configuration
//
// All settings can be set through KINOCAT_* environment variables or a
// config.yaml file (path overridable with KINOCAT_CONFIG):
//
//	export KINOCAT_SERVER_PORT=8080
//	export KINOCAT_STORE_PATH=/data/kinocat
//	export KINOCAT_STORE_SEED_MOCK_DATA=true
//	./kinocat
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops accepting
// new connections, drains in-flight requests within the configured timeout,
// then closes the store.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/kinocat/kinocat/internal/api"
	"github.com/kinocat/kinocat/internal/config"
	"github.com/kinocat/kinocat/internal/logging"
	"github.com/kinocat/kinocat/internal/store"
	"github.com/kinocat/kinocat/internal/suggest"
	"github.com/kinocat/kinocat/internal/supervisor"
	"github.com/kinocat/kinocat/internal/supervisor/services"
)

func main() {
	configPath := flag.String("config", "", "path to config file (overrides default search)")
	flag.Parse()

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		// Default logger; config carrying the logging settings failed to load.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.ListenAddr()).
		Bool("in_memory", cfg.Store.InMemory).
		Msg("Starting Kinocat")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(store.Options{
		Path:       cfg.Store.Path,
		InMemory:   cfg.Store.InMemory,
		GCInterval: cfg.Store.GCInterval,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open movie store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Err(err).Msg("Failed to close movie store")
		}
	}()

	if cfg.Store.SeedMockData {
		if err := st.SeedMockData(ctx, cfg.Store.SeedCount); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed mock catalog")
		}
		logging.Info().Int("movies", cfg.Store.SeedCount).Msg("Seeded mock catalog")
	}

	handler := api.NewHandler(st, suggest.NewService(st, cfg.API.SuggestLimit), cfg.API)
	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      api.NewRouter(handler, cfg.API),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout

	tree := supervisor.NewTree(logging.NewSlogLogger(), treeConfig)
	tree.AddDataService(services.NewStoreGCService(st))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", cfg.ListenAddr()).Msg("Kinocat ready")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("Supervisor tree failed")
	}

	logging.Info().Msg("Kinocat stopped")
}
