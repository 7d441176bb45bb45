// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package main is the entry point for the Cinegraph server.
//
// Cinegraph is a social film catalogue: users like films, befriend each
// other and review films; the server keeps a per-user activity feed and
// answers popularity, common-film, search and recommendation queries.
//
// # Startup order
//
//  1. Configuration (koanf: defaults, config.yaml, environment)
//  2. Logging (zerolog)
//  3. Store (DuckDB or in-memory)
//  4. Event delivery: badger outbox, watermill bus, publisher
//  5. Social engine, ranker with snapshot cache, recommender
//  6. Supervisor tree: outbox replay, feed hub, feed consumer, HTTP server
//
// # Build tags
//
//	go build ./cmd/server                 # in-process event bus only
//	go build -tags nats ./cmd/server      # adds EVENT_BROKER=nats
//
// # Signals
//
// SIGINT and SIGTERM stop the supervisor tree: the HTTP server drains for
// up to SHUTDOWN_TIMEOUT, consumers and the hub stop, then the event
// components and the store are closed. Events still in the outbox are
// replayed on the next start.
//
// # Example
//
//	DB_DRIVER=memory LOG_FORMAT=console ./cinegraph
//	curl -X POST localhost:8080/api/v1/users \
//	  -d '{"email":"ann@example.com","login":"ann","birthday":"1990-04-01"}'
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/cinegraph/internal/api"
	"github.com/tomtom215/cinegraph/internal/cache"
	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/eventprocessor"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/social"
	"github.com/tomtom215/cinegraph/internal/supervisor"
	"github.com/tomtom215/cinegraph/internal/wal"
	"github.com/tomtom215/cinegraph/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	initLogging(cfg)
	watchConfig()

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("driver", cfg.Database.Driver).
		Str("broker", cfg.Events.Broker).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Cinegraph")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func initLogging(cfg *config.Config) {
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
}

// watchConfig re-applies the logging section when the config file
// changes. Every other setting needs a restart.
func watchConfig() {
	path := config.FilePath()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		cfg, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		initLogging(cfg)
		logging.Info().Str("level", cfg.Logging.Level).Msg("Logging configuration reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
	}
}

func run(cfg *config.Config) error {
	store, err := openStore(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	events, err := initEvents(&cfg.Events)
	if err != nil {
		return err
	}
	defer func() {
		if err := events.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event components")
		}
	}()

	engine := social.NewEngine(store, events.publisher)

	var snapshots cache.Cacher[*recommend.Snapshot]
	if cfg.Ranking.CacheTTL > 0 {
		snapshots = cache.NewLRU[*recommend.Snapshot](cfg.Ranking.CacheCapacity, cfg.Ranking.CacheTTL)
	}
	ranker := recommend.NewRanker(store, snapshots)
	engine.Likes.OnChange(ranker.Invalidate)

	hub := websocket.NewHub()

	handler, err := api.NewHandler(api.Deps{
		Engine:      engine,
		Recommender: recommend.NewRecommender(store),
		Ranker:      ranker,
		Config:      cfg,
		Hub:         hub,
		Publisher:   events.publisher,
		Outbox:      events.outbox,
	})
	if err != nil {
		return err
	}
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromServer(&cfg.Server))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(wal.NewRetryLoop(events.outbox, events.publisher))
	tree.AddMessagingService(hub)
	tree.AddMessagingService(eventprocessor.NewConsumer("feed-consumer", events.bus.Subscriber, cfg.Events.Topic, hub.HandleEvent))
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Supervisor tree starting")
	err = tree.Serve(ctx)

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
