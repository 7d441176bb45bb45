// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package supervisor runs Cinegraph's long-lived services under a suture v4
supervisor tree.

	cinegraph
	├── data-layer
	│   └── outbox-retry        wal.RetryLoop replaying undelivered events
	├── messaging-layer
	│   ├── websocket-hub       fans feed events out to subscribed clients
	│   └── feed-consumer       eventprocessor.Consumer feeding the hub
	└── api-layer
	    └── http-server         HTTPServerService

Crashed services are restarted with backoff; each layer counts failures
separately. Supervisor events (start, stop, panic, backoff) are logged via
sutureslog into the zerolog-backed slog handler from the logging package.

Usage from main:

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(wal.NewRetryLoop(outbox, publisher))
	tree.AddMessagingService(hub)
	tree.AddMessagingService(eventprocessor.NewConsumer("feed-consumer", bus.Subscriber, topic, hub.HandleEvent))
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := tree.Serve(ctx)
*/
package supervisor
