// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package config provides centralized configuration management for Cinegraph.

# Configuration Sources

Configuration is layered with Koanf v2, later sources overriding earlier ones:

 1. Struct defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, else config.yaml in the working
    directory, else /etc/cinegraph/config.yaml
 3. Environment variables, through an explicit mapping table

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default 8080), HTTP_TIMEOUT, SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging or production
  - CORS_ORIGINS: comma-separated list (default *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Database:
  - DB_DRIVER: duckdb (default) or memory
  - DUCKDB_PATH, DUCKDB_MEMORY, DUCKDB_THREADS

Events:
  - EVENT_BROKER: memory (default) or nats
  - NATS_URL, EVENT_TOPIC (default social-events)
  - NATS_EMBEDDED: run JetStream in-process; NATS_STORE_DIR holds its data
  - OUTBOX_PATH: badger directory; empty keeps the outbox in memory
  - OUTBOX_REPLAY_INTERVAL, OUTBOX_REPLAY_RATE
  - PUBLISH_TIMEOUT, BREAKER_MAX_FAILURES, BREAKER_TIMEOUT

Ranking:
  - POPULAR_DEFAULT_COUNT (default 10)
  - RANKING_CACHE_TTL (default 2s, 0 disables), RANKING_CACHE_CAPACITY

Logging:
  - LOG_LEVEL, LOG_FORMAT (json or console), LOG_CALLER

Unknown environment variables are ignored.
*/
package config
