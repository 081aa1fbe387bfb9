// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Miles for Meals API server.

Miles for Meals tracks a fundraising run: training and race miles plus
direct donations, measured against a target. A single current record is
kept alongside one dated backup per UTC day for the last week.

# Starting the Server

The server reads CLI flags, falling back to environment variables (and a
.env file in the working directory, when present):

	ADMIN_PIN=1234 STORE_URL=miles.db go run .

Or with flags:

	go run . -p 8787 -t redis -d localhost:6379 --admin-pin 1234

# Configuration

Required settings:

  - ADMIN_PIN (--admin-pin): PIN accepted by the write endpoints
  - STORE_URL (-d): sqlite file, PostgreSQL DSN or redis address (not needed for memory)

Optional settings:

  - PORT (-p): Server port (default: 8787)
  - STORE_TYPE (-t): memory, sqlite, postgres or redis (default: sqlite)
  - REDIS_PREFIX (--redis-prefix): key namespace for redis (default: miles:)
  - SWEEP_SCHEDULE (--sweep): cron expression for backup sweeps, or "off" (default: 0 3 * * *)
  - RATE_LIMIT (--rate): PIN endpoint requests per second per client (default: 5)
  - TRUST_PROXY (--trust-proxy): key the rate limit on X-Forwarded-For (default: false)
  - LOG_FORMAT (--log-format): text or json (default: text on a terminal)

# Architecture

  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, rate limiting, JSON helpers
  - records: Write, backup, restore and sweep rules
  - kv: Record stores (memory, sqlite, postgres, redis)
  - db: SQL schema creation
  - retention: Scheduled backup sweeps
  - auth: PIN authorization
  - metrics: Prometheus collectors
  - client: Go client used by cmd/milesctl
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
