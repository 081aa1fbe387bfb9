// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8787)
  - StoreType: memory, sqlite, postgres or redis (default: sqlite)
  - StoreURL: sqlite file, postgres DSN or redis address (required unless memory)
  - RedisPrefix: key prefix for the redis store (default: "miles:")
  - AdminPIN: shared secret for writes and restores (required)
  - SweepSchedule: cron expression for backup sweeps, or "off" (default: "0 3 * * *")
  - RateLimit: PIN endpoint requests per second per client (default: 5, 0 disables)
  - LogFormat: text or json (default: text on a terminal, json otherwise)

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	STORE_TYPE     → -t
	STORE_URL      → -d
	REDIS_PREFIX   → --redis-prefix
	ADMIN_PIN      → --admin-pin
	SWEEP_SCHEDULE → --sweep
	RATE_LIMIT     → --rate
	TRUST_PROXY    → --trust-proxy
	LOG_FORMAT     → --log-format

CLI flags take precedence over environment variables. LoadDotEnv reads a
.env file into the environment first, without overriding variables that
are already set.

# Example

	cliparse.LoadDotEnv(".env")
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
*/
package cliparse
