// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Miles for Meals API.

# Route Registration

NewRouter returns the configured handler, already wrapped in CORS:

	handler := router.NewRouter(svc, cfg)

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Progress record (public):

	GET /api/miles   - Current record (defaults when empty)
	GET /api/backups - Backups from the last 8 days

Admin (PIN in body, rate limited per client IP):

	POST /api/miles   - Replace the current record
	POST /api/restore - Copy a backup into the current record

Any other path, or a method not listed, gets 404 {"error":"Not found"}.
OPTIONS on any path is answered by the CORS middleware.
*/
package router
