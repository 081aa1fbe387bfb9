// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Miles for Meals API.

# Handler Types

MilesHandler wraps a records.Service:

	milesHandler := handlers.NewMilesHandler(svc)

# Endpoints

	GET  /api/miles   → GetMiles (defaults when nothing is stored)
	POST /api/miles   → UpdateMiles (pin in body)
	GET  /api/backups → ListBackups (last 8 UTC days)
	POST /api/restore → Restore (pin and backupKey in body)

# Errors

Service errors are mapped at the request boundary and written as
{"error": message}:

  - records.ErrUnauthorized  → 401 Invalid PIN
  - *records.ValidationError → 400 with the validation message
  - records.ErrNotFound      → 404 Backup not found
  - anything else            → 500, logged with slog

Malformed JSON bodies are rejected with 400 before the service is called.
*/
package handlers
