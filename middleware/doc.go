// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/miles", middleware.WithLogging(handler))

Logs request start and completion with a request ID (taken from
X-Request-ID or generated), and records per-route counts and latency in
package metrics.

# CORS Middleware

Every response allows any origin:

	Access-Control-Allow-Origin: *
	Access-Control-Allow-Methods: GET, POST, OPTIONS
	Access-Control-Allow-Headers: Content-Type

OPTIONS preflights are answered with an empty 200 and never reach the mux.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message") // {"error":"message"}

	var req models.UpdateMilesRequest
	if err := middleware.ParseJSONBody(w, r, &req); err != nil { ... }

Bodies are capped at MaxBodyBytes.

# Rate Limiting

PIN-protected endpoints get a token bucket per client IP:

	rl := middleware.NewRateLimiter(5, 10, false)
	mux.HandleFunc("POST /api/miles", middleware.WithLogging(rl.Limit(handler)))

Clients are keyed by RemoteIP. Only when trustProxy is set (the server runs
behind a proxy that owns X-Forwarded-For) does the limiter use GetClientIP.
Buckets idle for ten minutes are dropped.
*/
package middleware
