// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/miles-for-meals/cliparse"
	"github.com/danielhkuo/miles-for-meals/handlers"
	"github.com/danielhkuo/miles-for-meals/metrics"
	"github.com/danielhkuo/miles-for-meals/middleware"
	"github.com/danielhkuo/miles-for-meals/records"
)

// NewRouter returns the API wrapped in CORS, so every response (errors and
// 404s included) carries the permissive headers.
func NewRouter(svc *records.Service, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	milesHandler := handlers.NewMilesHandler(svc)
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, cfg.TrustProxy)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// Progress record (public reads)
	mux.HandleFunc("GET /api/miles", middleware.WithLogging(milesHandler.GetMiles))
	mux.HandleFunc("GET /api/backups", middleware.WithLogging(milesHandler.ListBackups))

	// PIN-protected writes
	mux.HandleFunc("POST /api/miles", middleware.WithLogging(limiter.Limit(milesHandler.UpdateMiles)))
	mux.HandleFunc("POST /api/restore", middleware.WithLogging(limiter.Limit(milesHandler.Restore)))

	// Everything else
	mux.HandleFunc("/", middleware.WithLogging(func(w http.ResponseWriter, r *http.Request) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	}))

	return middleware.CORS(mux)
}
