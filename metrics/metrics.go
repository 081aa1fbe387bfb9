// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is served by the router; collectors below register on it.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	RequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "miles_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})

	RequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "miles_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	RecordWrites = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "miles_record_writes_total",
		Help: "Writes to the current record by kind (update or restore).",
	}, []string{"kind"})

	AuthFailures = factory.NewCounter(prometheus.CounterOpts{
		Name: "miles_auth_failures_total",
		Help: "Rejected PIN attempts.",
	})

	StoreErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "miles_store_errors_total",
		Help: "Key-value store failures by operation.",
	}, []string{"op"})

	SweepRuns = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "miles_backup_sweeps_total",
		Help: "Backup retention sweeps by trigger (write or schedule).",
	}, []string{"trigger"})

	RateLimited = factory.NewCounter(prometheus.CounterOpts{
		Name: "miles_rate_limited_total",
		Help: "Requests rejected by the per-client rate limiter.",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}
