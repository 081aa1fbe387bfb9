// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/danielhkuo/miles-for-meals/auth"
	"github.com/danielhkuo/miles-for-meals/cliparse"
	"github.com/danielhkuo/miles-for-meals/clock"
	"github.com/danielhkuo/miles-for-meals/kv"
	"github.com/danielhkuo/miles-for-meals/records"
	"github.com/danielhkuo/miles-for-meals/retention"
	"github.com/danielhkuo/miles-for-meals/router"
)

func main() {
	var err error

	if err := cliparse.LoadDotEnv(".env"); err != nil {
		slog.Error("Error loading .env", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.LogFormat))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the record store
	store, err := kv.Open(ctx, kv.Config{
		Type:   cfg.StoreType,
		URL:    cfg.StoreURL,
		Prefix: cfg.RedisPrefix,
	})
	if err != nil {
		slog.Error("store open failed", "type", cfg.StoreType, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Store ready", "type", cfg.StoreType)

	svc := records.NewService(store, auth.NewPINAuthorizer(cfg.AdminPIN), clock.Real{})

	// Scheduled retention, independent of writes
	sched, err := retention.NewScheduler(cfg.SweepSchedule, svc, clock.Real{})
	if err != nil {
		slog.Error("invalid sweep schedule", "schedule", cfg.SweepSchedule, "error", err)
		os.Exit(1)
	}
	if sched != nil {
		go sched.Run(ctx)
	} else {
		slog.Info("Scheduled sweeps disabled")
	}

	// Create server
	server := &http.Server{
		Handler:           router.NewRouter(svc, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.Port))
	if err != nil {
		slog.Error("listen failed", "port", cfg.Port, "error", err)
		store.Close()
		os.Exit(1)
	}

	// Start server; the deferred store Close runs only after draining
	slog.Info("Listening", "port", cfg.Port)
	if err := serve(ctx, server, ln, 10*time.Second); err != nil {
		slog.Error("Server closed", "error", err)
		return
	}
	slog.Info("Server closed")
}

// serve runs server on ln until ctx is done, then waits up to drainTimeout
// for in-flight requests before returning.
func serve(ctx context.Context, server *http.Server, ln net.Listener, drainTimeout time.Duration) error {
	drained := make(chan error, 1)
	go func() {
		// Wait for Ctrl-C or SIGTERM
		<-ctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
		defer cancel()
		drained <- server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-drained; err != nil {
		return fmt.Errorf("shutdown incomplete: %w", err)
	}
	return nil
}

// newLogger picks the handler from format, or from whether stderr is a
// terminal when format is empty.
func newLogger(format string) *slog.Logger {
	if format == "" {
		format = "json"
		if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
			format = "text"
		}
	}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
