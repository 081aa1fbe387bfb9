// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package retention prunes old backups on a cron schedule, so the backup
// window holds even when nobody writes.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorhill/cronexpr"

	"github.com/danielhkuo/miles-for-meals/clock"
	"github.com/danielhkuo/miles-for-meals/metrics"
)

// Off disables the scheduled sweep.
const Off = "off"

// Sweeper is the part of records.Service the scheduler needs.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) error
}

// Scheduler runs Sweep at the times given by a cron expression, in UTC.
type Scheduler struct {
	expr    *cronexpr.Expression
	sweeper Sweeper
	clock   clock.Clock
	logger  *slog.Logger
}

// NewScheduler parses schedule. It returns nil, nil when schedule is Off.
func NewScheduler(schedule string, sweeper Sweeper, clk clock.Clock) (*Scheduler, error) {
	if schedule == Off {
		return nil, nil
	}
	expr, err := cronexpr.Parse(schedule)
	if err != nil {
		return nil, fmt.Errorf("bad sweep schedule %q: %w", schedule, err)
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Scheduler{
		expr:    expr,
		sweeper: sweeper,
		clock:   clk,
		logger:  slog.Default().With("component", "retention"),
	}, nil
}

// Next returns the first scheduled sweep strictly after now.
func (s *Scheduler) Next(now time.Time) time.Time {
	return s.expr.Next(now.UTC())
}

// Run sweeps on schedule until ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		now := s.clock.Now()
		next := s.Next(now)
		if next.IsZero() {
			s.logger.Warn("sweep schedule has no future runs")
			return
		}

		select {
		case <-ctx.Done():
			return
		case fired := <-s.clock.After(next.Sub(now)):
			if err := s.sweeper.Sweep(ctx, fired); err != nil {
				s.logger.Warn("scheduled sweep incomplete", "error", err)
			} else {
				s.logger.Info("scheduled sweep done", "at", fired)
			}
			metrics.SweepRuns.WithLabelValues("schedule").Inc()
		}
	}
}
