// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"time"
)

// AutoRefresh reloads the snapshot every interval until ctx is done or the
// returned stop func is called. Local edits made between refreshes are
// overwritten. stop blocks until the refresh goroutine has exited.
func (t *Tracker) AutoRefresh(ctx context.Context, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.clock.After(interval):
				// Load logs its own failures
				_ = t.Load(ctx)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
