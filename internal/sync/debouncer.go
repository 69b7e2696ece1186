// Package sync coalesces remote-change notifications into periodic roster
// sync runs.
package sync

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Debouncer states as reported to callers of Notify.
const (
	StateIdle       = "idle"
	StateDebouncing = "debouncing"
	StateSyncing    = "syncing"
)

// SyncFunc is the work the debouncer triggers once a burst settles.
type SyncFunc func(ctx context.Context)

// Debouncer coalesces bursts of remote-change notifications: each
// notification restarts a fixed window, and the sync runs once the window
// elapses without further notifications. At most one sync is in flight at a
// time; notifications arriving mid-sync are dropped, not queued. A burst
// during the window is one sync, a notification during the sync is none.
type Debouncer struct {
	window  time.Duration
	run     SyncFunc
	timeout time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	timer    *time.Timer
	inFlight bool
	stopped  bool
}

func NewDebouncer(window, timeout time.Duration, run SyncFunc, logger *zap.Logger) *Debouncer {
	return &Debouncer{
		window:  window,
		run:     run,
		timeout: timeout,
		logger:  logger,
	}
}

// Notify records one remote-change notification. It returns whether the
// notification was accepted and the debouncer state after the call. A
// rejected notification means a sync is already in flight and the change
// will be picked up by it (or by the next accepted notification).
func (d *Debouncer) Notify() (accepted bool, state string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return false, StateIdle
	}
	if d.inFlight {
		d.logger.Debug("change notification dropped, sync in flight")
		return false, StateSyncing
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fire)
	d.logger.Debug("change notification accepted",
		zap.Duration("window", d.window))
	return true, StateDebouncing
}

// State reports the current debouncer state without recording a notification.
func (d *Debouncer) State() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.inFlight:
		return StateSyncing
	case d.timer != nil:
		return StateDebouncing
	default:
		return StateIdle
	}
}

// Stop cancels any pending window. A sync already in flight completes.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// fire runs when the window elapses. It flips the in-flight guard, runs the
// sync on the calling timer goroutine, and clears the guard when done.
func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped || d.inFlight {
		d.mu.Unlock()
		return
	}
	d.inFlight = true
	d.timer = nil
	d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	d.logger.Info("debounce window elapsed, starting sync")
	d.run(ctx)
	d.logger.Info("sync finished", zap.Duration("duration", time.Since(start)))

	d.mu.Lock()
	d.inFlight = false
	d.mu.Unlock()
}
