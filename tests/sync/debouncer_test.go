package sync_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsync "github.com/veltra-services/fieldservice-api/internal/sync"
	"go.uber.org/zap"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDebouncer_BurstRunsOnce(t *testing.T) {
	var runs int64
	d := appsync.NewDebouncer(50*time.Millisecond, time.Second, func(ctx context.Context) {
		atomic.AddInt64(&runs, 1)
	}, zap.NewNop())
	defer d.Stop()

	for i := 0; i < 5; i++ {
		accepted, state := d.Notify()
		assert.True(t, accepted)
		assert.Equal(t, appsync.StateDebouncing, state)
		time.Sleep(10 * time.Millisecond)
	}

	waitFor(t, time.Second, func() bool {
		return atomic.LoadInt64(&runs) == 1
	})

	// No further runs after the burst settles
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(1), atomic.LoadInt64(&runs))
	assert.Equal(t, appsync.StateIdle, d.State())
}

func TestDebouncer_EachNotificationRestartsWindow(t *testing.T) {
	var runs int64
	d := appsync.NewDebouncer(80*time.Millisecond, time.Second, func(ctx context.Context) {
		atomic.AddInt64(&runs, 1)
	}, zap.NewNop())
	defer d.Stop()

	// Keep notifying faster than the window: nothing may fire yet
	for i := 0; i < 4; i++ {
		d.Notify()
		time.Sleep(40 * time.Millisecond)
	}
	assert.Equal(t, int64(0), atomic.LoadInt64(&runs))

	waitFor(t, time.Second, func() bool {
		return atomic.LoadInt64(&runs) == 1
	})
}

func TestDebouncer_DropsNotificationsMidSync(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var runs int64

	d := appsync.NewDebouncer(10*time.Millisecond, time.Second, func(ctx context.Context) {
		atomic.AddInt64(&runs, 1)
		close(started)
		<-release
	}, zap.NewNop())
	defer d.Stop()

	accepted, _ := d.Notify()
	require.True(t, accepted)
	<-started

	assert.Equal(t, appsync.StateSyncing, d.State())

	// Mid-sync notifications are dropped, not queued
	accepted, state := d.Notify()
	assert.False(t, accepted)
	assert.Equal(t, appsync.StateSyncing, state)

	close(release)
	waitFor(t, time.Second, func() bool {
		return d.State() == appsync.StateIdle
	})
	assert.Equal(t, int64(1), atomic.LoadInt64(&runs), "dropped notification must not queue a second run")
}

func TestDebouncer_StopCancelsPendingWindow(t *testing.T) {
	var runs int64
	d := appsync.NewDebouncer(30*time.Millisecond, time.Second, func(ctx context.Context) {
		atomic.AddInt64(&runs, 1)
	}, zap.NewNop())

	accepted, _ := d.Notify()
	require.True(t, accepted)
	d.Stop()

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int64(0), atomic.LoadInt64(&runs))

	accepted, state := d.Notify()
	assert.False(t, accepted, "stopped debouncer rejects notifications")
	assert.Equal(t, appsync.StateIdle, state)
}

func TestDebouncer_SyncContextCarriesTimeout(t *testing.T) {
	gotDeadline := make(chan bool, 1)
	d := appsync.NewDebouncer(10*time.Millisecond, 5*time.Second, func(ctx context.Context) {
		_, ok := ctx.Deadline()
		gotDeadline <- ok
	}, zap.NewNop())
	defer d.Stop()

	d.Notify()
	select {
	case ok := <-gotDeadline:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("sync did not run")
	}
}
