package storage

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestCleanupScheduler_RunsOnStartupAndTick(t *testing.T) {
	SetTestPaths(t.TempDir())
	defer ResetPaths()

	first := writeSession(t, "startup-old", 48*time.Hour, 1)

	tick := make(chan time.Time)
	stopped := make(chan struct{})
	scheduler := &CleanupScheduler{
		Cleaner:  &Cleaner{MaxAgeDays: 1},
		Interval: time.Hour,
		NewTicker: func(time.Duration) (<-chan time.Time, func()) {
			return tick, func() { close(stopped) }
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx)
		close(done)
	}()

	// The unbuffered send only completes once Run is in its loop, which
	// is after the startup cleanup.
	tick <- time.Time{}
	if exists(first) {
		t.Fatal("expected startup cleanup to remove old session")
	}

	second := writeSession(t, "tick-old", 48*time.Hour, 1)
	tick <- time.Time{}
	// A second send proves the previous tick's cleanup finished.
	tick <- time.Time{}
	if _, err := os.Stat(second); !os.IsNotExist(err) {
		t.Fatalf("expected tick cleanup to remove session, stat err: %v", err)
	}

	cancel()
	<-done
	select {
	case <-stopped:
	default:
		t.Error("expected ticker stop on exit")
	}
}

func TestCleanupScheduler_NoInterval(t *testing.T) {
	SetTestPaths(t.TempDir())
	defer ResetPaths()

	p := writeSession(t, "old", 48*time.Hour, 1)
	scheduler := &CleanupScheduler{
		Cleaner: &Cleaner{MaxAgeDays: 1},
		NewTicker: func(time.Duration) (<-chan time.Time, func()) {
			t.Error("ticker must not be created without an interval")
			return nil, func() {}
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	scheduler.Run(ctx)

	if exists(p) {
		t.Error("expected the startup run to clean up")
	}
}
