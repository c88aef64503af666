package storage

import (
	"context"
	"log/slog"
	"time"
)

// CleanupScheduler runs session cleanup once on Run and then every Interval
// until its context ends.
type CleanupScheduler struct {
	Cleaner *Cleaner
	// ExcludeID is never removed, typically the current session.
	ExcludeID string
	// Interval <= 0 means only the initial run.
	Interval time.Duration
	// Logger receives cleanup failures at debug level. Nil uses slog.Default.
	Logger *slog.Logger

	// NewTicker defaults to time.NewTicker.
	NewTicker func(d time.Duration) (tick <-chan time.Time, stop func())
}

// Run blocks until ctx is done. Cleanup is best-effort and its errors are
// only logged.
func (s *CleanupScheduler) Run(ctx context.Context) {
	s.runOnce()

	if s.Interval <= 0 {
		<-ctx.Done()
		return
	}

	newTicker := s.NewTicker
	if newTicker == nil {
		newTicker = defaultNewTicker
	}
	ch, stop := newTicker(s.Interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			s.runOnce()
		}
	}
}

func (s *CleanupScheduler) runOnce() {
	report, err := s.Cleaner.ExecuteCleanup(s.ExcludeID)
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if err != nil {
		logger.Debug("session cleanup failed", "error", err)
		return
	}
	if len(report.Removed) > 0 {
		logger.Debug("session cleanup", "removed", len(report.Removed), "skipped", len(report.Skipped))
	}
}

func defaultNewTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}
