package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/joeycumines/pelusa-cart/internal/config"
	"github.com/joeycumines/pelusa-cart/internal/storage"
)

// cleanerFor builds a Cleaner from the [sessions] retention policy.
func cleanerFor(cfg *config.Config) *storage.Cleaner {
	sc := config.NewConfig().Sessions
	if cfg != nil {
		sc = cfg.Sessions
	}
	return &storage.Cleaner{
		MaxAgeDays: sc.MaxAgeDays,
		MaxCount:   sc.MaxCount,
		MaxSizeMB:  sc.MaxSizeMB,
	}
}

// maybeStartCleanupScheduler cleans up idle session carts in the
// background while a long-running command is up, if the configuration
// allows it. The returned stop function must be called; it is a no-op when
// nothing was started.
func maybeStartCleanupScheduler(cfg *config.Config, excludeID string, logger *slog.Logger) (stop func()) {
	if cfg == nil || !cfg.Sessions.AutoCleanupEnabled {
		return func() {}
	}

	scheduler := &storage.CleanupScheduler{
		Cleaner:   cleanerFor(cfg),
		ExcludeID: excludeID,
		Interval:  time.Duration(cfg.Sessions.CleanupIntervalHours) * time.Hour,
		Logger:    logger,
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		scheduler.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}
