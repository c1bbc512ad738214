package filterstore

import (
	"context"
	"time"

	"github.com/michaelayoade/dotmac-insights/internal/logger"
)

// StartFlushScheduler runs a goroutine that periodically flushes the dirty
// store to disk. On ctx.Done, it performs a final flush before returning.
// Returns a channel that is closed when the scheduler has completed shutdown.
func StartFlushScheduler(ctx context.Context, store *JSONStore, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	logger.WithComponent("filterstore").Debugf("starting flush scheduler with interval: %v", interval)
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.WithComponent("filterstore").Debug("flush scheduler received context cancellation, performing final flush")
				flush(store)
				logger.WithComponent("filterstore").Info("flush scheduler stopped after final flush")
				return
			case <-ticker.C:
				flush(store)
			}
		}
	}()
	return done
}

func flush(store *JSONStore) {
	if !store.IsDirty() {
		return
	}
	if err := store.Flush(); err != nil {
		logger.WithComponent("filterstore").Errorf("flush error: %v", err)
		return
	}
	logger.WithComponent("filterstore").Debug("filter store persisted to disk")
}
