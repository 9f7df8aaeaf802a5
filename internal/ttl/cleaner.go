package ttl

import (
	"context"

	"memocache/internal/logs"
	"memocache/internal/metrics"
)

// Store defines the minimal contract required by the TTL cleaner
// This keeps the cleaner interface decoupled from the concrete store implementation
type Store interface {
	RemoveExpired() int
}

// Cleaner periodically removes expired keys from the store
type Cleaner struct {
	store     Store
	scheduler Scheduler
	logger    *logs.Logger
	metrics   *metrics.Registry
}

// NewCleaner creates a new instance of TTL Cleaner.
// The scheduler decides when sweeps run; see Interval and Cron.
func NewCleaner(
	store Store,
	scheduler Scheduler,
	logger *logs.Logger,
	metrics *metrics.Registry,
) *Cleaner {
	return &Cleaner{
		store:     store,
		scheduler: scheduler,
		logger:    logger,
		metrics:   metrics,
	}
}

// Start runs the cleanup loop until the context is cancelled.
// It blocks and should typically be run in a separate goroutine.
func (c *Cleaner) Start(ctx context.Context) {
	c.logger.Debug("ttl cleaner started", "scheduler", c.scheduler.String())
	c.scheduler.Run(ctx, c.runOnce)
	c.logger.Debug("ttl cleaner stopped")
}

// runOnce performs a single cleanup cycle
func (c *Cleaner) runOnce() {
	removed := c.store.RemoveExpired()

	c.metrics.Inc(metrics.TTLCleanupRunsTotal)
	c.metrics.Add(metrics.TTLKeysRemovedTotal, int64(removed))

	if removed > 0 {
		c.logger.Info("ttl cleaner removed expired keys", "removed", removed)
	}
}
