package ttl

import (
	"context"
	"fmt"
	"time"
)

// Scheduler drives a Cleaner. Run calls fn on every tick until ctx is
// cancelled, then returns. Implementations never call fn before the first
// period has elapsed and never run two calls of fn at once.
type Scheduler interface {
	Run(ctx context.Context, fn func())
	String() string
}

// intervalScheduler ticks on a dedicated goroutine using time.Ticker.
// A slow fn delays the next call; the ticker drops the ticks it missed.
type intervalScheduler struct {
	every time.Duration
}

// Interval returns a Scheduler that calls fn every d.
func Interval(d time.Duration) (Scheduler, error) {
	if d <= 0 {
		return nil, fmt.Errorf("ttl: interval must be positive, got %s", d)
	}
	return intervalScheduler{every: d}, nil
}

func (s intervalScheduler) Run(ctx context.Context, fn func()) {
	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

func (s intervalScheduler) String() string {
	return "interval " + s.every.String()
}
