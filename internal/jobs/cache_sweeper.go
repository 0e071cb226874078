package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper removes expired entries and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

// CacheSweeper actively evicts expired response cache entries.
type CacheSweeper struct {
	cache    Sweeper
	interval time.Duration
}

// NewCacheSweeper creates a new cache sweeper.
func NewCacheSweeper(cache Sweeper, interval time.Duration) *CacheSweeper {
	return &CacheSweeper{cache: cache, interval: interval}
}

// Start begins the background sweep loop.
func (s *CacheSweeper) Start(ctx context.Context) {
	slog.Info("cache sweeper started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("cache sweeper stopped")
			return
		case <-ticker.C:
			if n := s.cache.Sweep(); n > 0 {
				slog.Debug("cache sweep", "removed", n)
			}
		}
	}
}
