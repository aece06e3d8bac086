// Stash Player - Media Library Browser for Stash
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/stashplayer

package supervisor

import (
	"context"
	"time"

	"github.com/tomtom215/stashplayer/internal/cache"
	"github.com/tomtom215/stashplayer/internal/logging"
)

// CacheJanitorService periodically sweeps expired entries out of the
// query cache. Expiration is otherwise lazy, so without the sweep a
// cache that stops being read holds dead entries indefinitely.
type CacheJanitorService struct {
	cache    *cache.LRU
	interval time.Duration
}

// NewCacheJanitorService creates the janitor. A non-positive interval
// falls back to one minute.
func NewCacheJanitorService(c *cache.LRU, interval time.Duration) *CacheJanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheJanitorService{cache: c, interval: interval}
}

// Serve implements suture.Service.
func (s *CacheJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.cache.CleanupExpired(); removed > 0 {
				logging.Debug().Int("removed", removed).Msg("Swept expired cache entries")
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// String implements fmt.Stringer for suture's log messages.
func (s *CacheJanitorService) String() string {
	return "cache-janitor"
}
