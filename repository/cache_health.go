package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/amirphl/affiliate-rhonat/logging"
	"github.com/redis/go-redis/v9"
)

// Cache states reported by the health endpoint
const (
	CacheDisabled  = "disabled"
	CacheHealthy   = "healthy"
	CacheUnhealthy = "unhealthy"
)

const cachePingTimeout = 3 * time.Second

// CacheMonitor pings Redis periodically and remembers the last outcome.
// A nil client reports CacheDisabled.
type CacheMonitor struct {
	client  redis.Cmdable
	healthy atomic.Bool
}

func NewCacheMonitor(client redis.Cmdable) *CacheMonitor {
	m := &CacheMonitor{client: client}
	m.healthy.Store(client != nil)
	return m
}

// Start runs the ping loop until the returned func is called
func (m *CacheMonitor) Start(parent context.Context, interval time.Duration) func() {
	ctx, cancel := context.WithCancel(parent)
	if m.client == nil {
		return cancel
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}()
	return cancel
}

// Check pings once and records the result
func (m *CacheMonitor) Check(ctx context.Context) bool {
	if m.client == nil {
		return false
	}
	pingCtx, cancel := context.WithTimeout(ctx, cachePingTimeout)
	defer cancel()

	err := m.client.Ping(pingCtx).Err()
	was := m.healthy.Swap(err == nil)
	switch {
	case err != nil && was:
		logging.Warn().Err(err).Msg("redis healthcheck failed")
	case err == nil && !was:
		logging.Info().Msg("redis healthcheck recovered")
	}
	return err == nil
}

func (m *CacheMonitor) Status() string {
	if m == nil || m.client == nil {
		return CacheDisabled
	}
	if m.healthy.Load() {
		return CacheHealthy
	}
	return CacheUnhealthy
}
