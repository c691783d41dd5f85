package limit

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/segmentio/agecache"
	"golang.org/x/time/rate"
)

// PerHost implements a per-host interval limiter.
//
// Each hostname gets its own gate, the registry is an LRU so
// hosts that have not been fetched for a while age out.
type PerHost struct {
	interval time.Duration
	mtx      sync.Mutex
	lru      *agecache.Cache
}

// ByHost returns a new per-host limiter.
func ByHost(interval time.Duration, capacity int) *PerHost {
	lru := agecache.New(agecache.Config{
		Capacity:           capacity,
		MaxAge:             1 * time.Hour,
		ExpirationType:     agecache.PassiveExpration,
		ExpirationInterval: 1 * time.Minute,
	})
	return &PerHost{
		interval: interval,
		lru:      lru,
	}
}

// Limit implementation.
func (p *PerHost) Limit(ctx context.Context, u *url.URL) error {
	return p.gate(u.Host).Wait(ctx)
}

// Gate returns the host's rate limiter, creating it if needed.
func (p *PerHost) gate(host string) *rate.Limiter {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if v, ok := p.lru.Get(host); ok {
		return v.(*rate.Limiter)
	}

	l := newLimit(p.interval)
	p.lru.Set(host, l)
	return l
}
