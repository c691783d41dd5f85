package newshound

import (
	"context"
	"net/url"
	"time"

	"github.com/datapress/newshound/internal/limit"
)

// Limiter is the crawl's politeness gate.
//
// A limiter receives a context and a URL and blocks until the
// next request is allowed to start, or returns an error if the
// context is canceled. It throttles rate only, parallelism is
// bounded separately.
type Limiter interface {
	// Limit blocks until a request to the URL is allowed to start.
	//
	// If the given context is canceled, the method returns
	// immediately with the context's err.
	Limit(ctx context.Context, u *url.URL) error
}

// Limit returns a shared politeness gate.
//
// All requests are serialized through one gate, consecutive
// request starts are spaced by at least the given interval.
func Limit(interval time.Duration) Limiter {
	return limit.New(interval)
}

// LimitPerHost returns a per-host politeness gate.
//
// Each hostname gets its own interval gate, the crawl stays
// polite even when redirects take it across hosts.
func LimitPerHost(interval time.Duration) Limiter {
	return limit.ByHost(interval, 1000)
}
