// Package newshound implements a polite breadth-first crawler
// for a single news website domain.
//
// A crawl seeds a frontier with the site's start URL and runs a
// fixed pool of workers, every worker dequeues a URL, checks the
// site's robots.txt policy, waits on the politeness gate, fetches
// the page, extracts and classifies its links and feeds newly
// discovered in-domain links back into the frontier. Every fetch
// attempt, every successful visit and every unique discovered URL
// is reported to the configured recorders.
package newshound

import (
	"net"
	"net/http"
	"net/url"
	"time"
)

// URL represents a parsed URL.
type URL = url.URL

// StaticAgent is a static user agent string.
type StaticAgent string

// String implementation.
func (sa StaticAgent) String() string {
	return string(sa)
}

// UserAgent is the default user agent to use.
//
// The user agent identifies the crawler on every outbound
// request, including the robots.txt fetch.
var UserAgent = StaticAgent("newshound/1.0 (+https://github.com/datapress/newshound)")

// Client represents an HTTP client.
//
// A client is used by the fetcher to turn URLs into pages, it is
// responsible for following HTTP redirects and managing TCP
// connections. The standard *http.Client satisfies the interface,
// its redirect policy bounds the hop count.
type Client interface {
	// Do sends an HTTP request and returns an HTTP response,
	// following policy (such as redirects) as configured on
	// the client. A non-2xx status code doesn't cause an error.
	Do(req *http.Request) (*http.Response, error)
}

// DefaultClient is the default client to use.
//
// It is configured the same way as `http.DefaultClient` except
// for 3 changes:
//
//   - Timeout                       => 15s
//   - Transport.MaxIdleConns        => infinity
//   - Transport.MaxIdleConnsPerHost => 1,000
//
// Note that this default client is also used for the robots.txt
// request at crawl start.
var DefaultClient = &http.Client{
	Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          0,    // was 100.
		MaxIdleConnsPerHost:   1000, // was 2.
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	},
	Timeout: 15 * time.Second,
}
