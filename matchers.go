package newshound

import (
	"net/url"
	"strings"

	"github.com/tidwall/match"
)

// Matcher represents a URL matcher.
//
// The matcher is consulted just before an in-domain link is
// enqueued, if it returns false the link is not fetched. The
// link is still recorded as discovered.
type Matcher interface {
	// Match returns true if the URL should be crawled.
	Match(u *url.URL) bool
}

// MatcherFunc implements a Matcher.
type MatcherFunc func(*url.URL) bool

// Match implementation.
func (mf MatcherFunc) Match(u *url.URL) bool {
	return mf(u)
}

// MatchAll returns a matcher that accepts every URL.
func MatchAll() MatcherFunc {
	return func(*url.URL) bool {
		return true
	}
}

// MatchExclude returns a matcher that rejects URLs whose path
// matches any of the given glob patterns.
//
// Patterns use `*` and `?` wildcards, e.g. `/video/*`.
func MatchExclude(patterns ...string) MatcherFunc {
	return func(u *url.URL) bool {
		for _, p := range patterns {
			if match.Match(u.Path, p) {
				return false
			}
		}
		return true
	}
}

// MatchHostname returns a matcher that accepts URLs whose
// hostname equals the given host.
func MatchHostname(host string) MatcherFunc {
	return func(u *url.URL) bool {
		return u.Hostname() == host
	}
}

// InDomain returns true when the host belongs to the domain.
//
// A host is in-domain when it equals the registrable domain or
// is one of its subdomains.
func InDomain(host, domain string) bool {
	if host == "" || domain == "" {
		return false
	}
	host = strings.ToLower(host)
	return host == domain || strings.HasSuffix(host, "."+domain)
}
