// Package robots implements the crawl's robots.txt policy.
//
// The policy is fetched once at crawl start and is read-only
// afterwards, every worker consults it before a fetch.
package robots

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/temoto/robotstxt"
)

// Client represents an HTTP client.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// Policy holds the parsed robots.txt rules for a site.
//
// The zero value is the permissive policy, it allows every
// path and requires no crawl delay.
type Policy struct {
	group *robotstxt.Group
}

// Load fetches and parses the robots.txt of the seed's host.
//
// The method performs a single GET of `<scheme>://<host>/robots.txt`
// using the given client. On any failure, network error, non-2xx
// status or a parse error, it returns the permissive policy along
// with an advisory error, the crawl must proceed either way.
func Load(ctx context.Context, client Client, seed *url.URL, agent string) (*Policy, error) {
	var rawurl = seed.Scheme + "://" + seed.Host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, "GET", rawurl, nil)
	if err != nil {
		return &Policy{}, fmt.Errorf("robots: new request - %w", err)
	}
	req.Header.Set("User-Agent", agent)

	resp, err := client.Do(req)
	if err != nil {
		return &Policy{}, fmt.Errorf("robots: GET %q - %w", rawurl, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return &Policy{}, fmt.Errorf("robots: GET %q - %d %s",
			rawurl,
			resp.StatusCode,
			http.StatusText(resp.StatusCode),
		)
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Policy{}, fmt.Errorf("robots: read %q - %w", rawurl, err)
	}

	data, err := robotstxt.FromBytes(buf)
	if err != nil {
		return &Policy{}, fmt.Errorf("robots: parse %q - %w", rawurl, err)
	}

	return &Policy{group: data.FindGroup(agent)}, nil
}

// Allowed returns true if the path may be fetched.
//
// The match follows standard robots.txt precedence, the group
// for the crawler's own user-agent token wins over the wildcard
// group and the longest matching rule wins within a group.
func (p *Policy) Allowed(path string) bool {
	if p.group == nil {
		return true
	}
	return p.group.Test(path)
}

// Delay returns the crawl-delay required by the site.
//
// The method returns zero when the robots.txt carries no
// crawl-delay directive for the matched group.
func (p *Policy) Delay() time.Duration {
	if p.group == nil {
		return 0
	}
	return p.group.CrawlDelay
}
