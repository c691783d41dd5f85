package newshound

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// DefaultMaxBodySize caps how much of a response body is read.
//
// News front pages are large but bounded, anything past the cap
// is discarded, the visit size reflects the bytes actually read.
const DefaultMaxBodySize = 10 << 20 // 10 MiB

// Fetcher implements a page fetcher.
//
// The fetcher performs a single GET per URL, there are no
// retries, a failed attempt is recorded and the crawl moves on.
type Fetcher struct {
	// Client is the client to use.
	//
	// If nil, DefaultClient is used.
	Client Client

	// UserAgent is the user agent to use.
	//
	// It implements the fmt.Stringer interface to allow
	// user agent spoofing when needed.
	//
	// If nil, the default user agent is used.
	UserAgent fmt.Stringer

	// MaxBodySize limits how many body bytes are read.
	//
	// If <= 0, DefaultMaxBodySize is used.
	MaxBodySize int64
}

// Fetch fetches a page by URL.
//
// The method issues a GET with the configured client, redirects
// are followed up to the client's hop bound. A non-2xx response
// is drained and returned as a *FetchError, a 2xx response is
// read into the page up to MaxBodySize.
//
// The page URL is the final URL after redirects, links found on
// the page resolve against it.
func (f *Fetcher) Fetch(ctx context.Context, u *url.URL) (*Page, error) {
	var client = f.client()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("newshound: new request - %w", err)
	}

	for k, v := range f.headers() {
		req.Header[k] = v
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newshound: %s %q - %w", req.Method, req.URL, err)
	}
	defer f.discard(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{
			URL:    resp.Request.URL,
			Status: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize()))
	if err != nil {
		return nil, fmt.Errorf("newshound: read %q - %w", req.URL, err)
	}

	return &Page{
		URL:         resp.Request.URL,
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Discard drains and closes the response body.
//
// Leftover bytes must be read so the client can re-use the
// underlying TCP connection.
func (f *Fetcher) discard(r *http.Response) {
	io.Copy(io.Discard, r.Body)
	r.Body.Close()
}

// Headers returns all request headers.
func (f *Fetcher) headers() http.Header {
	var hdr = make(http.Header)

	hdr.Set("Accept", "text/html; charset=UTF-8")
	hdr.Set("User-Agent", f.userAgent())

	return hdr
}

// UserAgent returns the user agent to use.
func (f *Fetcher) userAgent() string {
	if ua := f.UserAgent; ua != nil {
		return ua.String()
	}
	return UserAgent.String()
}

// MaxBodySize returns the body cap to use.
func (f *Fetcher) maxBodySize() int64 {
	if f.MaxBodySize > 0 {
		return f.MaxBodySize
	}
	return DefaultMaxBodySize
}

// Client returns the client to use.
func (f *Fetcher) client() Client {
	if f.Client != nil {
		return f.Client
	}
	return DefaultClient
}
