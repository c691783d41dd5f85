package newshound

import (
	"bytes"
	"mime"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/datapress/newshound/internal/selectors"
)

// Page represents a successfully fetched page.
type Page struct {
	// URL is the final URL after redirects.
	URL *url.URL

	// Status is the response status code.
	Status int

	// ContentType is the raw Content-Type header value.
	ContentType string

	// Body is the response body, capped by the fetcher.
	Body []byte

	root *html.Node
	once sync.Once
	err  error
}

// MediaType returns the lowercased media type without parameters.
//
// The method returns an empty string when the header is missing
// or malformed.
func (p *Page) MediaType() string {
	mt, _, err := mime.ParseMediaType(p.ContentType)
	if err != nil {
		return ""
	}
	return mt
}

// HTML returns true when the page's media type is HTML.
func (p *Page) HTML() bool {
	switch p.MediaType() {
	case "text/html", "application/xhtml+xml":
		return true
	default:
		return false
	}
}

// Text returns true when the page's media type is plain text.
func (p *Page) Text() bool {
	return strings.HasPrefix(p.MediaType(), "text/")
}

// Hrefs returns the href attribute of every anchor tag.
//
// The hrefs are raw and in document order, duplicates included,
// their count is the page's outlink count. Malformed HTML yields
// whatever the parser could salvage.
func (p *Page) Hrefs() []string {
	if err := p.parse(); err != nil {
		return nil
	}

	sel, err := selectors.Compile(`a[href]`)
	if err != nil {
		return nil
	}

	var anchors = sel.MatchAll(p.root)
	var ret = make([]string, 0, len(anchors))

	for _, a := range anchors {
		if href, ok := attr(a, "href"); ok {
			ret = append(ret, href)
		}
	}

	return ret
}

// Parse parses the body into a root node.
//
// The body is decoded using the charset advertised by the
// Content-Type header. If the root node is already parsed, or
// has errored, the method is a no-op.
func (p *Page) parse() error {
	p.once.Do(func() {
		r, err := charset.NewReader(bytes.NewReader(p.Body), p.ContentType)
		if err != nil {
			p.err = err
			return
		}
		p.root, p.err = html.Parse(r)
	})
	return p.err
}

// Attr returns the value of the node's attribute by key.
func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
