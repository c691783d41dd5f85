package normalize

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRawURL(t *testing.T) {
	var cases = []struct {
		title  string
		input  string
		output string
	}{
		{
			title:  "lowercases scheme",
			input:  "HTTP://example.com",
			output: "http://example.com/",
		},
		{
			title:  "lowercases hostname",
			input:  "http://EXAMPLE.com",
			output: "http://example.com/",
		},
		{
			title:  "removes default http port",
			input:  "http://example.com:80",
			output: "http://example.com/",
		},
		{
			title:  "removes default https port",
			input:  "https://example.com:443",
			output: "https://example.com/",
		},
		{
			title:  "keeps custom ports",
			input:  "https://example.com:8080",
			output: "https://example.com:8080/",
		},
		{
			title:  "converts empty path to /",
			input:  "https://example.com",
			output: "https://example.com/",
		},
		{
			title:  "removes dot segments",
			input:  "https://example.com/a/./b/../c",
			output: "https://example.com/a/c",
		},
		{
			title:  "sorts the query",
			input:  "https://example.com/?b=2&a=1",
			output: "https://example.com/?a=1&b=2",
		},
		{
			title:  "removes empty query",
			input:  "https://example.com/?",
			output: "https://example.com/",
		},
		{
			title:  "removes the fragment",
			input:  "https://example.com/page#section",
			output: "https://example.com/page",
		},
	}

	for _, c := range cases {
		t.Run(c.title, func(t *testing.T) {
			var assert = require.New(t)

			out, err := RawURL(c.input)

			assert.NoError(err)
			assert.Equal(c.output, out)
		})
	}

	t.Run("idempotent", func(t *testing.T) {
		var assert = require.New(t)

		once, err := RawURL("HTTPS://Example.com:443/a/../b?z=1&a=2#frag")
		assert.NoError(err)

		twice, err := RawURL(once)
		assert.NoError(err)

		assert.Equal(once, twice)
	})
}

func TestLink(t *testing.T) {
	var base = parse(t, "https://example.com/news/index.html")

	var cases = []struct {
		title  string
		href   string
		output string
		ok     bool
	}{
		{
			title:  "resolves relative",
			href:   "/a",
			output: "https://example.com/a",
			ok:     true,
		},
		{
			title:  "resolves sibling",
			href:   "story.html",
			output: "https://example.com/news/story.html",
			ok:     true,
		},
		{
			title:  "keeps absolute",
			href:   "https://other.com/b",
			output: "https://other.com/b",
			ok:     true,
		},
		{
			title:  "strips fragment",
			href:   "/a#x",
			output: "https://example.com/a",
			ok:     true,
		},
		{
			title:  "fragment only resolves to base",
			href:   "#frag",
			output: "https://example.com/news/index.html",
			ok:     true,
		},
		{
			title:  "keeps query",
			href:   "/a?page=2",
			output: "https://example.com/a?page=2",
			ok:     true,
		},
		{
			title: "rejects javascript",
			href:  "javascript:void(0)",
		},
		{
			title: "rejects mailto",
			href:  "mailto:tips@example.com",
		},
		{
			title: "rejects ftp",
			href:  "ftp://example.com/file",
		},
		{
			title: "rejects empty",
			href:  "   ",
		},
	}

	for _, c := range cases {
		t.Run(c.title, func(t *testing.T) {
			var assert = require.New(t)

			u, ok := Link(base, c.href)

			assert.Equal(c.ok, ok)
			if c.ok {
				assert.Equal(c.output, u.String())
			}
		})
	}
}

func parse(t testing.TB, rawurl string) *url.URL {
	t.Helper()

	u, err := url.Parse(rawurl)
	if err != nil {
		t.Fatalf("parse %q - %s", rawurl, err)
	}

	return u
}
