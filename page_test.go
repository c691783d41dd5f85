package newshound

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPage(t *testing.T) {
	t.Run("hrefs in document order", func(t *testing.T) {
		var assert = require.New(t)
		var page = page(t, "text/html", `
			<html><body>
				<a href="/a">a</a>
				<a href="/a#x">a again</a>
				<a href="https://other.com/b">b</a>
				<a name="anchor-without-href">skip</a>
				<a href="javascript:void(0)">js</a>
			</body></html>
		`)

		assert.Equal([]string{
			"/a",
			"/a#x",
			"https://other.com/b",
			"javascript:void(0)",
		}, page.Hrefs())
	})

	t.Run("malformed html salvages links", func(t *testing.T) {
		var assert = require.New(t)
		var page = page(t, "text/html", `<a href="/a">broken<div><a href="/b">`)

		assert.Equal([]string{"/a", "/b"}, page.Hrefs())
	})

	t.Run("media type", func(t *testing.T) {
		var assert = require.New(t)

		assert.Equal("text/html", page(t, "text/html; charset=UTF-8", "").MediaType())
		assert.Equal("text/plain", page(t, "TEXT/PLAIN", "").MediaType())
		assert.Equal("", page(t, "", "").MediaType())
	})

	t.Run("html", func(t *testing.T) {
		var assert = require.New(t)

		assert.True(page(t, "text/html", "").HTML())
		assert.True(page(t, "application/xhtml+xml", "").HTML())
		assert.False(page(t, "text/plain", "").HTML())
		assert.False(page(t, "application/pdf", "").HTML())
	})

	t.Run("text", func(t *testing.T) {
		var assert = require.New(t)

		assert.True(page(t, "text/plain", "").Text())
		assert.True(page(t, "text/html", "").Text())
		assert.False(page(t, "image/png", "").Text())
	})

	t.Run("empty body", func(t *testing.T) {
		var assert = require.New(t)

		assert.Empty(page(t, "text/html", "").Hrefs())
	})
}

func page(t testing.TB, contentType, body string) *Page {
	t.Helper()

	return &Page{
		URL:         parse(t, "https://example.com/"),
		Status:      200,
		ContentType: contentType,
		Body:        []byte(body),
	}
}
