package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/datapress/newshound"
)

func TestArchive(t *testing.T) {
	t.Run("open creates the file", func(t *testing.T) {
		var assert = require.New(t)

		a := open(t)

		fetches, visits, discoveries, err := a.Counts(context.Background())
		assert.NoError(err)
		assert.Zero(fetches)
		assert.Zero(visits)
		assert.Zero(discoveries)
	})

	t.Run("records", func(t *testing.T) {
		var assert = require.New(t)
		var ctx = context.Background()
		var a = open(t)

		err := a.RecordFetch(newshound.FetchRecord{
			URL:    "https://www.nytimes.com/",
			Status: 200,
			At:     time.Now(),
		})
		assert.NoError(err)

		err = a.RecordFetch(newshound.FetchRecord{
			URL:    "https://www.nytimes.com/down",
			Status: 599,
			At:     time.Now(),
		})
		assert.NoError(err)

		err = a.RecordVisit(newshound.VisitRecord{
			URL:         "https://www.nytimes.com/",
			Size:        1024,
			Outlinks:    3,
			ContentType: "text/html",
		})
		assert.NoError(err)

		err = a.RecordDiscovery(newshound.Discovery{
			URL:      "https://www.nytimes.com/section/world",
			InDomain: true,
		})
		assert.NoError(err)

		fetches, visits, discoveries, err := a.Counts(ctx)
		assert.NoError(err)
		assert.Equal(2, fetches)
		assert.Equal(1, visits)
		assert.Equal(1, discoveries)
	})

	t.Run("duplicate discoveries are ignored", func(t *testing.T) {
		var assert = require.New(t)
		var ctx = context.Background()
		var a = open(t)

		for j := 0; j < 3; j++ {
			err := a.RecordDiscovery(newshound.Discovery{
				URL:      "https://www.nytimes.com/a",
				InDomain: true,
			})
			assert.NoError(err)
		}

		_, _, discoveries, err := a.Counts(ctx)
		assert.NoError(err)
		assert.Equal(1, discoveries)
	})
}

func open(t testing.TB) *Archive {
	t.Helper()

	a, err := Open(filepath.Join(t.TempDir(), "crawl.db"))
	if err != nil {
		t.Fatalf("open archive - %s", err)
	}
	t.Cleanup(func() { a.Close() })

	return a
}
