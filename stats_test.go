package newshound

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	t.Run("fetches", func(t *testing.T) {
		var assert = require.New(t)
		var stats = NewStats()

		stats.RecordFetch(FetchRecord{URL: "a", Status: 200, At: time.Now()})
		stats.RecordFetch(FetchRecord{URL: "b", Status: 404, At: time.Now()})
		stats.RecordFetch(FetchRecord{URL: "c", Status: StatusFetchFailed, At: time.Now()})
		stats.RecordFetch(FetchRecord{URL: "d", Status: StatusRobotsDenied, At: time.Now()})
		stats.RecordVisit(VisitRecord{URL: "a", Size: 512, Outlinks: 3, ContentType: "text/html"})

		snap := stats.Snapshot()

		assert.Equal(4, snap.Attempted)
		assert.Equal(1, snap.Succeeded)
		assert.Equal(3, snap.Failed)
		assert.Equal(1, snap.RobotsDenied)
		assert.Equal(map[int]int{200: 1, 404: 1, 599: 1, 999: 1}, snap.Statuses)
		assert.Equal(map[string]int{"text/html": 1}, snap.ContentTypes)
		assert.Equal(3, snap.Extracted)
	})

	t.Run("size buckets", func(t *testing.T) {
		var assert = require.New(t)
		var stats = NewStats()

		for _, size := range []int{
			0, 1023, // < 1KB
			1024, 10*1024 - 1, // 1KB - <10KB
			10 * 1024, // 10KB - <100KB
			100 * 1024, 1024*1024 - 1, // 100KB - <1MB
			1024 * 1024, // >= 1MB
		} {
			stats.RecordVisit(VisitRecord{Size: size, ContentType: "text/html"})
		}

		snap := stats.Snapshot()

		assert.Equal(2, snap.Sizes.Lt1K)
		assert.Equal(2, snap.Sizes.K1to10)
		assert.Equal(1, snap.Sizes.K10to100)
		assert.Equal(2, snap.Sizes.K100to1M)
		assert.Equal(1, snap.Sizes.Ge1M)
	})

	t.Run("discoveries", func(t *testing.T) {
		var assert = require.New(t)
		var stats = NewStats()

		stats.RecordDiscovery(Discovery{URL: "a", InDomain: true})
		stats.RecordDiscovery(Discovery{URL: "b", InDomain: true})
		stats.RecordDiscovery(Discovery{URL: "c", InDomain: false})

		snap := stats.Snapshot()

		assert.Equal(3, snap.Discovered)
		assert.Equal(2, snap.InDomain)
		assert.Equal(1, snap.OutOfDomain)
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		var assert = require.New(t)
		var stats = NewStats()

		stats.RecordFetch(FetchRecord{URL: "a", Status: 200})
		snap := stats.Snapshot()

		stats.RecordFetch(FetchRecord{URL: "b", Status: 500})

		assert.Equal(1, snap.Attempted)
		assert.Equal(map[int]int{200: 1}, snap.Statuses)
	})

	t.Run("concurrent increments", func(t *testing.T) {
		var assert = require.New(t)
		var stats = NewStats()
		var wg sync.WaitGroup

		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					stats.RecordFetch(FetchRecord{URL: "a", Status: 200})
					stats.RecordVisit(VisitRecord{URL: "a", Size: 100, ContentType: "text/html"})
				}
			}()
		}

		wg.Wait()
		snap := stats.Snapshot()

		assert.Equal(800, snap.Attempted)
		assert.Equal(800, snap.Succeeded)
		assert.Equal(0, snap.Failed)
	})
}
