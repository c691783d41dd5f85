package newshound

import (
	"context"
	"sync"

	"github.com/willf/bloom"
)

// Deduper represents a URL de-duplicator.
//
// The frontier consults the deduper before admitting a URL so
// that a URL is enqueued at most once across the whole crawl,
// a second deduper tracks discovered URLs.
type Deduper interface {
	// Dedupe de-duplicates the given URLs.
	//
	// The method returns a new slice of URLs that were not
	// seen yet, it must be thread-safe.
	//
	// The function is not required to normalize the URLs,
	// the crawler normalizes them before calling the method.
	Dedupe(ctx context.Context, urls []string) ([]string, error)
}

// Deduper implements an in-memory deduper.
type deduper struct {
	m *sync.Map
}

// DedupeMap returns a new deduper backed by sync.Map.
func DedupeMap() Deduper {
	return &deduper{new(sync.Map)}
}

// Dedupe implementation.
func (d *deduper) Dedupe(ctx context.Context, urls []string) ([]string, error) {
	var ret = make([]string, 0, len(urls))

	for _, url := range urls {
		if _, exists := d.m.LoadOrStore(url, nil); !exists {
			ret = append(ret, url)
		}
	}

	return ret, nil
}

// Dedupebf implements a bloom filter deduper.
//
// It trades exactness for memory on very large crawls, a false
// positive skips a URL, it never admits a duplicate.
type dedupebf struct {
	mtx    sync.Mutex
	filter *bloom.BloomFilter
}

// DedupeBF returns a new deduper backed by a bloom filter.
func DedupeBF(m, k uint) Deduper {
	return &dedupebf{
		filter: bloom.New(m, k),
	}
}

// Dedupe implementation.
func (d *dedupebf) Dedupe(ctx context.Context, urls []string) ([]string, error) {
	var ret = make([]string, 0, len(urls))

	d.mtx.Lock()
	defer d.mtx.Unlock()

	for _, url := range urls {
		if !d.filter.Test([]byte(url)) {
			d.filter.Add([]byte(url))
			ret = append(ret, url)
		}
	}

	return ret, nil
}
