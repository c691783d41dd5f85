package newshound

import (
	"context"
	"io"
	"sync"
)

// Entry represents a frontier entry.
//
// The URL is canonical, entries are consumed exactly once and
// never mutated.
type Entry struct {
	URL   string
	Depth int
}

// EnqueueStatus is the outcome of a frontier admission attempt.
type EnqueueStatus int

// Admission outcomes.
const (
	// Enqueued means the URL was admitted and will be fetched.
	Enqueued EnqueueStatus = iota

	// Duplicate means the URL was already enqueued during this crawl.
	Duplicate

	// DepthExceeded means the entry is deeper than the crawl allows.
	DepthExceeded

	// BudgetExhausted means admitting the URL would exceed the
	// crawl's page budget.
	BudgetExhausted

	// FrontierClosed means the frontier no longer admits URLs.
	FrontierClosed
)

// String implementation.
func (s EnqueueStatus) String() string {
	switch s {
	case Enqueued:
		return "enqueued"
	case Duplicate:
		return "duplicate"
	case DepthExceeded:
		return "depth exceeded"
	case BudgetExhausted:
		return "budget exhausted"
	case FrontierClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Frontier holds the URLs known but not yet fetched.
//
// It pairs a FIFO queue of entries with the crawl's visited set,
// admission is atomic, the dedup test and the queue push happen
// under one critical section so a URL enters the queue at most
// once across the whole run.
//
// The frontier also owns the crawl's termination conditions, it
// closes itself when the page budget is spent or when the queue
// drains with no entry in flight.
type Frontier struct {
	deduper  Deduper
	maxDepth int
	maxPages int

	cond     *sync.Cond
	pending  []Entry
	admitted int
	dequeued int
	inflight int
	closed   bool
}

// NewFrontier returns a new frontier.
//
// The frontier admits at most maxPages URLs at depths up to
// maxDepth, de-duplicated by the given deduper.
func NewFrontier(deduper Deduper, maxDepth, maxPages int) *Frontier {
	return &Frontier{
		deduper:  deduper,
		maxDepth: maxDepth,
		maxPages: maxPages,
		cond:     sync.NewCond(&sync.Mutex{}),
	}
}

// Enqueue attempts to admit a URL at the given depth.
//
// The URL must be canonical. The depth and budget checks reject
// without marking the URL as seen, a rejected URL is therefore
// still recordable as a discovery.
func (f *Frontier) Enqueue(ctx context.Context, url string, depth int) (EnqueueStatus, error) {
	f.cond.L.Lock()
	defer f.cond.L.Unlock()

	if f.closed {
		return FrontierClosed, nil
	}

	if depth > f.maxDepth {
		return DepthExceeded, nil
	}

	if f.admitted >= f.maxPages {
		return BudgetExhausted, nil
	}

	next, err := f.deduper.Dedupe(ctx, []string{url})
	if err != nil {
		return FrontierClosed, err
	}
	if len(next) == 0 {
		return Duplicate, nil
	}

	f.admitted++
	f.pending = append(f.pending, Entry{URL: url, Depth: depth})
	f.cond.Broadcast()

	return Enqueued, nil
}

// Dequeue removes and returns the oldest entry.
//
// The method blocks until an entry is available or until the
// frontier closes, it returns io.EOF once closed. The frontier
// closes itself when the queue is empty with no entry in flight
// or when the dequeue count reaches the page budget.
//
// Every successful dequeue must be paired with a Done call.
func (f *Frontier) Dequeue(ctx context.Context) (Entry, error) {
	f.cond.L.Lock()
	defer f.cond.L.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return Entry{}, err
		}

		if f.closed {
			return Entry{}, io.EOF
		}

		if len(f.pending) > 0 {
			break
		}

		// Natural exhaustion, nothing pending and no worker
		// that could still add entries.
		if f.inflight == 0 {
			f.close()
			return Entry{}, io.EOF
		}

		f.cond.Wait()
	}

	entry := f.pending[0]
	f.pending = f.pending[1:]
	f.dequeued++
	f.inflight++

	if f.dequeued >= f.maxPages {
		f.close()
	}

	return entry, nil
}

// Done marks a dequeued entry as fully processed.
//
// An entry counts as in flight until its worker has enqueued
// all links extracted from it, only then can the frontier decide
// that the crawl is naturally exhausted.
func (f *Frontier) Done() {
	f.cond.L.Lock()
	defer f.cond.L.Unlock()

	f.inflight--
	if f.inflight == 0 && len(f.pending) == 0 {
		f.close()
	}
	f.cond.Broadcast()
}

// Close closes the frontier.
//
// Pending entries are discarded and all blocked Dequeue calls
// return io.EOF, in-flight entries are allowed to finish.
func (f *Frontier) Close() {
	f.cond.L.Lock()
	defer f.cond.L.Unlock()
	f.close()
}

// Dequeued returns the number of dequeues performed.
func (f *Frontier) Dequeued() int {
	f.cond.L.Lock()
	defer f.cond.L.Unlock()
	return f.dequeued
}

// Close marks the frontier closed, callers must hold the lock.
func (f *Frontier) close() {
	f.closed = true
	f.pending = nil
	f.cond.Broadcast()
}
