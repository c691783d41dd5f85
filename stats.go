package newshound

import "sync"

// SizeBuckets is a histogram of page sizes.
//
// Boundaries are inclusive-lower, exclusive-upper.
type SizeBuckets struct {
	Lt1K     int // < 1KB
	K1to10   int // 1KB - <10KB
	K10to100 int // 10KB - <100KB
	K100to1M int // 100KB - <1MB
	Ge1M     int // >= 1MB
}

// Add places a byte count in its bucket.
func (b *SizeBuckets) add(n int) {
	switch {
	case n < 1<<10:
		b.Lt1K++
	case n < 10*(1<<10):
		b.K1to10++
	case n < 100*(1<<10):
		b.K10to100++
	case n < 1<<20:
		b.K100to1M++
	default:
		b.Ge1M++
	}
}

// Snapshot is a consistent point-in-time copy of the crawl stats.
//
// Failed is derived, it counts every attempt that produced no
// visit, which includes robots denials and 2xx responses with a
// disallowed content type.
type Snapshot struct {
	Attempted    int
	Succeeded    int
	Failed       int
	RobotsDenied int
	Statuses     map[int]int
	ContentTypes map[string]int
	Sizes        SizeBuckets
	Extracted    int
	Discovered   int
	InDomain     int
	OutOfDomain  int
}

// Stats accumulates crawl statistics.
//
// It implements Recorder so it can sit in the same fan-out as
// the CSV sinks, all increments are synchronized and commutative.
type Stats struct {
	mtx          sync.Mutex
	attempted    int
	succeeded    int
	robotsDenied int
	statuses     map[int]int
	contentTypes map[string]int
	sizes        SizeBuckets
	extracted    int
	inDomain     int
	outOfDomain  int
}

// NewStats returns new empty stats.
func NewStats() *Stats {
	return &Stats{
		statuses:     make(map[int]int),
		contentTypes: make(map[string]int),
	}
}

// RecordFetch implementation.
func (s *Stats) RecordFetch(rec FetchRecord) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.attempted++
	s.statuses[rec.Status]++
	if rec.Status == StatusRobotsDenied {
		s.robotsDenied++
	}

	return nil
}

// RecordVisit implementation.
func (s *Stats) RecordVisit(rec VisitRecord) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.succeeded++
	s.sizes.add(rec.Size)
	s.contentTypes[rec.ContentType]++
	s.extracted += rec.Outlinks

	return nil
}

// RecordDiscovery implementation.
func (s *Stats) RecordDiscovery(rec Discovery) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if rec.InDomain {
		s.inDomain++
	} else {
		s.outOfDomain++
	}

	return nil
}

// Snapshot returns a consistent copy of the stats.
func (s *Stats) Snapshot() Snapshot {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	snap := Snapshot{
		Attempted:    s.attempted,
		Succeeded:    s.succeeded,
		Failed:       s.attempted - s.succeeded,
		RobotsDenied: s.robotsDenied,
		Statuses:     make(map[int]int, len(s.statuses)),
		ContentTypes: make(map[string]int, len(s.contentTypes)),
		Sizes:        s.sizes,
		Extracted:    s.extracted,
		Discovered:   s.inDomain + s.outOfDomain,
		InDomain:     s.inDomain,
		OutOfDomain:  s.outOfDomain,
	}

	for k, v := range s.statuses {
		snap.Statuses[k] = v
	}
	for k, v := range s.contentTypes {
		snap.ContentTypes[k] = v
	}

	return snap
}
