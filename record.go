package newshound

import (
	"errors"
	"time"
)

// Sentinel status codes for outcomes that carry no HTTP status.
const (
	// StatusFetchFailed marks a network failure, a timeout or
	// an aborted transfer.
	StatusFetchFailed = 599

	// StatusRobotsDenied marks a URL that was skipped because
	// the site's robots.txt disallows its path.
	StatusRobotsDenied = 999
)

// FetchRecord describes a single fetch attempt.
//
// One record is produced for every dequeued URL, including
// failures and robots denials, it is immutable once written.
type FetchRecord struct {
	URL    string
	Status int
	At     time.Time
}

// VisitRecord describes a successfully retrieved page.
//
// A record is produced at most once per URL, only for 2xx
// responses whose media type is HTML or text.
type VisitRecord struct {
	URL         string
	Size        int
	Outlinks    int
	ContentType string
}

// Discovery describes a unique URL extracted from a page.
//
// One record is produced per canonical URL ever seen during
// the crawl, regardless of whether it is fetched.
type Discovery struct {
	URL      string
	InDomain bool
}

// Recorder consumes crawl records.
//
// Implementations must be safe for concurrent use, workers
// report outcomes from multiple goroutines. A recorder error
// never aborts the crawl, the crawler logs it and continues.
type Recorder interface {
	// RecordFetch records a fetch attempt.
	RecordFetch(rec FetchRecord) error

	// RecordVisit records a successful page visit.
	RecordVisit(rec VisitRecord) error

	// RecordDiscovery records a unique discovered URL.
	RecordDiscovery(rec Discovery) error
}

// MultiRecorder returns a recorder that fans out every record
// to all of the given recorders.
//
// Each method attempts all recorders and joins their errors.
func MultiRecorder(recorders ...Recorder) Recorder {
	return multiRecorder(recorders)
}

// MultiRecorder implementation.
type multiRecorder []Recorder

// RecordFetch implementation.
func (m multiRecorder) RecordFetch(rec FetchRecord) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordFetch(rec))
	}
	return errors.Join(errs...)
}

// RecordVisit implementation.
func (m multiRecorder) RecordVisit(rec VisitRecord) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordVisit(rec))
	}
	return errors.Join(errs...)
}

// RecordDiscovery implementation.
func (m multiRecorder) RecordDiscovery(rec Discovery) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordDiscovery(rec))
	}
	return errors.Join(errs...)
}
