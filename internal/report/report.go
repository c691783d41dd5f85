// Package report renders the final crawl report.
//
// The report is derived entirely from a stats snapshot, it is
// written once at the end of a crawl, including after an external
// cancellation with partial data.
package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/datapress/newshound"
)

// Meta holds the crawl metadata shown in the report header.
type Meta struct {
	Site     string
	Seed     string
	Start    time.Time
	Duration time.Duration
}

// Text writes the plain-text report.
func Text(w io.Writer, meta Meta, snap newshound.Snapshot) error {
	var ew = &errWriter{w: w}

	ew.printf("News site crawled: %s\n", meta.Site)
	ew.printf("Seed: %s\n", meta.Seed)
	ew.printf("Crawl started: %s\n", meta.Start.Format(time.RFC1123))
	ew.printf("Crawl duration: %s\n\n", meta.Duration.Round(time.Second))

	ew.printf("Fetch Statistics\n=================\n")
	ew.printf("# fetches attempted: %d\n", snap.Attempted)
	ew.printf("# fetches succeeded: %d\n", snap.Succeeded)
	ew.printf("# fetches failed or aborted: %d\n\n", snap.Failed)

	ew.printf("Status Codes\n============\n")
	for _, code := range statusCodes(snap) {
		ew.printf("%d: %d\n", code, snap.Statuses[code])
	}
	ew.printf("\n")

	ew.printf("File Sizes\n==========\n")
	ew.printf("< 1KB: %d\n", snap.Sizes.Lt1K)
	ew.printf("1KB ~ <10KB: %d\n", snap.Sizes.K1to10)
	ew.printf("10KB ~ <100KB: %d\n", snap.Sizes.K10to100)
	ew.printf("100KB ~ <1MB: %d\n", snap.Sizes.K100to1M)
	ew.printf(">= 1MB: %d\n\n", snap.Sizes.Ge1M)

	ew.printf("Content Types\n=============\n")
	for _, ct := range contentTypes(snap) {
		ew.printf("%s: %d\n", ct, snap.ContentTypes[ct])
	}
	ew.printf("\n")

	ew.printf("Outgoing URLs\n=============\n")
	ew.printf("# total outlinks extracted: %d\n", snap.Extracted)
	ew.printf("# unique URLs discovered: %d\n", snap.Discovered)
	ew.printf("# unique URLs within site: %d\n", snap.InDomain)
	ew.printf("# unique URLs outside site: %d\n", snap.OutOfDomain)

	return ew.err
}

// StatusCodes returns the status codes in ascending order.
func statusCodes(snap newshound.Snapshot) []int {
	codes := make([]int, 0, len(snap.Statuses))
	for code := range snap.Statuses {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// ContentTypes returns the content types in ascending order.
func contentTypes(snap newshound.Snapshot) []string {
	types := make([]string, 0, len(snap.ContentTypes))
	for ct := range snap.ContentTypes {
		types = append(types, ct)
	}
	sort.Strings(types)
	return types
}

// ErrWriter writes until the first error.
type errWriter struct {
	w   io.Writer
	err error
}

// Printf writes a formatted line, errors are sticky.
func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err == nil {
		_, ew.err = fmt.Fprintf(ew.w, format, args...)
	}
}
