// Package sink writes crawl records to CSV files.
//
// The files mirror the crawl's three record streams, one row per
// fetch attempt, one row per successful visit and one row per
// unique discovered URL.
package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/datapress/newshound"
)

// CSV implements a newshound.Recorder that appends
// records to three CSV files in a directory.
type CSV struct {
	mtx   sync.Mutex
	fetch *file
	visit *file
	urls  *file
}

// File pairs a csv writer with its backing file.
type file struct {
	w *csv.Writer
	f *os.File
}

// NewCSV creates the output directory and the three CSV files.
//
// The files are named after the site key, their headers are
// written immediately.
func NewCSV(dir, site string) (*CSV, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("sink: mkdir %q - %w", dir, err)
	}

	fetch, err := create(dir, "fetch_"+site+".csv", []string{"URL", "Status"})
	if err != nil {
		return nil, err
	}

	visit, err := create(dir, "visit_"+site+".csv", []string{"URL", "Size", "#Outlinks", "Content-Type"})
	if err != nil {
		fetch.close()
		return nil, err
	}

	urls, err := create(dir, "urls_"+site+".csv", []string{"URL", "Indicator"})
	if err != nil {
		fetch.close()
		visit.close()
		return nil, err
	}

	return &CSV{
		fetch: fetch,
		visit: visit,
		urls:  urls,
	}, nil
}

// RecordFetch implementation.
func (c *CSV) RecordFetch(rec newshound.FetchRecord) error {
	return c.write(c.fetch, []string{
		rec.URL,
		strconv.Itoa(rec.Status),
	})
}

// RecordVisit implementation.
func (c *CSV) RecordVisit(rec newshound.VisitRecord) error {
	return c.write(c.visit, []string{
		rec.URL,
		strconv.Itoa(rec.Size),
		strconv.Itoa(rec.Outlinks),
		rec.ContentType,
	})
}

// RecordDiscovery implementation.
func (c *CSV) RecordDiscovery(rec newshound.Discovery) error {
	indicator := "N_OK"
	if rec.InDomain {
		indicator = "OK"
	}
	return c.write(c.urls, []string{
		rec.URL,
		indicator,
	})
}

// Close flushes and closes all files.
func (c *CSV) Close() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	var err error
	for _, f := range []*file{c.fetch, c.visit, c.urls} {
		if e := f.close(); err == nil {
			err = e
		}
	}
	return err
}

// Write writes a single row.
//
// Rows are flushed immediately so that records survive an
// external cancellation.
func (c *CSV) write(f *file, row []string) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if err := f.w.Write(row); err != nil {
		return fmt.Errorf("sink: write %q - %w", f.f.Name(), err)
	}

	f.w.Flush()
	if err := f.w.Error(); err != nil {
		return fmt.Errorf("sink: flush %q - %w", f.f.Name(), err)
	}

	return nil
}

// Create creates a CSV file and writes its header.
func create(dir, name string, header []string) (*file, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("sink: create %q - %w", name, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("sink: write header %q - %w", name, err)
	}
	w.Flush()

	return &file{w: w, f: f}, nil
}

// Close flushes and closes the file.
func (f *file) close() error {
	f.w.Flush()
	if err := f.w.Error(); err != nil {
		f.f.Close()
		return err
	}
	return f.f.Close()
}
