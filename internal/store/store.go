// Package store archives crawl records in a SQLite database.
//
// The archive keeps fetch metadata only, never page bodies, it
// exists so that a finished crawl can be queried with plain SQL.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/datapress/newshound"
)

// Schema creates the three record tables.
const schema = `
	CREATE TABLE IF NOT EXISTS fetches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		status INTEGER NOT NULL,
		attempted_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_fetches_url ON fetches(url);
	CREATE INDEX IF NOT EXISTS idx_fetches_status ON fetches(status);

	CREATE TABLE IF NOT EXISTS visits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		size INTEGER NOT NULL,
		outlinks INTEGER NOT NULL,
		content_type TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS discoveries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		in_domain INTEGER NOT NULL
	);
`

// Archive implements a newshound.Recorder backed by SQLite.
type Archive struct {
	db *sql.DB
}

// Open opens or creates an archive at the given path.
//
// SQLite supports a single writer, the connection pool is
// capped accordingly.
func Open(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("store: mkdir %q - %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("store: open %q - %w", path, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL - %w", err)
	}

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create tables - %w", err)
	}

	return &Archive{db: db}, nil
}

// RecordFetch implementation.
func (a *Archive) RecordFetch(rec newshound.FetchRecord) error {
	_, err := a.db.ExecContext(context.Background(),
		`INSERT INTO fetches (url, status, attempted_at) VALUES (?, ?, ?)`,
		rec.URL, rec.Status, rec.At.UTC(),
	)
	if err != nil {
		return fmt.Errorf("store: insert fetch %q - %w", rec.URL, err)
	}
	return nil
}

// RecordVisit implementation.
func (a *Archive) RecordVisit(rec newshound.VisitRecord) error {
	_, err := a.db.ExecContext(context.Background(),
		`INSERT OR IGNORE INTO visits (url, size, outlinks, content_type) VALUES (?, ?, ?, ?)`,
		rec.URL, rec.Size, rec.Outlinks, rec.ContentType,
	)
	if err != nil {
		return fmt.Errorf("store: insert visit %q - %w", rec.URL, err)
	}
	return nil
}

// RecordDiscovery implementation.
func (a *Archive) RecordDiscovery(rec newshound.Discovery) error {
	_, err := a.db.ExecContext(context.Background(),
		`INSERT OR IGNORE INTO discoveries (url, in_domain) VALUES (?, ?)`,
		rec.URL, rec.InDomain,
	)
	if err != nil {
		return fmt.Errorf("store: insert discovery %q - %w", rec.URL, err)
	}
	return nil
}

// Counts returns the row counts of the three tables.
func (a *Archive) Counts(ctx context.Context) (fetches, visits, discoveries int, err error) {
	for _, q := range []struct {
		table string
		dst   *int
	}{
		{"fetches", &fetches},
		{"visits", &visits},
		{"discoveries", &discoveries},
	} {
		row := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+q.table)
		if err = row.Scan(q.dst); err != nil {
			return 0, 0, 0, fmt.Errorf("store: count %s - %w", q.table, err)
		}
	}
	return fetches, visits, discoveries, nil
}

// Close closes the database.
func (a *Archive) Close() error {
	return a.db.Close()
}
