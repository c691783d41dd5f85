// Command newshound crawls a news website breadth-first and
// writes fetch, visit and URL CSV logs plus a final report.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
	"github.com/tj/kingpin"

	"github.com/datapress/newshound"
	"github.com/datapress/newshound/internal/report"
	"github.com/datapress/newshound/internal/sink"
	"github.com/datapress/newshound/internal/store"
)

var (
	site        = kingpin.Flag("site", "Site key from the site table ("+strings.Join(newshound.SiteKeys(), ", ")+").").Default("nytimes").String()
	seed        = kingpin.Flag("seed", "Custom seed URL, overrides --site.").String()
	sitesFile   = kingpin.Flag("sites", "YAML file with additional site entries.").String()
	out         = kingpin.Flag("out", "Output directory.").Default("out").String()
	maxPages    = kingpin.Flag("max-pages", "Maximum number of fetch attempts.").Default("10000").Int()
	depth       = kingpin.Flag("depth", "Maximum link depth, the seed is at depth 0.").Default("16").Int()
	concurrency = kingpin.Flag("concurrency", "Number of fetch workers.").Default("7").Int()
	politeness  = kingpin.Flag("politeness-ms", "Minimum delay between request starts in milliseconds.").Default("200").Int()
	timeout     = kingpin.Flag("timeout-s", "Per-request timeout in seconds.").Default("15").Int()
	excludes    = kingpin.Flag("exclude", "Path glob to skip, repeatable.").Strings()
	bloomDedupe = kingpin.Flag("bloom", "Use a bloom filter for URL dedup on very large crawls.").Bool()
	dbPath      = kingpin.Flag("db", "Also archive records into a SQLite database at this path.").String()
	mdReport    = kingpin.Flag("markdown", "Also write the report as markdown.").Bool()
	verbose     = kingpin.Flag("verbose", "Enable debug logging.").Short('v').Bool()
)

func main() {
	kingpin.Parse()

	log.SetHandler(text.New(os.Stderr))
	log.SetLevel(log.InfoLevel)
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		// An interrupt is a valid terminal path, the partial
		// report is already on disk, the exit code reflects
		// the interruption.
		if errors.Is(err, context.Canceled) {
			log.Warn("interrupted, partial report written")
			os.Exit(130)
		}
		log.WithError(err).Error("crawl failed")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	target, err := resolveSite()
	if err != nil {
		return err
	}

	csv, err := sink.NewCSV(*out, target.Key)
	if err != nil {
		return err
	}
	defer csv.Close()

	stats := newshound.NewStats()
	recorders := []newshound.Recorder{stats, csv}

	if *dbPath != "" {
		archive, err := store.Open(*dbPath)
		if err != nil {
			return err
		}
		defer archive.Close()
		recorders = append(recorders, archive)
	}

	crawler, err := newshound.New(newshound.Config{
		Site:        target,
		Recorder:    newshound.MultiRecorder(recorders...),
		MaxPages:    *maxPages,
		MaxDepth:    *depth,
		Concurrency: *concurrency,
		Politeness:  time.Duration(*politeness) * time.Millisecond,
		Fetcher: &newshound.Fetcher{
			Client: &http.Client{
				Transport: newshound.DefaultClient.Transport,
				Timeout:   time.Duration(*timeout) * time.Second,
			},
		},
		Deduper: deduper(),
		Matcher: matcher(),
		Log:     log.Log,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	runErr := crawler.Run(ctx)

	meta := report.Meta{
		Site:     target.Key,
		Seed:     target.Seed,
		Start:    start,
		Duration: time.Since(start),
	}

	if err := writeReports(meta, stats.Snapshot()); err != nil {
		return err
	}

	log.WithField("dir", *out).Info("outputs written")
	return runErr
}

// ResolveSite picks the crawl target from the flags.
//
// A custom seed wins over the site table, a sites file extends
// and shadows the built-in table.
func resolveSite() (newshound.Site, error) {
	if *seed != "" {
		return newshound.SiteFromSeed(*site, *seed)
	}

	table := newshound.Sites
	if *sitesFile != "" {
		extra, err := newshound.LoadSites(*sitesFile)
		if err != nil {
			return newshound.Site{}, err
		}
		table = make(map[string]newshound.Site, len(newshound.Sites)+len(extra))
		for k, v := range newshound.Sites {
			table[k] = v
		}
		for k, v := range extra {
			table[k] = v
		}
	}

	target, ok := table[*site]
	if !ok {
		return newshound.Site{}, fmt.Errorf("unknown site %q", *site)
	}

	return target, nil
}

// Deduper returns the URL deduper to use.
func deduper() newshound.Deduper {
	if *bloomDedupe {
		// Sized for tens of millions of URLs at a low false
		// positive rate.
		return newshound.DedupeBF(100_000_000, 5)
	}
	return newshound.DedupeMap()
}

// Matcher returns the admission matcher to use.
func matcher() newshound.Matcher {
	if len(*excludes) > 0 {
		return newshound.MatchExclude(*excludes...)
	}
	return nil
}

// WriteReports writes the text report and optionally markdown.
func writeReports(meta report.Meta, snap newshound.Snapshot) error {
	path := filepath.Join(*out, "CrawlReport_"+meta.Site+".txt")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q - %w", path, err)
	}
	defer f.Close()

	if err := report.Text(f, meta, snap); err != nil {
		return fmt.Errorf("write %q - %w", path, err)
	}

	if !*mdReport {
		return nil
	}

	mdPath := filepath.Join(*out, "CrawlReport_"+meta.Site+".md")
	md, err := os.Create(mdPath)
	if err != nil {
		return fmt.Errorf("create %q - %w", mdPath, err)
	}
	defer md.Close()

	if err := report.Markdown(md, meta, snap); err != nil {
		return fmt.Errorf("write %q - %w", mdPath, err)
	}

	return nil
}
