package newshound

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"runtime"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/datapress/newshound/internal/normalize"
	"github.com/datapress/newshound/internal/robots"
)

// RobotsTimeout bounds the robots.txt fetch at crawl start.
const robotsTimeout = 10 * time.Second

// Config configures a crawler.
type Config struct {
	// Site is the site to crawl.
	//
	// Its seed is the crawl's start URL and its domain
	// classifies discovered links, both are required.
	Site Site

	// Recorder receives all crawl records.
	//
	// If nil, New returns an error.
	Recorder Recorder

	// MaxPages bounds the number of fetch attempts.
	//
	// If <= 0, it defaults to 10,000.
	MaxPages int

	// MaxDepth bounds the link depth, the seed is at depth 0.
	//
	// If <= 0, it defaults to 16.
	MaxDepth int

	// Concurrency controls the amount of fetch workers.
	//
	// If <= 0, it defaults to runtime.GOMAXPROCS.
	Concurrency int

	// Politeness is the minimum interval between request starts.
	//
	// The site's robots.txt crawl-delay acts as a floor, the
	// gate uses whichever is larger.
	Politeness time.Duration

	// Fetcher is the page fetcher to use.
	//
	// If nil, a default fetcher is used.
	Fetcher *Fetcher

	// Deduper tracks enqueued URLs.
	//
	// If nil, DedupeMap is used.
	Deduper Deduper

	// Matcher filters in-domain links before they are enqueued.
	//
	// If nil, all in-domain links are enqueued.
	Matcher Matcher

	// Log is the logger to use.
	//
	// If nil, the apex/log default logger is used.
	Log log.Interface
}

// Crawler implements the crawl orchestrator.
//
// It owns the frontier, the politeness gate and the worker pool,
// and reports every outcome to the configured recorder.
type Crawler struct {
	site        Site
	recorder    Recorder
	fetcher     *Fetcher
	matcher     Matcher
	frontier    *Frontier
	discovered  Deduper
	policy      *robots.Policy
	limiter     Limiter
	sem         *semaphore.Weighted
	concurrency int
	politeness  time.Duration
	log         log.Interface
}

// New returns a new crawler.
func New(c Config) (*Crawler, error) {
	if c.Site.Seed == "" {
		return nil, errors.New("newshound: site seed is required")
	}

	if c.Site.Domain == "" {
		return nil, errors.New("newshound: site domain is required")
	}

	if c.Recorder == nil {
		return nil, errors.New("newshound: recorder is required")
	}

	if c.MaxPages <= 0 {
		c.MaxPages = 10000
	}

	if c.MaxDepth <= 0 {
		c.MaxDepth = 16
	}

	if c.Concurrency <= 0 {
		c.Concurrency = runtime.GOMAXPROCS(-1)
	}

	if c.Fetcher == nil {
		c.Fetcher = &Fetcher{}
	}

	if c.Deduper == nil {
		c.Deduper = DedupeMap()
	}

	if c.Matcher == nil {
		c.Matcher = MatchAll()
	}

	if c.Log == nil {
		c.Log = log.Log
	}

	return &Crawler{
		site:        c.Site,
		recorder:    c.Recorder,
		fetcher:     c.Fetcher,
		matcher:     c.Matcher,
		frontier:    NewFrontier(c.Deduper, c.MaxDepth, c.MaxPages),
		discovered:  DedupeMap(),
		sem:         semaphore.NewWeighted(int64(c.Concurrency)),
		concurrency: c.Concurrency,
		politeness:  c.Politeness,
		log:         c.Log,
	}, nil
}

// Run crawls the site until the page budget is spent, the
// frontier is exhausted or the context is canceled.
//
// Cancellation is a valid terminal path, in-flight work unwinds,
// completed records are kept and the method returns the context's
// error so the caller can report partial results.
func (c *Crawler) Run(ctx context.Context) error {
	seed, err := url.Parse(c.site.Seed)
	if err != nil {
		return fmt.Errorf("newshound: parse seed %q - %w", c.site.Seed, err)
	}
	seed = normalize.URL(seed)

	c.loadRobots(ctx, seed)
	c.limiter = LimitPerHost(c.interval())

	if _, err := c.frontier.Enqueue(ctx, seed.String(), 0); err != nil {
		return fmt.Errorf("newshound: enqueue seed - %w", err)
	}

	c.log.WithFields(log.Fields{
		"site": c.site.Key,
		"seed": seed.String(),
	}).Info("crawl started")

	eg, subctx := errgroup.WithContext(ctx)

	// Unblock dequeues when the caller cancels.
	stop := make(chan struct{})
	go func() {
		select {
		case <-subctx.Done():
			c.frontier.Close()
		case <-stop:
		}
	}()

	for i := 0; i < c.concurrency; i++ {
		eg.Go(func() error {
			return c.run(subctx)
		})
	}

	err = eg.Wait()
	close(stop)
	if err != nil {
		return fmt.Errorf("newshound: run - %w", err)
	}

	c.log.WithFields(log.Fields{
		"site":    c.site.Key,
		"fetched": c.frontier.Dequeued(),
	}).Info("crawl finished")

	return ctx.Err()
}

// LoadRobots fetches the site's robots.txt policy.
//
// Failures degrade to the permissive policy, the crawl proceeds.
func (c *Crawler) loadRobots(ctx context.Context, seed *url.URL) {
	subctx, cancel := context.WithTimeout(ctx, robotsTimeout)
	defer cancel()

	policy, err := robots.Load(subctx, c.fetcher.client(), seed, c.fetcher.userAgent())
	if err != nil {
		c.log.WithError(err).Warn("robots.txt unavailable, allowing all")
	}
	c.policy = policy
}

// Interval returns the effective politeness interval.
//
// The robots crawl-delay is a floor for the configured delay,
// the gate uses whichever is larger.
func (c *Crawler) interval() time.Duration {
	if d := c.policy.Delay(); d > c.politeness {
		return d
	}
	return c.politeness
}

// Run runs a single crawl worker.
//
// The worker dequeues entries until the frontier closes, no
// entry outcome is fatal to the crawl.
func (c *Crawler) run(ctx context.Context) error {
	for {
		entry, err := c.frontier.Dequeue(ctx)
		if err != nil {
			// io.EOF on close, context error on cancellation,
			// either way the worker is finished.
			return nil
		}

		c.process(ctx, entry)
	}
}

// Process processes a single frontier entry.
func (c *Crawler) process(ctx context.Context, entry Entry) {
	defer c.frontier.Done()

	u, err := url.Parse(entry.URL)
	if err != nil {
		c.log.WithError(err).WithField("url", entry.URL).Warn("invalid frontier entry")
		return
	}

	if !c.policy.Allowed(u.Path) {
		c.log.WithField("url", entry.URL).Debug("skipped by robots")
		c.recordFetch(FetchRecord{URL: entry.URL, Status: StatusRobotsDenied, At: time.Now()})
		return
	}

	if err := c.limiter.Limit(ctx, u); err != nil {
		return
	}

	page, err := c.fetch(ctx, u)
	if err != nil {
		// Canceled in-flight work records nothing, the crawl
		// is unwinding.
		if ctx.Err() != nil {
			return
		}

		status := statusOf(err)
		c.log.WithField("url", entry.URL).WithField("status", status).Debug("fetch failed")
		c.recordFetch(FetchRecord{URL: entry.URL, Status: status, At: time.Now()})
		return
	}

	c.recordFetch(FetchRecord{URL: entry.URL, Status: page.Status, At: time.Now()})

	switch {
	case page.HTML():
		c.visit(ctx, entry, page)
	case page.Text():
		c.recordVisit(VisitRecord{
			URL:         entry.URL,
			Size:        len(page.Body),
			ContentType: page.MediaType(),
		})
	default:
		// A 2xx with a media type the crawl cannot use counts
		// as a failed attempt, there is nothing to visit.
		c.log.WithField("url", entry.URL).
			WithField("content-type", page.ContentType).
			Debug("disallowed content type")
	}
}

// Fetch fetches a page holding a concurrency slot.
//
// The semaphore bounds how many workers hold network sockets,
// the politeness gate throttles rate, not parallelism.
func (c *Crawler) fetch(ctx context.Context, u *url.URL) (*Page, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	return c.fetcher.Fetch(ctx, u)
}

// Visit records an HTML page and feeds its links back into
// the frontier.
func (c *Crawler) visit(ctx context.Context, entry Entry, page *Page) {
	var hrefs = page.Hrefs()

	for _, href := range hrefs {
		link, ok := normalize.Link(page.URL, href)
		if !ok {
			continue
		}

		var rawurl = link.String()
		var inDomain = InDomain(link.Hostname(), c.site.Domain)

		novel, err := c.discovered.Dedupe(ctx, []string{rawurl})
		if err != nil {
			c.log.WithError(err).Warn("dedupe discovery")
			continue
		}
		if len(novel) > 0 {
			c.recordDiscovery(Discovery{URL: rawurl, InDomain: inDomain})
		}

		if !inDomain || !c.matcher.Match(link) {
			continue
		}

		status, err := c.frontier.Enqueue(ctx, rawurl, entry.Depth+1)
		if err != nil {
			c.log.WithError(err).WithField("url", rawurl).Warn("enqueue")
			continue
		}

		if status != Enqueued {
			c.log.WithField("url", rawurl).WithField("status", status.String()).Debug("not enqueued")
		}
	}

	c.recordVisit(VisitRecord{
		URL:         entry.URL,
		Size:        len(page.Body),
		Outlinks:    len(hrefs),
		ContentType: page.MediaType(),
	})
}

// RecordFetch reports a fetch record, recorder errors are
// logged and the crawl continues.
func (c *Crawler) recordFetch(rec FetchRecord) {
	if err := c.recorder.RecordFetch(rec); err != nil {
		c.log.WithError(err).Warn("record fetch")
	}
}

// RecordVisit reports a visit record.
func (c *Crawler) recordVisit(rec VisitRecord) {
	if err := c.recorder.RecordVisit(rec); err != nil {
		c.log.WithError(err).Warn("record visit")
	}
}

// RecordDiscovery reports a discovery record.
func (c *Crawler) recordDiscovery(rec Discovery) {
	if err := c.recorder.RecordDiscovery(rec); err != nil {
		c.log.WithError(err).Warn("record discovery")
	}
}
