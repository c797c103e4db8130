package crawler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/venuecrawl/internal/extract"
	"github.com/nao1215/venuecrawl/internal/model"
	"github.com/nao1215/venuecrawl/internal/pipeline"
	"github.com/nao1215/venuecrawl/internal/politeness"
)

// Fetcher retrieves raw page markup.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FrontierStore persists discovered region and city URLs.
type FrontierStore interface {
	ListURLs(ctx context.Context, urlType model.URLType) ([]string, error)
	UpsertURL(ctx context.Context, du *model.DiscoveredURL) error
}

// RecordStore persists venues and comments.
type RecordStore interface {
	UpsertVenue(ctx context.Context, v *model.Venue) (int64, error)
	UpsertComment(ctx context.Context, c *model.Comment) (int64, error)
}

// Store is the storage the crawler needs.
type Store interface {
	FrontierStore
	RecordStore
}

// Pacer waits before each request.
type Pacer interface {
	Wait(ctx context.Context, tier politeness.Tier) error
}

// Crawler drives a full crawl of the directory.
type Crawler struct {
	// baseURL is the site root; the home page is fetched from it.
	baseURL string

	fetcher   Fetcher
	store     Store
	extractor *extract.Extractor

	// pacer delays requests. Defaults to the live-site delays.
	pacer Pacer

	// logger is used for structured logging during the run.
	logger *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// WithPacer replaces the request pacer.
func WithPacer(p Pacer) Option {
	return func(c *Crawler) {
		c.pacer = p
	}
}

// New creates a Crawler.
func New(baseURL string, fetcher Fetcher, store Store, extractor *extract.Extractor, opts ...Option) *Crawler {
	c := &Crawler{
		baseURL:   baseURL,
		fetcher:   fetcher,
		store:     store,
		extractor: extractor,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.pacer == nil {
		c.pacer = politeness.New(politeness.DefaultDelays())
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Run performs one crawl and returns its report. The report is returned
// even when the run fails, with the error recorded in it.
func (c *Crawler) Run(ctx context.Context) (*model.RunReport, error) {
	report := model.NewRunReport(c.baseURL)

	frontier, err := c.loadFrontier(ctx, report)
	if err != nil {
		report.Finish(err)
		return report, err
	}

	p := pipeline.New(pipeline.WithLogger(c.logger))
	p.AddSteps(
		&regionStep{c: c},
		&cityStep{c: c},
		&listingStep{c: c},
		&venueStep{c: c},
	)

	_, err = p.Execute(ctx, frontier, report)
	report.Finish(err)

	if err != nil {
		c.logger.Error("crawl aborted", "error", err, "requests", report.Requests)
		return report, err
	}

	c.logger.Info("crawl finished",
		"venues", report.VenuesSaved,
		"comments", report.CommentsSaved+report.RepliesSaved,
		"requests", report.Requests,
		"duration", report.Duration(),
	)
	return report, nil
}

// loadFrontier seeds the frontier with the URLs stored by earlier runs.
func (c *Crawler) loadFrontier(ctx context.Context, report *model.RunReport) (model.Frontier, error) {
	regions, err := c.store.ListURLs(ctx, model.URLTypeRegion)
	if err != nil {
		return model.Frontier{}, fmt.Errorf("load regions: %w", err)
	}
	cities, err := c.store.ListURLs(ctx, model.URLTypeCity)
	if err != nil {
		return model.Frontier{}, fmt.Errorf("load cities: %w", err)
	}

	report.RegionsKnown = len(regions)
	report.CitiesKnown = len(cities)

	c.logger.Info("frontier loaded", "regions", len(regions), "cities", len(cities))

	return model.Frontier{Regions: regions, Cities: cities}, nil
}

// fetchDocument waits for the tier's delay, fetches pageURL and parses it.
func (c *Crawler) fetchDocument(ctx context.Context, tier politeness.Tier, pageURL string, report *model.RunReport) (*goquery.Document, error) {
	if err := c.pacer.Wait(ctx, tier); err != nil {
		return nil, err
	}

	c.logger.Debug("fetching page", "tier", tier.String(), "url", pageURL)

	body, err := c.fetcher.Fetch(ctx, pageURL)
	report.Requests++
	if err != nil {
		return nil, fmt.Errorf("fetch %s page %s: %w", tier, pageURL, err)
	}

	doc, err := extract.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s page %s: %w", tier, pageURL, err)
	}
	return doc, nil
}
