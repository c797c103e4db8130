package crawler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/venuecrawl/internal/model"
	"github.com/nao1215/venuecrawl/internal/politeness"
)

// commentPagePath is the path segment preceding a comment page index.
const commentPagePath = "strona/"

// harvestVenue stores one venue and the comments of its pages 1..pagesCount-1.
func (c *Crawler) harvestVenue(ctx context.Context, venueURL string, report *model.RunReport) error {
	doc, err := c.fetchDocument(ctx, politeness.TierVenue, venueURL, report)
	if err != nil {
		return err
	}

	page, err := c.extractor.Venue(doc)
	if err != nil {
		return fmt.Errorf("extract venue %s: %w", venueURL, err)
	}

	venue := page.Venue
	venue.URL = venueURL
	venueID, err := c.store.UpsertVenue(ctx, &venue)
	if err != nil {
		return fmt.Errorf("store venue %s: %w", venueURL, err)
	}
	report.VenuesSaved++

	c.logger.Debug("venue extracted",
		"venue_id", venueID,
		"title", venue.Title,
		"pages", page.PagesCount,
	)

	for i := 1; i < page.PagesCount; i++ {
		pageURL := commentPageURL(venueURL, i)

		doc, err := c.fetchDocument(ctx, politeness.TierCommentPage, pageURL, report)
		if err != nil {
			return err
		}
		report.CommentPages++

		parsed, err := c.extractor.Comments(doc)
		if err != nil {
			return fmt.Errorf("extract comments %s: %w", pageURL, err)
		}

		roots, replies, err := persistThread(ctx, c.store, venueID, i, parsed)
		if err != nil {
			return fmt.Errorf("store comments %s: %w", pageURL, err)
		}
		report.CommentsSaved += roots
		report.RepliesSaved += replies
	}

	return nil
}

// commentPageURL returns the URL of comment page index under venueURL.
func commentPageURL(venueURL string, index int) string {
	base := strings.TrimSpace(venueURL)
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + commentPagePath + strconv.Itoa(index)
}
