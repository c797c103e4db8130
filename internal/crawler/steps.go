package crawler

import (
	"context"
	"fmt"

	"github.com/nao1215/venuecrawl/internal/model"
	"github.com/nao1215/venuecrawl/internal/politeness"
)

// regionStep discovers region URLs on the home page. It does nothing when
// regions are already known.
type regionStep struct {
	c *Crawler
}

// Name implements pipeline.Step.
func (s *regionStep) Name() string {
	return "regions"
}

// Do implements pipeline.Step.
func (s *regionStep) Do(ctx context.Context, f model.Frontier, report *model.RunReport) (model.Frontier, error) {
	if len(f.Regions) > 0 {
		s.c.logger.Info("regions already known, skipping home page", "regions", len(f.Regions))
		return f, nil
	}

	doc, err := s.c.fetchDocument(ctx, politeness.TierHome, s.c.baseURL, report)
	if err != nil {
		return f, err
	}

	next := f.Clone()
	for _, link := range s.c.extractor.RegionLinks(doc) {
		if err := s.c.store.UpsertURL(ctx, &model.DiscoveredURL{Type: model.URLTypeRegion, URL: link}); err != nil {
			return next, fmt.Errorf("store region: %w", err)
		}
		if next.AddRegion(link) {
			report.RegionsDiscovered++
		}
	}

	s.c.logger.Info("regions discovered", "count", report.RegionsDiscovered)
	return next, nil
}

// cityStep visits every region page and stores the city URLs not seen before.
// It runs on every crawl, even when cities are already known.
type cityStep struct {
	c *Crawler
}

// Name implements pipeline.Step.
func (s *cityStep) Name() string {
	return "cities"
}

// Do implements pipeline.Step.
func (s *cityStep) Do(ctx context.Context, f model.Frontier, report *model.RunReport) (model.Frontier, error) {
	next := f.Clone()

	for _, regionURL := range f.Regions {
		doc, err := s.c.fetchDocument(ctx, politeness.TierRegion, regionURL, report)
		if err != nil {
			return next, err
		}

		for _, link := range s.c.extractor.CityLinks(doc) {
			if !next.AddCity(link) {
				continue
			}
			if err := s.c.store.UpsertURL(ctx, &model.DiscoveredURL{Type: model.URLTypeCity, URL: link}); err != nil {
				return next, fmt.Errorf("store city: %w", err)
			}
			report.CitiesDiscovered++
		}
	}

	s.c.logger.Info("cities discovered", "new", report.CitiesDiscovered, "total", len(next.Cities))
	return next, nil
}

// listingStep pauses once and then collects venue URLs from every city listing.
// Venue URLs are kept in memory only.
type listingStep struct {
	c *Crawler
}

// Name implements pipeline.Step.
func (s *listingStep) Name() string {
	return "listings"
}

// Do implements pipeline.Step.
func (s *listingStep) Do(ctx context.Context, f model.Frontier, report *model.RunReport) (model.Frontier, error) {
	if err := s.c.pacer.Wait(ctx, politeness.TierHarvest); err != nil {
		return f, err
	}

	next := f.Clone()
	for _, cityURL := range f.Cities {
		doc, err := s.c.fetchDocument(ctx, politeness.TierCity, cityURL, report)
		if err != nil {
			return next, err
		}
		for _, link := range s.c.extractor.VenueLinks(doc) {
			next.AddVenue(link)
		}
	}

	report.VenuesFound = len(next.Venues)
	s.c.logger.Info("venues found", "count", report.VenuesFound)
	return next, nil
}

// venueStep harvests every collected venue and its comment pages.
type venueStep struct {
	c *Crawler
}

// Name implements pipeline.Step.
func (s *venueStep) Name() string {
	return "venues"
}

// Do implements pipeline.Step.
func (s *venueStep) Do(ctx context.Context, f model.Frontier, report *model.RunReport) (model.Frontier, error) {
	for i, venueURL := range f.Venues {
		if err := s.c.harvestVenue(ctx, venueURL, report); err != nil {
			return f, err
		}
		s.c.logger.Info("venue stored", "index", i+1, "of", len(f.Venues), "url", venueURL)
	}
	return f, nil
}
