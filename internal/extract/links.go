package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RegionLinks returns the region URLs on the home page in document order.
func (e *Extractor) RegionLinks(doc *goquery.Document) []string {
	return e.links(doc, e.sel.RegionLinks, "")
}

// CityLinks returns the city URLs on a region page in document order.
func (e *Extractor) CityLinks(doc *goquery.Document) []string {
	return e.links(doc, e.sel.CityLinks, "")
}

// VenueLinks returns the venue URLs on a city listing in document order.
// Anchors whose href lacks the venue marker are skipped.
func (e *Extractor) VenueLinks(doc *goquery.Document) []string {
	return e.links(doc, e.sel.VenueLinks, e.sel.VenueMarker)
}

// links collects the resolved href of every match. Empty and unparsable
// hrefs are skipped.
func (e *Extractor) links(doc *goquery.Document, selector, marker string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}
		if marker != "" && !strings.Contains(href, marker) {
			return
		}
		if resolved, ok := e.resolve(href); ok {
			out = append(out, resolved)
		}
	})
	return out
}

// resolve turns an href into an absolute URL against the base URL.
func (e *Extractor) resolve(href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	return e.base.ResolveReference(ref).String(), true
}
