package extract

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/venuecrawl/internal/model"
)

// Extractor reads links and records out of parsed pages.
type Extractor struct {
	// sel holds the selectors in use.
	sel Selectors

	// base resolves relative hrefs.
	base *url.URL
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSelectors applies non-empty selector overrides on top of the defaults.
func WithSelectors(s Selectors) Option {
	return func(e *Extractor) {
		e.sel = e.sel.Merge(s)
	}
}

// New creates an Extractor resolving links against baseURL.
func New(baseURL string, opts ...Option) (*Extractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	e := &Extractor{
		sel:  DefaultSelectors(),
		base: base,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Selectors returns the selectors in use.
func (e *Extractor) Selectors() Selectors {
	return e.sel
}

// VenuePage is the result of reading a venue page.
type VenuePage struct {
	// Venue is the extracted record. ID and URL are left for the caller.
	Venue model.Venue

	// PagesCount is the number of comment pages, never less than 1.
	PagesCount int
}

// Venue extracts the venue record and its comment page count.
// A missing date or location fails with a *FieldError. A missing title is
// stored as the empty string.
func (e *Extractor) Venue(doc *goquery.Document) (*VenuePage, error) {
	title := clean(doc.Find(e.sel.Title).First().Text())

	dateAdded, err := e.dateAdded(doc)
	if err != nil {
		return nil, err
	}

	location, err := e.location(doc)
	if err != nil {
		return nil, err
	}

	author := model.UnknownAuthor
	if scope := doc.Find(e.sel.AuthorScope).First(); scope.Length() > 0 {
		author = e.author(scope)
	}

	return &VenuePage{
		Venue: model.Venue{
			Title:       title,
			Location:    location,
			Description: clean(doc.Find(e.sel.Description).First().Text()),
			DateAdded:   dateAdded,
			Author:      author,
			Rating:      parseRating(doc.Find(e.sel.Rating).First().Text()),
		},
		PagesCount: e.pagesCount(doc),
	}, nil
}

func (e *Extractor) dateAdded(doc *goquery.Document) (time.Time, error) {
	raw, ok := doc.Find(e.sel.DateAdded).First().Attr("datetime")
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return time.Time{}, missing("date_added", e.sel.DateAdded)
	}
	t, ok := parseDatetime(raw)
	if !ok {
		return time.Time{}, invalid("date_added", e.sel.DateAdded, raw)
	}
	return t, nil
}

func (e *Extractor) location(doc *goquery.Document) (model.Coordinates, error) {
	href, ok := doc.Find(e.sel.MapLink).First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return model.Coordinates{}, missing("location", e.sel.MapLink)
	}

	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return model.Coordinates{}, invalid("location", e.sel.MapLink, href)
	}
	query := u.Query().Get(e.sel.MapQueryParam)
	if query == "" {
		return model.Coordinates{}, missing("location", e.sel.MapLink)
	}

	coords, ok := model.ParseCoordinates(query)
	if !ok {
		return model.Coordinates{}, invalid("location", e.sel.MapLink, query)
	}
	return coords, nil
}

func (e *Extractor) author(scope *goquery.Selection) string {
	return firstNonEmpty(scope, model.UnknownAuthor,
		textOf(e.sel.AuthorPrimary),
		textOf(e.sel.AuthorSecondary),
	)
}

// pagesCount derives the comment page count from the pagination entries.
// The list carries one navigation entry besides the page numbers.
func (e *Extractor) pagesCount(doc *goquery.Document) int {
	return max(1, doc.Find(e.sel.PaginationItems).Length()-1)
}

// ParsedComment is a comment as read from a page, before thread reconstruction.
type ParsedComment struct {
	IsReply   bool
	Author    string
	Score     string
	Text      string
	Timestamp time.Time
}

// Comments extracts the comments of a page in document order.
// A comment without a timestamp fails with a *FieldError.
func (e *Extractor) Comments(doc *goquery.Document) ([]ParsedComment, error) {
	var (
		comments []ParsedComment
		firstErr error
	)

	doc.Find(e.sel.Comment).EachWithBreak(func(i int, s *goquery.Selection) bool {
		raw, ok := s.Find(e.sel.CommentTime).First().Attr("datetime")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			firstErr = fmt.Errorf("comment %d: %w", i, missing("timestamp", e.sel.CommentTime))
			return false
		}
		ts, ok := parseDatetime(raw)
		if !ok {
			firstErr = fmt.Errorf("comment %d: %w", i, invalid("timestamp", e.sel.CommentTime, raw))
			return false
		}

		score := clean(s.Find(e.sel.CommentScore).First().Text())
		if score == "" {
			score = "0"
		}

		comments = append(comments, ParsedComment{
			IsReply:   s.ParentsFiltered(e.sel.ReplyContainer).Length() > 0,
			Author:    e.author(s),
			Score:     score,
			Text:      clean(s.Find(e.sel.CommentText).First().Text()),
			Timestamp: ts,
		})
		return true
	})

	if firstErr != nil {
		return nil, firstErr
	}
	return comments, nil
}

// datetimeLayouts lists the accepted forms of a datetime attribute.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDatetime parses a datetime attribute and returns it in UTC.
// Values without a zone are read as UTC.
func parseDatetime(s string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseRating keeps the integer part of the displayed average and clamps it
// to [0, MaxRating]. Anything without leading digits rates 0.
func parseRating(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return model.MaxRating
	}
	return float64(min(n, model.MaxRating))
}
