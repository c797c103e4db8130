package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Parse parses raw markup into a queryable document.
// The HTML parser is lenient, so only reader failures are reported.
func Parse(body []byte) (*goquery.Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// clean trims surrounding whitespace and normalizes to NFC so the same text
// always yields the same natural key.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// textStrategy reads one candidate value out of a selection.
type textStrategy func(*goquery.Selection) string

// textOf returns a strategy reading the text of the first match of selector.
func textOf(selector string) textStrategy {
	return func(s *goquery.Selection) string {
		return clean(s.Find(selector).First().Text())
	}
}

// firstNonEmpty tries each strategy in order and returns fallback when all
// of them come back empty.
func firstNonEmpty(s *goquery.Selection, fallback string, strategies ...textStrategy) string {
	for _, strategy := range strategies {
		if v := strategy(s); v != "" {
			return v
		}
	}
	return fallback
}
