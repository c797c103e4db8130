package model

import "time"

// URLType tags a discovered URL with the tier it belongs to.
type URLType string

const (
	// URLTypeRegion marks a region (voivodeship) listing URL.
	URLTypeRegion URLType = "voivodeship"

	// URLTypeCity marks a city listing URL.
	URLTypeCity URLType = "city"
)

// String returns the stored tag.
func (t URLType) String() string {
	return string(t)
}

// Valid reports whether t is one of the known URL types.
func (t URLType) Valid() bool {
	switch t {
	case URLTypeRegion, URLTypeCity:
		return true
	default:
		return false
	}
}

// DiscoveredURL is a region or city URL found during a crawl.
// The URL value is unique across the whole store regardless of type,
// and a row is never modified once written.
type DiscoveredURL struct {
	// ID is the generated row id. Zero until stored.
	ID int64 `json:"id,omitempty"`

	// Type is the tier tag.
	Type URLType `json:"type"`

	// URL is the absolute URL.
	URL string `json:"url"`

	// Created is when the URL was first stored.
	Created time.Time `json:"created"`
}
