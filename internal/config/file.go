package config

import (
	"maps"

	"github.com/nao1215/venuecrawl/internal/extract"
	"github.com/nao1215/venuecrawl/internal/politeness"
)

// SiteConfig holds request settings for the crawled site.
type SiteConfig struct {
	// BaseURL overrides the default site root.
	BaseURL string `yaml:"base_url,omitempty"`

	// UserAgent overrides the default User-Agent header.
	UserAgent string `yaml:"user_agent,omitempty"`

	// Cookie is sent with every request.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .venuecrawl configuration file.
type File struct {
	Site SiteConfig `yaml:"site,omitempty"`

	// Delays replaces individual politeness bounds. Keys left out keep
	// their defaults.
	Delays politeness.Delays `yaml:"delays,omitempty"`

	// Selectors overrides individual extraction selectors.
	Selectors extract.Selectors `yaml:"selectors,omitempty"`
}

// Apply copies the file's settings into cfg. Values already set by a
// command-line flag are listed in explicit and left untouched.
func (f *File) Apply(cfg *Config, explicit map[string]bool) {
	if f.Site.BaseURL != "" && !explicit["base-url"] {
		cfg.BaseURL = f.Site.BaseURL
	}
	if f.Site.UserAgent != "" && !explicit["user-agent"] {
		cfg.UserAgent = f.Site.UserAgent
	}
	cfg.Delays = f.Delays
	cfg.File = f
}

// RequestHeaders returns a copy of the configured extra headers.
func (f *File) RequestHeaders() map[string]string {
	if f == nil || len(f.Site.Headers) == 0 {
		return nil
	}
	return maps.Clone(f.Site.Headers)
}

// CrawlSelectors returns the default selectors with the file's overrides applied.
func (f *File) CrawlSelectors() extract.Selectors {
	if f == nil {
		return extract.DefaultSelectors()
	}
	return extract.DefaultSelectors().Merge(f.Selectors)
}

// Cookie returns the configured cookie, or "" when no file is loaded.
func (f *File) Cookie() string {
	if f == nil {
		return ""
	}
	return f.Site.Cookie
}
