package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/venuecrawl/internal/fetch"
	"github.com/nao1215/venuecrawl/internal/politeness"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "venuecrawl"

	// DefaultBaseURL is the root of the venue directory.
	DefaultBaseURL = "https://gdziestoja.pl"

	// DefaultTimeout bounds a single request including the body read.
	DefaultTimeout = fetch.DefaultTimeout

	// DefaultUserAgent is a desktop browser string; the directory serves
	// reduced markup to unknown agents.
	DefaultUserAgent = fetch.DefaultUserAgent

	// DefaultMaxBodySize limits the bytes read from one response.
	DefaultMaxBodySize = fetch.DefaultMaxBodySize
)

// Config holds all configuration options for venuecrawl.
// It is populated from CLI flags and the optional config file and passed
// through the application rather than kept in global state.
type Config struct {
	// BaseURL is the site root. Region links are read from its home page
	// and every relative link is resolved against it.
	BaseURL string

	// DBDir is the directory holding venuecrawl.db.
	// Defaults to the XDG data directory (~/.local/share/venuecrawl on Linux).
	DBDir string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// ProxyURL routes requests through an http, https or socks5 proxy.
	// Empty means a direct connection.
	ProxyURL string

	// RequestsPerSecond is a global ceiling on request rate, applied on top
	// of the per-tier delays. 0 disables it.
	RequestsPerSecond float64

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64

	// Delays are the upper bounds of the random pause before each tier's requests.
	Delays politeness.Delays

	// Verbose enables debug logging.
	Verbose bool

	// JSONLogs switches the log output to JSON.
	JSONLogs bool

	// JSONReport selects the JSON report format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects the Markdown report format.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file as well as the terminal.
	ReportFile string

	// ConfigFilePath is the explicit path of the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// File holds the loaded configuration file, if any.
	File *File
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		DBDir:       XDGDataDir(),
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Delays:      politeness.DefaultDelays(),
	}
}

// XDGDataDir returns the XDG data directory for venuecrawl.
// On Linux: ~/.local/share/venuecrawl
// On macOS: ~/Library/Application Support/venuecrawl
// On Windows: %LOCALAPPDATA%\venuecrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for venuecrawl.
// On Linux: ~/.config/venuecrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if c.BaseURL == "" || err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrNoBaseURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	for _, d := range []time.Duration{c.Delays.Region, c.Delays.City, c.Delays.Harvest, c.Delays.Venue, c.Delays.CommentPage} {
		if d < 0 {
			return ErrInvalidDelay
		}
	}

	if c.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
