package model

import "time"

// RunReport collects counters and timings for a single crawl run.
type RunReport struct {
	// BaseURL is the site root the run started from.
	BaseURL string `json:"base_url"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run ended, successfully or not.
	FinishedAt time.Time `json:"finished_at"`

	// RegionsKnown is the number of region URLs loaded from the store.
	RegionsKnown int `json:"regions_known"`

	// RegionsDiscovered is the number of region URLs found on the home page.
	RegionsDiscovered int `json:"regions_discovered"`

	// CitiesKnown is the number of city URLs loaded from the store.
	CitiesKnown int `json:"cities_known"`

	// CitiesDiscovered is the number of new city URLs found on region pages.
	CitiesDiscovered int `json:"cities_discovered"`

	// VenuesFound is the number of distinct venue URLs found on city listings.
	VenuesFound int `json:"venues_found"`

	// VenuesSaved is the number of venue records written.
	VenuesSaved int `json:"venues_saved"`

	// CommentPages is the number of comment pages fetched.
	CommentPages int `json:"comment_pages"`

	// CommentsSaved is the number of root comments written.
	CommentsSaved int `json:"comments_saved"`

	// RepliesSaved is the number of replies written.
	RepliesSaved int `json:"replies_saved"`

	// Requests is the number of pages fetched.
	Requests int `json:"requests"`

	// Error holds the message of the error that aborted the run.
	Error string `json:"error,omitempty"`
}

// NewRunReport creates a report for a run against baseURL starting now.
func NewRunReport(baseURL string) *RunReport {
	return &RunReport{
		BaseURL:   baseURL,
		StartedAt: time.Now(),
	}
}

// Finish records the end time and the aborting error, if any.
func (r *RunReport) Finish(err error) {
	r.FinishedAt = time.Now()
	if err != nil {
		r.Error = err.Error()
	}
}

// Succeeded reports whether the run completed without error.
func (r *RunReport) Succeeded() bool {
	return r.Error == ""
}

// Duration returns how long the run took. Zero until Finish is called.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
