package model

// StoreSummary holds totals read back from the store.
type StoreSummary struct {
	// Path is the database file the summary was read from.
	Path string `json:"path"`

	Regions  int `json:"regions"`
	Cities   int `json:"cities"`
	Venues   int `json:"venues"`
	Comments int `json:"comments"`
	Replies  int `json:"replies"`

	// AverageRating is the mean rating over venues with a non-zero rating.
	AverageRating float64 `json:"average_rating"`

	// TopVenues lists the venues with the most comments, busiest first.
	TopVenues []VenueStat `json:"top_venues,omitempty"`
}

// VenueStat is a per-venue line of a StoreSummary.
type VenueStat struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Rating   float64 `json:"rating"`
	Comments int     `json:"comments"`
}
