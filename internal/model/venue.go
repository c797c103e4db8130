package model

import (
	"strings"
	"time"
)

// UnknownAuthor is stored when neither author element carries text.
const UnknownAuthor = "Unknown"

// MaxRating is the upper bound of a venue rating.
const MaxRating = 5

// Coordinates holds the latitude and longitude exactly as they appear in the
// map link. The strings are not reformatted.
type Coordinates struct {
	Lat string `json:"lat"`
	Lng string `json:"lng"`
}

// String returns the coordinates in "lat,lng" form.
func (c Coordinates) String() string {
	return c.Lat + "," + c.Lng
}

// IsZero reports whether both parts are empty.
func (c Coordinates) IsZero() bool {
	return c.Lat == "" && c.Lng == ""
}

// ParseCoordinates splits a "lat,lng" value on the first comma. Both parts
// are kept verbatim, surrounding spaces included.
// It returns false when the comma is missing or either side is empty.
func ParseCoordinates(s string) (Coordinates, bool) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok || lat == "" || lng == "" {
		return Coordinates{}, false
	}
	return Coordinates{Lat: lat, Lng: lng}, true
}

// Venue is a venue record extracted from a venue page.
// Title and Location form its natural key.
type Venue struct {
	// ID is the generated row id. It stays the same when the record is replaced.
	ID int64 `json:"id,omitempty"`

	// URL is the venue page the record was extracted from.
	URL string `json:"url,omitempty"`

	// Title is the venue name.
	Title string `json:"title"`

	// Location is parsed from the map link on the page.
	Location Coordinates `json:"location"`

	// Description is the free text description, possibly empty.
	Description string `json:"description"`

	// DateAdded is when the venue was published on the site.
	DateAdded time.Time `json:"date_added"`

	// Author is the publishing user or UnknownAuthor.
	Author string `json:"author"`

	// Rating is the integer-truncated average rating in [0, MaxRating].
	Rating float64 `json:"rating"`
}

// Comment is a comment or reply attached to a venue.
// VenueID, Page and Position identify it, so identical comments on a page
// stay separate rows.
type Comment struct {
	// ID is the generated row id.
	ID int64 `json:"id,omitempty"`

	// VenueID references the owning venue.
	VenueID int64 `json:"venue_id"`

	// ParentID references the root comment this reply belongs to.
	// Nil for root comments and for replies with no preceding root on their page.
	ParentID *int64 `json:"parent_id,omitempty"`

	// Text is the comment body.
	Text string `json:"text"`

	// Author is the commenting user or UnknownAuthor.
	Author string `json:"author"`

	// Score is the vote score as displayed, "0" when absent.
	Score string `json:"score"`

	// Timestamp is when the comment was posted.
	Timestamp time.Time `json:"timestamp"`

	// Page is the comment page index the comment was read from.
	Page int `json:"page"`

	// Position is the zero-based document order of the comment on its page.
	Position int `json:"position"`
}
