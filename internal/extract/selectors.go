package extract

// Selectors holds the CSS selectors and markers used to read each page type.
// Empty fields of an override keep the default.
type Selectors struct {
	// RegionLinks selects region anchors on the home page.
	RegionLinks string `yaml:"region_links" json:"region_links"`

	// CityLinks selects city anchors on a region page.
	CityLinks string `yaml:"city_links" json:"city_links"`

	// VenueLinks selects candidate venue anchors on a city listing.
	VenueLinks string `yaml:"venue_links" json:"venue_links"`

	// VenueMarker is the path fragment a candidate href must contain.
	VenueMarker string `yaml:"venue_marker" json:"venue_marker"`

	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Rating      string `yaml:"rating" json:"rating"`
	DateAdded   string `yaml:"date_added" json:"date_added"`

	// AuthorScope is the element the venue author is looked up in.
	AuthorScope string `yaml:"author_scope" json:"author_scope"`

	// AuthorPrimary and AuthorSecondary are tried in order for venues and comments.
	AuthorPrimary   string `yaml:"author_primary" json:"author_primary"`
	AuthorSecondary string `yaml:"author_secondary" json:"author_secondary"`

	// MapLink selects the anchor whose href carries the coordinates.
	MapLink string `yaml:"map_link" json:"map_link"`

	// MapQueryParam is the query parameter holding "lat,lng".
	MapQueryParam string `yaml:"map_query_param" json:"map_query_param"`

	// PaginationItems selects the pagination entries of a venue page.
	PaginationItems string `yaml:"pagination_items" json:"pagination_items"`

	// Comment selects each comment element.
	Comment string `yaml:"comment" json:"comment"`

	// ReplyContainer marks a comment as a reply when it is one of its ancestors.
	ReplyContainer string `yaml:"reply_container" json:"reply_container"`

	CommentTime  string `yaml:"comment_time" json:"comment_time"`
	CommentScore string `yaml:"comment_score" json:"comment_score"`
	CommentText  string `yaml:"comment_text" json:"comment_text"`
}

// DefaultSelectors returns the selectors matching the directory's markup.
func DefaultSelectors() Selectors {
	return Selectors{
		RegionLinks:     ".list-group-item-prov a",
		CityLinks:       ".btn-city",
		VenueLinks:      ".cellname a",
		VenueMarker:     "/miejsce/",
		Title:           "article h4",
		Description:     ".place-description",
		Rating:          `[property="v:average"]`,
		DateAdded:       "time.text-light",
		AuthorScope:     "article.row",
		AuthorPrimary:   ".userlink",
		AuthorSecondary: ".user",
		MapLink:         "aside a",
		MapQueryParam:   "query",
		PaginationItems: "ul.pagination li.page-item",
		Comment:         "article.cmt",
		ReplyContainer:  "div.ml-4",
		CommentTime:     "time",
		CommentScore:    ".vc-sp",
		CommentText:     "p.cmt-c",
	}
}

// Merge returns s with every non-empty field of o applied on top.
func (s Selectors) Merge(o Selectors) Selectors {
	override := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}

	override(&s.RegionLinks, o.RegionLinks)
	override(&s.CityLinks, o.CityLinks)
	override(&s.VenueLinks, o.VenueLinks)
	override(&s.VenueMarker, o.VenueMarker)
	override(&s.Title, o.Title)
	override(&s.Description, o.Description)
	override(&s.Rating, o.Rating)
	override(&s.DateAdded, o.DateAdded)
	override(&s.AuthorScope, o.AuthorScope)
	override(&s.AuthorPrimary, o.AuthorPrimary)
	override(&s.AuthorSecondary, o.AuthorSecondary)
	override(&s.MapLink, o.MapLink)
	override(&s.MapQueryParam, o.MapQueryParam)
	override(&s.PaginationItems, o.PaginationItems)
	override(&s.Comment, o.Comment)
	override(&s.ReplyContainer, o.ReplyContainer)
	override(&s.CommentTime, o.CommentTime)
	override(&s.CommentScore, o.CommentScore)
	override(&s.CommentText, o.CommentText)

	return s
}
