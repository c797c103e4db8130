package model

import "slices"

// Frontier holds the URL sets accumulated during a run.
// Each tier step receives a Frontier and returns the extended copy.
// Copies made by assignment share their lookup index; use Clone before adding.
type Frontier struct {
	// Regions are region listing URLs, persisted.
	Regions []string `json:"regions"`

	// Cities are city listing URLs, persisted.
	Cities []string `json:"cities"`

	// Venues are venue page URLs in first-seen order, kept in memory only.
	Venues []string `json:"venues"`

	regionSet urlSet
	citySet   urlSet
	venueSet  urlSet
}

// Clone returns a copy that shares no backing arrays with f.
func (f Frontier) Clone() Frontier {
	return Frontier{
		Regions: slices.Clone(f.Regions),
		Cities:  slices.Clone(f.Cities),
		Venues:  slices.Clone(f.Venues),
	}
}

// AddRegion appends u unless it is already present and reports whether it was added.
func (f *Frontier) AddRegion(u string) bool {
	return f.regionSet.add(&f.Regions, u)
}

// AddCity appends u unless it is already present and reports whether it was added.
func (f *Frontier) AddCity(u string) bool {
	return f.citySet.add(&f.Cities, u)
}

// AddVenue appends u unless it is already present and reports whether it was added.
func (f *Frontier) AddVenue(u string) bool {
	return f.venueSet.add(&f.Venues, u)
}

// urlSet indexes the members of one frontier slice. It is built on first use
// and rebuilt when the slice grew without it.
type urlSet map[string]struct{}

func (s *urlSet) add(list *[]string, u string) bool {
	if u == "" {
		return false
	}
	if len(*s) != len(*list) {
		*s = make(urlSet, len(*list))
		for _, v := range *list {
			(*s)[v] = struct{}{}
		}
	}
	if _, ok := (*s)[u]; ok {
		return false
	}
	if *s == nil {
		*s = make(urlSet)
	}
	(*s)[u] = struct{}{}
	*list = append(*list, u)
	return true
}
