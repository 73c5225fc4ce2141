package core

import "math"

// Movie is the canonical movie record produced by the normalizer.
// Pointer fields are absent when the upstream omits them; plain string fields
// fall back to "" and are always serialized.
type Movie struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	Year                *string  `json:"year,omitempty"`
	Type                string   `json:"type"`
	Poster              *string  `json:"poster,omitempty"`
	Plot                *string  `json:"plot,omitempty"`
	Director            string   `json:"director"`
	Actors              string   `json:"actors"`
	Genre               string   `json:"genre"`
	Rating              *string  `json:"rating,omitempty"`
	Runtime             *string  `json:"runtime,omitempty"`
	Released            *string  `json:"released,omitempty"`
	Trailer             *string  `json:"trailer,omitempty"`
	ContentRating       *string  `json:"contentRating,omitempty"`
	CountriesOfOrigin   string   `json:"countriesOfOrigin"`
	SpokenLanguages     string   `json:"spokenLanguages"`
	FilmingLocations    string   `json:"filmingLocations"`
	ProductionCompanies string   `json:"productionCompanies"`
	Budget              *float64 `json:"budget,omitempty"`
	GrossWorldwide      *float64 `json:"grossWorldwide,omitempty"`
	NumVotes            *float64 `json:"numVotes,omitempty"`
	Metascore           *float64 `json:"metascore,omitempty"`
}

// MovieFilters holds the optional, AND-combined predicates applied to a Movie.
// Empty strings and a nil Rating mean "not supplied".
type MovieFilters struct {
	Genre  string   `json:"genre,omitempty"`
	Year   string   `json:"year,omitempty"`
	Rating *float64 `json:"rating,omitempty"`
	Search string   `json:"search,omitempty"`
}

// Genre is a derived genre entry with the number of movies tagged with it.
type Genre struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TitleType restricts a search to one upstream category.
type TitleType string

const (
	TitleTypeAll          TitleType = "all"
	TitleTypeMovie        TitleType = "movie"
	TitleTypeTVSeries     TitleType = "tvSeries"
	TitleTypeTVMovie      TitleType = "tvMovie"
	TitleTypeTVMiniSeries TitleType = "tvMiniSeries"
	TitleTypeTVSpecial    TitleType = "tvSpecial"
)

// Valid reports whether t is one of the supported title types.
func (t TitleType) Valid() bool {
	switch t {
	case TitleTypeAll, TitleTypeMovie, TitleTypeTVSeries, TitleTypeTVMovie, TitleTypeTVMiniSeries, TitleTypeTVSpecial:
		return true
	}
	return false
}

// Search input bounds.
const (
	MaxQueryLength = 100
	MinRatingBound = 0.0
	MaxRatingBound = 10.0
)

// ValidRating reports whether r is a usable minimum rating. NaN and infinities are rejected.
func ValidRating(r float64) bool {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return false
	}
	return r >= MinRatingBound && r <= MaxRatingBound
}

// SearchRequest is the input of the search operation.
type SearchRequest struct {
	Query     string    `json:"query"`
	Page      int       `json:"page"`
	Type      TitleType `json:"type"`
	MinRating *float64  `json:"minRating,omitempty"`
}

// MovieList is the result of listing top-rated movies.
type MovieList struct {
	Movies       []Movie `json:"movies"`
	TotalResults int     `json:"totalResults"`
}

// SearchResult is the result of a search.
// HasMore is a heuristic: true when the upstream returned a full page of rows.
type SearchResult struct {
	Movies       []Movie `json:"movies"`
	TotalResults int     `json:"totalResults"`
	Page         int     `json:"page"`
	HasMore      bool    `json:"hasMore"`
}
