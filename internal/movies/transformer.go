// Package movies implements the movie query service: normalization of upstream
// records, genre derivation, filtering and cache orchestration.
package movies

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"moviegate/internal/core"
)

const defaultTitleType = "movie"

// Normalize maps one raw upstream object to a Movie.
// It is total: any input, including a non-object, yields a record with a string title.
func Normalize(raw gjson.Result) core.Movie {
	title := strings.TrimSpace(raw.Get("primaryTitle").String())
	if title == "" {
		title = strings.TrimSpace(raw.Get("title").String())
	}

	typ := strings.TrimSpace(raw.Get("type").String())
	if typ == "" {
		typ = defaultTitleType
	}

	return core.Movie{
		ID:                  strings.TrimSpace(raw.Get("id").String()),
		Title:               title,
		Year:                text(raw.Get("startYear")),
		Type:                typ,
		Poster:              text(raw.Get("primaryImage")),
		Plot:                text(raw.Get("description")),
		Director:            firstName(raw.Get("directors")),
		Actors:              joinNames(raw.Get("actors")),
		Genre:               joinNames(raw.Get("genres")),
		Rating:              text(raw.Get("averageRating")),
		Runtime:             text(raw.Get("runtimeMinutes")),
		Released:            text(raw.Get("releaseDate")),
		Trailer:             text(raw.Get("trailer")),
		ContentRating:       text(raw.Get("contentRating")),
		CountriesOfOrigin:   joinNames(raw.Get("countriesOfOrigin")),
		SpokenLanguages:     joinNames(raw.Get("spokenLanguages")),
		FilmingLocations:    joinNames(raw.Get("filmingLocations")),
		ProductionCompanies: joinNames(raw.Get("productionCompanies")),
		Budget:              number(raw.Get("budget")),
		GrossWorldwide:      number(raw.Get("grossWorldwide")),
		NumVotes:            number(raw.Get("numVotes")),
		Metascore:           number(raw.Get("metascore")),
	}
}

// NormalizeObject parses a single-record body.
func NormalizeObject(data []byte) (core.Movie, error) {
	if !gjson.ValidBytes(data) {
		return core.Movie{}, core.NewParseError("upstream returned invalid JSON", nil)
	}
	raw := gjson.ParseBytes(data)
	if !raw.IsObject() {
		return core.Movie{}, core.NewParseError("upstream record is not a JSON object", nil)
	}
	return Normalize(raw), nil
}

// NormalizeList parses a body holding a JSON array of records.
func NormalizeList(data []byte) ([]core.Movie, error) {
	if !gjson.ValidBytes(data) {
		return nil, core.NewParseError("upstream returned invalid JSON", nil)
	}
	raw := gjson.ParseBytes(data)
	if !raw.IsArray() {
		return nil, core.NewParseError("upstream listing is not a JSON array", nil)
	}
	return normalizeArray(raw), nil
}

// SearchPage is one normalized upstream search response.
type SearchPage struct {
	Movies   []core.Movie `json:"movies"`
	NumFound int          `json:"numFound"`
}

// NormalizeSearch parses a {results, numFound} search body.
// A missing numFound falls back to the number of results.
func NormalizeSearch(data []byte) (SearchPage, error) {
	if !gjson.ValidBytes(data) {
		return SearchPage{}, core.NewParseError("upstream returned invalid JSON", nil)
	}
	raw := gjson.ParseBytes(data)
	if !raw.IsObject() {
		return SearchPage{}, core.NewParseError("upstream search response is not a JSON object", nil)
	}

	movies := normalizeArray(raw.Get("results"))
	numFound := len(movies)
	if n := raw.Get("numFound"); n.Type == gjson.Number {
		numFound = int(n.Int())
	}
	return SearchPage{Movies: movies, NumFound: numFound}, nil
}

func normalizeArray(raw gjson.Result) []core.Movie {
	items := raw.Array()
	movies := make([]core.Movie, 0, len(items))
	for _, item := range items {
		movies = append(movies, Normalize(item))
	}
	return movies
}

// text converts a scalar to its trimmed text form; absent or null yields nil.
func text(r gjson.Result) *string {
	var s string
	switch r.Type {
	case gjson.String:
		s = strings.TrimSpace(r.Str)
	case gjson.Number:
		s = strconv.FormatFloat(r.Num, 'f', -1, 64)
	case gjson.True, gjson.False:
		s = r.String()
	default:
		return nil
	}
	return &s
}

// number passes a numeric field through; absent stays absent.
func number(r gjson.Result) *float64 {
	switch r.Type {
	case gjson.Number:
		f := r.Num
		return &f
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// itemName reads a list element that is either a plain string or an object with a name.
func itemName(r gjson.Result) string {
	if r.IsObject() {
		return strings.TrimSpace(r.Get("name").String())
	}
	if r.Type == gjson.String || r.Type == gjson.Number {
		return strings.TrimSpace(r.String())
	}
	return ""
}

// joinNames joins list elements with ", ". A bare string is returned trimmed.
func joinNames(r gjson.Result) string {
	if r.Type == gjson.String {
		return strings.TrimSpace(r.Str)
	}
	if !r.IsArray() {
		return ""
	}
	var names []string
	for _, item := range r.Array() {
		if name := itemName(item); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// firstName returns only the first element of a name list.
func firstName(r gjson.Result) string {
	if r.Type == gjson.String {
		return strings.TrimSpace(r.Str)
	}
	if !r.IsArray() {
		return ""
	}
	items := r.Array()
	if len(items) == 0 {
		return ""
	}
	return itemName(items[0])
}
