package movies

import (
	"math"
	"strconv"
	"strings"

	"moviegate/internal/core"
)

// Matches reports whether m passes every supplied filter.
// Filters are independent; an empty field (or nil Rating) always passes.
func Matches(m core.Movie, f core.MovieFilters) bool {
	return matchGenre(m, f.Genre) &&
		matchYear(m, f.Year) &&
		matchRating(m, f.Rating) &&
		matchSearch(m, f.Search)
}

// Filter returns the movies passing f, preserving order. The result is never nil.
func Filter(movies []core.Movie, f core.MovieFilters) []core.Movie {
	out := make([]core.Movie, 0, len(movies))
	for _, m := range movies {
		if Matches(m, f) {
			out = append(out, m)
		}
	}
	return out
}

// matchGenre passes when any genre token contains the filter, ignoring case.
func matchGenre(m core.Movie, genre string) bool {
	needle := strings.ToLower(strings.TrimSpace(genre))
	if needle == "" {
		return true
	}
	for _, token := range splitGenres(m.Genre) {
		if strings.Contains(strings.ToLower(token), needle) {
			return true
		}
	}
	return false
}

func matchYear(m core.Movie, year string) bool {
	if year == "" {
		return true
	}
	return m.Year != nil && *m.Year == year
}

// matchRating passes when the movie rating parses and is >= min.
// Absent or non-numeric ratings fail.
func matchRating(m core.Movie, min *float64) bool {
	if min == nil {
		return true
	}
	if m.Rating == nil {
		return false
	}
	rating, err := strconv.ParseFloat(strings.TrimSpace(*m.Rating), 64)
	if err != nil || math.IsNaN(rating) {
		return false
	}
	return rating >= *min
}

// matchSearch tests containment against title, director, actors and plot joined by spaces.
func matchSearch(m core.Movie, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	fields := make([]string, 0, 4)
	for _, s := range []string{m.Title, m.Director, m.Actors} {
		if s != "" {
			fields = append(fields, s)
		}
	}
	if m.Plot != nil && *m.Plot != "" {
		fields = append(fields, *m.Plot)
	}
	return strings.Contains(strings.ToLower(strings.Join(fields, " ")), needle)
}
