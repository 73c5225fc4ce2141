package movies

import (
	"sort"
	"strings"

	"moviegate/internal/core"
)

// splitGenres splits a comma-joined genre string into trimmed, non-empty tokens.
func splitGenres(genre string) []string {
	var out []string
	for _, part := range strings.Split(genre, ",") {
		if token := strings.TrimSpace(part); token != "" {
			out = append(out, token)
		}
	}
	return out
}

// DeriveGenres returns the sorted unique genre names of movies.
func DeriveGenres(movies []core.Movie) []string {
	seen := make(map[string]struct{})
	for _, m := range movies {
		for _, g := range splitGenres(m.Genre) {
			seen[g] = struct{}{}
		}
	}

	genres := make([]string, 0, len(seen))
	for g := range seen {
		genres = append(genres, g)
	}
	sort.Strings(genres)
	return genres
}

// GenreSlug lowercases name and replaces whitespace runs with "-".
func GenreSlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// GenreStats returns the derived genres with slugs and movie counts.
// A movie counts towards a genre when its genre string contains the name, ignoring case.
func GenreStats(movies []core.Movie) []core.Genre {
	names := DeriveGenres(movies)
	stats := make([]core.Genre, 0, len(names))
	for _, name := range names {
		needle := strings.ToLower(name)
		count := 0
		for _, m := range movies {
			if strings.Contains(strings.ToLower(m.Genre), needle) {
				count++
			}
		}
		stats = append(stats, core.Genre{ID: GenreSlug(name), Name: name, Count: count})
	}
	return stats
}
