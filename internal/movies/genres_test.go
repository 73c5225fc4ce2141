package movies

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"moviegate/internal/core"
)

func TestDeriveGenres(t *testing.T) {
	movies := []core.Movie{
		{Genre: "Drama, Crime"},
		{Genre: " Action ,Drama"},
		{Genre: ""},
		{Genre: "Crime,,"},
	}

	assert.Equal(t, []string{"Action", "Crime", "Drama"}, DeriveGenres(movies))
	assert.Equal(t, []string{}, DeriveGenres(nil))
}

func TestGenreSlug(t *testing.T) {
	assert.Equal(t, "drama", GenreSlug("Drama"))
	assert.Equal(t, "film-noir", GenreSlug("Film  Noir"))
	assert.Equal(t, "sci-fi", GenreSlug("Sci-Fi"))
}

func TestGenreStats(t *testing.T) {
	movies := []core.Movie{
		{Genre: "Drama, Crime"},
		{Genre: "Drama"},
		{Genre: "Crime, Thriller"},
	}

	assert.Equal(t, []core.Genre{
		{ID: "crime", Name: "Crime", Count: 2},
		{ID: "drama", Name: "Drama", Count: 2},
		{ID: "thriller", Name: "Thriller", Count: 1},
	}, GenreStats(movies))
}
