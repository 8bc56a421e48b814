package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sakila-tools/filmsearch/internal/models"
	"github.com/sakila-tools/filmsearch/internal/querylog"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"shorter", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"longer", "abcdefg", 5, "abcde..."},
		{"multibyte", "ÄÖÜäöü", 3, "ÄÖÜ..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.width))
		})
	}
}

func TestOrderActors(t *testing.T) {
	actors := "PENELOPE GUINESS, NICK WAHLBERG, ED CHASE"

	assert.Equal(t, "NICK WAHLBERG, PENELOPE GUINESS, ED CHASE", orderActors(actors, "nick"))
	assert.Equal(t, actors, orderActors(actors, ""))
	assert.Equal(t, actors, orderActors(actors, "nobody"))
	assert.Equal(t, "NICK WAHLBERG, PENELOPE GUINESS, ED CHASE", orderActors(actors, "wahl"))
}

func TestFormatParams(t *testing.T) {
	p := querylog.GenreYearParams("Drama", 2001, 2003)
	assert.Equal(t, "genre=Drama, year_from=2001, year_to=2003", formatParams(&p))

	empty := querylog.ActorNameParams("", "")
	assert.Equal(t, "", formatParams(&empty))
	assert.Equal(t, "", formatParams(nil))
}

func TestRenderTopCombinations(t *testing.T) {
	var buf bytes.Buffer
	RenderTopCombinations(&buf, []querylog.TopCombination{{Key: "keyword.keyword:ace", Count: 3}})

	assert.Regexp(t, `keyword\s*\|\s*keyword\s*\|\s*ace\s*\|\s*3`, buf.String())
}

func TestRenderFilmsTruncatesLongDescription(t *testing.T) {
	var buf bytes.Buffer
	RenderFilms(&buf, []models.Film{{
		FilmID:      1,
		Title:       "ACADEMY DINOSAUR",
		Description: strings.Repeat("x", 80),
		ReleaseYear: 2006,
		Length:      86,
		Rating:      "PG",
		Category:    "Documentary",
		Actors:      "PENELOPE GUINESS",
	}}, "")

	out := buf.String()
	assert.Contains(t, out, strings.Repeat("x", 50)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 51))
}
