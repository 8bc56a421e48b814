package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sakila-tools/filmsearch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var filmRowColumns = []string{"film_id", "title", "description", "release_year", "length", "rating", "category", "actors"}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

type mapCache struct {
	values map[string][]byte
	sets   int
}

func newMapCache() *mapCache { return &mapCache{values: map[string][]byte{}} }

func (c *mapCache) GetJSON(_ context.Context, key string, dst interface{}) (bool, error) {
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mapCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	c.sets++
	return nil
}

func TestCatalog_ByKeyword(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`FROM .film_extended_view. WHERE UPPER\(title\) LIKE UPPER\(\?\) ORDER BY film_id LIMIT`).
		WillReturnRows(sqlmock.NewRows(filmRowColumns).
			AddRow(1, "ACADEMY DINOSAUR", "An epic drama", 2006, 86, "PG", "Documentary", "PENELOPE GUINESS"))

	films, err := New(db, "").ByKeyword(context.Background(), "dino", 0, 10)

	require.NoError(t, err)
	require.Len(t, films, 1)
	assert.Equal(t, models.Film{
		FilmID: 1, Title: "ACADEMY DINOSAUR", Description: "An epic drama", ReleaseYear: 2006,
		Length: 86, Rating: "PG", Category: "Documentary", Actors: "PENELOPE GUINESS",
	}, films[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalog_Searches(t *testing.T) {
	tests := []struct {
		name  string
		query string
		run   func(c *Catalog) ([]models.Film, error)
	}{
		{
			name:  "genre and years",
			query: `WHERE LOWER\(category\) = LOWER\(\?\) AND release_year BETWEEN \? AND \? ORDER BY film_id LIMIT`,
			run: func(c *Catalog) ([]models.Film, error) {
				return c.ByGenreAndYears(context.Background(), "Drama", 2001, 2006, 10, 10)
			},
		},
		{
			name:  "actor fragment",
			query: `WHERE UPPER\(actors\) LIKE UPPER\(\?\) ORDER BY film_id LIMIT`,
			run: func(c *Catalog) ([]models.Film, error) {
				return c.ByActorNameFragment(context.Background(), "PENELOPE GUINESS", 0, 10)
			},
		},
		{
			name:  "length range",
			query: `WHERE length BETWEEN \? AND \? ORDER BY film_id LIMIT`,
			run: func(c *Catalog) ([]models.Film, error) {
				return c.ByLengthRange(context.Background(), 60, 90, 20, 10)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			mock.ExpectQuery(tt.query).WillReturnRows(sqlmock.NewRows(filmRowColumns))

			films, err := tt.run(New(db, DefaultView))

			require.NoError(t, err)
			assert.Empty(t, films)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCatalog_EmptyKeywordMatchesAll(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`WHERE UPPER\(title\) LIKE UPPER\(\?\)`).
		WillReturnRows(sqlmock.NewRows(filmRowColumns).AddRow(7, "AIRPLANE SIERRA", "", 2006, 62, "PG-13", "Comedy", ""))

	films, err := New(db, DefaultView).ByKeyword(context.Background(), "", 0, 10)

	require.NoError(t, err)
	assert.Len(t, films, 1)
}

func TestCatalog_QueryErrorIsWrapped(t *testing.T) {
	db, mock := setupMockDB(t)
	boom := errors.New("boom")
	mock.ExpectQuery(`WHERE length BETWEEN`).WillReturnError(boom)

	_, err := New(db, DefaultView).ByLengthRange(context.Background(), 1, 2, 0, 10)

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "search by length")
}

func TestCatalog_ReferenceData(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT DISTINCT .category. FROM .film_extended_view.`).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("Action").AddRow("Drama"))
	mock.ExpectQuery(`MIN\(release_year\).*MAX\(release_year\)`).
		WillReturnRows(sqlmock.NewRows([]string{"min_value", "max_value"}).AddRow(2001, 2006))
	mock.ExpectQuery(`MIN\(length\).*MAX\(length\)`).
		WillReturnRows(sqlmock.NewRows([]string{"min_value", "max_value"}).AddRow(46, 185))
	c := New(db, DefaultView)

	genres, err := c.Genres(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Action", "Drama"}, genres)

	years, err := c.YearRange(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Range{Min: 2001, Max: 2006}, years)

	lengths, err := c.LengthRange(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Range{Min: 46, Max: 185}, lengths)
	assert.True(t, lengths.Contains(90))
	assert.False(t, lengths.Contains(200))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalog_CachedReferenceData(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery(`SELECT DISTINCT .category.`).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("Comedy"))
	cache := newMapCache()
	c := New(db, DefaultView, WithCache(cache, time.Minute))

	first, err := c.Genres(context.Background())
	require.NoError(t, err)
	second, err := c.Genres(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Comedy"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
	assert.Contains(t, cache.values, "catalog:film_extended_view:genres")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithCache_DisabledByZeroTTL(t *testing.T) {
	c := New(nil, DefaultView, WithCache(newMapCache(), 0))

	assert.Nil(t, c.cache)
}
