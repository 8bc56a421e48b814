// Package catalog searches the film catalog view in MySQL.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sakila-tools/filmsearch/internal/models"
	"github.com/sakila-tools/filmsearch/internal/pkg/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultView is the denormalized film view the catalog reads from.
const DefaultView = "film_extended_view"

var filmColumns = strings.Join([]string{
	"film_id",
	"COALESCE(title, '') AS title",
	"COALESCE(description, '') AS description",
	"COALESCE(release_year, 0) AS release_year",
	"COALESCE(length, 0) AS length",
	"COALESCE(rating, '') AS rating",
	"COALESCE(category, '') AS category",
	"COALESCE(actors, '') AS actors",
}, ", ")

// Searcher is the catalog surface used by the console and the HTTP API.
type Searcher interface {
	ByKeyword(ctx context.Context, keyword string, offset, limit int) ([]models.Film, error)
	ByGenreAndYears(ctx context.Context, genre string, yearFrom, yearTo, offset, limit int) ([]models.Film, error)
	ByActorNameFragment(ctx context.Context, fragment string, offset, limit int) ([]models.Film, error)
	ByLengthRange(ctx context.Context, minLength, maxLength, offset, limit int) ([]models.Film, error)
	Genres(ctx context.Context) ([]string, error)
	YearRange(ctx context.Context) (models.Range, error)
	LengthRange(ctx context.Context) (models.Range, error)
}

// Cache stores reference data between calls. *redis.Client satisfies it.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithCache caches genres and ranges for ttl. A nil cache or non-positive ttl disables caching.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Catalog) {
		if cache == nil || ttl <= 0 {
			return
		}
		c.cache = cache
		c.ttl = ttl
	}
}

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *Catalog) {
		if log != nil {
			c.log = log.Named("catalog")
		}
	}
}

// Catalog implements Searcher with gorm.
type Catalog struct {
	db    *gorm.DB
	view  string
	cache Cache
	ttl   time.Duration
	log   *zap.Logger
}

var _ Searcher = (*Catalog)(nil)

// New returns a Catalog reading from view. The view name must already be validated.
func New(db *gorm.DB, view string, opts ...Option) *Catalog {
	if strings.TrimSpace(view) == "" {
		view = DefaultView
	}
	c := &Catalog{db: db, view: view, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ByKeyword matches titles containing keyword, case-insensitively. An empty
// keyword matches every film.
func (c *Catalog) ByKeyword(ctx context.Context, keyword string, offset, limit int) ([]models.Film, error) {
	return c.films(ctx, "search by keyword", offset, limit, "UPPER(title) LIKE UPPER(?)", "%"+keyword+"%")
}

// ByGenreAndYears matches one category within an inclusive release-year range.
func (c *Catalog) ByGenreAndYears(ctx context.Context, genre string, yearFrom, yearTo, offset, limit int) ([]models.Film, error) {
	return c.films(ctx, "search by genre and years", offset, limit,
		"LOWER(category) = LOWER(?) AND release_year BETWEEN ? AND ?", genre, yearFrom, yearTo)
}

// ByActorNameFragment matches films whose actor list contains fragment.
func (c *Catalog) ByActorNameFragment(ctx context.Context, fragment string, offset, limit int) ([]models.Film, error) {
	return c.films(ctx, "search by actor", offset, limit, "UPPER(actors) LIKE UPPER(?)", "%"+fragment+"%")
}

// ByLengthRange matches films whose length lies in [minLength, maxLength].
func (c *Catalog) ByLengthRange(ctx context.Context, minLength, maxLength, offset, limit int) ([]models.Film, error) {
	return c.films(ctx, "search by length", offset, limit, "length BETWEEN ? AND ?", minLength, maxLength)
}

func (c *Catalog) films(ctx context.Context, op string, offset, limit int, where string, args ...interface{}) ([]models.Film, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = pagination.PageSize
	}
	if limit > pagination.MaxLimit {
		limit = pagination.MaxLimit
	}

	var films []models.Film
	err := c.db.WithContext(ctx).
		Table(c.view).
		Select(filmColumns).
		Where(where, args...).
		Order("film_id").
		Limit(limit).
		Offset(offset).
		Scan(&films).Error
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return films, nil
}

// Genres lists the distinct categories in alphabetical order.
func (c *Catalog) Genres(ctx context.Context) ([]string, error) {
	var genres []string
	err := c.cached(ctx, "genres", &genres, func() error {
		return c.db.WithContext(ctx).
			Table(c.view).
			Where("category IS NOT NULL AND category <> ''").
			Distinct().
			Order("category").
			Pluck("category", &genres).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

// YearRange reports the earliest and latest release years.
func (c *Catalog) YearRange(ctx context.Context) (models.Range, error) {
	r, err := c.bounds(ctx, "year_range", "release_year")
	if err != nil {
		return models.Range{}, fmt.Errorf("year range: %w", err)
	}
	return r, nil
}

// LengthRange reports the shortest and longest film lengths.
func (c *Catalog) LengthRange(ctx context.Context) (models.Range, error) {
	r, err := c.bounds(ctx, "length_range", "length")
	if err != nil {
		return models.Range{}, fmt.Errorf("length range: %w", err)
	}
	return r, nil
}

func (c *Catalog) bounds(ctx context.Context, key, column string) (models.Range, error) {
	var r models.Range
	err := c.cached(ctx, key, &r, func() error {
		return c.db.WithContext(ctx).
			Table(c.view).
			Select(fmt.Sprintf("COALESCE(MIN(%[1]s), 0) AS min_value, COALESCE(MAX(%[1]s), 0) AS max_value", column)).
			Scan(&r).Error
	})
	return r, err
}

// cached fills dst from the cache, or runs load and stores the result.
// Cache failures are logged and fall through to the database.
func (c *Catalog) cached(ctx context.Context, name string, dst interface{}, load func() error) error {
	if c.cache == nil {
		return load()
	}
	key := "catalog:" + c.view + ":" + name
	hit, err := c.cache.GetJSON(ctx, key, dst)
	if err != nil {
		c.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return nil
	}
	if err := load(); err != nil {
		return err
	}
	if err := c.cache.SetJSON(ctx, key, dst, c.ttl); err != nil {
		c.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}
