package querylog

import (
	"context"
	"fmt"
	"time"

	"github.com/sakila-tools/filmsearch/internal/models"
	"go.uber.org/zap"
)

// Logger writes one normalized entry per search action.
type Logger struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

// NewLogger creates a Logger writing into store.
func NewLogger(store Store, log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{store: store, log: log.Named("querylog"), now: time.Now}
}

// WithClock replaces the timestamp source. Timestamps are always converted to UTC.
func (l *Logger) WithClock(now func() time.Time) *Logger {
	clone := *l
	clone.now = now
	return &clone
}

// Record stores a search of type queryType with the supplied parameters.
// Every parameter the caller leaves nil is stored as absent.
func (l *Logger) Record(ctx context.Context, queryType models.QueryType, supplied models.Params) error {
	if !queryType.Valid() {
		l.log.Warn("unknown query type, entry not recorded", zap.String("query_type", string(queryType)))
		return fmt.Errorf("%w: %q", ErrInvalidQueryType, queryType)
	}

	params := models.Params{}.Overlay(supplied)
	entry := &models.QueryLogEntry{
		QueryType: queryType,
		Params:    &params,
		Timestamp: l.now().UTC(),
	}
	if err := l.store.Insert(ctx, entry); err != nil {
		l.log.Error("record query failed", zap.String("query_type", string(queryType)), zap.Error(err))
		return WrapStoreError("insert", err)
	}

	l.log.Debug("query recorded",
		zap.String("id", entry.ID),
		zap.String("query_type", string(queryType)),
	)
	return nil
}

// KeywordParams builds the parameters of a title keyword search.
func KeywordParams(keyword string) models.Params {
	return models.Params{Keyword: models.String(keyword)}
}

// GenreYearParams builds the parameters of a genre and release-year search.
func GenreYearParams(genre string, yearFrom, yearTo int) models.Params {
	return models.Params{
		Genre:    models.String(genre),
		YearFrom: models.Int(yearFrom),
		YearTo:   models.Int(yearTo),
	}
}

// ActorNameParams builds the parameters of an actor name search.
func ActorNameParams(firstName, lastName string) models.Params {
	return models.Params{
		FirstName: models.String(firstName),
		LastName:  models.String(lastName),
	}
}

// LengthRangeParams builds the parameters of a film length search.
func LengthRangeParams(minLength, maxLength int) models.Params {
	return models.Params{
		MinLength: models.Int(minLength),
		MaxLength: models.Int(maxLength),
	}
}
