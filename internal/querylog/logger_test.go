package querylog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakila-tools/filmsearch/internal/models"
	"github.com/sakila-tools/filmsearch/internal/querylog"
	"github.com/sakila-tools/filmsearch/internal/querylog/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_RecordFillsEveryKey(t *testing.T) {
	tests := []struct {
		name      string
		queryType models.QueryType
		params    models.Params
		present   []models.ParamKey
	}{
		{
			name:      "keyword",
			queryType: models.QueryTypeKeyword,
			params:    querylog.KeywordParams("dino"),
			present:   []models.ParamKey{models.ParamKeyword},
		},
		{
			name:      "genre and years",
			queryType: models.QueryTypeGenreYear,
			params:    querylog.GenreYearParams("Comedy", 2005, 2006),
			present:   []models.ParamKey{models.ParamGenre, models.ParamYearFrom, models.ParamYearTo},
		},
		{
			name:      "actor name",
			queryType: models.QueryTypeActorName,
			params:    querylog.ActorNameParams("PENELOPE", ""),
			present:   []models.ParamKey{models.ParamFirstName, models.ParamLastName},
		},
		{
			name:      "length range",
			queryType: models.QueryTypeLengthRange,
			params:    querylog.LengthRangeParams(60, 90),
			present:   []models.ParamKey{models.ParamMinLength, models.ParamMaxLength},
		},
		{
			name:      "nothing supplied",
			queryType: models.QueryTypeKeyword,
			params:    models.Params{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memstore.New()
			logger := querylog.NewLogger(store, zap.NewNop())

			require.NoError(t, logger.Record(context.Background(), tt.queryType, tt.params))

			entries, err := store.Find(context.Background(), querylog.FindOptions{})
			require.NoError(t, err)
			require.Len(t, entries, 1)
			require.NotNil(t, entries[0].Params)

			pairs := entries[0].Params.Pairs()
			require.Len(t, pairs, len(models.ParamKeys))
			for i, pair := range pairs {
				assert.Equal(t, models.ParamKeys[i], pair.Key)
				assert.Equal(t, contains(tt.present, pair.Key), pair.Present, "key %s", pair.Key)
			}
			assert.Equal(t, tt.queryType, entries[0].QueryType)
			assert.NotEmpty(t, entries[0].ID)
		})
	}
}

func TestLogger_RecordUsesUTC(t *testing.T) {
	store := memstore.New()
	local := time.FixedZone("UTC+8", 8*3600)
	fixed := time.Date(2025, 3, 1, 9, 30, 0, 0, local)
	logger := querylog.NewLogger(store, nil).WithClock(func() time.Time { return fixed })

	require.NoError(t, logger.Record(context.Background(), models.QueryTypeKeyword, querylog.KeywordParams("x")))

	entries, err := store.Find(context.Background(), querylog.FindOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, time.UTC, entries[0].Timestamp.Location())
	assert.True(t, entries[0].Timestamp.Equal(fixed))
}

func TestLogger_RecordRejectsUnknownType(t *testing.T) {
	store := memstore.New()
	core, logs := observer.New(zap.WarnLevel)
	logger := querylog.NewLogger(store, zap.New(core))

	err := logger.Record(context.Background(), models.QueryType("actor_partial"), querylog.KeywordParams("x"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, querylog.ErrInvalidQueryType))
	assert.True(t, querylog.IsWarning(err))
	assert.False(t, errors.Is(err, querylog.ErrStore))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 1, logs.FilterMessage("unknown query type, entry not recorded").Len())
}

func TestLogger_RecordPropagatesStoreError(t *testing.T) {
	store := memstore.New()
	require.NoError(t, store.Close(context.Background()))
	logger := querylog.NewLogger(store, nil)

	err := logger.Record(context.Background(), models.QueryTypeKeyword, querylog.KeywordParams("x"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, querylog.ErrStore))
	assert.False(t, querylog.IsWarning(err))
}

func contains(keys []models.ParamKey, key models.ParamKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
