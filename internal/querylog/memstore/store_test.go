package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakila-tools/filmsearch/internal/models"
	"github.com/sakila-tools/filmsearch/internal/querylog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_InsertAssignsIDAndCopies(t *testing.T) {
	s := New()
	p := models.Params{Keyword: models.String("ace")}
	e := &models.QueryLogEntry{QueryType: models.QueryTypeKeyword, Params: &p, Timestamp: time.Now().UTC()}

	require.NoError(t, s.Insert(context.Background(), e))
	require.NotEmpty(t, e.ID)

	p.Keyword = models.String("mutated")
	got, err := s.Find(context.Background(), querylog.FindOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, e.ID, got[0].ID)
	assert.Equal(t, "ace", *got[0].Params.Keyword)
}

func TestStore_FindFiltersSortsAndLimits(t *testing.T) {
	s := New()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	s.Append(
		models.QueryLogEntry{ID: "1", QueryType: models.QueryTypeKeyword, Timestamp: base},
		models.QueryLogEntry{ID: "2", QueryType: models.QueryTypeGenreYear, Timestamp: base.Add(time.Hour)},
		models.QueryLogEntry{ID: "3", QueryType: models.QueryTypeKeyword, Timestamp: base.Add(2 * time.Hour)},
		models.QueryLogEntry{ID: "4", QueryType: models.QueryTypeKeyword, Timestamp: base.Add(time.Minute)},
	)

	natural, err := s.Find(context.Background(), querylog.FindOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(natural))

	newest, err := s.Find(context.Background(), querylog.FindOptions{QueryType: models.QueryTypeKeyword, NewestFirst: true, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4"}, ids(newest))
}

func TestStore_GroupCountBy(t *testing.T) {
	s := New()
	s.Append(
		models.QueryLogEntry{QueryType: models.QueryTypeKeyword},
		models.QueryLogEntry{QueryType: models.QueryTypeKeyword},
		models.QueryLogEntry{QueryType: models.QueryTypeActorName},
	)

	counts, err := s.GroupCountBy(context.Background(), querylog.FieldQueryType)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"keyword": 2, "actor_name": 1}, counts)

	_, err = s.GroupCountBy(context.Background(), "timestamp")
	assert.True(t, errors.Is(err, querylog.ErrUnsupportedField))
	assert.True(t, errors.Is(err, querylog.ErrStore))
}

func TestStore_ClosedAndCancelled(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Find(ctx, querylog.FindOptions{})
	assert.True(t, errors.Is(err, context.Canceled))

	require.NoError(t, s.Close(context.Background()))
	err = s.Insert(context.Background(), &models.QueryLogEntry{QueryType: models.QueryTypeKeyword})
	assert.True(t, errors.Is(err, querylog.ErrStore))
}

func ids(entries []models.QueryLogEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}
