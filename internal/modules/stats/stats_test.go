package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sakila-tools/filmsearch/internal/models"
	"github.com/sakila-tools/filmsearch/internal/querylog"
	"github.com/sakila-tools/filmsearch/internal/querylog/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memstore.New()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, kw := range []string{"a", "b", "a"} {
		p := querylog.KeywordParams(kw)
		store.Append(models.QueryLogEntry{
			ID:        kw + string(rune('0'+i)),
			QueryType: models.QueryTypeKeyword,
			Params:    &p,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	p := querylog.LengthRangeParams(60, 90)
	store.Append(models.QueryLogEntry{ID: "l", QueryType: models.QueryTypeLengthRange, Params: &p, Timestamp: base})

	r := gin.New()
	NewHandler(querylog.NewAggregator(store, nil)).RegisterRoutes(r.Group("/api"))
	return r
}

func get(r *gin.Engine, url string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestTop(t *testing.T) {
	w := get(setup(t), "/api/stats/top?limit=1")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"key":"keyword.keyword:a","query_type":"keyword","param":"keyword","value":"a","count":2}]}`, w.Body.String())
}

func TestRecentAndByType(t *testing.T) {
	r := setup(t)

	w := get(r, "/api/stats/recent?limit=2")
	require.Equal(t, http.StatusOK, w.Code)
	var recent struct {
		Data []models.QueryLogEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recent))
	require.Len(t, recent.Data, 2)
	assert.Equal(t, "a2", recent.Data[0].ID)

	w = get(r, "/api/stats/types/keyword")
	require.Equal(t, http.StatusOK, w.Code)
	var unique struct {
		Data []models.QueryLogEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unique))
	require.Len(t, unique.Data, 2)
	assert.Equal(t, "a2", unique.Data[0].ID)
	assert.Equal(t, "b1", unique.Data[1].ID)

	w = get(r, "/api/stats/types/nope")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCounts(t *testing.T) {
	r := setup(t)

	w := get(r, "/api/stats/counts")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[
		{"query_type":"keyword","count":3},
		{"query_type":"genre_year","count":0},
		{"query_type":"length_range","count":1},
		{"query_type":"actor_name","count":0}]}`, w.Body.String())

	w = get(r, "/api/stats/counts?sort=count")
	require.Equal(t, http.StatusOK, w.Code)
	var sorted struct {
		Data []querylog.TypeCount `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sorted))
	assert.Equal(t, models.QueryTypeKeyword, sorted.Data[0].QueryType)
	assert.Equal(t, models.QueryTypeLengthRange, sorted.Data[1].QueryType)
}
