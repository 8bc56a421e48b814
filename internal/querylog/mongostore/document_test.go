package mongostore

import (
	"testing"
	"time"

	"github.com/sakila-tools/filmsearch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDocumentFromEntry_KeepsAbsentKeysAsNull(t *testing.T) {
	p := models.Params{Keyword: models.String("ace")}
	doc := documentFromEntry(models.QueryLogEntry{
		QueryType: models.QueryTypeKeyword,
		Params:    &p,
		Timestamp: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var decoded bson.M
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.NotContains(t, decoded, "_id")
	assert.Equal(t, "keyword", decoded["query_type"])

	params, ok := asMap(decoded["params"])
	require.True(t, ok)
	require.Len(t, params, len(models.ParamKeys))
	for _, key := range models.ParamKeys {
		v, present := params[string(key)]
		require.True(t, present, "key %s", key)
		if key == models.ParamKeyword {
			assert.Equal(t, "ace", v)
		} else {
			assert.Nil(t, v, "key %s", key)
		}
	}
}

func TestEntryFromDocument(t *testing.T) {
	oid := primitive.NewObjectID()
	ts := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("well formed", func(t *testing.T) {
		e := entryFromDocument(bson.M{
			"_id":        oid,
			"query_type": "genre_year",
			"timestamp":  primitive.NewDateTimeFromTime(ts),
			"params": bson.M{
				"keyword": nil, "genre": "Drama", "year_from": int32(2001), "year_to": int64(2003),
				"first_name": nil, "last_name": nil, "min_length": nil, "max_length": nil,
			},
		})
		assert.Equal(t, oid.Hex(), e.ID)
		assert.Equal(t, models.QueryTypeGenreYear, e.QueryType)
		assert.True(t, e.Timestamp.Equal(ts))
		require.NotNil(t, e.Params)
		assert.Equal(t, "Drama", *e.Params.Genre)
		assert.Equal(t, 2001, *e.Params.YearFrom)
		assert.Equal(t, 2003, *e.Params.YearTo)
		assert.Nil(t, e.Params.Keyword)
	})

	t.Run("type only legacy entry", func(t *testing.T) {
		e := entryFromDocument(bson.M{"_id": oid, "query_type": "keyword", "timestamp": ts})
		assert.Equal(t, models.QueryTypeKeyword, e.QueryType)
		assert.Nil(t, e.Params)
	})

	t.Run("params not a document", func(t *testing.T) {
		e := entryFromDocument(bson.M{"query_type": "keyword", "params": "oops"})
		assert.Nil(t, e.Params)
	})

	t.Run("numeric slot holding text drops only that slot", func(t *testing.T) {
		e := entryFromDocument(bson.M{"query_type": "length_range", "params": bson.D{
			{Key: "min_length", Value: "60"}, {Key: "max_length", Value: "long"},
		}})
		require.NotNil(t, e.Params)
		assert.Equal(t, 60, *e.Params.MinLength)
		assert.Nil(t, e.Params.MaxLength)
	})

	t.Run("unsupported text slot drops only that slot", func(t *testing.T) {
		e := entryFromDocument(bson.M{"query_type": "actor_name", "params": bson.M{
			"first_name": bson.A{"x"}, "last_name": "CHASE",
		}})
		require.NotNil(t, e.Params)
		assert.Nil(t, e.Params.FirstName)
		assert.Equal(t, "CHASE", *e.Params.LastName)
	})

	t.Run("numeric string and float are coerced", func(t *testing.T) {
		e := entryFromDocument(bson.M{"query_type": "length_range", "params": map[string]interface{}{
			"min_length": " 60 ", "max_length": float64(90),
		}})
		require.NotNil(t, e.Params)
		assert.Equal(t, 60, *e.Params.MinLength)
		assert.Equal(t, 90, *e.Params.MaxLength)
	})

	t.Run("missing query type", func(t *testing.T) {
		e := entryFromDocument(bson.M{"params": bson.M{}})
		assert.Equal(t, models.QueryType(""), e.QueryType)
		require.NotNil(t, e.Params)
	})
}

func TestGroupPipelineAndKey(t *testing.T) {
	p := groupPipeline("query_type")
	require.Len(t, p, 1)
	assert.Equal(t, "$group", p[0][0].Key)

	assert.Equal(t, "", groupKey(nil))
	assert.Equal(t, "keyword", groupKey("keyword"))
	assert.Equal(t, "7", groupKey(int32(7)))
}
