package mongostore

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sakila-tools/filmsearch/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func documentFromEntry(entry models.QueryLogEntry) entryDocument {
	doc := entryDocument{
		QueryType: string(entry.QueryType),
		Timestamp: entry.Timestamp.UTC(),
	}
	if entry.Params != nil {
		doc.Params = *entry.Params
	}
	if oid, err := primitive.ObjectIDFromHex(entry.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

// entryFromDocument converts a raw document leniently. A missing or non-document
// params field yields nil Params; a slot holding an unusable value is left absent
// while the other slots are kept. A missing query_type yields an empty type.
func entryFromDocument(raw bson.M) models.QueryLogEntry {
	entry := models.QueryLogEntry{ID: idString(raw["_id"])}
	if t, ok := raw["query_type"].(string); ok {
		entry.QueryType = models.QueryType(t)
	}
	entry.Timestamp = timeValue(raw["timestamp"])
	if m, ok := asMap(raw["params"]); ok {
		params := decodeParams(m)
		entry.Params = &params
	}
	return entry
}

func decodeParams(m map[string]interface{}) models.Params {
	text := func(key models.ParamKey) *string {
		v, _ := textParam(m[string(key)])
		return v
	}
	num := func(key models.ParamKey) *int {
		v, _ := intParam(m[string(key)])
		return v
	}
	return models.Params{
		Keyword:   text(models.ParamKeyword),
		Genre:     text(models.ParamGenre),
		YearFrom:  num(models.ParamYearFrom),
		YearTo:    num(models.ParamYearTo),
		FirstName: text(models.ParamFirstName),
		LastName:  text(models.ParamLastName),
		MinLength: num(models.ParamMinLength),
		MaxLength: num(models.ParamMaxLength),
	}
}

func textParam(v interface{}) (*string, bool) {
	switch x := v.(type) {
	case nil:
		return nil, true
	case string:
		return &x, true
	case int32, int64, float64, bool:
		s := fmt.Sprint(x)
		return &s, true
	}
	return nil, false
}

func intParam(v interface{}) (*int, bool) {
	switch x := v.(type) {
	case nil:
		return nil, true
	case int32:
		n := int(x)
		return &n, true
	case int64:
		n := int(x)
		return &n, true
	case int:
		return &x, true
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return nil, false
		}
		n := int(x)
		return &n, true
	case string:
		trimmed := strings.TrimSpace(x)
		if trimmed == "" {
			return nil, true
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, false
		}
		return &n, true
	}
	return nil, false
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch x := v.(type) {
	case bson.M:
		return x, true
	case map[string]interface{}:
		return x, true
	case bson.D:
		return x.Map(), true
	}
	return nil, false
}

func idString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case primitive.ObjectID:
		return x.Hex()
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func timeValue(v interface{}) time.Time {
	switch x := v.(type) {
	case primitive.DateTime:
		return x.Time().UTC()
	case time.Time:
		return x.UTC()
	}
	return time.Time{}
}
