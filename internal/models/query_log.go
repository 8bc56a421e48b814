package models

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// QueryType identifies which search mode produced a query-log entry.
type QueryType string

const (
	QueryTypeKeyword     QueryType = "keyword"
	QueryTypeGenreYear   QueryType = "genre_year"
	QueryTypeLengthRange QueryType = "length_range"
	QueryTypeActorName   QueryType = "actor_name"
)

// QueryTypes lists every valid query type in display order.
var QueryTypes = []QueryType{
	QueryTypeKeyword,
	QueryTypeGenreYear,
	QueryTypeLengthRange,
	QueryTypeActorName,
}

// Valid reports whether t belongs to the fixed query type set.
func (t QueryType) Valid() bool {
	for _, known := range QueryTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseQueryType trims raw and returns it as a QueryType, reporting whether it is known.
func ParseQueryType(raw string) (QueryType, bool) {
	t := QueryType(strings.TrimSpace(raw))
	return t, t.Valid()
}

// ParamKey names one slot of the fixed parameter schema.
type ParamKey string

const (
	ParamKeyword   ParamKey = "keyword"
	ParamGenre     ParamKey = "genre"
	ParamYearFrom  ParamKey = "year_from"
	ParamYearTo    ParamKey = "year_to"
	ParamFirstName ParamKey = "first_name"
	ParamLastName  ParamKey = "last_name"
	ParamMinLength ParamKey = "min_length"
	ParamMaxLength ParamKey = "max_length"
)

// ParamKeys is the fixed key order used for storage and aggregation.
var ParamKeys = []ParamKey{
	ParamKeyword,
	ParamGenre,
	ParamYearFrom,
	ParamYearTo,
	ParamFirstName,
	ParamLastName,
	ParamMinLength,
	ParamMaxLength,
}

// Params is the fixed parameter schema of a query-log entry.
// A nil field is the "absent" marker and is stored as an explicit null.
type Params struct {
	Keyword   *string `json:"keyword"    bson:"keyword"`
	Genre     *string `json:"genre"      bson:"genre"`
	YearFrom  *int    `json:"year_from"  bson:"year_from"`
	YearTo    *int    `json:"year_to"    bson:"year_to"`
	FirstName *string `json:"first_name" bson:"first_name"`
	LastName  *string `json:"last_name"  bson:"last_name"`
	MinLength *int    `json:"min_length" bson:"min_length"`
	MaxLength *int    `json:"max_length" bson:"max_length"`
}

// ParamPair is a single key with its formatted value.
type ParamPair struct {
	Key     ParamKey
	Value   string
	Present bool
}

// Value returns the formatted value stored under key and whether it is present.
func (p Params) Value(key ParamKey) (string, bool) {
	switch key {
	case ParamKeyword:
		return strValue(p.Keyword)
	case ParamGenre:
		return strValue(p.Genre)
	case ParamYearFrom:
		return intValue(p.YearFrom)
	case ParamYearTo:
		return intValue(p.YearTo)
	case ParamFirstName:
		return strValue(p.FirstName)
	case ParamLastName:
		return strValue(p.LastName)
	case ParamMinLength:
		return intValue(p.MinLength)
	case ParamMaxLength:
		return intValue(p.MaxLength)
	}
	return "", false
}

// Overlay returns a copy of p where every non-nil field of src replaces the current one.
func (p Params) Overlay(src Params) Params {
	out := p
	if src.Keyword != nil {
		out.Keyword = src.Keyword
	}
	if src.Genre != nil {
		out.Genre = src.Genre
	}
	if src.YearFrom != nil {
		out.YearFrom = src.YearFrom
	}
	if src.YearTo != nil {
		out.YearTo = src.YearTo
	}
	if src.FirstName != nil {
		out.FirstName = src.FirstName
	}
	if src.LastName != nil {
		out.LastName = src.LastName
	}
	if src.MinLength != nil {
		out.MinLength = src.MinLength
	}
	if src.MaxLength != nil {
		out.MaxLength = src.MaxLength
	}
	return out
}

// Pairs returns all 8 keys in the fixed schema order.
func (p Params) Pairs() []ParamPair {
	out := make([]ParamPair, 0, len(ParamKeys))
	for _, key := range ParamKeys {
		v, ok := p.Value(key)
		out = append(out, ParamPair{Key: key, Value: v, Present: ok})
	}
	return out
}

// Filled returns only the pairs holding a present, non-empty value.
func (p Params) Filled() []ParamPair {
	out := make([]ParamPair, 0, len(ParamKeys))
	for _, pair := range p.Pairs() {
		if pair.Present && pair.Value != "" {
			out = append(out, pair)
		}
	}
	return out
}

// Signature is the dedup key built from the (key, value) pairs sorted by key.
// Absent and empty values produce different signatures.
func (p Params) Signature() string {
	pairs := p.Pairs()
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Key < pairs[j].Key })

	var b strings.Builder
	for _, pair := range pairs {
		b.WriteString(string(pair.Key))
		b.WriteByte(0x1f)
		if pair.Present {
			b.WriteByte('v')
			b.WriteString(pair.Value)
		} else {
			b.WriteByte(0)
		}
		b.WriteByte(0x1e)
	}
	return b.String()
}

func strValue(v *string) (string, bool) {
	if v == nil {
		return "", false
	}
	return *v, true
}

func intValue(v *int) (string, bool) {
	if v == nil {
		return "", false
	}
	return strconv.Itoa(*v), true
}

// String returns a pointer to s, for building Params literals.
func String(s string) *string { return &s }

// Int returns a pointer to n, for building Params literals.
func Int(n int) *int { return &n }

// QueryLogEntry is one recorded search event.
// Params is nil only for malformed entries read back from a store.
type QueryLogEntry struct {
	ID        string    `json:"id"`
	QueryType QueryType `json:"query_type"`
	Params    *Params   `json:"params"`
	Timestamp time.Time `json:"timestamp"`
}
