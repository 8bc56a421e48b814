package querylog

import (
	"context"
	"sort"
	"strings"

	"github.com/sakila-tools/filmsearch/internal/models"
	"go.uber.org/zap"
)

const (
	DefaultTopLimit    = 5
	DefaultRecentLimit = 10
	DefaultUniqueLimit = 5
	DefaultScanWindow  = 100
)

// TopCombination is a composite "<type>.<param>:<value>" key with its occurrence count.
type TopCombination struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Split breaks the composite key into its type, parameter and value parts.
// ok is false when the key does not have the expected shape.
func (c TopCombination) Split() (queryType, param, value string, ok bool) {
	left, value, found := strings.Cut(c.Key, ":")
	if !found {
		return "", "", "", false
	}
	queryType, param, found = strings.Cut(left, ".")
	if !found {
		return "", "", "", false
	}
	return queryType, param, value, true
}

// TypeCount is the number of entries recorded for one query type.
type TypeCount struct {
	QueryType models.QueryType `json:"query_type"`
	Count     int64            `json:"count"`
}

// Aggregator computes statistics over the stored entries on demand.
type Aggregator struct {
	store Store
	log   *zap.Logger
}

// NewAggregator creates an Aggregator reading from store.
func NewAggregator(store Store, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{store: store, log: log.Named("stats")}
}

// TopCombinations returns the most frequent parameter values across all entries.
// Ties keep the order in which the combinations were first seen.
func (a *Aggregator) TopCombinations(ctx context.Context, limit int) ([]TopCombination, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	entries, err := a.store.Find(ctx, FindOptions{})
	if err != nil {
		return nil, WrapStoreError("find", err)
	}

	index := make(map[string]int)
	var counted []TopCombination
	skipped := 0
	for _, entry := range entries {
		if entry.QueryType == "" || entry.Params == nil {
			skipped++
			continue
		}
		for _, key := range models.ParamKeys {
			value, ok := entry.Params.Value(key)
			if !ok || value == "" {
				continue
			}
			item := strings.ToLower(strings.TrimSpace(string(entry.QueryType) + "." + string(key) + ":" + value))
			if i, seen := index[item]; seen {
				counted[i].Count++
				continue
			}
			index[item] = len(counted)
			counted = append(counted, TopCombination{Key: item, Count: 1})
		}
	}
	if skipped > 0 {
		a.log.Debug("skipped malformed entries", zap.Int("count", skipped))
	}

	// counted is in discovery order, so a stable sort keeps first-seen ties first.
	sort.SliceStable(counted, func(i, j int) bool { return counted[i].Count > counted[j].Count })
	if len(counted) > limit {
		counted = counted[:limit]
	}
	return counted, nil
}

// Recent returns the newest entries across all types.
func (a *Aggregator) Recent(ctx context.Context, limit int) ([]models.QueryLogEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	entries, err := a.store.Find(ctx, FindOptions{NewestFirst: true, Limit: limit})
	if err != nil {
		return nil, WrapStoreError("find", err)
	}
	return entries, nil
}

// UniqueByType returns up to limit entries of queryType with distinct parameters,
// taken newest first from the latest window entries of that type.
func (a *Aggregator) UniqueByType(ctx context.Context, queryType models.QueryType, limit, window int) ([]models.QueryLogEntry, error) {
	if limit <= 0 {
		limit = DefaultUniqueLimit
	}
	if window <= 0 {
		window = DefaultScanWindow
	}

	recent, err := a.store.Find(ctx, FindOptions{QueryType: queryType, NewestFirst: true, Limit: window})
	if err != nil {
		return nil, WrapStoreError("find", err)
	}

	seen := make(map[string]struct{}, len(recent))
	unique := make([]models.QueryLogEntry, 0, limit)
	for _, entry := range recent {
		sig := ""
		if entry.Params != nil {
			sig = entry.Params.Signature()
		}
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		unique = append(unique, entry)
		if len(unique) >= limit {
			break
		}
	}
	return unique, nil
}

// TypeCounts returns one row per known query type, in enumeration order.
func (a *Aggregator) TypeCounts(ctx context.Context) ([]TypeCount, error) {
	grouped, err := a.store.GroupCountBy(ctx, FieldQueryType)
	if err != nil {
		return nil, WrapStoreError("group", err)
	}

	out := make([]TypeCount, 0, len(models.QueryTypes))
	for _, t := range models.QueryTypes {
		out = append(out, TypeCount{QueryType: t, Count: grouped[string(t)]})
	}
	return out, nil
}

// SortTypeCounts returns a copy of counts ordered by count descending.
func SortTypeCounts(counts []TypeCount) []TypeCount {
	out := make([]TypeCount, len(counts))
	copy(out, counts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
