// Package memstore provides an in-memory query-log store.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sakila-tools/filmsearch/internal/models"
	"github.com/sakila-tools/filmsearch/internal/querylog"
)

var errClosed = errors.New("store is closed")

// Store keeps entries in insertion order.
type Store struct {
	mu      sync.RWMutex
	entries []models.QueryLogEntry
	closed  bool
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{}
}

// Insert appends a copy of entry and assigns it a UUID.
func (s *Store) Insert(ctx context.Context, entry *models.QueryLogEntry) error {
	if entry == nil {
		return querylog.WrapStoreError("insert", errors.New("entry cannot be nil"))
	}
	if err := ctx.Err(); err != nil {
		return querylog.WrapStoreError("insert", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return querylog.WrapStoreError("insert", errClosed)
	}

	entry.ID = uuid.NewString()
	s.entries = append(s.entries, cloneEntry(*entry))
	return nil
}

// Append adds entries verbatim, keeping their IDs. Used to seed legacy or malformed data.
func (s *Store) Append(entries ...models.QueryLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		s.entries = append(s.entries, cloneEntry(e))
	}
}

// Find returns matching entries, newest first when requested.
func (s *Store) Find(ctx context.Context, opts querylog.FindOptions) ([]models.QueryLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, querylog.WrapStoreError("find", err)
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, querylog.WrapStoreError("find", errClosed)
	}
	out := make([]models.QueryLogEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if opts.QueryType != "" && e.QueryType != opts.QueryType {
			continue
		}
		out = append(out, cloneEntry(e))
	}
	s.mu.RUnlock()

	if opts.NewestFirst {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// GroupCountBy counts entries per query type. Other fields are not supported.
func (s *Store) GroupCountBy(ctx context.Context, field string) (map[string]int64, error) {
	if field != querylog.FieldQueryType {
		return nil, querylog.WrapStoreError("group", fmt.Errorf("%w: %s", querylog.ErrUnsupportedField, field))
	}
	if err := ctx.Err(); err != nil {
		return nil, querylog.WrapStoreError("group", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, querylog.WrapStoreError("group", errClosed)
	}
	counts := make(map[string]int64)
	for _, e := range s.entries {
		counts[string(e.QueryType)]++
	}
	return counts, nil
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close marks the store closed; later calls fail.
func (s *Store) Close(context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func cloneEntry(e models.QueryLogEntry) models.QueryLogEntry {
	if e.Params != nil {
		p := *e.Params
		e.Params = &p
	}
	return e
}

var _ querylog.Store = (*Store)(nil)
