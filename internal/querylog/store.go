// Package querylog records catalog searches and computes usage statistics from them.
package querylog

import (
	"context"

	"github.com/sakila-tools/filmsearch/internal/models"
)

// FieldQueryType is the entry field grouped on for per-type counts.
const FieldQueryType = "query_type"

// FindOptions selects entries from a Store.
type FindOptions struct {
	// QueryType restricts results to one type when non-empty.
	QueryType models.QueryType
	// NewestFirst sorts by timestamp descending; otherwise store order is kept.
	NewestFirst bool
	// Limit caps the number of entries; <= 0 means no cap.
	Limit int
}

// Store persists and retrieves query-log entries.
// Implementations must be safe for concurrent use and must decode malformed
// entries leniently instead of failing the whole read.
type Store interface {
	// Insert appends one entry and assigns its ID.
	Insert(ctx context.Context, entry *models.QueryLogEntry) error
	// Find returns entries matching opts.
	Find(ctx context.Context, opts FindOptions) ([]models.QueryLogEntry, error)
	// GroupCountBy counts entries per distinct value of field.
	GroupCountBy(ctx context.Context, field string) (map[string]int64, error)
	// Close releases the underlying connection.
	Close(ctx context.Context) error
}
