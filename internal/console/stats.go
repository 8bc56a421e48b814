package console

import (
	"context"
	"io"

	"github.com/sakila-tools/filmsearch/internal/models"
	"github.com/sakila-tools/filmsearch/internal/querylog"
)

// PrintTop prints the most frequent parameter values.
func PrintTop(ctx context.Context, w io.Writer, agg *querylog.Aggregator, limit int) error {
	top, err := agg.TopCombinations(ctx, limit)
	if err != nil {
		return err
	}
	RenderTopCombinations(w, top)
	return nil
}

// PrintRecent prints the newest entries.
func PrintRecent(ctx context.Context, w io.Writer, agg *querylog.Aggregator, limit int) error {
	entries, err := agg.Recent(ctx, limit)
	if err != nil {
		return err
	}
	RenderEntries(w, entries)
	return nil
}

// PrintByType prints recent entries of one type with distinct parameters.
func PrintByType(ctx context.Context, w io.Writer, agg *querylog.Aggregator, qt models.QueryType, limit int) error {
	entries, err := agg.UniqueByType(ctx, qt, limit, querylog.DefaultScanWindow)
	if err != nil {
		return err
	}
	RenderEntries(w, entries)
	return nil
}

// PrintTypeCounts prints per-type totals, optionally ordered by count.
func PrintTypeCounts(ctx context.Context, w io.Writer, agg *querylog.Aggregator, sorted bool) error {
	counts, err := agg.TypeCounts(ctx)
	if err != nil {
		return err
	}
	if sorted {
		counts = querylog.SortTypeCounts(counts)
	}
	RenderTypeCounts(w, counts)
	return nil
}
