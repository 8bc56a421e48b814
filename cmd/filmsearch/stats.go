package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sakila-tools/filmsearch/internal/console"
	"github.com/sakila-tools/filmsearch/internal/models"
	"github.com/sakila-tools/filmsearch/internal/querylog"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func statsCmd() *cobra.Command {
	var limit int
	var sorted bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print statistics about past searches",
	}
	cmd.PersistentFlags().IntVar(&limit, "limit", 0, "number of rows (0 uses the default for each statistic)")

	orDefault := func(def int) int {
		if limit > 0 {
			return limit
		}
		return def
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "top",
		Short: "Most frequent parameter values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStats(cmd.Context(), func(ctx context.Context, agg *querylog.Aggregator) error {
				return console.PrintTop(ctx, os.Stdout, agg, orDefault(querylog.DefaultTopLimit))
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "recent",
		Short: "Most recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStats(cmd.Context(), func(ctx context.Context, agg *querylog.Aggregator) error {
				return console.PrintRecent(ctx, os.Stdout, agg, orDefault(querylog.DefaultRecentLimit))
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "type <query_type>",
		Short: "Distinct recent searches of one type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qt, ok := models.ParseQueryType(args[0])
			if !ok {
				return fmt.Errorf("unknown query type %q (expected one of %v)", args[0], models.QueryTypes)
			}
			return withStats(cmd.Context(), func(ctx context.Context, agg *querylog.Aggregator) error {
				return console.PrintByType(ctx, os.Stdout, agg, qt, orDefault(querylog.DefaultUniqueLimit))
			})
		},
	})
	counts := &cobra.Command{
		Use:   "counts",
		Short: "Number of searches per type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStats(cmd.Context(), func(ctx context.Context, agg *querylog.Aggregator) error {
				return console.PrintTypeCounts(ctx, os.Stdout, agg, sorted)
			})
		},
	}
	counts.Flags().BoolVar(&sorted, "sorted", false, "sort by count, descending")
	cmd.AddCommand(counts)

	return cmd
}

func withStats(ctx context.Context, fn func(context.Context, *querylog.Aggregator) error) error {
	application, _, cleanup, err := bootstrap(ctx, zapcore.WarnLevel, false)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(ctx, application.Stats)
}
