package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/sakila-tools/filmsearch/internal/console"
	"github.com/sakila-tools/filmsearch/internal/pkg/prettylog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func menuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Run the interactive search menu (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd.Context())
		},
	}
}

func runMenu(ctx context.Context) error {
	application, logger, cleanup, err := bootstrap(ctx, zapcore.WarnLevel, true)
	if err != nil {
		return err
	}
	defer cleanup()

	sessionID := uuid.NewString()
	logger.Info("console session started", zap.String("session", sessionID))

	return console.NewSession(console.Deps{
		Catalog:   application.Catalog,
		Queries:   application.Queries,
		Stats:     application.Stats,
		In:        os.Stdin,
		Out:       os.Stdout,
		Log:       logger,
		Color:     prettylog.ShouldColor(os.Stdout),
		SessionID: sessionID,
	}).Run(ctx)
}
