package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sakila-tools/filmsearch/internal/app"
	"github.com/sakila-tools/filmsearch/internal/config"
	"github.com/sakila-tools/filmsearch/internal/pkg/nativelog"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var configPath string

func main() {
	// Load .env file if present (does not override existing env vars)
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "filmsearch",
		Short:         "Sakila film search",
		Long:          "Search the Sakila film catalog and inspect statistics about past searches.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "path to YAML config file")

	root.AddCommand(menuCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(statsCmd())

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bootstrap loads the config, builds the logger and opens the application.
// The returned cleanup closes both.
func bootstrap(ctx context.Context, consoleLevel zapcore.Level, withCatalog bool) (*app.App, *zap.Logger, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := nativelog.NewZapLogger(nativelog.Options{Dir: cfg.LogDir(), ConsoleLevel: consoleLevel})
	if err != nil {
		logger, _ = zap.NewProduction()
		logger.Warn("native log pipeline unavailable, fallback to zap production logger", zap.Error(err))
	}

	application, err := app.New(ctx, logger, cfg, withCatalog)
	if err != nil {
		logger.Error("failed to initialize app", zap.Error(err))
		_ = logger.Sync()
		return nil, nil, nil, err
	}

	cleanup := func() {
		if err := application.Close(context.Background()); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
		_ = logger.Sync()
	}
	return application, logger, cleanup, nil
}
