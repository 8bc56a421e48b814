package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sakila-tools/filmsearch/internal/catalog"
	"github.com/sakila-tools/filmsearch/internal/config"
	"github.com/sakila-tools/filmsearch/internal/database"
	"github.com/sakila-tools/filmsearch/internal/middleware"
	pkgredis "github.com/sakila-tools/filmsearch/internal/pkg/redis"
	"github.com/sakila-tools/filmsearch/internal/querylog"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const redisKeyPrefix = "filmsearch:"

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	logger *zap.Logger
	db     *gorm.DB
	store  querylog.Store
	rc     *pkgredis.Client

	Catalog *catalog.Catalog
	Queries *querylog.Logger
	Stats   *querylog.Aggregator
}

// New initializes the application: config → query-log store → MySQL → Redis.
// With withCatalog false only the query-log store is opened, which is all the
// statistics commands need.
func New(ctx context.Context, logger *zap.Logger, cfg *config.AppConfig, withCatalog bool) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := applyRuntimeSettings(cfg); err != nil {
		return nil, err
	}

	store, err := database.OpenQueryLogStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("query log store: %w", err)
	}
	a := &App{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		Queries: querylog.NewLogger(store, logger),
		Stats:   querylog.NewAggregator(store, logger),
	}
	if !withCatalog {
		return a, nil
	}

	a.db, err = database.Connect(cfg)
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("database: %w", err)
	}

	opts := []catalog.Option{catalog.WithLogger(logger)}
	if cfg.RedisURL != "" {
		a.rc, err = pkgredis.Connect(ctx, cfg.RedisURL, redisKeyPrefix)
		if err != nil {
			_ = a.Close(ctx)
			return nil, fmt.Errorf("redis: %w", err)
		}
		opts = append(opts, catalog.WithCache(a.rc, cfg.CacheTTL()))
	}
	a.Catalog = catalog.New(a.db, cfg.Catalog.View, opts...)
	return a, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router builds the HTTP handler. It requires the catalog.
func (a *App) Router() http.Handler {
	if a.cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(a.logger.Named("http")))
	router.Use(cors.New(corsConfig(a.cfg)))
	if a.rc != nil {
		router.Use(middleware.RateLimit(a.rc, 0, a.logger.Named("ratelimit")))
	}

	a.registerRoutes(router)
	return router
}

// Close releases the store, the cache and the database pool.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.store != nil {
		if err := a.store.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close query log store: %w", err))
		}
	}
	if a.rc != nil {
		if err := a.rc.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := database.Close(a.db); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}

func corsConfig(cfg *config.AppConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
	}
	patterns := cfg.AllowedOrigins
	if len(patterns) == 0 || cfg.IsDev() {
		c.AllowOriginFunc = func(string) bool { return true }
		return c
	}
	c.AllowOriginFunc = func(origin string) bool { return originAllowed(patterns, origin) }
	return c
}

// originAllowed matches the host[:port] of origin against exact hosts,
// "*.domain" suffixes and "host:*" any-port patterns.
func originAllowed(patterns []string, origin string) bool {
	host := origin
	if u, err := url.Parse(origin); err == nil && u.Host != "" {
		host = u.Host
	}
	for _, p := range patterns {
		switch {
		case p == host:
			return true
		case strings.HasPrefix(p, "*.") && strings.HasSuffix(host, p[1:]):
			return true
		case strings.HasSuffix(p, ":*") && strings.HasPrefix(host, strings.TrimSuffix(p, "*")):
			return true
		}
	}
	return false
}
