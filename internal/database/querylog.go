package database

import (
	"context"
	"fmt"

	"github.com/sakila-tools/filmsearch/internal/config"
	"github.com/sakila-tools/filmsearch/internal/querylog"
	"github.com/sakila-tools/filmsearch/internal/querylog/memstore"
	"github.com/sakila-tools/filmsearch/internal/querylog/mongostore"
	"go.uber.org/zap"
)

// OpenQueryLogStore builds the query-log store selected by cfg.Mongo.Backend.
func OpenQueryLogStore(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (querylog.Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	switch cfg.Mongo.Backend {
	case config.BackendMemory:
		log.Warn("query log backend is in-memory, entries are lost on exit")
		return memstore.New(), nil
	case config.BackendMongo:
		store, err := mongostore.New(ctx, mongostore.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
			Timeout:    cfg.Mongo.Timeout(),
		}, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown query log backend %q", cfg.Mongo.Backend)
	}
}
