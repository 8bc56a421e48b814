// Package mongostore persists query-log entries in a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sakila-tools/filmsearch/internal/models"
	"github.com/sakila-tools/filmsearch/internal/querylog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const (
	DefaultDatabase   = "filmsearch"
	DefaultCollection = "query_logs"
	defaultTimeout    = 10 * time.Second
)

// Config holds the MongoDB connection settings.
type Config struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// Store is a querylog.Store backed by one MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
	log    *zap.Logger
}

// entryDocument is the persisted shape of a query-log entry.
type entryDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	QueryType string             `bson:"query_type"`
	Params    models.Params      `bson:"params"`
	Timestamp time.Time          `bson:"timestamp"`
}

type groupRow struct {
	ID    interface{} `bson:"_id"`
	Count int64       `bson:"count"`
}

// New connects to MongoDB, verifies connectivity and ensures the collection indexes.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.URI) == "" {
		return nil, errors.New("mongo uri is empty")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.Timeout).
		SetServerSelectionTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	s := &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
		log:    log.Named("mongostore"),
	}
	if err := s.ensureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	s.log.Info("query log store ready",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection),
	)
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "query_type", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure query log indexes: %w", err)
	}
	return nil
}

// Insert writes entry and stores the generated ObjectID hex in entry.ID.
func (s *Store) Insert(ctx context.Context, entry *models.QueryLogEntry) error {
	if entry == nil {
		return querylog.WrapStoreError("insert", errors.New("entry cannot be nil"))
	}
	doc := documentFromEntry(*entry)
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return querylog.WrapStoreError("insert", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid.Hex()
	}
	return nil
}

// Find queries the collection; documents that cannot be decoded at all are skipped.
func (s *Store) Find(ctx context.Context, opts querylog.FindOptions) ([]models.QueryLogEntry, error) {
	filter := bson.D{}
	if opts.QueryType != "" {
		filter = append(filter, bson.E{Key: "query_type", Value: string(opts.QueryType)})
	}
	findOpts := options.Find()
	if opts.NewestFirst {
		findOpts.SetSort(bson.D{{Key: "timestamp", Value: -1}})
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cursor, err := s.coll.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, querylog.WrapStoreError("find", err)
	}
	defer cursor.Close(ctx)

	var out []models.QueryLogEntry
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			s.log.Debug("skip undecodable query log document", zap.Error(err))
			continue
		}
		out = append(out, entryFromDocument(raw))
	}
	if err := cursor.Err(); err != nil {
		return nil, querylog.WrapStoreError("find", err)
	}
	return out, nil
}

// GroupCountBy runs a $group aggregation on field.
func (s *Store) GroupCountBy(ctx context.Context, field string) (map[string]int64, error) {
	field = strings.TrimSpace(field)
	if field == "" || strings.HasPrefix(field, "$") {
		return nil, querylog.WrapStoreError("group", fmt.Errorf("%w: %q", querylog.ErrUnsupportedField, field))
	}

	cursor, err := s.coll.Aggregate(ctx, groupPipeline(field))
	if err != nil {
		return nil, querylog.WrapStoreError("group", err)
	}
	defer cursor.Close(ctx)

	var rows []groupRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, querylog.WrapStoreError("group", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[groupKey(row.ID)] += row.Count
	}
	return counts, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	return nil
}

func groupPipeline(field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}

func groupKey(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

var _ querylog.Store = (*Store)(nil)
