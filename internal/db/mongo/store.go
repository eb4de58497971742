// Package mongo implements the document store on top of the official
// MongoDB driver.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kailas-cloud/metadex/internal/domain"
)

// Config holds connection settings.
type Config struct {
	URI      string
	Database string
}

// Store wraps one MongoDB database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore creates a client for the configured deployment. Connectivity
// is verified separately via WaitForReady.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

// WaitForReady pings the deployment, giving up after the timeout.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb not ready: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongodb: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}

// Aggregate runs an aggregation pipeline and returns every result
// document with field order preserved.
func (s *Store) Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline) ([]bson.D, error) {
	cur, err := s.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", collection, err)
	}
	var rows []bson.D
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("read aggregation cursor for %s: %w", collection, err)
	}
	return rows, nil
}

// FindByID fetches a single document by its application identifier,
// excluding the store-internal _id.
func (s *Store) FindByID(ctx context.Context, collection, id string) (bson.M, error) {
	var doc bson.M
	err := s.db.Collection(collection).FindOne(ctx,
		bson.D{{Key: "id", Value: id}},
		options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 0}}),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%s %q: %w", collection, id, domain.ErrDocumentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s %q: %w", collection, id, err)
	}
	return doc, nil
}

// InsertMany bulk-inserts records into a collection.
func (s *Store) InsertMany(ctx context.Context, collection string, records []map[string]any) error {
	docs := make([]any, len(records))
	for i, r := range records {
		docs[i] = r
	}
	if _, err := s.db.Collection(collection).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert into %s: %w", collection, err)
	}
	return nil
}

// DeleteAll removes every document from a collection.
func (s *Store) DeleteAll(ctx context.Context, collection string) error {
	if _, err := s.db.Collection(collection).DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("delete all from %s: %w", collection, err)
	}
	return nil
}

// CountDocuments counts the documents in a collection.
func (s *Store) CountDocuments(ctx context.Context, collection string) (int64, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

// EnsureTextIndex creates the wildcard text index backing $text search.
// Creation is idempotent.
func (s *Store) EnsureTextIndex(ctx context.Context, collection string) error {
	_, err := s.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "$**", Value: "text"}},
	})
	if err != nil {
		return fmt.Errorf("create text index on %s: %w", collection, err)
	}
	return nil
}
