// Package database manages the document store connection. It exposes one DB
// type backed by either a real MongoDB deployment or lungo's in-memory engine,
// so the whole store layer (and its tests) runs against the same interfaces.
package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/256dpi/lungo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names for the three document types.
const (
	Users    = "users"
	Posts    = "posts"
	Comments = "comments"
)

// DB wraps a lungo client and the database name all collections live in.
type DB struct {
	client lungo.IClient
	engine *lungo.Engine // non-nil only for in-memory databases
	name   string
}

// Connect opens a connection to a real MongoDB deployment and verifies it
// with a ping.
func Connect(ctx context.Context, uri, name string) (*DB, error) {
	client, err := lungo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	slog.Info("database connected", "db", name)
	return &DB{client: client, name: name}, nil
}

// Open creates an in-memory database. Used by tests and by --memory dev mode;
// all data is lost when the process exits.
func Open(name string) (*DB, error) {
	client, engine, err := lungo.Open(nil, lungo.Options{
		Store: lungo.NewMemoryStore(),
	})
	if err != nil {
		return nil, fmt.Errorf("open memory store: %w", err)
	}

	return &DB{client: client, engine: engine, name: name}, nil
}

// Collection returns a handle for the named collection.
func (d *DB) Collection(name string) lungo.ICollection {
	return d.client.Database(d.name).Collection(name)
}

// Close releases the client and, for in-memory databases, the engine.
func (d *DB) Close(ctx context.Context) error {
	if d.engine != nil {
		d.engine.Close()
		return nil
	}
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	return nil
}

// EnsureIndexes reconciles the secondary indexes the queries rely on. The
// title/content/tags text index is attempted last and its absence tolerated:
// the in-memory engine does not support text indexes, and search uses
// substring matching anyway.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		Users: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		Posts: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		Comments: {
			{Keys: bson.D{{Key: "post", Value: 1}, {Key: "parentComment", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "parentComment", Value: 1}, {Key: "createdAt", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		for _, model := range models {
			if _, err := d.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
				return fmt.Errorf("create index on %s: %w", coll, err)
			}
		}
	}

	textIndex := mongo.IndexModel{Keys: bson.D{
		{Key: "title", Value: "text"},
		{Key: "content", Value: "text"},
		{Key: "tags", Value: "text"},
	}}
	if _, err := d.Collection(Posts).Indexes().CreateOne(ctx, textIndex); err != nil {
		slog.Warn("text index unavailable, search falls back to substring matching", "error", err)
	}

	slog.Info("database indexes reconciled")
	return nil
}
