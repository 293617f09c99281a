package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSink appends records to one collection per domain table. Collections
// are created implicitly on first insert, so table creation is idempotent.
type MongoSink struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *slog.Logger
}

// NewMongoSink connects to MongoDB and verifies the connection.
func NewMongoSink(ctx context.Context, uri, database string, logger *slog.Logger) (*MongoSink, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoSink{
		client:   client,
		database: client.Database(database),
		logger:   logger.With("component", "mongo_sink"),
	}, nil
}

// Append inserts one record into the table's collection.
func (s *MongoSink) Append(ctx context.Context, table string, rec Record) error {
	if _, err := s.database.Collection(table).InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("mongodb insert into %s: %w", table, err)
	}
	s.logger.Debug("record appended", "table", table, "url", rec.ArticleURL)
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
