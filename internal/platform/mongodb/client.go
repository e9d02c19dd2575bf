// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mongodb provides the document store connection and the shared
collection helpers used by every catalogue repository.

It belongs to the Infrastructure layer. Domain packages own their queries;
this package owns connection tuning, indexes, listing, reference population
and atomic counter updates.
*/
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// maxPoolSize bounds concurrent connections per API instance.
	maxPoolSize = 50
	// minPoolSize keeps a warm set of connections to avoid cold-start latency.
	minPoolSize = 5
	// connectTimeout is the maximum time allowed to establish the initial connection.
	connectTimeout = 10 * time.Second
	// serverSelectionTimeout fails fast when the replica set is unreachable.
	serverSelectionTimeout = 5 * time.Second
	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second
)

// Connect opens a client, verifies connectivity and returns the named database.
//
// # Parameters
//   - ctx: Context for the initial connection attempt.
//   - uri: A mongodb:// or mongodb+srv:// connection string.
//   - database: Name of the catalogue database.
//   - logger: Structured logger for connection events.
func Connect(ctx context.Context, uri, database string, logger *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPoolSize).
		SetMinPoolSize(minPoolSize).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(serverSelectionTimeout)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("mongodb: failed to connect: %w", err)
	}

	if err := Ping(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	logger.Info("mongodb client connected",
		slog.String("database", database),
		slog.Int("max_pool_size", maxPoolSize),
	)

	return client, client.Database(database), nil
}

// Ping verifies that the primary is reachable.
func Ping(ctx context.Context, client *mongo.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb: ping failed: %w", err)
	}

	return nil
}
