package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used by the mongoose models this store was created with.
const (
	ItemsCollection    = "Items"
	InvoicesCollection = "Invoices"
)

// ConnectDB initializes and returns a MongoDB client and database instance.
// The ping is retried DefaultMaxRetries times so the API can come up
// alongside a database that is still starting.
func ConnectDB(uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	ping := func() error {
		ctxPing, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelPing()
		return client.Ping(ctxPing, readpref.Primary())
	}
	if err := WithRetries(ping, DefaultMaxRetries, IsUnavailableError); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	log.Info().Str("db", dbName).Msg("Successfully connected to MongoDB")

	return client, db, nil
}

// EnsureIndexes creates the unique index that backs invoice number uniqueness.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(InvoicesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "invoiceNo", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("invoiceNo_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create invoiceNo index: %w", err)
	}
	return nil
}

// DisconnectDB closes the MongoDB client connection.
func DisconnectDB(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	log.Info().Msg("MongoDB connection closed")
	return nil
}
