// Package testutil connects tests to real MongoDB and Redis servers. Tests
// using it are skipped when the server does not answer.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// redisTestDB keeps test keys away from DB 0.
const redisTestDB = 15

func init() {
	// Try to load .env from project root (2 levels up from this file)
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "..", "..")
	if err := godotenv.Load(filepath.Join(projectRoot, ".env")); err != nil {
		godotenv.Load()
	}
}

func envOr(keys []string, fallback string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return fallback
}

// MongoURI returns MONGO_URI_TEST, then MONGO_URI, then a local default.
func MongoURI() string {
	return envOr([]string{"MONGO_URI_TEST", "MONGO_URI"}, "mongodb://localhost:27017")
}

// SetupTestDB connects to the test MongoDB and returns dbName with the given
// collections dropped. The database is dropped again when the test ends.
func SetupTestDB(t *testing.T, dbName string, collections ...string) *mongo.Database {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(MongoURI()).
		SetServerSelectionTimeout(2*time.Second))
	require.NoError(t, err, "Failed to create MongoDB client")
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("mongodb not available at %s: %v", MongoURI(), err)
	}

	db := client.Database(dbName)
	for _, collection := range collections {
		_ = db.Collection(collection).Drop(context.Background())
	}

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

// SetupTestRedis connects to REDIS_ADDR_TEST (default localhost:6379) on a
// dedicated DB.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := envOr([]string{"REDIS_ADDR_TEST"}, "localhost:6379")
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: redisTestDB})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}
