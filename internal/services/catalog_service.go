package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SaniatAzam/invoice-generator/internal/cache"
	"github.com/SaniatAzam/invoice-generator/internal/config"
	"github.com/SaniatAzam/invoice-generator/internal/db"
	"github.com/SaniatAzam/invoice-generator/internal/models"
)

// ICatalogService defines read access to the item catalog plus seeding.
type ICatalogService interface {
	ListItems(ctx context.Context) ([]models.Item, error)
	FindByName(ctx context.Context, name string) (*models.Item, error)
	Seed(ctx context.Context, items []models.Item) (int, error)
}

const catalogCacheKey = "catalog:items"

// catalogService implements ICatalogService.
type catalogService struct {
	db  *mongo.Database
	rdb redis.Cmdable // optional; nil disables caching
	cfg *config.Config
}

// NewCatalogService creates a new CatalogService. rdb may be nil.
func NewCatalogService(database *mongo.Database, rdb redis.Cmdable, cfg *config.Config) ICatalogService {
	return &catalogService{db: database, rdb: rdb, cfg: cfg}
}

// ListItems returns the full catalog in store order. Results are served
// from Redis when cached; cache errors fall through to MongoDB.
func (s *catalogService) ListItems(ctx context.Context) ([]models.Item, error) {
	if s.rdb != nil {
		var cached []models.Item
		err := cache.GetJSON(ctx, s.rdb, catalogCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			log.Warn().Err(err).Msg("Catalog cache read failed, querying store")
		}
	}

	cursor, err := s.db.Collection(db.ItemsCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, storeError("failed to query items", err)
	}
	defer cursor.Close(ctx)

	items := []models.Item{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, storeError("failed to decode items", err)
	}

	if s.rdb != nil && s.cfg.CatalogCacheTTL > 0 {
		if err := cache.SetJSON(ctx, s.rdb, catalogCacheKey, items, s.cfg.CatalogCacheTTL); err != nil {
			log.Warn().Err(err).Msg("Catalog cache write failed")
		}
	}
	return items, nil
}

// FindByName returns the first item with the given name.
func (s *catalogService) FindByName(ctx context.Context, name string) (*models.Item, error) {
	var item models.Item
	err := s.db.Collection(db.ItemsCollection).FindOne(ctx, bson.M{"name": name}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError(fmt.Sprintf("failed to find item %q", name), err)
	}
	return &item, nil
}

// Seed upserts items by name and drops the cached catalog. It returns the
// number of items inserted or modified.
func (s *catalogService) Seed(ctx context.Context, items []models.Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	writes := make([]mongo.WriteModel, 0, len(items))
	for _, it := range items {
		if it.Name == "" {
			return 0, invalid("item name is required")
		}
		if it.Price < 0 {
			return 0, invalid("item %q has a negative price", it.Name)
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"name": it.Name}).
			SetUpdate(bson.M{"$set": bson.M{"name": it.Name, "price": it.Price}}).
			SetUpsert(true))
	}

	res, err := s.db.Collection(db.ItemsCollection).BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return 0, storeError("failed to seed items", err)
	}

	if s.rdb != nil {
		if err := s.rdb.Del(ctx, catalogCacheKey).Err(); err != nil {
			log.Warn().Err(err).Msg("Catalog cache invalidation failed")
		}
	}
	return int(res.UpsertedCount + res.ModifiedCount), nil
}
