// Package cache puts a read-through redis layer in front of the
// resource catalog. The catalog changes rarely and is read on every
// visit to the resources pages, so cache errors fall open to the
// database rather than failing the request.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/TanuSree02/prodex/internal/model"
	"github.com/TanuSree02/prodex/pkg/config"
)

const (
	categoriesKey  = "prodex:resources:categories"
	categoryKeyFmt = "prodex:resources:category:"
	cacheTTL       = 5 * time.Minute
)

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

type ResourceStore interface {
	ListCategories(ctx context.Context) ([]model.ResourceCategoryCard, error)
	GetBySlug(ctx context.Context, slug string) (*model.CategoryResources, error)
}

type ResourceCache struct {
	store  ResourceStore
	rdb    *redis.Client
	logger *zap.Logger
}

func NewResourceCache(store ResourceStore, rdb *redis.Client, logger *zap.Logger) *ResourceCache {
	return &ResourceCache{store: store, rdb: rdb, logger: logger}
}

func (c *ResourceCache) ListCategories(ctx context.Context) ([]model.ResourceCategoryCard, error) {
	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, categoriesKey).Result()
		if err == nil {
			var cards []model.ResourceCategoryCard
			if err := json.Unmarshal([]byte(raw), &cards); err == nil {
				return cards, nil
			}
		} else if err != redis.Nil {
			c.logger.Warn("Resource category cache read failed", zap.Error(err))
		}
	}

	cards, err := c.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	c.set(ctx, categoriesKey, cards)
	return cards, nil
}

func (c *ResourceCache) GetBySlug(ctx context.Context, slug string) (*model.CategoryResources, error) {
	key := categoryKeyFmt + slug
	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, key).Result()
		if err == nil {
			var result model.CategoryResources
			if err := json.Unmarshal([]byte(raw), &result); err == nil {
				return &result, nil
			}
		} else if err != redis.Nil {
			c.logger.Warn("Resource cache read failed", zap.Error(err), zap.String("slug", slug))
		}
	}

	result, err := c.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, result)
	return result, nil
}

func (c *ResourceCache) set(ctx context.Context, key string, value any) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		c.logger.Warn("Resource cache write failed", zap.Error(err), zap.String("key", key))
	}
}
