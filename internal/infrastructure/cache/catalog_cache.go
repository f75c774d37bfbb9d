package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/crediya/loans/internal/domain/loan"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CatalogCache is a read-through Redis cache for the loan state and type
// catalogs. Both are reference data seeded by migrations, so entries only
// expire, they are never invalidated. Redis failures fall back to the
// wrapped repository.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalogCache creates a new CatalogCache
func NewCatalogCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CatalogCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("catalog-cache"),
	}
}

// WrapStates decorates a state repository with the cache
func (c *CatalogCache) WrapStates(inner loan.StateRepository) loan.StateRepository {
	return &cachedStateRepository{cache: c, inner: inner}
}

// WrapTypes decorates a type repository with the cache
func (c *CatalogCache) WrapTypes(inner loan.TypeRepository) loan.TypeRepository {
	return &cachedTypeRepository{cache: c, inner: inner}
}

func (c *CatalogCache) get(ctx context.Context, key string, out any) bool {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		c.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CatalogCache) put(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

type cachedStateRepository struct {
	cache *CatalogCache
	inner loan.StateRepository
}

func (r *cachedStateRepository) FindByID(ctx context.Context, id uuid.UUID) (*loan.StateLoan, error) {
	key := "loan:state:id:" + id.String()
	var cached loan.StateLoan
	if r.cache.get(ctx, key, &cached) {
		return &cached, nil
	}
	state, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.put(ctx, key, state)
	return state, nil
}

func (r *cachedStateRepository) FindByName(ctx context.Context, name string) (*loan.StateLoan, error) {
	key := "loan:state:name:" + name
	var cached loan.StateLoan
	if r.cache.get(ctx, key, &cached) {
		return &cached, nil
	}
	state, err := r.inner.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	r.cache.put(ctx, key, state)
	return state, nil
}

type cachedTypeRepository struct {
	cache *CatalogCache
	inner loan.TypeRepository
}

func (r *cachedTypeRepository) FindByID(ctx context.Context, id uuid.UUID) (*loan.TypeLoan, error) {
	key := "loan:type:id:" + id.String()
	var cached loan.TypeLoan
	if r.cache.get(ctx, key, &cached) {
		return &cached, nil
	}
	t, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.put(ctx, key, t)
	return t, nil
}

func (r *cachedTypeRepository) FindByName(ctx context.Context, name string) (*loan.TypeLoan, error) {
	key := "loan:type:name:" + name
	var cached loan.TypeLoan
	if r.cache.get(ctx, key, &cached) {
		return &cached, nil
	}
	t, err := r.inner.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	r.cache.put(ctx, key, t)
	return t, nil
}

var (
	_ loan.StateRepository = (*cachedStateRepository)(nil)
	_ loan.TypeRepository  = (*cachedTypeRepository)(nil)
)
