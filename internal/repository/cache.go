package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"backoffice/internal/domain"
)

// ProductCache holds products by id.
type ProductCache interface {
	Get(ctx context.Context, id string) (*domain.Product, bool, error)
	Set(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id string) error
}

// RedisProductCache keeps each product as a JSON string under product:<id>.
type RedisProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProductCache(client *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{client: client, ttl: ttl}
}

func productCacheKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

func (c *RedisProductCache) Get(ctx context.Context, id string) (*domain.Product, bool, error) {
	raw, err := c.client.Get(ctx, productCacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, err
	}
	return &p, true, nil
}

func (c *RedisProductCache) Set(ctx context.Context, p domain.Product) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, productCacheKey(p.ID), raw, c.ttl).Err()
}

func (c *RedisProductCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, productCacheKey(id)).Err()
}

// CachedProducts is a cache-aside decorator over a ProductRepository. The database stays the
// source of truth; cache failures are logged and never fail the call.
type CachedProducts struct {
	ProductRepository
	cache ProductCache
}

func NewCachedProducts(repo ProductRepository, cache ProductCache) *CachedProducts {
	return &CachedProducts{ProductRepository: repo, cache: cache}
}

func (p *CachedProducts) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if cached, ok, err := p.cache.Get(ctx, id); err != nil {
		log.Warn().Err(err).Str("product_id", id).Msg("product cache read failed")
	} else if ok {
		return cached, nil
	}

	prod, err := p.ProductRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.cache.Set(ctx, *prod); err != nil {
		log.Warn().Err(err).Str("product_id", id).Msg("product cache fill failed")
	}
	return prod, nil
}

func (p *CachedProducts) Update(ctx context.Context, prod domain.Product) error {
	if err := p.ProductRepository.Update(ctx, prod); err != nil {
		return err
	}
	p.evict(ctx, prod.ID)
	return nil
}

func (p *CachedProducts) Delete(ctx context.Context, id string) error {
	if err := p.ProductRepository.Delete(ctx, id); err != nil {
		return err
	}
	p.evict(ctx, id)
	return nil
}

func (p *CachedProducts) evict(ctx context.Context, id string) {
	if err := p.cache.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("product_id", id).Msg("product cache evict failed")
	}
}
