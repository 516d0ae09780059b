package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"catalog/internal/models"
	"catalog/internal/store"
)

// NewRedisClient connects to addr and pings it.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("redis address not set")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// Products caches single-product reads in Redis in front of another
// store.Products. Lists always go to the underlying store.
type Products struct {
	next   store.Products
	client *redis.Client
	ttl    time.Duration
}

var _ store.Products = (*Products)(nil)

func NewProducts(next store.Products, client *redis.Client, ttl time.Duration) *Products {
	return &Products{next: next, client: client, ttl: ttl}
}

func key(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *Products) List(ctx context.Context, query string) ([]models.Product, error) {
	return c.next.List(ctx, query)
}

func (c *Products) Create(ctx context.Context, f models.Fields) (*models.Product, error) {
	return c.next.Create(ctx, f)
}

func (c *Products) Get(ctx context.Context, id uint) (*models.Product, error) {
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	switch {
	case err == nil:
		var p models.Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
		zap.S().Warnf("discarding unreadable cache entry %s", key(id))
	case !errors.Is(err, redis.Nil):
		zap.S().Warnf("redis get %s: %v", key(id), err)
	}

	p, err := c.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, p)
	return p, nil
}

func (c *Products) Update(ctx context.Context, id uint, f models.Fields) (*models.Product, error) {
	p, err := c.next.Update(ctx, id, f)
	c.evict(ctx, id)
	return p, err
}

func (c *Products) Delete(ctx context.Context, id uint) error {
	err := c.next.Delete(ctx, id)
	c.evict(ctx, id)
	return err
}

func (c *Products) store(ctx context.Context, p *models.Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		zap.S().Warnf("marshal product %d for cache: %v", p.ID, err)
		return
	}
	if err := c.client.Set(ctx, key(p.ID), raw, c.ttl).Err(); err != nil {
		zap.S().Warnf("redis set %s: %v", key(p.ID), err)
	}
}

func (c *Products) evict(ctx context.Context, id uint) {
	if err := c.client.Del(ctx, key(id)).Err(); err != nil {
		zap.S().Warnf("redis del %s: %v", key(id), err)
	}
}
