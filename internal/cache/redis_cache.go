package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"cukuraja/backend/internal/domain"
)

const pricelistKey = "pricelist:v1"

type RedisPricelistCache struct {
	client *redis.Client
}

func NewRedisPricelistCache(addr string, password string, db int) *RedisPricelistCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisPricelistCache{client: client}
}

func (c *RedisPricelistCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisPricelistCache) Close() error {
	return c.client.Close()
}

func (c *RedisPricelistCache) Get(ctx context.Context) ([]domain.ServiceItem, bool, error) {
	val, err := c.client.Get(ctx, pricelistKey).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []domain.ServiceItem
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (c *RedisPricelistCache) Set(ctx context.Context, items []domain.ServiceItem, ttl time.Duration) error {
	if len(items) == 0 {
		return c.client.Del(ctx, pricelistKey).Err()
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, pricelistKey, payload, ttl).Err()
}

func (c *RedisPricelistCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, pricelistKey).Err()
}
