package cache

import (
	"context"
	"time"

	"cukuraja/backend/internal/domain"
)

// PricelistCache caches the public service pricelist, which is read on
// every cashier screen load but changes rarely.
type PricelistCache interface {
	Get(ctx context.Context) ([]domain.ServiceItem, bool, error)
	Set(ctx context.Context, items []domain.ServiceItem, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type NoopPricelistCache struct{}

func (NoopPricelistCache) Get(_ context.Context) ([]domain.ServiceItem, bool, error) {
	return nil, false, nil
}

func (NoopPricelistCache) Set(_ context.Context, _ []domain.ServiceItem, _ time.Duration) error {
	return nil
}

func (NoopPricelistCache) Invalidate(_ context.Context) error {
	return nil
}
