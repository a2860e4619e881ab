package cache

import (
	"context"
	"fmt"
	"time"
)

type Collection string

const (
	CollectionCustomers Collection = "customers"
	CollectionItems     Collection = "items"
	CollectionSales     Collection = "sales"
	CollectionDashboard Collection = "dashboard"
)

// ViewCache keeps JSON snapshots of the collections behind the list screens,
// keyed per user.
type ViewCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

func ViewKey(userID string, collection Collection) string {
	return fmt.Sprintf("inventora:view:%s:%s", userID, collection)
}

type NoopViewCache struct{}

func (NoopViewCache) Get(_ context.Context, _ string, _ any) (bool, error) {
	return false, nil
}

func (NoopViewCache) Set(_ context.Context, _ string, _ any, _ time.Duration) error {
	return nil
}

func (NoopViewCache) Delete(_ context.Context, _ ...string) error {
	return nil
}
