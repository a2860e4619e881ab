package service

import (
	"context"
	"log"

	"inventora/webclient/internal/cache"
	"inventora/webclient/internal/domain"
	"inventora/webclient/internal/session"
)

// Collections whose cached views a mutation makes stale.
var (
	customerMutation = []cache.Collection{cache.CollectionCustomers, cache.CollectionDashboard}
	itemMutation     = []cache.Collection{cache.CollectionItems, cache.CollectionDashboard}
	saleMutation     = []cache.Collection{cache.CollectionSales, cache.CollectionItems, cache.CollectionDashboard}
)

func cachedView[T any](ctx context.Context, s *Service, sess *session.Session, collection cache.Collection, load func(context.Context) (T, error)) (T, error) {
	key := cache.ViewKey(sess.User.ID, collection)

	var cached T
	found, err := s.views.Get(ctx, key, &cached)
	if err != nil {
		log.Printf("[cache] WARN: read %s failed: %v", key, err)
	} else if found {
		return cached, nil
	}

	fresh, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := s.views.Set(ctx, key, fresh, s.viewTTL); err != nil {
		log.Printf("[cache] WARN: write %s failed: %v", key, err)
	}
	return fresh, nil
}

// invalidate drops the user's cached views of the given collections. A cache
// failure is logged and otherwise ignored; entries still expire on their TTL.
func (s *Service) invalidate(ctx context.Context, sess *session.Session, collections ...cache.Collection) {
	keys := make([]string, 0, len(collections))
	for _, collection := range collections {
		keys = append(keys, cache.ViewKey(sess.User.ID, collection))
	}
	if err := s.views.Delete(ctx, keys...); err != nil {
		log.Printf("[cache] WARN: invalidate %v failed: %v", keys, err)
	}
}

func (s *Service) customers(ctx context.Context, sess *session.Session) ([]domain.Customer, error) {
	return cachedView(ctx, s, sess, cache.CollectionCustomers, sess.Gateway.ListCustomers)
}

func (s *Service) items(ctx context.Context, sess *session.Session) ([]domain.InventoryItem, error) {
	return cachedView(ctx, s, sess, cache.CollectionItems, sess.Gateway.ListItems)
}

func (s *Service) sales(ctx context.Context, sess *session.Session) ([]domain.Sale, error) {
	return cachedView(ctx, s, sess, cache.CollectionSales, sess.Gateway.ListSales)
}
