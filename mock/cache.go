package mock

import (
	"context"

	"github.com/fwojciec/newsdoc"
)

var _ newsdoc.Cache = (*Cache)(nil)

// Cache is a mock implementation of newsdoc.Cache.
type Cache struct {
	GetFn    func(ctx context.Context, term string) (*newsdoc.CacheEntry, error)
	PutFn    func(ctx context.Context, term string, articles []*newsdoc.Article) error
	ExpireFn func(ctx context.Context, term string) error
}

func (c *Cache) Get(ctx context.Context, term string) (*newsdoc.CacheEntry, error) {
	return c.GetFn(ctx, term)
}

func (c *Cache) Put(ctx context.Context, term string, articles []*newsdoc.Article) error {
	return c.PutFn(ctx, term, articles)
}

func (c *Cache) Expire(ctx context.Context, term string) error {
	return c.ExpireFn(ctx, term)
}
