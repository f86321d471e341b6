package mock

import (
	"context"

	"github.com/fwojciec/newsdoc"
)

var _ newsdoc.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of newsdoc.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, term string) ([]*newsdoc.Item, error)
}

func (s *Searcher) Search(ctx context.Context, term string) ([]*newsdoc.Item, error) {
	return s.SearchFn(ctx, term)
}

var _ newsdoc.Resolver = (*Resolver)(nil)

// Resolver is a mock implementation of newsdoc.Resolver.
type Resolver struct {
	ResolveFn func(ctx context.Context, term string) ([]*newsdoc.Article, error)
}

func (r *Resolver) Resolve(ctx context.Context, term string) ([]*newsdoc.Article, error) {
	return r.ResolveFn(ctx, term)
}

var _ newsdoc.ArticleFetcher = (*ArticleFetcher)(nil)

// ArticleFetcher is a mock implementation of newsdoc.ArticleFetcher.
type ArticleFetcher struct {
	FetchArticleFn func(ctx context.Context, item *newsdoc.Item) *newsdoc.Article
}

func (f *ArticleFetcher) FetchArticle(ctx context.Context, item *newsdoc.Item) *newsdoc.Article {
	return f.FetchArticleFn(ctx, item)
}
