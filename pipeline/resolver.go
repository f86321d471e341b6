package pipeline

import (
	"context"
	"log/slog"

	"github.com/fwojciec/newsdoc"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var _ newsdoc.Resolver = (*Resolver)(nil)

// Resolver answers search terms from the cache, or by searching and
// extracting every result concurrently.
type Resolver struct {
	Searcher newsdoc.Searcher
	Articles newsdoc.ArticleFetcher
	Cache    newsdoc.Cache
	Logger   *slog.Logger

	// Concurrency bounds the number of articles extracted at once.
	// Zero or less means one goroutine per search result.
	Concurrency int

	group singleflight.Group
}

// Resolve returns one Article per search result for term, in ranking order.
// Concurrent calls for the same uncached term share one search.
func (r *Resolver) Resolve(ctx context.Context, term string) ([]*newsdoc.Article, error) {
	term = newsdoc.NormalizeTerm(term)
	if term == "" {
		return nil, newsdoc.Errorf(newsdoc.EINVALID, "search term required")
	}

	logger := loggerOrDiscard(r.Logger)

	if r.Cache != nil {
		entry, err := r.Cache.Get(ctx, term)
		switch {
		case err == nil:
			return entry.Articles, nil
		case newsdoc.ErrorCode(err) != newsdoc.ENOTFOUND:
			logger.Warn("cache read failed", "term", term, "err", err)
		}
	}

	// The shared work must outlive any single caller that gives up.
	ch := r.group.DoChan(term, func() (any, error) {
		return r.resolve(context.WithoutCancel(ctx), term)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*newsdoc.Article), nil
	}
}

// resolve searches for term, extracts every result, and caches the aggregate.
func (r *Resolver) resolve(ctx context.Context, term string) ([]*newsdoc.Article, error) {
	items, err := r.Searcher.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	articles := make([]*newsdoc.Article, len(items))

	g, gctx := errgroup.WithContext(withTerm(ctx, term))
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}
	for i, item := range items {
		g.Go(func() error {
			articles[i] = r.Articles.FetchArticle(gctx, item)
			return nil
		})
	}
	_ = g.Wait()

	if r.Cache != nil {
		if err := r.Cache.Put(ctx, term, articles); err != nil {
			loggerOrDiscard(r.Logger).Warn("cache write failed", "term", term, "err", err)
		}
	}

	return articles, nil
}
