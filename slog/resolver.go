package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsdoc"
)

// Ensure LoggingResolver implements newsdoc.Resolver.
var _ newsdoc.Resolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a Resolver with logging.
type LoggingResolver struct {
	next   newsdoc.Resolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next newsdoc.Resolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the outcome, including
// how many articles came back without a body.
func (r *LoggingResolver) Resolve(ctx context.Context, term string) (articles []*newsdoc.Article, err error) {
	defer func(begin time.Time) {
		var missing int
		for _, a := range articles {
			if a.ArticleText == nil {
				missing++
			}
		}
		r.logger.Info("resolve",
			"term", term,
			"count", len(articles),
			"missing_text", missing,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Resolve(ctx, term)
}
