// Package pipeline turns news search results into extracted articles.
// It coordinates search, page fetching, decoding, cleanup, extraction,
// and caching.
package pipeline

import (
	"context"
	"io"
	"log/slog"
)

type termKey struct{}

// withTerm attaches the search term to ctx so per-item logs can name it.
func withTerm(ctx context.Context, term string) context.Context {
	return context.WithValue(ctx, termKey{}, term)
}

func termFrom(ctx context.Context) string {
	term, _ := ctx.Value(termKey{}).(string)
	return term
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discardLogger
	}
	return l
}
