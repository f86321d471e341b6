// Package slog provides logging decorators for newsdoc services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsdoc"
)

// Ensure LoggingFetcher implements newsdoc.Fetcher.
var _ newsdoc.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   newsdoc.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next newsdoc.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (page *newsdoc.Page, err error) {
	defer func(begin time.Time) {
		var size int
		var charset string
		if page != nil {
			size = len(page.Body)
			charset = page.Charset
		}
		f.logger.Debug("fetch",
			"url", url,
			"bytes", size,
			"charset", charset,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
