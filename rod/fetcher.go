// Package rod implements newsdoc.Fetcher with a headless Chrome browser, for
// publishers that render article bodies with JavaScript.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/newsdoc"
)

// DefaultFetchTimeout bounds a single page load.
// Kept consistent with http.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements newsdoc.Fetcher at compile time.
var _ newsdoc.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// The browser decodes the page, so returned pages are always UTF-8.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser *Browser
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*fetcherConfig)

type fetcherConfig struct {
	timeout      time.Duration
	recycleAfter int64
}

// WithFetchTimeout sets the timeout for a single page load.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.timeout = d
	}
}

// WithPagesPerBrowser sets how many pages are rendered before the browser is
// restarted. Defaults to DefaultRecycleAfter.
func WithPagesPerBrowser(n int64) Option {
	return func(c *fetcherConfig) {
		c.recycleAfter = n
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	cfg := fetcherConfig{timeout: DefaultFetchTimeout, recycleAfter: DefaultRecycleAfter}
	for _, opt := range opts {
		opt(&cfg)
	}

	browser, err := NewBrowser(WithRecycleAfter(cfg.recycleAfter))
	if err != nil {
		return nil, err
	}

	return &Fetcher{browser: browser, timeout: cfg.timeout}, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*newsdoc.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, release, err := f.browser.Page(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}

	return &newsdoc.Page{
		URL:     url,
		Body:    []byte(html),
		Charset: newsdoc.DefaultCharset,
	}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.browser.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.browser.LauncherPID()
}
