// Package http provides the HTTP side of newsdoc: a newsdoc.Fetcher for
// article pages and the HTTP server exposing newsdoc.Resolver.
package http

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/newsdoc"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent is sent with page requests. Several Korean publishers
// reject requests without a browser-like user agent.
const DefaultUserAgent = "Mozilla/5.0 (compatible; newsdoc/1.0; +https://github.com/fwojciec/newsdoc)"

// DefaultMaxPageBytes bounds the size of a fetched page. Larger pages are
// rejected rather than extracted from a truncated body.
const DefaultMaxPageBytes = 10 << 20

// Ensure Fetcher implements newsdoc.Fetcher at compile time.
var _ newsdoc.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves article pages using plain HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	limiter   newsdoc.DomainLimiter
	maxBytes  int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxPageBytes sets the largest page body accepted.
func WithMaxPageBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// WithLimiter rate limits requests per host.
func WithLimiter(l newsdoc.DomainLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		maxBytes:  DefaultMaxPageBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page at rawURL. The charset declared by the
// response's Content-Type header, if any, is reported on the page.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*newsdoc.Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, newsdoc.Errorf(newsdoc.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, newsdoc.Errorf(newsdoc.EINVALID, "unsupported URL scheme: %q", rawURL)
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("page %s exceeds %d bytes", rawURL, f.maxBytes)
	}

	return &newsdoc.Page{
		URL:     rawURL,
		Body:    body,
		Charset: ParseCharset(resp.Header.Get("Content-Type")),
	}, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// ParseCharset returns the upper-cased charset parameter of a Content-Type
// header value, or an empty string if there is none.
func ParseCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToUpper(strings.TrimSpace(params["charset"]))
}
