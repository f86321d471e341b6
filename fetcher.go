package newsdoc

import "context"

// Page is a fetched article page before decoding.
type Page struct {
	URL  string
	Body []byte

	// Charset is the charset declared by the response's Content-Type,
	// upper-cased. Empty if none was declared.
	Charset string
}

// Fetcher retrieves article pages from URLs.
// Implementations may use browser automation to handle JavaScript-rendered content.
type Fetcher interface {
	// Fetch retrieves the page at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Page, error)

	// Close releases resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// Decoder converts raw page bytes into text.
type Decoder interface {
	// Decode decodes body, trying the declared charset first.
	// It never fails: when no candidate encoding produces usable text the
	// first decoding is returned. The returned label names the encoding used.
	Decode(body []byte, declared string) (text string, label string)
}
