package mock

import (
	"context"

	"github.com/fwojciec/newsdoc"
)

var _ newsdoc.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of newsdoc.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*newsdoc.Page, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*newsdoc.Page, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ newsdoc.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of newsdoc.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ newsdoc.Decoder = (*Decoder)(nil)

// Decoder is a mock implementation of newsdoc.Decoder.
type Decoder struct {
	DecodeFn func(body []byte, declared string) (string, string)
}

func (d *Decoder) Decode(body []byte, declared string) (string, string) {
	return d.DecodeFn(body, declared)
}
