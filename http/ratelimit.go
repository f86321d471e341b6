package http

import (
	"context"
	"sync"

	"github.com/fwojciec/newsdoc"
	"golang.org/x/time/rate"
)

var _ newsdoc.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter keeps publisher sites from being hit by a whole result page
// at once. Ten results often share two or three press hosts; each host gets
// a token bucket of its own, created on first use.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

// NewDomainLimiter allows rps page requests per second to every host, with
// up to burst requests back to back. A burst below 1 is raised to 1.
func NewDomainLimiter(rps float64, burst int) *DomainLimiter {
	if burst < 1 {
		burst = 1
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    burst,
	}
}

// Wait takes a token from domain's bucket, sleeping until one is available
// or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), d.burst)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
