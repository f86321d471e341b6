package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/newsdoc"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultRecycleAfter is the number of rendered pages after which the browser
// is restarted. Chrome's memory baseline grows with every page it renders.
const DefaultRecycleAfter = 75

// Browser leases pages of a headless Chrome instance and restarts the
// instance after a number of pages were rendered. A restart waits until every
// leased page has been released.
//
// Browser is safe for concurrent use.
type Browser struct {
	// mu is held for reading while a page is leased.
	mu       sync.RWMutex
	browser  *rod.Browser
	launcher *launcher.Launcher

	rendered     atomic.Int64
	recycleAfter int64
	closed       atomic.Bool
}

// BrowserOption configures a Browser.
type BrowserOption func(*Browser)

// WithRecycleAfter sets how many pages are rendered before the browser is
// restarted. Values below one disable recycling.
func WithRecycleAfter(n int64) BrowserOption {
	return func(b *Browser) {
		b.recycleAfter = n
	}
}

// NewBrowser launches a headless Chrome browser.
// Close must be called when the Browser is no longer needed.
func NewBrowser(opts ...BrowserOption) (*Browser, error) {
	b := &Browser{recycleAfter: DefaultRecycleAfter}
	for _, opt := range opts {
		opt(b)
	}

	browser, lnchr, err := launch()
	if err != nil {
		return nil, err
	}
	b.browser, b.launcher = browser, lnchr
	return b, nil
}

// Page opens a blank page bound to ctx. The returned release function closes
// the page and must be called exactly once.
func (b *Browser) Page(ctx context.Context) (*rod.Page, func(), error) {
	if b.closed.Load() {
		return nil, nil, errClosed()
	}
	if b.recycleAfter > 0 && b.rendered.Load() >= b.recycleAfter {
		b.recycle()
	}

	b.mu.RLock()
	if b.browser == nil {
		b.mu.RUnlock()
		return nil, nil, errClosed()
	}
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.mu.RUnlock()
		return nil, nil, err
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			_ = page.Close()
			b.rendered.Add(1)
			b.mu.RUnlock()
		})
	}
	return page.Context(ctx), release, nil
}

// Rendered returns the number of pages released since the last restart.
func (b *Browser) Rendered() int64 {
	return b.rendered.Load()
}

// Close shuts the browser down. Close is safe to call multiple times.
func (b *Browser) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher = nil
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher, or zero after
// Close.
func (b *Browser) LauncherPID() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.launcher == nil {
		return 0
	}
	return b.launcher.PID()
}

// recycle replaces the running browser with a fresh one. The old browser is
// kept when the new one fails to launch.
func (b *Browser) recycle() {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Another caller may have recycled while we waited for the lock.
	if b.browser == nil || b.rendered.Load() < b.recycleAfter {
		return
	}

	browser, lnchr, err := launch()
	if err != nil {
		return
	}
	_ = b.browser.Close()
	b.launcher.Kill()
	b.browser, b.launcher = browser, lnchr
	b.rendered.Store(0)
}

func launch() (*rod.Browser, *launcher.Launcher, error) {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return browser, lnchr, nil
}

func errClosed() error {
	return newsdoc.Errorf(newsdoc.EINVALID, "browser is closed")
}
