package inmem_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/newsdoc"
	"github.com/fwojciec/newsdoc/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clock is a manually advanced time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newCache(ttl time.Duration) (*inmem.Cache, *clock) {
	clk := &clock{now: time.Date(2024, time.April, 10, 9, 0, 0, 0, time.UTC)}
	c := inmem.NewCache(ttl)
	c.Now = clk.Now
	return c, clk
}

func articles(titles ...string) []*newsdoc.Article {
	out := make([]*newsdoc.Article, len(titles))
	for i, title := range titles {
		out[i] = &newsdoc.Article{Title: title, ImageURLs: []string{}, Charset: newsdoc.DefaultCharset}
	}
	return out
}

func TestCache_Get(t *testing.T) {
	t.Parallel()

	t.Run("returns ENOTFOUND for unknown term", func(t *testing.T) {
		t.Parallel()

		c, _ := newCache(time.Hour)

		_, err := c.Get(context.Background(), "election")

		assert.Equal(t, newsdoc.ENOTFOUND, newsdoc.ErrorCode(err))
	})

	t.Run("returns stored entry within TTL", func(t *testing.T) {
		t.Parallel()

		c, clk := newCache(time.Hour)
		want := articles("선거")
		require.NoError(t, c.Put(context.Background(), "election", want))

		clk.Advance(59 * time.Minute)
		entry, err := c.Get(context.Background(), "election")

		require.NoError(t, err)
		assert.Equal(t, "election", entry.Term)
		assert.Equal(t, want, entry.Articles)
	})

	t.Run("expires entry once TTL elapses", func(t *testing.T) {
		t.Parallel()

		c, clk := newCache(time.Hour)
		require.NoError(t, c.Put(context.Background(), "election", articles("선거")))

		clk.Advance(time.Hour)
		_, err := c.Get(context.Background(), "election")

		assert.Equal(t, newsdoc.ENOTFOUND, newsdoc.ErrorCode(err))
		assert.Zero(t, c.Len(), "expired entry should be dropped")
	})

	t.Run("normalizes whitespace in terms", func(t *testing.T) {
		t.Parallel()

		c, _ := newCache(time.Hour)
		require.NoError(t, c.Put(context.Background(), "  대통령   선거 ", articles("선거")))

		entry, err := c.Get(context.Background(), "대통령 선거")

		require.NoError(t, err)
		assert.Equal(t, "대통령 선거", entry.Term)
	})
}

func TestCache_Put(t *testing.T) {
	t.Parallel()

	t.Run("overwrites entry and resets timestamp", func(t *testing.T) {
		t.Parallel()

		c, clk := newCache(time.Hour)
		require.NoError(t, c.Put(context.Background(), "election", articles("old")))

		clk.Advance(50 * time.Minute)
		require.NoError(t, c.Put(context.Background(), "election", articles("new")))

		clk.Advance(50 * time.Minute)
		entry, err := c.Get(context.Background(), "election")

		require.NoError(t, err)
		assert.Equal(t, "new", entry.Articles[0].Title)
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		c, _ := newCache(time.Hour)

		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				term := "term"
				if i%2 == 0 {
					_ = c.Put(context.Background(), term, articles("x"))
				} else {
					_, _ = c.Get(context.Background(), term)
				}
			}()
		}
		wg.Wait()

		entry, err := c.Get(context.Background(), "term")
		require.NoError(t, err)
		assert.Len(t, entry.Articles, 1)
	})
}

func TestCache_Expire(t *testing.T) {
	t.Parallel()

	t.Run("removes entry", func(t *testing.T) {
		t.Parallel()

		c, _ := newCache(time.Hour)
		require.NoError(t, c.Put(context.Background(), "election", articles("선거")))

		require.NoError(t, c.Expire(context.Background(), "election"))

		_, err := c.Get(context.Background(), "election")
		assert.Equal(t, newsdoc.ENOTFOUND, newsdoc.ErrorCode(err))
	})

	t.Run("missing term is not an error", func(t *testing.T) {
		t.Parallel()

		c, _ := newCache(time.Hour)

		assert.NoError(t, c.Expire(context.Background(), "missing"))
	})
}

func TestNewCache(t *testing.T) {
	t.Parallel()

	c, clk := newCache(0)
	require.NoError(t, c.Put(context.Background(), "election", articles("선거")))

	clk.Advance(newsdoc.DefaultCacheTTL - time.Second)
	_, err := c.Get(context.Background(), "election")

	assert.NoError(t, err, "zero TTL should fall back to the default")
}
