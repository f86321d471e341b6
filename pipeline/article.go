package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/newsdoc"
	"golang.org/x/net/html"
)

var _ newsdoc.ArticleFetcher = (*ArticleFetcher)(nil)

// ArticleFetcher builds an Article from a search result by fetching its
// source pages in order until one yields images.
type ArticleFetcher struct {
	Fetcher  newsdoc.Fetcher
	Decoder  newsdoc.Decoder
	Pruner   newsdoc.Pruner
	Selector newsdoc.ContentSelector
	Images   newsdoc.ImageHarvester
	Logger   *slog.Logger

	// RetryDelays are the waits between page fetch retries.
	// Nil means each source is fetched once.
	RetryDelays []time.Duration
}

// attempt is the outcome of extracting one source page.
type attempt struct {
	images []string
	text   *string
	label  string

	// completed is true when the attempt ran through text normalization,
	// even if no content region was found.
	completed bool
}

// FetchArticle extracts the article for item. It never fails: source
// failures are logged and leave the body nil and the image list empty.
func (f *ArticleFetcher) FetchArticle(ctx context.Context, item *newsdoc.Item) *newsdoc.Article {
	logger := loggerOrDiscard(f.Logger)

	article := &newsdoc.Article{
		Title:        newsdoc.StripMarkup(item.Title),
		Description:  newsdoc.StripMarkup(item.Description),
		PubDate:      newsdoc.FormatPubDate(item.PubDate),
		OriginalLink: item.OriginalLink,
		Link:         item.Link,
		ImageURLs:    []string{},
	}

	var label string
	// Links are used verbatim: entity decoding would rewrite query strings
	// such as "&region=" into "®ion=".
	for _, src := range item.Sources() {
		if len(article.ImageURLs) > 0 {
			break
		}
		if ctx.Err() != nil {
			break
		}

		a, err := f.extract(ctx, src, item.Charset)
		article.ImageURLs = append(article.ImageURLs, a.images...)
		if a.completed {
			article.ArticleText = a.text
			label = a.label
		}
		if err != nil {
			logger.Warn("article source failed",
				"term", termFrom(ctx),
				"url", src,
				"err", err,
			)
		}
	}

	switch {
	case item.Charset != "":
		article.Charset = item.Charset
	case label != "":
		article.Charset = label
	default:
		article.Charset = newsdoc.DefaultCharset
	}

	return article
}

// extract runs one source through fetch, decode, parse, harvest, prune,
// select and normalize. Images harvested before a later step fails are
// returned alongside the error. A panic in any step is returned as an error.
func (f *ArticleFetcher) extract(ctx context.Context, url, declared string) (a attempt, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract %s: panic: %v", url, r)
			a.completed = false
		}
	}()

	page, err := fetchWithRetry(ctx, f.Fetcher, url, f.RetryDelays, func(n int, err error) {
		loggerOrDiscard(f.Logger).Debug("retrying page fetch", "url", url, "attempt", n, "err", err)
	})
	if err != nil {
		return a, fmt.Errorf("fetch: %w", err)
	}

	if declared == "" {
		declared = page.Charset
	}
	text, label := f.Decoder.Decode(page.Body, declared)

	doc, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return a, fmt.Errorf("parse: %w", err)
	}

	a.images = f.Images.Harvest(doc)

	f.Pruner.Prune(doc)

	content, err := f.Selector.Select(doc, url)
	a.label = label
	switch {
	case errors.Is(err, newsdoc.ErrNoContent):
		a.completed = true
		return a, nil
	case err != nil:
		return a, fmt.Errorf("select: %w", err)
	}

	if normalized := newsdoc.NormalizeText(content); normalized != "" {
		a.text = &normalized
	}
	a.completed = true
	return a, nil
}
