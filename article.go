package newsdoc

import (
	"context"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// DefaultCharset is reported for articles whose source declared no charset.
const DefaultCharset = "UTF-8"

// PubDateLayout is the human-readable layout of Article.PubDate.
const PubDateLayout = "2006년 01월 02일 15:04"

// kst is Korea Standard Time. Korea has not observed daylight saving since 1988.
var kst = time.FixedZone("KST", 9*60*60)

// Item is a raw candidate returned by the news search provider.
// Title and Description may contain markup.
type Item struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PubDate      time.Time `json:"pubDate"`
	OriginalLink string    `json:"originallink"`
	Link         string    `json:"link"`
	Charset      string    `json:"charset,omitempty"`
}

// Sources returns the URLs to extract the article from, in fallback order:
// the canonical source first, then the display URL. Empty URLs are skipped.
func (i *Item) Sources() []string {
	sources := make([]string, 0, 2)
	for _, u := range []string{i.OriginalLink, i.Link} {
		if u != "" {
			sources = append(sources, u)
		}
	}
	return sources
}

// Article is the extraction result for one Item.
// ImageURLs is never nil. ArticleText is nil when no body could be extracted.
type Article struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	PubDate      string   `json:"pubDate"`
	OriginalLink string   `json:"originallink"`
	Link         string   `json:"link"`
	ImageURLs    []string `json:"imageUrls"`
	ArticleText  *string  `json:"articleText"`
	Charset      string   `json:"charset"`
}

// ArticleFetcher builds an Article from a search result.
type ArticleFetcher interface {
	// FetchArticle always returns an Article. Failures while fetching or
	// extracting sources are absorbed and leave the body nil and/or the
	// image list empty.
	FetchArticle(ctx context.Context, item *Item) *Article
}

// FormatPubDate formats t as "YYYY년 MM월 DD일 HH:MM" in Korea Standard Time.
// The zero time formats as an empty string.
func FormatPubDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(kst).Format(PubDateLayout)
}

// StripMarkup returns the text content of an HTML fragment with tags
// removed and character references decoded.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
