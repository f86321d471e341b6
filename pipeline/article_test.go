package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/newsdoc"
	"github.com/fwojciec/newsdoc/charset"
	"github.com/fwojciec/newsdoc/goquery"
	"github.com/fwojciec/newsdoc/mock"
	"github.com/fwojciec/newsdoc/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/korean"
)

const (
	originalURL = "https://press.example.com/news/1"
	displayURL  = "https://n.news.example.com/mnews/article/1"
)

const longParagraph = "정부는 오늘 새로운 경제 정책을 발표했다.국회는 다음 주에 법안을 논의할 예정이다."

// pages serves canned bodies by URL; missing URLs fail.
func pages(bodies map[string]string) *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (*newsdoc.Page, error) {
			body, ok := bodies[url]
			if !ok {
				return nil, errors.New("connection refused")
			}
			return &newsdoc.Page{URL: url, Body: []byte(body)}, nil
		},
	}
}

// textSelector returns the text of the first <p>, or ErrNoContent.
func textSelector() *mock.ContentSelector {
	return &mock.ContentSelector{
		SelectFn: func(doc *html.Node, _ string) (string, error) {
			if p := findElement(doc, "p"); p != nil && p.FirstChild != nil {
				return p.FirstChild.Data, nil
			}
			return "", newsdoc.ErrNoContent
		},
	}
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func newArticleFetcher(f newsdoc.Fetcher) *pipeline.ArticleFetcher {
	return &pipeline.ArticleFetcher{
		Fetcher:  f,
		Decoder:  charset.NewDecoder(),
		Pruner:   goquery.NewPruner(goquery.DefaultDenylist...),
		Selector: textSelector(),
		Images:   goquery.NewImageHarvester(),
	}
}

func page(meta, paragraph string) string {
	return "<html><head>" + meta + "</head><body><h1>헤드라인</h1><p>" + paragraph + "</p></body></html>"
}

func eucKR(s string) ([]byte, error) {
	return korean.EUCKR.NewEncoder().Bytes([]byte(s))
}

func testItem() *newsdoc.Item {
	return &newsdoc.Item{
		Title:        "<b>선거</b> 결과 발표",
		Description:  "개표 &amp; 결과",
		PubDate:      time.Date(2024, time.April, 10, 12, 30, 0, 0, time.UTC),
		OriginalLink: originalURL,
		Link:         displayURL,
	}
}

func TestArticleFetcher_FetchArticle(t *testing.T) {
	t.Parallel()

	t.Run("extracts text and images from canonical source", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		inner := pages(map[string]string{
			originalURL: page(`<meta property="og:image" content="https://img.example.com/a.jpg">`, longParagraph),
		})
		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*newsdoc.Page, error) {
				fetched = append(fetched, url)
				return inner.FetchFn(ctx, url)
			},
		}

		article := newArticleFetcher(fetcher).FetchArticle(context.Background(), testItem())

		assert.Equal(t, []string{originalURL}, fetched, "display URL must not be fetched")
		assert.Equal(t, "선거 결과 발표", article.Title)
		assert.Equal(t, "개표 & 결과", article.Description)
		assert.Equal(t, "2024년 04월 10일 21:30", article.PubDate)
		assert.Equal(t, []string{"https://img.example.com/a.jpg"}, article.ImageURLs)
		require.NotNil(t, article.ArticleText)
		assert.Equal(t, "정부는 오늘 새로운 경제 정책을 발표했다.\n\n국회는 다음 주에 법안을 논의할 예정이다.", *article.ArticleText)
		assert.Equal(t, newsdoc.DefaultCharset, article.Charset)
	})

	t.Run("falls back to display URL when canonical source has no images", func(t *testing.T) {
		t.Parallel()

		fetcher := pages(map[string]string{
			originalURL: page("", "원문 기사 본문은 충분히 길어서 정규화 후에도 남는다."),
			displayURL:  page(`<meta property="og:image" content="https://img.example.com/b.png">`, longParagraph),
		})

		article := newArticleFetcher(fetcher).FetchArticle(context.Background(), testItem())

		assert.Equal(t, []string{"https://img.example.com/b.png"}, article.ImageURLs)
		require.NotNil(t, article.ArticleText)
		assert.Contains(t, *article.ArticleText, "정부는 오늘")
	})

	t.Run("keeps previous body when a later source fails", func(t *testing.T) {
		t.Parallel()

		fetcher := pages(map[string]string{
			originalURL: page("", longParagraph),
		})

		article := newArticleFetcher(fetcher).FetchArticle(context.Background(), testItem())

		assert.Empty(t, article.ImageURLs)
		require.NotNil(t, article.ArticleText)
		assert.Contains(t, *article.ArticleText, "정부는 오늘")
	})

	t.Run("later completed source without content clears the body", func(t *testing.T) {
		t.Parallel()

		fetcher := pages(map[string]string{
			originalURL: page("", longParagraph),
			displayURL:  "<html><body><div>no paragraphs</div></body></html>",
		})

		article := newArticleFetcher(fetcher).FetchArticle(context.Background(), testItem())

		assert.Nil(t, article.ArticleText)
		assert.Empty(t, article.ImageURLs)
	})

	t.Run("returns empty article when every source fails", func(t *testing.T) {
		t.Parallel()

		article := newArticleFetcher(pages(nil)).FetchArticle(context.Background(), testItem())

		require.NotNil(t, article)
		assert.NotNil(t, article.ImageURLs)
		assert.Empty(t, article.ImageURLs)
		assert.Nil(t, article.ArticleText)
		assert.Equal(t, "선거 결과 발표", article.Title)
		assert.Equal(t, newsdoc.DefaultCharset, article.Charset)
	})

	t.Run("keeps images when selection fails and stops", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		fetcher := pages(map[string]string{
			originalURL: page(`<meta name="twitter:image" content="https://img.example.com/c.JPG">`, longParagraph),
			displayURL:  page(`<meta property="og:image" content="https://img.example.com/d.png">`, longParagraph),
		})
		af := newArticleFetcher(fetcher)
		af.Selector = &mock.ContentSelector{
			SelectFn: func(*html.Node, string) (string, error) {
				calls.Add(1)
				return "", errors.New("extractor exploded")
			},
		}

		article := af.FetchArticle(context.Background(), testItem())

		assert.Equal(t, []string{"https://img.example.com/c.JPG"}, article.ImageURLs)
		assert.Nil(t, article.ArticleText)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("recovers from a panicking extractor", func(t *testing.T) {
		t.Parallel()

		fetcher := pages(map[string]string{
			originalURL: page(`<meta property="og:image" content="https://img.example.com/a.gif">`, longParagraph),
		})
		af := newArticleFetcher(fetcher)
		af.Selector = &mock.ContentSelector{
			SelectFn: func(*html.Node, string) (string, error) {
				panic("nil map")
			},
		}

		var article *newsdoc.Article
		require.NotPanics(t, func() {
			article = af.FetchArticle(context.Background(), testItem())
		})
		assert.Equal(t, []string{"https://img.example.com/a.gif"}, article.ImageURLs)
		assert.Nil(t, article.ArticleText)
	})

	t.Run("treats empty normalized text as absent", func(t *testing.T) {
		t.Parallel()

		fetcher := pages(map[string]string{
			originalURL: page("", "짧은 글"),
		})

		article := newArticleFetcher(fetcher).FetchArticle(context.Background(), testItem())

		assert.Nil(t, article.ArticleText)
	})

	t.Run("decodes EUC-KR pages and reports the label", func(t *testing.T) {
		t.Parallel()

		body, err := eucKR(page("", longParagraph))
		require.NoError(t, err)
		fetcher := &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*newsdoc.Page, error) {
				return &newsdoc.Page{URL: url, Body: body}, nil
			},
		}

		article := newArticleFetcher(fetcher).FetchArticle(context.Background(), testItem())

		require.NotNil(t, article.ArticleText)
		assert.True(t, strings.HasPrefix(*article.ArticleText, "정부는"))
		assert.Equal(t, "EUC-KR", article.Charset)
	})

	t.Run("prefers item charset over decoder label", func(t *testing.T) {
		t.Parallel()

		var declared string
		af := newArticleFetcher(pages(map[string]string{originalURL: page("", longParagraph)}))
		af.Decoder = &mock.Decoder{
			DecodeFn: func(body []byte, d string) (string, string) {
				declared = d
				return string(body), "UTF-8"
			},
		}
		item := testItem()
		item.Charset = "EUC-KR"

		article := af.FetchArticle(context.Background(), item)

		assert.Equal(t, "EUC-KR", declared)
		assert.Equal(t, "EUC-KR", article.Charset)
	})

	t.Run("passes page charset to decoder when item declares none", func(t *testing.T) {
		t.Parallel()

		var declared string
		af := newArticleFetcher(&mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*newsdoc.Page, error) {
				return &newsdoc.Page{URL: url, Body: []byte(page("", longParagraph)), Charset: "UTF-8"}, nil
			},
		})
		af.Decoder = &mock.Decoder{
			DecodeFn: func(body []byte, d string) (string, string) {
				declared = d
				return string(body), d
			},
		}

		_ = af.FetchArticle(context.Background(), testItem())

		assert.Equal(t, "UTF-8", declared)
	})

	t.Run("retries failed fetches", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		af := newArticleFetcher(&mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*newsdoc.Page, error) {
				if calls.Add(1) == 1 {
					return nil, errors.New("connection reset")
				}
				return &newsdoc.Page{URL: url, Body: []byte(page(`<meta content="x.png">`, longParagraph))}, nil
			},
		})
		af.RetryDelays = []time.Duration{0}

		article := af.FetchArticle(context.Background(), testItem())

		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, []string{"x.png"}, article.ImageURLs)
	})

	t.Run("skips empty source URLs", func(t *testing.T) {
		t.Parallel()

		var fetched []string
		af := newArticleFetcher(&mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*newsdoc.Page, error) {
				fetched = append(fetched, url)
				return nil, errors.New("down")
			},
		})
		item := testItem()
		item.OriginalLink = ""

		_ = af.FetchArticle(context.Background(), item)

		assert.Equal(t, []string{displayURL}, fetched)
	})
	t.Run("fetches source URLs verbatim", func(t *testing.T) {
		t.Parallel()

		const rawURL = "https://press.example.com/view.php?id=1&reg=2&not=3&region=4"
		var fetched []string
		af := newArticleFetcher(&mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*newsdoc.Page, error) {
				fetched = append(fetched, url)
				return &newsdoc.Page{URL: url, Body: []byte(page(`<meta content="x.png">`, longParagraph))}, nil
			},
		})
		item := testItem()
		item.OriginalLink = rawURL

		article := af.FetchArticle(context.Background(), item)

		assert.Equal(t, []string{rawURL}, fetched)
		assert.Equal(t, rawURL, article.OriginalLink)
	})
}
