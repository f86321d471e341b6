// Package naver implements newsdoc.Searcher against the Naver news search API.
package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fwojciec/newsdoc"
)

// DefaultBaseURL is the Naver Open API endpoint.
const DefaultBaseURL = "https://openapi.naver.com"

// DefaultTimeout bounds a search request.
const DefaultTimeout = 10 * time.Second

// Search parameters. One page of the ten most relevant results.
const (
	displayCount = 10
	startIndex   = 1
	sortOrder    = "sim"
)

var _ newsdoc.Searcher = (*Searcher)(nil)

// Searcher queries the Naver news search API.
type Searcher struct {
	clientID     string
	clientSecret string
	baseURL      string
	client       *http.Client
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithBaseURL overrides the API endpoint. Used in tests.
func WithBaseURL(u string) Option {
	return func(s *Searcher) {
		s.baseURL = u
	}
}

// WithHTTPClient sets the client used for API requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Searcher) {
		s.client = c
	}
}

// NewSearcher creates a Searcher authenticating with the given credentials.
func NewSearcher(clientID, clientSecret string, opts ...Option) *Searcher {
	s := &Searcher{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      DefaultBaseURL,
		client:       &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// searchResponse is the subset of the API response that newsdoc uses.
type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Title        string `json:"title"`
	OriginalLink string `json:"originallink"`
	Link         string `json:"link"`
	Description  string `json:"description"`
	PubDate      string `json:"pubDate"`
	Charset      string `json:"charset"`
}

// Search returns the ten most relevant news items for term.
// Any failure is reported as *newsdoc.UpstreamError; non-2xx responses carry
// their status code.
func (s *Searcher) Search(ctx context.Context, term string) ([]*newsdoc.Item, error) {
	q := url.Values{}
	q.Set("query", term)
	q.Set("display", strconv.Itoa(displayCount))
	q.Set("start", strconv.Itoa(startIndex))
	q.Set("sort", sortOrder)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/search/news.json?"+q.Encode(), nil)
	if err != nil {
		return nil, &newsdoc.UpstreamError{Err: err}
	}
	req.Header.Set("X-Naver-Client-Id", s.clientID)
	req.Header.Set("X-Naver-Client-Secret", s.clientSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &newsdoc.UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &newsdoc.UpstreamError{StatusCode: resp.StatusCode}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &newsdoc.UpstreamError{Err: fmt.Errorf("decode response: %w", err)}
	}

	items := make([]*newsdoc.Item, 0, len(body.Items))
	for _, it := range body.Items {
		items = append(items, &newsdoc.Item{
			Title:        it.Title,
			Description:  it.Description,
			PubDate:      parsePubDate(it.PubDate),
			OriginalLink: it.OriginalLink,
			Link:         it.Link,
			Charset:      it.Charset,
		})
	}
	return items, nil
}

// parsePubDate parses the API's RFC 1123 timestamps. Unparseable values
// become the zero time.
func parsePubDate(s string) time.Time {
	t, err := time.Parse(time.RFC1123Z, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
