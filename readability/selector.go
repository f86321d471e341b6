// Package readability implements newsdoc.ContentSelector with
// github.com/go-shiori/go-readability, a port of Mozilla's Readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/newsdoc"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Ensure Selector implements newsdoc.ContentSelector at compile time.
var _ newsdoc.ContentSelector = (*Selector)(nil)

// Selector scores the regions of a document by text density and returns
// the text of the best one.
type Selector struct{}

// NewSelector creates a new Selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Select returns the text content of the main article region of doc.
// The document is not modified.
func (s *Selector) Select(doc *html.Node, pageURL string) (string, error) {
	if doc == nil {
		return "", newsdoc.Errorf(newsdoc.EINVALID, "nil document")
	}

	article, err := readability.FromDocument(doc, parseURL(pageURL))
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", newsdoc.ErrNoContent
	}
	return text, nil
}

// parseURL returns the parsed page URL, or nil if it is empty or invalid.
func parseURL(raw string) *url.URL {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return u
}
