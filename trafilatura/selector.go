// Package trafilatura implements newsdoc.ContentSelector with
// github.com/markusmobius/go-trafilatura.
package trafilatura

import (
	"net/url"
	"strings"

	"github.com/fwojciec/newsdoc"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Selector implements newsdoc.ContentSelector at compile time.
var _ newsdoc.ContentSelector = (*Selector)(nil)

// Selector extracts the main text with trafilatura, falling back to its
// readability and dom-distiller ports when its own heuristics find too little.
type Selector struct{}

// NewSelector creates a new Selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Select returns the text content of the main article region of doc.
func (s *Selector) Select(doc *html.Node, pageURL string) (string, error) {
	if doc == nil {
		return "", newsdoc.Errorf(newsdoc.EINVALID, "nil document")
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	}
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			opts.OriginalURL = u
		}
	}

	result, err := trafilatura.ExtractDocument(doc, opts)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(result.ContentText)
	if text == "" {
		return "", newsdoc.ErrNoContent
	}
	return text, nil
}
