// Package goquery implements the document-level stages of article
// extraction with github.com/PuerkitoBio/goquery: boilerplate pruning and
// image harvesting.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/newsdoc"
	"golang.org/x/net/html"
)

// DefaultDenylist selects elements that never belong to an article body on
// Korean news sites: headings, links, inline spans, lists, tables, captions,
// and the reporter, date-stamp and copyright containers.
var DefaultDenylist = []string{
	"h1", "h2", "h3", "h4", "h5", "h6",
	".heading", ".title",
	"a", "span",
	"ul", "li",
	"table",
	"figcaption",
	".reveal-container",
	".date-repoter",
	".copy_info",
}

// Ensure Pruner implements newsdoc.Pruner at compile time.
var _ newsdoc.Pruner = (*Pruner)(nil)

// Pruner removes every element matching a denylist of CSS selectors.
type Pruner struct {
	selector string
}

// NewPruner creates a Pruner for the given selectors.
// With no selectors it uses DefaultDenylist.
func NewPruner(selectors ...string) *Pruner {
	if len(selectors) == 0 {
		selectors = DefaultDenylist
	}
	return &Pruner{selector: strings.Join(selectors, ", ")}
}

// Prune removes matching elements, with their subtrees, from doc.
func (p *Pruner) Prune(doc *html.Node) {
	if doc == nil {
		return
	}
	goquery.NewDocumentFromNode(doc).Find(p.selector).Remove()
}
