package mock

import (
	"github.com/fwojciec/newsdoc"
	"golang.org/x/net/html"
)

var _ newsdoc.Pruner = (*Pruner)(nil)

// Pruner is a mock implementation of newsdoc.Pruner.
type Pruner struct {
	PruneFn func(doc *html.Node)
}

func (p *Pruner) Prune(doc *html.Node) {
	p.PruneFn(doc)
}

var _ newsdoc.ContentSelector = (*ContentSelector)(nil)

// ContentSelector is a mock implementation of newsdoc.ContentSelector.
type ContentSelector struct {
	SelectFn func(doc *html.Node, pageURL string) (string, error)
}

func (s *ContentSelector) Select(doc *html.Node, pageURL string) (string, error) {
	return s.SelectFn(doc, pageURL)
}

var _ newsdoc.ImageHarvester = (*ImageHarvester)(nil)

// ImageHarvester is a mock implementation of newsdoc.ImageHarvester.
type ImageHarvester struct {
	HarvestFn func(doc *html.Node) []string
}

func (h *ImageHarvester) Harvest(doc *html.Node) []string {
	return h.HarvestFn(doc)
}
