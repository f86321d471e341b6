package newsdoc

import "golang.org/x/net/html"

// Pruner removes boilerplate elements (navigation, captions, bylines, lists)
// from a parsed document in place.
type Pruner interface {
	Prune(doc *html.Node)
}

// ContentSelector finds the region of a document most likely to be the
// article body and returns its flattened text.
type ContentSelector interface {
	// Select returns ErrNoContent when no region qualifies.
	// pageURL is used to resolve relative references and may be empty.
	Select(doc *html.Node, pageURL string) (string, error)
}

// ImageHarvester collects candidate representative image URLs from a
// document's metadata, in document order.
type ImageHarvester interface {
	Harvest(doc *html.Node) []string
}
