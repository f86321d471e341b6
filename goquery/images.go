package goquery

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/newsdoc"
	"golang.org/x/net/html"
)

// imageRe matches values that reference an image file.
var imageRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|gif|png)`)

// Ensure ImageHarvester implements newsdoc.ImageHarvester at compile time.
var _ newsdoc.ImageHarvester = (*ImageHarvester)(nil)

// ImageHarvester collects image URLs from <meta> tags such as og:image and
// twitter:image.
type ImageHarvester struct{}

// NewImageHarvester creates a new ImageHarvester.
func NewImageHarvester() *ImageHarvester {
	return &ImageHarvester{}
}

// Harvest returns the content of every meta tag whose content references
// an image file, in document order. Values are neither deduplicated nor
// validated.
func (h *ImageHarvester) Harvest(doc *html.Node) []string {
	images := []string{}
	if doc == nil {
		return images
	}

	goquery.NewDocumentFromNode(doc).Find("meta").Each(func(_ int, sel *goquery.Selection) {
		content, exists := sel.Attr("content")
		if !exists || content == "" {
			return
		}
		if imageRe.MatchString(content) {
			images = append(images, content)
		}
	})
	return images
}
