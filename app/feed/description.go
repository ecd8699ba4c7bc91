package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DescriptionNormalizer rewrites an HTML description fragment into plain
// text. Every inline image is registered into the item's link table and
// replaced in place with a positional "[image N]" token. Registration and
// substitution happen in one document traversal, so indices follow document
// order.
type DescriptionNormalizer struct {
	resolver *TypeResolver
}

func NewDescriptionNormalizer(resolver *TypeResolver) *DescriptionNormalizer {
	return &DescriptionNormalizer{resolver: resolver}
}

func (n *DescriptionNormalizer) Run(ctx context.Context, fragment string, table *LinkTable) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse description: %w", err)
	}

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok {
			src = img.AttrOr("url", "")
		}
		alt := img.AttrOr("alt", "")

		index := table.Append(Link{
			Kind:       KindInlineImage,
			Type:       n.resolver.Resolve(ctx, src, ""),
			URL:        src,
			Attributes: map[string]string{"alt": alt},
		})

		token := fmt.Sprintf("[image %d]", index)
		if alt != "" {
			token = fmt.Sprintf("[image %d: %s]", index, alt)
		}
		img.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: token})
	})

	return doc.Text(), nil
}
