package feed

import (
	"bytes"
	"cmp"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// Source parses a fetched feed document into the feed title and the ordered
// raw item fragments consumed by the normalizer.
type Source struct {
	gofeedParser *gofeed.Parser
}

func NewSource() *Source {
	return &Source{
		gofeedParser: gofeed.NewParser(),
	}
}

func (s *Source) Run(data []byte) (string, []*Fragment, error) {
	parsed, err := s.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	fragments := make([]*Fragment, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		fragments = append(fragments, s.fragment(item))
	}

	return parsed.Title, fragments, nil
}

func (s *Source) fragment(item *gofeed.Item) *Fragment {
	fragment := &Fragment{
		Title:       item.Title,
		Link:        item.Link,
		Description: item.Description,
		// pubDate for RSS items, published (or updated) for Atom entries
		Published: cmp.Or(item.Published, item.Updated),
	}

	for _, enclosure := range item.Enclosures {
		if enclosure == nil || enclosure.URL == "" {
			continue
		}
		fragment.Enclosures = append(fragment.Enclosures, MediaRef{
			URL:  enclosure.URL,
			Type: enclosure.Type,
		})
	}

	// media:content elements arrive through the gofeed media extension,
	// in document order.
	for _, content := range item.Extensions["media"]["content"] {
		url := content.Attrs["url"]
		if url == "" {
			continue
		}
		fragment.Media = append(fragment.Media, MediaRef{
			URL:  url,
			Type: content.Attrs["type"],
		})
	}

	return fragment
}
