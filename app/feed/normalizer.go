package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/araddon/dateparse"
)

// Normalizer builds records, either live from a raw fragment or from a
// previously cached payload.
type Normalizer struct {
	resolver    *TypeResolver
	description *DescriptionNormalizer
}

func NewNormalizer(resolver *TypeResolver) *Normalizer {
	return &Normalizer{
		resolver:    resolver,
		description: NewDescriptionNormalizer(resolver),
	}
}

// FromRaw normalizes a raw fragment into a record. Extraction order is
// fixed: description images first, then enclosures, then media:content
// elements, each in document order. The order determines link table indices
// and must match between runs for cache round-trip equivalence.
func (n *Normalizer) FromRaw(ctx context.Context, feedTitle string, fragment *Fragment) (*Record, error) {
	if fragment.Title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrMalformedItem)
	}
	if fragment.Link == "" {
		return nil, fmt.Errorf("%w: missing link", ErrMalformedItem)
	}
	if fragment.Published == "" {
		return nil, fmt.Errorf("%w: missing publication date", ErrMalformedItem)
	}

	date, err := dateparse.ParseAny(fragment.Published)
	if err != nil {
		return nil, fmt.Errorf("%w: unparsable publication date %q", ErrMalformedItem, fragment.Published)
	}

	record := &Record{
		FeedTitle:     feedTitle,
		Title:         fragment.Title,
		URL:           fragment.Link,
		Date:          date,
		FormattedDate: date.Format(DateFormat),
		Links:         NewLinkTable(),
	}

	if strings.TrimSpace(fragment.Description) != "" {
		text, err := n.description.Run(ctx, fragment.Description, record.Links)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize description: %w", err)
		}
		record.Description = text
	}

	for _, enclosure := range fragment.Enclosures {
		record.Links.Append(Link{
			Kind: KindEnclosure,
			Type: n.resolver.Resolve(ctx, enclosure.URL, enclosure.Type),
			URL:  enclosure.URL,
		})
	}

	for _, media := range fragment.Media {
		record.Links.Append(Link{
			Kind: KindMedia,
			Type: n.resolver.Resolve(ctx, media.URL, media.Type),
			URL:  media.URL,
		})
	}

	return record, nil
}

// FromCached rebuilds a record from a cached flat payload: no re-parsing,
// no content-type probes and no re-derivation of the formatted date. The
// result renders byte-identical to the live normalization that produced
// the payload.
func (n *Normalizer) FromCached(feedTitle string, payload []byte) (*Record, error) {
	cached, err := decodeCached(payload)
	if err != nil {
		return nil, err
	}

	record := &Record{
		FeedTitle:     feedTitle,
		Title:         cached.Title,
		URL:           cached.URL,
		Description:   cached.Description,
		FormattedDate: cached.Date,
		Content:       cached.Content,
		Links:         NewLinkTable(),
	}

	for _, link := range cached.Links {
		kind := KindInlineImage
		switch {
		case link.Enclosure:
			kind = KindEnclosure
		case link.Media:
			kind = KindMedia
		}
		record.Links.Append(Link{
			Kind:       kind,
			Type:       link.Type,
			URL:        link.URL,
			Attributes: link.Attributes,
		})
	}

	return record, nil
}

// decodeCached strictly decodes a cached payload, verifying the keys a
// well-formed payload always carries.
func decodeCached(payload []byte) (*StructuredRecord, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupted, err)
	}

	for _, key := range []string{"title", "url", "date"} {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("%w: missing key %q", ErrCacheCorrupted, key)
		}
	}

	var cached StructuredRecord
	if err := json.Unmarshal(payload, &cached); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupted, err)
	}

	return &cached, nil
}
