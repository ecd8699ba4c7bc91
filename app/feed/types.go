package feed

import (
	"errors"
	"time"
)

// DateFormat is the fixed layout for Record.FormattedDate. The formatted
// string is computed once during live normalization and stored verbatim in
// the cache, so cached records never re-derive it.
const DateFormat = "Mon, 02 Jan 2006 15:04:05"

// UnknownType is the sentinel content type used when neither a probe nor a
// declared type yields an answer.
const UnknownType = "unknown"

var (
	// ErrMalformedItem marks a raw fragment missing a required field
	// (title, link or publication date). Fatal for that single item; the
	// caller decides between skip-and-continue and aborting the feed.
	ErrMalformedItem = errors.New("malformed feed item")

	// ErrCacheCorrupted marks a cached payload missing an expected key.
	ErrCacheCorrupted = errors.New("corrupted cached item")
)

// LinkKind classifies a media reference discovered in a feed item.
type LinkKind int

const (
	KindInlineImage LinkKind = iota
	KindEnclosure
	KindMedia
)

func (k LinkKind) String() string {
	switch k {
	case KindEnclosure:
		return "enclosure"
	case KindMedia:
		return "media"
	default:
		return "image"
	}
}

// Link describes one media reference. Immutable once appended to a table.
type Link struct {
	Kind       LinkKind
	Type       string
	URL        string
	Attributes map[string]string
}

// MediaRef is an enclosure or media:content reference together with the
// type its element declared, if any.
type MediaRef struct {
	URL  string
	Type string
}

// Fragment is one raw feed item as produced by the Source: the item's child
// elements before any normalization. Enclosures and Media preserve document
// order.
type Fragment struct {
	Title       string
	Link        string
	Description string
	Published   string // raw pubDate, or published for Atom entries
	Enclosures  []MediaRef
	Media       []MediaRef
}

// Record is a normalized feed item. Constructed once, either from a raw
// fragment or from a cached payload, and not mutated afterwards.
type Record struct {
	FeedTitle     string
	Title         string
	URL           string
	Description   string    // empty when the item carried no description
	Date          time.Time // zero on the cache path
	FormattedDate string
	Content       string // extracted article text, when extraction is enabled
	Links         *LinkTable
}

// StructuredLink is the flat serialized form of a Link.
type StructuredLink struct {
	Enclosure  bool              `json:"enclosure"`
	Media      bool              `json:"media"`
	Type       string            `json:"type"`
	URL        string            `json:"url"`
	Attributes map[string]string `json:"attributes"`
}

// StructuredRecord is the flat representation consumed by the cache and by
// machine-readable export. Date holds the pre-formatted date string.
type StructuredRecord struct {
	Title       string           `json:"title"`
	URL         string           `json:"url"`
	Description string           `json:"description,omitempty"`
	Date        string           `json:"date"`
	Content     string           `json:"content,omitempty"`
	Links       []StructuredLink `json:"links,omitempty"`
}

// ToStructured returns the flat representation of the record.
func (r *Record) ToStructured() StructuredRecord {
	structured := StructuredRecord{
		Title:       r.Title,
		URL:         r.URL,
		Description: r.Description,
		Date:        r.FormattedDate,
		Content:     r.Content,
	}

	for _, link := range r.Links.All() {
		structured.Links = append(structured.Links, StructuredLink{
			Enclosure:  link.Kind == KindEnclosure,
			Media:      link.Kind == KindMedia,
			Type:       link.Type,
			URL:        link.URL,
			Attributes: link.Attributes,
		})
	}

	return structured
}
