package feed

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func newTestNormalizer(contentTypes map[string]string) *Normalizer {
	return NewNormalizer(NewTypeResolver(&fakeFetcher{contentTypes: contentTypes}))
}

func TestFromRawNormalizesItem(t *testing.T) {
	normalizer := newTestNormalizer(map[string]string{"http://y/i.png": "image/png"})

	fragment := &Fragment{
		Title:       "A",
		Link:        "http://x",
		Published:   "Mon, 02 Jan 2023 10:00:00 GMT",
		Description: `<p>hi <img src='http://y/i.png' alt=''></p>`,
	}

	record, err := normalizer.FromRaw(context.Background(), "Test Feed", fragment)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if record.FeedTitle != "Test Feed" {
		t.Errorf("Expected feed title 'Test Feed', got: %s", record.FeedTitle)
	}
	if record.Title != "A" {
		t.Errorf("Expected title 'A', got: %s", record.Title)
	}
	if record.URL != "http://x" {
		t.Errorf("Expected URL 'http://x', got: %s", record.URL)
	}
	if record.FormattedDate != "Mon, 02 Jan 2023 10:00:00" {
		t.Errorf("Expected formatted date 'Mon, 02 Jan 2023 10:00:00', got: %s", record.FormattedDate)
	}
	if record.Description != "hi [image 0]" {
		t.Errorf("Expected description 'hi [image 0]', got: %q", record.Description)
	}

	if record.Links.Len() != 1 {
		t.Fatalf("Expected 1 link, got: %d", record.Links.Len())
	}
	link := record.Links.Get(0)
	if link.Kind != KindInlineImage {
		t.Errorf("Expected inline image kind, got: %s", link.Kind)
	}
	if link.URL != "http://y/i.png" {
		t.Errorf("Expected URL 'http://y/i.png', got: %s", link.URL)
	}
	if alt, ok := link.Attributes["alt"]; !ok || alt != "" {
		t.Errorf("Expected empty alt attribute, got: %q (present: %t)", alt, ok)
	}
}

func TestFromRawExtractionOrderDeterminesIndices(t *testing.T) {
	normalizer := newTestNormalizer(map[string]string{
		"http://y/img1.png": "image/png",
		"http://y/img2.png": "image/png",
		"http://y/e1.mp3":   "audio/mpeg",
		"http://y/e2.pdf":   "application/pdf",
		"http://y/m1.jpg":   "image/jpeg",
	})

	fragment := &Fragment{
		Title:       "Ordered",
		Link:        "http://x",
		Published:   "2023-01-02T10:00:00Z",
		Description: `<p><img src="http://y/img1.png" alt="a"><img src="http://y/img2.png" alt="b"></p>`,
		Enclosures: []MediaRef{
			{URL: "http://y/e1.mp3", Type: "audio/mpeg"},
			{URL: "http://y/e2.pdf"},
		},
		Media: []MediaRef{
			{URL: "http://y/m1.jpg", Type: "image/jpeg"},
		},
	}

	record, err := normalizer.FromRaw(context.Background(), "Feed", fragment)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if record.Links.Len() != 5 {
		t.Fatalf("Expected 5 links, got: %d", record.Links.Len())
	}

	expected := []struct {
		kind LinkKind
		url  string
	}{
		{KindInlineImage, "http://y/img1.png"},
		{KindInlineImage, "http://y/img2.png"},
		{KindEnclosure, "http://y/e1.mp3"},
		{KindEnclosure, "http://y/e2.pdf"},
		{KindMedia, "http://y/m1.jpg"},
	}
	for i, want := range expected {
		link := record.Links.Get(i)
		if link.Kind != want.kind || link.URL != want.url {
			t.Errorf("Index %d: expected %s %s, got: %s %s", i, want.kind, want.url, link.Kind, link.URL)
		}
	}

	if record.Description != "[image 0: a][image 1: b]" {
		t.Errorf("Expected '[image 0: a][image 1: b]', got: %q", record.Description)
	}
}

func TestFromRawRejectsMalformedItems(t *testing.T) {
	normalizer := newTestNormalizer(nil)

	fragments := map[string]*Fragment{
		"missing title":   {Link: "http://x", Published: "Mon, 02 Jan 2023 10:00:00 GMT"},
		"missing link":    {Title: "A", Published: "Mon, 02 Jan 2023 10:00:00 GMT"},
		"missing date":    {Title: "A", Link: "http://x"},
		"unparsable date": {Title: "A", Link: "http://x", Published: "not a date"},
	}

	for name, fragment := range fragments {
		record, err := normalizer.FromRaw(context.Background(), "Feed", fragment)
		if !errors.Is(err, ErrMalformedItem) {
			t.Errorf("%s: expected ErrMalformedItem, got: %v", name, err)
		}
		if record != nil {
			t.Errorf("%s: expected no record, got: %+v", name, record)
		}
	}
}

func TestFromRawWithoutDescription(t *testing.T) {
	normalizer := newTestNormalizer(nil)

	fragment := &Fragment{
		Title:     "A",
		Link:      "http://x",
		Published: "Mon, 02 Jan 2023 10:00:00 GMT",
	}

	record, err := normalizer.FromRaw(context.Background(), "Feed", fragment)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if record.Description != "" {
		t.Errorf("Expected empty description, got: %q", record.Description)
	}
	if record.Links.Len() != 0 {
		t.Errorf("Expected no links, got: %d", record.Links.Len())
	}
}

func TestFromCachedRoundTripRendersIdentically(t *testing.T) {
	normalizer := newTestNormalizer(map[string]string{
		"http://y/i.png":  "image/png",
		"http://y/e1.mp3": "audio/mpeg",
	})

	fragment := &Fragment{
		Title:       "A",
		Link:        "http://x",
		Published:   "Mon, 02 Jan 2023 10:00:00 GMT",
		Description: `<p>hi <img src='http://y/i.png' alt='cat'></p>`,
		Enclosures:  []MediaRef{{URL: "http://y/e1.mp3", Type: "audio/mpeg"}},
	}

	live, err := normalizer.FromRaw(context.Background(), "Test Feed", fragment)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	payload, err := json.Marshal(live.ToStructured())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	cached, err := normalizer.FromCached("Test Feed", payload)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	for _, colorized := range []bool{false, true} {
		renderer := NewRenderer(colorized)
		liveText := renderer.Run(live)
		cachedText := renderer.Run(cached)
		if liveText != cachedText {
			t.Errorf("Colorized=%t: cached render differs from live render:\nlive:\n%s\ncached:\n%s",
				colorized, liveText, cachedText)
		}
	}
}

func TestFromCachedRejectsCorruptedPayloads(t *testing.T) {
	normalizer := newTestNormalizer(nil)

	payloads := map[string]string{
		"missing title": `{"url": "http://x", "date": "Mon, 02 Jan 2023 10:00:00"}`,
		"missing url":   `{"title": "A", "date": "Mon, 02 Jan 2023 10:00:00"}`,
		"missing date":  `{"title": "A", "url": "http://x"}`,
		"invalid json":  `{not json`,
	}

	for name, payload := range payloads {
		record, err := normalizer.FromCached("Feed", []byte(payload))
		if !errors.Is(err, ErrCacheCorrupted) {
			t.Errorf("%s: expected ErrCacheCorrupted, got: %v", name, err)
		}
		if record != nil {
			t.Errorf("%s: expected no record, got: %+v", name, record)
		}
	}
}

func TestFromCachedSkipsProbesAndDateParsing(t *testing.T) {
	// A fetcher that always fails proves the cache path never probes.
	normalizer := NewNormalizer(NewTypeResolver(&fakeFetcher{err: errors.New("network down")}))

	payload := `{
		"title": "A",
		"url": "http://x",
		"description": "hi [image 0]",
		"date": "Mon, 02 Jan 2023 10:00:00",
		"links": [{"enclosure": false, "media": false, "type": "image/png", "url": "http://y/i.png", "attributes": {"alt": ""}}]
	}`

	record, err := normalizer.FromCached("Test Feed", []byte(payload))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if record.FormattedDate != "Mon, 02 Jan 2023 10:00:00" {
		t.Errorf("Expected cached date string reused verbatim, got: %s", record.FormattedDate)
	}
	if record.Links.Len() != 1 {
		t.Fatalf("Expected 1 link, got: %d", record.Links.Len())
	}
	if record.Links.Get(0).Type != "image/png" {
		t.Errorf("Expected cached type 'image/png', got: %s", record.Links.Get(0).Type)
	}
}
