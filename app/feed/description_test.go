package feed

import (
	"context"
	"testing"
)

func newTestDescriptionNormalizer(contentTypes map[string]string) *DescriptionNormalizer {
	return NewDescriptionNormalizer(NewTypeResolver(&fakeFetcher{contentTypes: contentTypes}))
}

func TestDescriptionReplacesImageWithAltToken(t *testing.T) {
	normalizer := newTestDescriptionNormalizer(map[string]string{"http://y/i.png": "image/png"})
	table := NewLinkTable()

	text, err := normalizer.Run(context.Background(), `<p>look <img src="http://y/i.png" alt="cat"></p>`, table)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if text != "look [image 0: cat]" {
		t.Errorf("Expected 'look [image 0: cat]', got: %q", text)
	}

	if table.Len() != 1 {
		t.Fatalf("Expected 1 link, got: %d", table.Len())
	}
	link := table.Get(0)
	if link.Kind != KindInlineImage {
		t.Errorf("Expected inline image kind, got: %s", link.Kind)
	}
	if link.URL != "http://y/i.png" {
		t.Errorf("Expected URL 'http://y/i.png', got: %s", link.URL)
	}
	if link.Type != "image/png" {
		t.Errorf("Expected type 'image/png', got: %s", link.Type)
	}
	if link.Attributes["alt"] != "cat" {
		t.Errorf("Expected alt 'cat', got: %q", link.Attributes["alt"])
	}
}

func TestDescriptionEmptyAltOmittedFromToken(t *testing.T) {
	normalizer := newTestDescriptionNormalizer(map[string]string{"http://y/i.png": "image/png"})
	table := NewLinkTable()

	text, err := normalizer.Run(context.Background(), `<p>hi <img src='http://y/i.png' alt=''></p>`, table)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if text != "hi [image 0]" {
		t.Errorf("Expected 'hi [image 0]', got: %q", text)
	}
	if table.Get(0).Attributes["alt"] != "" {
		t.Errorf("Expected empty alt attribute, got: %q", table.Get(0).Attributes["alt"])
	}
}

func TestDescriptionRegistersImagesInDocumentOrder(t *testing.T) {
	normalizer := newTestDescriptionNormalizer(map[string]string{
		"http://y/first.png":  "image/png",
		"http://y/second.gif": "image/gif",
	})
	table := NewLinkTable()

	text, err := normalizer.Run(context.Background(),
		`<div><img src="http://y/first.png" alt="one"> and <img src="http://y/second.gif" alt=""></div>`, table)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if text != "[image 0: one] and [image 1]" {
		t.Errorf("Expected '[image 0: one] and [image 1]', got: %q", text)
	}
	if table.Get(0).URL != "http://y/first.png" {
		t.Errorf("Expected first image at index 0, got: %s", table.Get(0).URL)
	}
	if table.Get(1).URL != "http://y/second.gif" {
		t.Errorf("Expected second image at index 1, got: %s", table.Get(1).URL)
	}
}

func TestDescriptionStripsMarkup(t *testing.T) {
	normalizer := newTestDescriptionNormalizer(nil)
	table := NewLinkTable()

	text, err := normalizer.Run(context.Background(), `<p>plain <b>bold</b> and <a href="http://x">a link</a></p>`, table)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if text != "plain bold and a link" {
		t.Errorf("Expected 'plain bold and a link', got: %q", text)
	}
	if table.Len() != 0 {
		t.Errorf("Expected no links registered, got: %d", table.Len())
	}
}
