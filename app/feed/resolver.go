package feed

import (
	"context"
	"log/slog"
	"net/http"
)

// HeadFetcher issues a header-only probe request and returns the response
// headers. Implemented by fetch.Client.
type HeadFetcher interface {
	Head(ctx context.Context, url string) (http.Header, error)
}

// TypeResolver determines the effective MIME type of a media URL. The type
// reported by the network wins over the declared one; transport failures
// degrade to the declared type or the "unknown" sentinel and never abort
// the item being normalized.
type TypeResolver struct {
	fetcher HeadFetcher
}

func NewTypeResolver(fetcher HeadFetcher) *TypeResolver {
	return &TypeResolver{fetcher: fetcher}
}

func (r *TypeResolver) Resolve(ctx context.Context, url, declared string) string {
	header, err := r.fetcher.Head(ctx, url)
	if err != nil {
		slog.Debug("Content type probe failed", "url", url, "error", err)
	} else if contentType := header.Get("Content-Type"); contentType != "" {
		return contentType
	}

	if declared != "" {
		return declared
	}

	return UnknownType
}
