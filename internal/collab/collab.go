// Package collab defines the external collaborator contracts deliberately
// left out of this module's scope per spec.md §1: HTML fetching (with
// retries/backoff) and a headless-browser renderer. Both are best-effort
// and never raise; errors surface as a false ok / empty strings.
package collab

import (
	"context"

	"github.com/ashish-patro/logo-grouper/internal/httpx"
)

// HTMLFetcher resolves a URL to its final (post-redirect) URL and HTML
// body.
type HTMLFetcher interface {
	FetchHTML(ctx context.Context, url string) (finalURL, html string, ok bool)
}

// ImageFetcher downloads raw image bytes.
type ImageFetcher interface {
	FetchImageBytes(ctx context.Context, url, referer string) ([]byte, bool)
}

// PageRenderer is an optional headless-browser collaborator sharing the
// HTMLFetcher contract, plus a CSS selector to wait on before returning.
type PageRenderer interface {
	RenderPage(ctx context.Context, url, waitSelector string) (finalURL, html string, ok bool)
}

// defaultClient is the plain-HTTP collaborator backed by internal/httpx.
type defaultClient struct{}

// NewDefaultClient returns the HTMLFetcher/ImageFetcher backed by the
// shared retrying HTTP client. There is no bundled headless renderer;
// callers needing JS-rendered pages inject their own PageRenderer.
func NewDefaultClient() interface {
	HTMLFetcher
	ImageFetcher
} {
	return defaultClient{}
}

func (defaultClient) FetchHTML(ctx context.Context, url string) (string, string, bool) {
	return httpx.FetchHTML(ctx, url)
}

func (defaultClient) FetchImageBytes(ctx context.Context, url, referer string) ([]byte, bool) {
	return httpx.FetchImageBytes(ctx, url, referer)
}
