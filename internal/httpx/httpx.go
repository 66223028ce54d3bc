// Package httpx provides the single shared HTTP client used for both HTML
// and image fetches, generalizing the teacher's package-level utils.Client
// with the retry/backoff policy SPEC_FULL.md §5 requires.
package httpx

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"
)

// DefaultUserAgent mirrors a recent desktop Chrome UA, matching the pack's
// logo scrapers (castlemilk's enrichment package uses the same family).
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Client is a shared, concurrency-safe HTTP client with sane pooling
// defaults, generalized from the teacher's internal/utils.Client.
var Client = &http.Client{
	Timeout: 10 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   false,
	},
}

// FetchHTML implements the fetch_html collaborator contract: best-effort,
// never raises, retries transport errors and 5xx up to 3 attempts with
// exponential backoff.
func FetchHTML(ctx context.Context, rawURL string) (finalURL, html string, ok bool) {
	const maxAttempts = 3

	var lastResp *http.Response
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Min(5, math.Pow(2, float64(attempt)))) * time.Second
			select {
			case <-ctx.Done():
				return "", "", false
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return "", "", false
		}
		req.Header.Set("User-Agent", DefaultUserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")

		resp, err := Client.Do(req)
		if err != nil {
			continue // transport error: retry
		}
		lastResp = resp

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			continue
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return "", "", false
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024*1024))
		resp.Body.Close()
		if err != nil {
			return "", "", false
		}

		final := rawURL
		if resp.Request != nil && resp.Request.URL != nil {
			final = resp.Request.URL.String()
		}
		return final, string(body), true
	}

	if lastResp != nil {
		lastResp.Body.Close()
	}
	return "", "", false
}

// FetchImageBytes implements the fetch_image_bytes collaborator contract.
func FetchImageBytes(ctx context.Context, rawURL, referer string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "image/*,*/*;q=0.8")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := Client.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, false
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}
