package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultFetchTimeout = 20 * time.Second
	defaultUserAgent    = "whatsnew-writer/1.0 (+https://python.org)"
)

// PageFetcher retrieves the raw markup of a page
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// NewFetcher builds the fetch engine named in settings ("http" or "colly")
func NewFetcher(settings FetchSettings) (PageFetcher, error) {
	userAgent := settings.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	switch settings.Engine {
	case "", "http":
		return NewHTTPFetcher(settings.Timeout(), userAgent), nil
	case "colly":
		return NewCollyFetcher(settings.Timeout(), userAgent), nil
	default:
		return nil, fmt.Errorf("unknown fetch engine %q", settings.Engine)
	}
}

// HTTPFetcher performs one GET per page with net/http, following redirects
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher with its own client bounded by timeout
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch returns the response body, or a *FetchError for non-2xx, timeout or connection failure
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	debugLog("GET %s", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	debugLog("GET %s: status=%d bytes=%d", url, resp.StatusCode, len(body))

	return string(body), nil
}
