package main

import (
	"context"
	"time"

	"github.com/gocolly/colly/v2"
)

// CollyFetcher fetches pages through a colly collector
type CollyFetcher struct {
	timeout   time.Duration
	userAgent string
}

// NewCollyFetcher creates a colly-backed fetcher
func NewCollyFetcher(timeout time.Duration, userAgent string) *CollyFetcher {
	return &CollyFetcher{timeout: timeout, userAgent: userAgent}
}

// Fetch visits url once with a fresh collector and returns the body. Responses of every
// status reach OnResponse, where non-2xx becomes a *FetchError; OnError only sees transport
// failures.
func (f *CollyFetcher) Fetch(ctx context.Context, url string) (string, error) {
	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.AllowURLRevisit(),
		colly.StdlibContext(ctx),
		colly.ParseHTTPErrorResponse(),
	)
	c.SetRequestTimeout(f.timeout)

	var (
		body     string
		fetchErr *FetchError
	)
	c.OnResponse(func(r *colly.Response) {
		debugLog("colly %s: status=%d bytes=%d", url, r.StatusCode, len(r.Body))
		if r.StatusCode < 200 || r.StatusCode >= 300 {
			fetchErr = &FetchError{URL: url, StatusCode: r.StatusCode}
			return
		}
		body = string(r.Body)
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = &FetchError{URL: url, Err: err}
		if r != nil && r.StatusCode != 0 {
			fetchErr = &FetchError{URL: url, StatusCode: r.StatusCode}
		}
	})

	err := c.Visit(url)
	c.Wait()
	if fetchErr != nil {
		return "", fetchErr
	}
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	return body, nil
}
