package main

import (
	"errors"
	"fmt"
)

// ErrNoLatestEntry is returned when the index page lists no "What's New" links
var ErrNoLatestEntry = errors.New("no What's New entry found on index page")

// FetchError reports a failed page fetch: a non-2xx status, a timeout or a connection failure
type FetchError struct {
	URL        string
	StatusCode int   // 0 when no response was received
	Err        error // transport error, nil for status failures
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
