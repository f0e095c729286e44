package main

import (
	"context"
	"errors"
	"fmt"
	"log"
)

const (
	releaseNotesToolName        = "fetch_python_whatsnew"
	releaseNotesToolDescription = "Fetch the latest \"What's New in Python\" article and return a concise, cleaned " +
		"text payload including the URL and extracted section highlights. The tool ignores the input argument."
	latestNotFoundMessage = "Could not determine latest What's New entry from the index page."
)

// Tool is a named capability a generation backend may invoke
type Tool interface {
	Name() string
	Description() string
	Invoke(ctx context.Context, argument string) (string, error)
}

// FindTool returns the tool registered under name
func FindTool(tools []Tool, name string) (Tool, bool) {
	for _, t := range tools {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// ReleaseNotesTool fetches the index, resolves the latest entry and returns its digest
type ReleaseNotesTool struct {
	fetcher  PageFetcher
	indexURL string
}

// NewReleaseNotesTool creates the tool reading the index at indexURL
func NewReleaseNotesTool(fetcher PageFetcher, indexURL string) *ReleaseNotesTool {
	return &ReleaseNotesTool{fetcher: fetcher, indexURL: indexURL}
}

func (t *ReleaseNotesTool) Name() string { return releaseNotesToolName }

func (t *ReleaseNotesTool) Description() string { return releaseNotesToolDescription }

// Invoke ignores argument. Fetch failures are returned as errors; an index page without any
// "What's New" link yields latestNotFoundMessage.
func (t *ReleaseNotesTool) Invoke(ctx context.Context, argument string) (string, error) {
	debugLog("%s invoked with %q", t.Name(), argument)

	log.Printf("→ Fetching index %s", t.indexURL)
	indexHTML, err := t.fetcher.Fetch(ctx, t.indexURL)
	if err != nil {
		return "", fmt.Errorf("fetching index: %w", err)
	}

	latest, err := ResolveLatest(indexHTML, t.indexURL)
	if errors.Is(err, ErrNoLatestEntry) {
		log.Printf("✗ No What's New entry on %s", t.indexURL)
		return latestNotFoundMessage, nil
	}
	if err != nil {
		return "", fmt.Errorf("resolving latest entry: %w", err)
	}

	log.Printf("→ Fetching %s (Python %s)", latest.URL, latest.Version)
	articleHTML, err := t.fetcher.Fetch(ctx, latest.URL)
	if err != nil {
		return "", fmt.Errorf("fetching article: %w", err)
	}

	highlights, err := ExtractHighlights(articleHTML)
	if err != nil {
		return "", fmt.Errorf("extracting highlights: %w", err)
	}

	log.Printf("✓ Extracted %d characters of highlights", len(highlights))
	return fmt.Sprintf("URL: %s\nVERSION: %s\n\n%s", latest.URL, latest.Version, highlights), nil
}
