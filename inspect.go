package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// InspectLatest resolves the newest "What's New" article and returns it as Markdown, with
// navigation chrome removed.
func InspectLatest(ctx context.Context, fetcher PageFetcher, indexURL string) (*LatestEntry, string, error) {
	indexHTML, err := fetcher.Fetch(ctx, indexURL)
	if err != nil {
		return nil, "", fmt.Errorf("fetching index: %w", err)
	}

	latest, err := ResolveLatest(indexHTML, indexURL)
	if err != nil {
		return nil, "", err
	}

	log.Printf("→ Fetching %s (Python %s)", latest.URL, latest.Version)
	articleHTML, err := fetcher.Fetch(ctx, latest.URL)
	if err != nil {
		return latest, "", fmt.Errorf("fetching article: %w", err)
	}

	markdown, err := articleMarkdown(articleHTML)
	if err != nil {
		return latest, "", err
	}
	return latest, markdown, nil
}

func articleMarkdown(articleHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleHTML))
	if err != nil {
		return "", fmt.Errorf("parsing article HTML: %w", err)
	}

	converter := md.NewConverter("", true, nil)
	return strings.TrimSpace(converter.Convert(contentRegion(doc))), nil
}
