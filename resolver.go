package main

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const whatsNewPrefix = "what's new in python 3"

var minorVersionRe = regexp.MustCompile(`3\.(\d+)`)

// Sphinx renders "What's" with a typographic apostrophe.
var apostropheFolder = strings.NewReplacer("’", "'", "‘", "'")

// ResolveLatest finds the "What's New In Python 3.x" link with the highest minor version on
// the index page. Relative links are joined to baseURL. It returns ErrNoLatestEntry when the
// page has no matching links.
func ResolveLatest(indexHTML, baseURL string) (*LatestEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(indexHTML))
	if err != nil {
		return nil, fmt.Errorf("parsing index page: %w", err)
	}

	candidates := findCandidates(doc, baseURL)
	if len(candidates) == 0 {
		return nil, ErrNoLatestEntry
	}

	// Stable sort keeps document order among equal minors, so the first one seen wins.
	slices.SortStableFunc(candidates, func(a, b CandidateLink) int {
		return -cmp.Compare(a.Minor, b.Minor)
	})
	latest := candidates[0]

	return &LatestEntry{
		Version: fmt.Sprintf("3.%d", latest.Minor),
		URL:     latest.URL,
		Title:   latest.Text,
	}, nil
}

// findCandidates collects every matching link under the page's main region in document order
func findCandidates(doc *goquery.Document, baseURL string) []CandidateLink {
	var candidates []CandidateLink
	doc.Find("main a[href]").Each(func(_ int, a *goquery.Selection) {
		text := strings.TrimSpace(a.Text())
		href, _ := a.Attr("href")
		if href == "" || !strings.HasPrefix(strings.ToLower(apostropheFolder.Replace(text)), whatsNewPrefix) {
			return
		}

		candidates = append(candidates, CandidateLink{
			Minor: parseMinorVersion(text),
			Text:  text,
			URL:   absoluteURL(href, baseURL),
		})
	})
	return candidates
}

// parseMinorVersion extracts N from "3.N" in text, or -1 when absent
func parseMinorVersion(text string) int {
	matches := minorVersionRe.FindStringSubmatch(text)
	if len(matches) < 2 {
		return -1
	}
	minor, err := strconv.Atoi(matches[1])
	if err != nil {
		return -1
	}
	return minor
}

func absoluteURL(href, baseURL string) string {
	if strings.HasPrefix(href, "http") {
		return href
	}
	return baseURL + href
}
