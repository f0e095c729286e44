package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestInspectLatest(t *testing.T) {
	article := `<html><body>
		<nav><a href="/">Home</a></nav>
		<main>
			<h1>What's New In Python 3.13<a class="headerlink" href="#top">¶</a></h1>
			<p>A <strong>better</strong> interpreter.</p>
		</main>
	</body></html>`
	server := newWhatsNewServer(t, testIndexHTML, article, http.StatusOK)

	latest, markdown, err := InspectLatest(context.Background(), NewHTTPFetcher(5*time.Second, "test"), server.URL+"/3/whatsnew/")
	if err != nil {
		t.Fatalf("InspectLatest() unexpected error: %v", err)
	}
	if latest.Version != "3.13" {
		t.Errorf("Version = %q, want 3.13", latest.Version)
	}
	if !strings.HasPrefix(markdown, "# What's New In Python 3.13") {
		t.Errorf("markdown should start with the article heading, got %q", markdown)
	}
	if !strings.Contains(markdown, "**better**") {
		t.Errorf("markdown should keep emphasis, got %q", markdown)
	}
	if strings.Contains(markdown, "Home") || strings.Contains(markdown, "¶") {
		t.Errorf("markdown should not contain page chrome, got %q", markdown)
	}
}

func TestInspectLatestNoEntry(t *testing.T) {
	server := newWhatsNewServer(t, `<main></main>`, "", http.StatusOK)

	_, _, err := InspectLatest(context.Background(), NewHTTPFetcher(5*time.Second, "test"), server.URL+"/3/whatsnew/")
	if !errors.Is(err, ErrNoLatestEntry) {
		t.Errorf("InspectLatest() error = %v, want ErrNoLatestEntry", err)
	}
}
