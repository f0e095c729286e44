package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testIndexHTML = `<html><body><main>
	<a href="3.12.html">What's New In Python 3.12</a>
	<a href="3.13.html">What's New In Python 3.13</a>
</main></body></html>`

const testArticleHTML = `<html><body><main>
	<h1>What's New In Python 3.13</h1>
	<h2>Summary</h2>
	<p>A better interactive interpreter.</p>
</main></body></html>`

func newWhatsNewServer(t *testing.T, index, article string, articleStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/3/whatsnew/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(index))
	})
	mux.HandleFunc("/3/whatsnew/3.13.html", func(w http.ResponseWriter, r *http.Request) {
		if articleStatus != http.StatusOK {
			w.WriteHeader(articleStatus)
			return
		}
		w.Write([]byte(article))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestReleaseNotesToolInvoke(t *testing.T) {
	server := newWhatsNewServer(t, testIndexHTML, testArticleHTML, http.StatusOK)
	indexURL := server.URL + "/3/whatsnew/"

	for name, fetcher := range fetchers(5 * time.Second) {
		t.Run(name, func(t *testing.T) {
			tool := NewReleaseNotesTool(fetcher, indexURL)

			got, err := tool.Invoke(context.Background(), "ignored argument")
			if err != nil {
				t.Fatalf("Invoke() unexpected error: %v", err)
			}

			want := "URL: " + indexURL + "3.13.html\nVERSION: 3.13\n\n" +
				"TITLE: What's New In Python 3.13\n\n## Summary\nA better interactive interpreter."
			if got != want {
				t.Errorf("Invoke() =\n%q\nwant\n%q", got, want)
			}
		})
	}
}

func TestReleaseNotesToolNoEntry(t *testing.T) {
	server := newWhatsNewServer(t, `<main><a href="x.html">Changelog</a></main>`, "", http.StatusOK)
	tool := NewReleaseNotesTool(NewHTTPFetcher(5*time.Second, "test"), server.URL+"/3/whatsnew/")

	got, err := tool.Invoke(context.Background(), "")
	if err != nil {
		t.Fatalf("Invoke() unexpected error: %v", err)
	}
	if got != latestNotFoundMessage {
		t.Errorf("Invoke() = %q, want %q", got, latestNotFoundMessage)
	}
}

func TestReleaseNotesToolFetchErrors(t *testing.T) {
	tests := []struct {
		name       string
		indexPath  string
		wantStatus int
		wantPrefix string
	}{
		{name: "index fails", indexPath: "/missing/", wantStatus: http.StatusNotFound, wantPrefix: "fetching index"},
		{name: "article fails", indexPath: "/3/whatsnew/", wantStatus: http.StatusInternalServerError, wantPrefix: "fetching article"},
	}

	server := newWhatsNewServer(t, testIndexHTML, "", http.StatusInternalServerError)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewReleaseNotesTool(NewHTTPFetcher(5*time.Second, "test"), server.URL+tt.indexPath)

			_, err := tool.Invoke(context.Background(), "")
			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("Invoke() error = %v, want *FetchError", err)
			}
			if fetchErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", fetchErr.StatusCode, tt.wantStatus)
			}
			if !strings.HasPrefix(err.Error(), tt.wantPrefix) {
				t.Errorf("error %q should start with %q", err, tt.wantPrefix)
			}
		})
	}
}

func TestFindTool(t *testing.T) {
	tool := NewReleaseNotesTool(nil, "")
	tools := []Tool{tool}

	if got, ok := FindTool(tools, "fetch_python_whatsnew"); !ok || got != tool {
		t.Errorf("FindTool() = %v, %v; want the release notes tool", got, ok)
	}
	if _, ok := FindTool(tools, "other"); ok {
		t.Error("FindTool() found a tool that is not registered")
	}
}
