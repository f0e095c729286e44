package main

import (
	"errors"
	"testing"
)

const testBaseURL = "https://docs.python.org/3/whatsnew/"

func TestResolveLatest(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantVer   string
		wantURL   string
		wantTitle string
	}{
		{
			name: "highest minor wins over lexical order",
			html: `<main>
				<a href="3.9.html">What's New In Python 3.9</a>
				<a href="3.12.html">What's New In Python 3.12</a>
				<a href="3.1.html">What's New In Python 3.1</a>
			</main>`,
			wantVer:   "3.12",
			wantURL:   testBaseURL + "3.12.html",
			wantTitle: "What's New In Python 3.12",
		},
		{
			name:      "single relative link",
			html:      `<main><a href="3.14.html">What's New In Python 3.14</a></main>`,
			wantVer:   "3.14",
			wantURL:   testBaseURL + "3.14.html",
			wantTitle: "What's New In Python 3.14",
		},
		{
			name:      "absolute link kept",
			html:      `<main><a href="https://example.org/3.13.html">What's new in Python 3.13</a></main>`,
			wantVer:   "3.13",
			wantURL:   "https://example.org/3.13.html",
			wantTitle: "What's new in Python 3.13",
		},
		{
			name:      "typographic apostrophe",
			html:      `<main><a href="3.11.html">What’s New In Python 3.11</a></main>`,
			wantVer:   "3.11",
			wantURL:   testBaseURL + "3.11.html",
			wantTitle: "What’s New In Python 3.11",
		},
		{
			name: "ties keep document order",
			html: `<main>
				<a href="first.html">What's New In Python 3.10</a>
				<a href="second.html">What's New In Python 3.10 (draft)</a>
			</main>`,
			wantVer:   "3.10",
			wantURL:   testBaseURL + "first.html",
			wantTitle: "What's New In Python 3.10",
		},
		{
			name: "links outside main and other links ignored",
			html: `<nav><a href="3.99.html">What's New In Python 3.99</a></nav>
			<main>
				<a href="changelog.html">Changelog</a>
				<a href="3.8.html">What's New In Python 3.8</a>
				<a href="">What's New In Python 3.50</a>
			</main>`,
			wantVer:   "3.8",
			wantURL:   testBaseURL + "3.8.html",
			wantTitle: "What's New In Python 3.8",
		},
		{
			name:      "sentinel minor when no version digits",
			html:      `<main><a href="next.html">What's New In Python 3 next</a></main>`,
			wantVer:   "3.-1",
			wantURL:   testBaseURL + "next.html",
			wantTitle: "What's New In Python 3 next",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := ResolveLatest(tt.html, testBaseURL)
			if err != nil {
				t.Fatalf("ResolveLatest() unexpected error: %v", err)
			}
			if entry.Version != tt.wantVer {
				t.Errorf("Version = %q, want %q", entry.Version, tt.wantVer)
			}
			if entry.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", entry.URL, tt.wantURL)
			}
			if entry.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", entry.Title, tt.wantTitle)
			}
		})
	}
}

func TestResolveLatestNoCandidates(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{name: "empty page", html: ""},
		{name: "unrelated links", html: `<main><a href="changelog.html">Changelog</a></main>`},
		{name: "no main region", html: `<body><a href="3.12.html">What's New In Python 3.12</a></body>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := ResolveLatest(tt.html, testBaseURL)
			if !errors.Is(err, ErrNoLatestEntry) {
				t.Errorf("ResolveLatest() = %v, %v; want ErrNoLatestEntry", entry, err)
			}
		})
	}
}

func TestParseMinorVersion(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"What's New In Python 3.12", 12},
		{"What's New In Python 3.0", 0},
		{"What's New In Python 3", -1},
		{"Python 3.x", -1},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := parseMinorVersion(tt.text); got != tt.want {
				t.Errorf("parseMinorVersion(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}
