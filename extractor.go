package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	maxSectionChars = 1600
	maxDigestChars  = 8000
	truncatedMarker = "\n...[truncated]"
)

// Housekeeping sections that never make it into a digest
var skippedSectionKeywords = []string{
	"acknowledgements",
	"credits",
	"porting",
	"deprecated",
	"removed",
	"documentation",
	"security",
	"contributors",
}

// ExtractHighlights turns a release-notes article into a digest: an optional "TITLE:" line
// followed by one "## <title>" block per retained second-level section, capped at
// maxDigestChars.
func ExtractHighlights(articleHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleHTML))
	if err != nil {
		return "", fmt.Errorf("parsing article: %w", err)
	}

	content := contentRegion(doc)

	var lines []string
	if title, ok := documentTitle(doc, content); ok {
		lines = append(lines, "TITLE: "+title)
	}
	for _, section := range collectSections(doc, content) {
		lines = append(lines, renderSection(section))
	}

	return truncateDigest(strings.Join(lines, "\n")), nil
}

// contentRegion strips page chrome and returns the main region, or the whole document
func contentRegion(doc *goquery.Document) *goquery.Selection {
	doc.Find("nav, header, footer, aside").Remove()
	// Sphinx permalink anchors ("¶") inside headings
	doc.Find("a.headerlink").Remove()

	if main := doc.Find("main").First(); main.Length() > 0 {
		return main
	}
	return doc.Selection
}

// documentTitle returns the first h1 of the region, else the page title. An h1 wins even
// when its text is empty.
func documentTitle(doc *goquery.Document, content *goquery.Selection) (string, bool) {
	if h1 := content.Find("h1").First(); h1.Length() > 0 {
		return visibleText(h1), true
	}
	if title := doc.Find("title").First(); title.Length() > 0 {
		return visibleText(title), true
	}
	return "", false
}

// collectSections walks the whole document in order. Each h2 of the content region opens a
// section; p, ul and ol elements up to the next h2 anywhere contribute one line each until
// the section passes maxSectionChars. The last section runs to the end of the document.
func collectSections(doc *goquery.Document, content *goquery.Selection) []Section {
	var (
		sections []Section
		current  *Section
		length   int
		capped   bool
	)

	opens := make(map[*html.Node]bool)
	content.Find("h2").Each(func(_ int, h2 *goquery.Selection) {
		opens[h2.Get(0)] = true
	})

	flush := func() {
		if current != nil && len(current.Lines) > 0 {
			sections = append(sections, *current)
		}
		current = nil
	}

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if s.Is("h2") {
			flush()
			if !opens[s.Get(0)] {
				return
			}
			title := visibleText(s)
			if isSkippedSection(title) {
				debugLog("skipping section %q", title)
				return
			}
			current = &Section{Title: title}
			length, capped = 0, false
			return
		}

		if current == nil || capped || !s.Is("p, ul, ol") {
			return
		}
		// Already covered by the enclosing list's text
		if s.ParentsFiltered("ul, ol").Length() > 0 {
			return
		}

		text := bodyText(s)
		if text == "" {
			return
		}
		if len(current.Lines) > 0 {
			length++ // joining newline
		}
		length += utf8.RuneCountInString(text)
		current.Lines = append(current.Lines, text)
		if length > maxSectionChars {
			capped = true
		}
	})
	flush()

	return sections
}

func isSkippedSection(title string) bool {
	lower := strings.ToLower(title)
	for _, keyword := range skippedSectionKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func renderSection(section Section) string {
	return "\n## " + section.Title + "\n" + strings.Join(section.Lines, "\n")
}

// truncateDigest keeps the first maxDigestChars characters and appends truncatedMarker
func truncateDigest(digest string) string {
	if utf8.RuneCountInString(digest) <= maxDigestChars {
		return digest
	}
	return string([]rune(digest)[:maxDigestChars]) + truncatedMarker
}

// visibleText returns the element's text with runs of whitespace collapsed to one space.
// Adjacent text nodes are concatenated as is, which suits headings.
func visibleText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// bodyText joins the element's text nodes with one space, so <br> and inline markup keep
// their word boundaries. Whitespace inside a node is collapsed.
func bodyText(s *goquery.Selection) string {
	var words []string
	for _, n := range s.Nodes {
		words = appendTextWords(words, n)
	}
	return strings.Join(words, " ")
}

func appendTextWords(words []string, n *html.Node) []string {
	if n.Type == html.TextNode {
		return append(words, strings.Fields(n.Data)...)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		words = appendTextWords(words, c)
	}
	return words
}
