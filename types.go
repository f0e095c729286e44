package main

// CandidateLink is one "What's New In Python 3.x" link found on the index page
type CandidateLink struct {
	Minor int // -1 when the text carries no parseable minor version
	Text  string
	URL   string
}

// LatestEntry is the release-notes article resolved as the newest one
type LatestEntry struct {
	Version string `json:"version"` // always "3.<minor>"
	URL     string `json:"url"`
	Title   string `json:"title"`
}

// Section is one retained second-level section of a release-notes article
type Section struct {
	Title string
	Lines []string
}

// Message is one conversational turn handed to a generation backend
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}
