package domain

import "time"

// DocumentStatus mirrors the publication state of a site document.
type DocumentStatus string

const (
	StatusDraft   DocumentStatus = "draft"
	StatusPublish DocumentStatus = "publish"
	StatusPending DocumentStatus = "pending"
)

// Document is a single post or page known to the content repository.
type Document struct {
	ID           int64
	ExternalID   string
	Type         string
	Title        string
	Body         string
	Excerpt      string
	Status       DocumentStatus
	Categories   []string
	Tags         []string
	URL          string
	CommentCount int
	PublishedAt  time.Time
}

// Published reports whether the document is live on the site.
func (d Document) Published() bool {
	return d.Status == StatusPublish
}

// SEOMeta carries the search metadata stored alongside a document.
type SEOMeta struct {
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	FocusKeyword    string `json:"focus_keyword"`
	Canonical       string `json:"canonical,omitempty"`
	NoIndex         bool   `json:"noindex,omitempty"`
}

// MetaUpdate lists which metadata fields a backend actually wrote.
type MetaUpdate struct {
	Backend string   `json:"plugin"`
	Fields  []string `json:"updated"`
}

// ContentDraft is a generated article that has not been published yet.
type ContentDraft struct {
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Meta        SEOMeta `json:"meta_data"`
	Keyword     string  `json:"keyword"`
	SEOScore    int     `json:"seo_score"`
	WordCount   int     `json:"word_count"`
	ReadingTime int     `json:"reading_time"`
}

// ReadingTime returns minutes needed to read wordCount words at 200 wpm, rounded up.
func ReadingTime(wordCount int) int {
	if wordCount <= 0 {
		return 0
	}
	return (wordCount + 199) / 200
}
