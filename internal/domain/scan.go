package domain

import "time"

// Severity ranks an SEO gap.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// Priority ranks suggestions, topics and opportunities.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight orders priorities; unknown values sort last.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// SEOGap is a single problem found on a document.
type SEOGap struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// DocumentGaps groups gaps found on one document.
type DocumentGaps struct {
	DocumentID int64    `json:"post_id"`
	Title      string   `json:"post_title"`
	URL        string   `json:"post_url"`
	Gaps       []SEOGap `json:"gaps"`
}

// MissingTopic is a brand topic the site does not cover yet.
type MissingTopic struct {
	Topic             string   `json:"topic"`
	Priority          Priority `json:"priority"`
	SuggestedKeywords []string `json:"suggested_keywords"`
}

// Opportunity points at existing content worth expanding.
type Opportunity struct {
	Type            string   `json:"type"`
	DocumentID      int64    `json:"post_id"`
	Title           string   `json:"post_title"`
	CurrentLength   int      `json:"current_length,omitempty"`
	SuggestedLength int      `json:"suggested_length,omitempty"`
	Priority        Priority `json:"priority"`
}

// LinkRef identifies a document in linking reports.
type LinkRef struct {
	DocumentID int64  `json:"post_id"`
	Title      string `json:"post_title"`
	URL        string `json:"post_url"`
}

// LinkingStats summarizes internal linking across the site.
type LinkingStats struct {
	WithoutInternalLinks []LinkRef `json:"posts_without_internal_links"`
	Orphaned             []LinkRef `json:"orphaned_posts"`
}

// KeywordOpportunity flags an underused taxonomy term.
type KeywordOpportunity struct {
	Type           string `json:"type"`
	Category       string `json:"category"`
	PostCount      int    `json:"post_count"`
	SuggestedPosts int    `json:"suggested_posts"`
}

// Unavailable marks an integration that has no data source configured.
type Unavailable struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NotAvailable builds an Unavailable marker with the given message.
func NotAvailable(message string) Unavailable {
	return Unavailable{Status: "not_available", Message: message}
}

// ScanResult bundles independently computed site scan lists.
type ScanResult struct {
	SEOGaps              []DocumentGaps       `json:"seo_gaps"`
	MissingTopics        []MissingTopic       `json:"missing_topics"`
	Opportunities        []Opportunity        `json:"content_opportunities"`
	Competitors          Unavailable          `json:"competitor_analysis"`
	Linking              LinkingStats         `json:"internal_linking"`
	KeywordOpportunities []KeywordOpportunity `json:"keyword_opportunities"`
	ScannedAt            time.Time            `json:"scanned_at"`
}

// Suggestion proposes a topic to write about.
type Suggestion struct {
	Topic         string    `json:"topic"`
	Type          string    `json:"type"`
	Priority      Priority  `json:"priority"`
	Description   string    `json:"description"`
	SuggestedDate time.Time `json:"suggested_date,omitempty"`
	ProductID     int64     `json:"product_id,omitempty"`
	Category      string    `json:"category,omitempty"`
}

// Recommendation is a learning-derived piece of advice.
type Recommendation struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	Priority Priority `json:"priority"`
}
