package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"ContentWriter/internal/brand"
	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
	"ContentWriter/internal/seo"
)

const (
	popularPostCount     = 5
	popularMinLength     = 1000
	popularTargetLength  = 1500
	shortPostLength      = 500
	shortPostLimit       = 10
	minContentLength     = 300
	underusedCategoryMax = 3
	categoryTarget       = 5
)

// ScanSummary is the compact record kept in the scan history.
type ScanSummary struct {
	ScannedAt     time.Time `json:"scanned_at"`
	Documents     int       `json:"documents"`
	SEOGaps       int       `json:"seo_gaps"`
	MissingTopics int       `json:"missing_topics"`
	Opportunities int       `json:"opportunities"`
	Orphaned      int       `json:"orphaned"`
}

// ContentScannerDeps wires the scanner collaborators.
type ContentScannerDeps struct {
	Content  ports.ContentRepository
	Meta     ports.SeoMetadataBackend
	Settings ports.SettingsStore
	Scorer   *seo.Scorer
	Notifier ports.Notifier
	Clock    func() time.Time
	Logger   *slog.Logger
}

// ContentScanner audits published posts for SEO and coverage gaps.
type ContentScanner struct {
	content  ports.ContentRepository
	meta     ports.SeoMetadataBackend
	settings ports.SettingsStore
	scorer   *seo.Scorer
	notifier ports.Notifier
	now      func() time.Time
	logger   *slog.Logger
}

// NewContentScanner constructs the scan use case.
func NewContentScanner(deps ContentScannerDeps) *ContentScanner {
	scorer := deps.Scorer
	if scorer == nil {
		scorer = seo.NewScorer("")
	}
	return &ContentScanner{
		content:  deps.Content,
		meta:     deps.Meta,
		settings: deps.Settings,
		scorer:   scorer,
		notifier: deps.Notifier,
		now:      clockOrNow(deps.Clock),
		logger:   deps.Logger,
	}
}

// Scan computes every report over the published posts and stores the result.
func (s *ContentScanner) Scan(ctx context.Context) domain.Result[domain.ScanResult] {
	if s.content == nil {
		return domain.Fail[domain.ScanResult]("Content repository is not configured")
	}
	posts, err := s.content.ListPublished(ctx, "post")
	if err != nil {
		return domain.FailErr[domain.ScanResult](fmt.Errorf("list posts: %w", err))
	}
	profile, err := loadProfile(ctx, s.settings)
	if err != nil {
		return domain.FailErr[domain.ScanResult](err)
	}

	gaps, err := s.seoGaps(ctx, posts)
	if err != nil {
		return domain.FailErr[domain.ScanResult](err)
	}

	result := domain.ScanResult{
		SEOGaps:              gaps,
		MissingTopics:        missingTopics(profile, posts),
		Opportunities:        contentOpportunities(posts),
		Competitors:          domain.NotAvailable("Competitor analysis requires an external search data integration"),
		Linking:              s.linking(posts),
		KeywordOpportunities: keywordOpportunities(posts),
		ScannedAt:            s.now(),
	}

	if err := saveSetting(ctx, s.settings, keyLastScan, result); err != nil {
		return domain.FailErr[domain.ScanResult](err)
	}
	if err := saveSetting(ctx, s.settings, keyLastScanDate, result.ScannedAt); err != nil {
		return domain.FailErr[domain.ScanResult](err)
	}
	summary := ScanSummary{
		ScannedAt:     result.ScannedAt,
		Documents:     len(posts),
		SEOGaps:       len(result.SEOGaps),
		MissingTopics: len(result.MissingTopics),
		Opportunities: len(result.Opportunities),
		Orphaned:      len(result.Linking.Orphaned),
	}
	if err := appendCapped(ctx, s.settings, keyScanHistory, summary, historyLimit); err != nil {
		s.debug("scan history not saved", "error", err)
	}

	if s.notifier != nil {
		msg := fmt.Sprintf("Content scan: %d posts, %d with SEO gaps, %d missing topics, %d orphaned",
			summary.Documents, summary.SEOGaps, summary.MissingTopics, summary.Orphaned)
		if err := s.notifier.Notify(ctx, msg); err != nil {
			s.debug("scan notification failed", "error", err)
		}
	}
	if s.logger != nil {
		s.logger.Info("content scan completed", "posts", summary.Documents, "seo_gaps", summary.SEOGaps)
	}
	return domain.OK("Content scan completed successfully", result)
}

// LastScan returns the stored result of the previous scan; ScannedAt is zero when none ran.
func (s *ContentScanner) LastScan(ctx context.Context) (domain.ScanResult, error) {
	return loadSetting[domain.ScanResult](ctx, s.settings, keyLastScan)
}

// History lists summaries of past scans, newest first.
func (s *ContentScanner) History(ctx context.Context, limit int) ([]ScanSummary, error) {
	items, err := loadSetting[[]ScanSummary](ctx, s.settings, keyScanHistory)
	if err != nil {
		return nil, err
	}
	return latest(items, limit), nil
}

func (s *ContentScanner) seoGaps(ctx context.Context, posts []domain.Document) ([]domain.DocumentGaps, error) {
	var out []domain.DocumentGaps
	for _, post := range posts {
		var meta domain.SEOMeta
		if s.meta != nil {
			m, err := s.meta.Meta(ctx, post.ID)
			if err != nil {
				return nil, fmt.Errorf("read meta for post %d: %w", post.ID, err)
			}
			meta = m
		}

		gaps := metaGaps(meta)
		if textLength(post.Body) < minContentLength {
			gaps = append(gaps, domain.SEOGap{Type: "content_too_short", Severity: domain.SeverityMedium, Description: "Content too short for good SEO"})
		}
		if n := seo.ImagesWithoutAlt(post.Body); n > 0 {
			gaps = append(gaps, domain.SEOGap{
				Type:        "missing_alt_text",
				Severity:    domain.SeverityMedium,
				Description: fmt.Sprintf("%d images missing alt text", n),
			})
		}
		if len(gaps) > 0 {
			out = append(out, domain.DocumentGaps{DocumentID: post.ID, Title: post.Title, URL: post.URL, Gaps: gaps})
		}
	}
	return out, nil
}

func metaGaps(meta domain.SEOMeta) []domain.SEOGap {
	var gaps []domain.SEOGap
	switch n := utf8.RuneCountInString(meta.MetaTitle); {
	case strings.TrimSpace(meta.MetaTitle) == "":
		gaps = append(gaps, domain.SEOGap{Type: "missing_meta_title", Severity: domain.SeverityHigh, Description: "Missing meta title"})
	case n < 30 || n > 60:
		gaps = append(gaps, domain.SEOGap{Type: "meta_title_length", Severity: domain.SeverityMedium, Description: "Meta title length not optimal"})
	}
	switch n := utf8.RuneCountInString(meta.MetaDescription); {
	case strings.TrimSpace(meta.MetaDescription) == "":
		gaps = append(gaps, domain.SEOGap{Type: "missing_meta_description", Severity: domain.SeverityHigh, Description: "Missing meta description"})
	case n < 120 || n > 160:
		gaps = append(gaps, domain.SEOGap{Type: "meta_description_length", Severity: domain.SeverityMedium, Description: "Meta description length not optimal"})
	}
	if strings.TrimSpace(meta.FocusKeyword) == "" {
		gaps = append(gaps, domain.SEOGap{Type: "missing_focus_keyword", Severity: domain.SeverityHigh, Description: "Missing focus keyword"})
	}
	return gaps
}

func missingTopics(profile brand.Profile, posts []domain.Document) []domain.MissingTopic {
	topics := profile.List(brand.ContentThemes, "main_topics")
	if len(topics) == 0 {
		return nil
	}
	var existing []string
	seen := map[string]bool{}
	for _, post := range posts {
		for _, c := range post.Categories {
			if !seen[c] {
				seen[c] = true
				existing = append(existing, c)
			}
		}
	}

	var out []domain.MissingTopic
	for _, topic := range topics {
		if covered(topic, existing) {
			continue
		}
		out = append(out, domain.MissingTopic{
			Topic:             topic,
			Priority:          domain.PriorityMedium,
			SuggestedKeywords: []string{topic, topic + " guide", "how to " + topic},
		})
	}
	return out
}

func covered(topic string, existing []string) bool {
	t := strings.ToLower(topic)
	for _, e := range existing {
		e = strings.ToLower(e)
		if strings.Contains(e, t) || strings.Contains(t, e) {
			return true
		}
	}
	return false
}

func contentOpportunities(posts []domain.Document) []domain.Opportunity {
	popular := append([]domain.Document(nil), posts...)
	sort.SliceStable(popular, func(i, j int) bool { return popular[i].CommentCount > popular[j].CommentCount })
	if len(popular) > popularPostCount {
		popular = popular[:popularPostCount]
	}

	var out []domain.Opportunity
	for _, post := range popular {
		if n := textLength(post.Body); n < popularMinLength {
			out = append(out, domain.Opportunity{
				Type:            "expand_popular_content",
				DocumentID:      post.ID,
				Title:           post.Title,
				CurrentLength:   n,
				SuggestedLength: popularTargetLength,
				Priority:        domain.PriorityHigh,
			})
		}
	}

	short := 0
	for _, post := range posts {
		if short >= shortPostLimit {
			break
		}
		if n := textLength(post.Body); n < shortPostLength {
			out = append(out, domain.Opportunity{
				Type:          "improve_short_content",
				DocumentID:    post.ID,
				Title:         post.Title,
				CurrentLength: n,
				Priority:      domain.PriorityMedium,
			})
			short++
		}
	}
	return out
}

func (s *ContentScanner) linking(posts []domain.Document) domain.LinkingStats {
	targets := make([]map[string]bool, len(posts))
	stats := domain.LinkingStats{}
	for i, post := range posts {
		links := s.scorer.InternalLinks(post.Body)
		if len(links) == 0 {
			stats.WithoutInternalLinks = append(stats.WithoutInternalLinks, linkRef(post))
		}
		targets[i] = map[string]bool{}
		for _, href := range links {
			if key := linkKey(href); key != "" {
				targets[i][key] = true
			}
		}
	}

	for i, post := range posts {
		key := linkKey(post.URL)
		incoming := false
		for j := range posts {
			if i != j && key != "" && targets[j][key] {
				incoming = true
				break
			}
		}
		if !incoming {
			stats.Orphaned = append(stats.Orphaned, linkRef(post))
		}
	}
	return stats
}

// linkKey reduces a link or permalink to its path and query so absolute and
// root-relative forms of the same address compare equal.
func linkKey(href string) string {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	path := strings.TrimSuffix(u.Path, "/")
	if path == "" && u.RawQuery == "" {
		return ""
	}
	if u.RawQuery != "" {
		return path + "?" + u.RawQuery
	}
	return path
}

func linkRef(post domain.Document) domain.LinkRef {
	return domain.LinkRef{DocumentID: post.ID, Title: post.Title, URL: post.URL}
}

func keywordOpportunities(posts []domain.Document) []domain.KeywordOpportunity {
	counts := map[string]int{}
	for _, post := range posts {
		for _, c := range post.Categories {
			counts[c]++
		}
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []domain.KeywordOpportunity
	for _, name := range names {
		if n := counts[name]; n < underusedCategoryMax {
			out = append(out, domain.KeywordOpportunity{
				Type:           "underutilized_category",
				Category:       name,
				PostCount:      n,
				SuggestedPosts: categoryTarget - n,
			})
		}
	}
	return out
}

func textLength(content string) int {
	return utf8.RuneCountInString(seo.StripTags(content))
}

func (s *ContentScanner) debug(msg string, args ...interface{}) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(msg, args...)
}
