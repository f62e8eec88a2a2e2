package usecase

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"ContentWriter/internal/brand"
	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
	"ContentWriter/internal/seo"
)

const (
	defaultWordCount  = 1000
	relatedLinkLimit  = 3
	focusKeywordMeta  = "_contentwriter_keyword"
	keywordTopicWords = 3
)

var (
	linkMarker   = regexp.MustCompile(`\[INTERNAL_LINK:([^\]]*)\]`)
	protectedRun = regexp.MustCompile(`(?is)<a\b[^>]*>.*?</a>|<[^>]*>`)
)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {},
	"of": {}, "with": {}, "by": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {}, "will": {}, "would": {},
	"could": {}, "should": {}, "may": {}, "might": {}, "can": {}, "this": {}, "that": {},
	"these": {}, "those": {}, "a": {}, "an": {},
}

// GenerateOptions tunes a generation request.
type GenerateOptions struct {
	WordCount int
	Tone      string
}

// PublishRequest describes how a draft should be stored.
type PublishRequest struct {
	Draft      domain.ContentDraft
	Status     domain.DocumentStatus
	Categories []string
	Tags       []string
}

// Publication identifies a stored draft.
type Publication struct {
	DocumentID int64             `json:"post_id"`
	URL        string            `json:"post_url"`
	Meta       domain.MetaUpdate `json:"meta"`
}

// ContentLog is one entry of the generation log.
type ContentLog struct {
	DocumentID  int64     `json:"post_id"`
	Title       string    `json:"title"`
	Keyword     string    `json:"keyword"`
	SEOScore    int       `json:"seo_score"`
	WordCount   int       `json:"word_count"`
	GeneratedAt time.Time `json:"generated_at"`
}

// GeneratorDeps wires the content generator collaborators.
type GeneratorDeps struct {
	Completer ports.Completer
	Content   ports.ContentRepository
	Settings  ports.SettingsStore
	Optimizer *Optimizer
	Meta      ports.SeoMetadataBackend
	Notifier  ports.Notifier
	SiteName  string
	Clock     func() time.Time
	Logger    *slog.Logger
}

// Generator writes new articles in the brand voice and publishes them.
type Generator struct {
	completer ports.Completer
	content   ports.ContentRepository
	settings  ports.SettingsStore
	optimizer *Optimizer
	meta      ports.SeoMetadataBackend
	notifier  ports.Notifier
	siteName  string
	now       func() time.Time
	logger    *slog.Logger
}

// NewGenerator constructs the generation use case.
func NewGenerator(deps GeneratorDeps) *Generator {
	optimizer := deps.Optimizer
	if optimizer == nil {
		optimizer = NewOptimizer(OptimizerDeps{Completer: deps.Completer, Settings: deps.Settings, Logger: deps.Logger})
	}
	return &Generator{
		completer: deps.Completer,
		content:   deps.Content,
		settings:  deps.Settings,
		optimizer: optimizer,
		meta:      deps.Meta,
		notifier:  deps.Notifier,
		siteName:  deps.SiteName,
		now:       clockOrNow(deps.Clock),
		logger:    deps.Logger,
	}
}

// Generate writes an article about topic, optimizes it, derives meta data and links it
// to related documents.
func (g *Generator) Generate(ctx context.Context, topic string, opts GenerateOptions) domain.Result[domain.ContentDraft] {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return domain.Fail[domain.ContentDraft]("Topic is required")
	}

	profile, err := loadProfile(ctx, g.settings)
	if err != nil {
		return domain.FailErr[domain.ContentDraft](err)
	}
	if profile.Empty() {
		return domain.Fail[domain.ContentDraft]("Brand analysis not completed. Please run brand analysis first.")
	}
	if g.completer == nil {
		return domain.FailErr[domain.ContentDraft](domain.ErrNotConfigured)
	}
	if opts.WordCount <= 0 {
		opts.WordCount = defaultWordCount
	}

	content, err := g.completer.Complete(ctx, ports.Prompt{
		Text:        buildGenerationPrompt(topic, profile, opts),
		MaxTokens:   3000,
		Temperature: 0.7,
		Timeout:     120 * time.Second,
	})
	if err != nil {
		return domain.FailErr[domain.ContentDraft](fmt.Errorf("generate content: %w", err))
	}
	if strings.TrimSpace(content) == "" {
		return domain.Fail[domain.ContentDraft]("Empty response from completion backend")
	}

	keyword := ExtractKeyword(topic, content)

	if optimized := g.optimizer.Optimize(ctx, content, keyword); optimized.Success {
		content = optimized.Data.Content
	} else {
		g.debug("optimization skipped", "topic", topic, "reason", optimized.Message)
	}

	meta := seo.GenerateMeta(content, keyword, topic, g.siteName)
	content = g.linkRelated(ctx, content, keyword)

	words := seo.WordCount(content)
	return domain.OK("Content generated successfully", domain.ContentDraft{
		Title:       topic,
		Content:     content,
		Meta:        meta,
		Keyword:     keyword,
		SEOScore:    g.optimizer.Scorer().Score(content, keyword),
		WordCount:   words,
		ReadingTime: domain.ReadingTime(words),
	})
}

// Publish stores a draft as a new post with its SEO meta data and logs the generation.
func (g *Generator) Publish(ctx context.Context, req PublishRequest) domain.Result[Publication] {
	draft := req.Draft
	if strings.TrimSpace(draft.Title) == "" {
		return domain.Fail[Publication]("Title is required")
	}
	if g.content == nil {
		return domain.Fail[Publication]("Content repository is not configured")
	}
	status := req.Status
	if status == "" {
		status = domain.StatusDraft
	}

	now := g.now()
	id, err := g.content.Create(ctx, domain.Document{
		Type:        "post",
		Title:       draft.Title,
		Body:        draft.Content,
		Status:      status,
		Categories:  req.Categories,
		Tags:        req.Tags,
		PublishedAt: now,
	})
	if err != nil {
		return domain.FailErr[Publication](fmt.Errorf("create post: %w", err))
	}

	pub := Publication{DocumentID: id}
	if g.meta != nil {
		if draft.Meta != (domain.SEOMeta{}) {
			update, err := g.meta.SetMeta(ctx, id, draft.Meta)
			if err != nil {
				return g.abandon(ctx, id, fmt.Errorf("set seo meta: %w", err))
			}
			pub.Meta = update
		}
		if draft.SEOScore > 0 {
			if err := g.meta.SetScore(ctx, id, draft.SEOScore); err != nil {
				return g.abandon(ctx, id, fmt.Errorf("set seo score: %w", err))
			}
		}
	}
	if draft.Keyword != "" {
		if err := g.content.SetMeta(ctx, id, focusKeywordMeta, draft.Keyword); err != nil {
			return g.abandon(ctx, id, fmt.Errorf("set focus keyword: %w", err))
		}
	}

	if doc, err := g.content.Get(ctx, id); err == nil {
		pub.URL = doc.URL
	}

	entry := ContentLog{
		DocumentID:  id,
		Title:       draft.Title,
		Keyword:     draft.Keyword,
		SEOScore:    draft.SEOScore,
		WordCount:   draft.WordCount,
		GeneratedAt: now,
	}
	if err := appendCapped(ctx, g.settings, keyContentLogs, entry, contentLogLimit); err != nil {
		g.debug("content log not saved", "error", err)
	}

	if status == domain.StatusPublish && g.notifier != nil {
		msg := fmt.Sprintf("Published: %s\n%s", draft.Title, pub.URL)
		if err := g.notifier.Notify(ctx, msg); err != nil {
			g.debug("publish notification failed", "error", err)
		}
	}

	if g.logger != nil {
		g.logger.Info("content published", "post_id", id, "status", status, "keyword", draft.Keyword)
	}
	return domain.OK("Content published successfully", pub)
}

// abandon removes a post whose meta data could not be stored.
func (g *Generator) abandon(ctx context.Context, id int64, cause error) domain.Result[Publication] {
	if err := g.content.Delete(ctx, id); err != nil {
		g.debug("incomplete post not removed", "post_id", id, "error", err)
	}
	return domain.FailErr[Publication](cause)
}

// Logs returns up to limit generation log entries, newest first.
func (g *Generator) Logs(ctx context.Context, limit int) ([]ContentLog, error) {
	if limit <= 0 {
		limit = 20
	}
	logs, err := loadSetting[[]ContentLog](ctx, g.settings, keyContentLogs)
	if err != nil {
		return nil, err
	}
	return latest(logs, limit), nil
}

// Suggestions proposes topics from the brand profile plus seasonal ideas for now.
func (g *Generator) Suggestions(ctx context.Context, now time.Time) ([]domain.Suggestion, error) {
	profile, err := loadProfile(ctx, g.settings)
	if err != nil {
		return nil, err
	}
	if profile.Empty() {
		return nil, nil
	}

	var out []domain.Suggestion
	for _, topic := range profile.List(brand.ContentThemes, "main_topics") {
		out = append(out, domain.Suggestion{
			Topic:       topic,
			Type:        "brand_topic",
			Priority:    domain.PriorityHigh,
			Description: fmt.Sprintf("Content about %s based on brand analysis", topic),
		})
	}
	for _, keyword := range profile.List(brand.SEOPatterns, "common_keywords") {
		out = append(out, domain.Suggestion{
			Topic:       keyword,
			Type:        "trending_keyword",
			Priority:    domain.PriorityMedium,
			Description: fmt.Sprintf("Content about trending keyword: %s", keyword),
		})
	}
	switch now.Month() {
	case time.January:
		out = append(out, domain.Suggestion{
			Topic:       "New Year Marketing Strategies",
			Type:        "seasonal",
			Priority:    domain.PriorityHigh,
			Description: "New Year marketing content",
		})
	case time.December:
		out = append(out, domain.Suggestion{
			Topic:       "Holiday Marketing Campaigns",
			Type:        "seasonal",
			Priority:    domain.PriorityHigh,
			Description: "Holiday marketing content",
		})
	}
	return out, nil
}

func (g *Generator) linkRelated(ctx context.Context, content, keyword string) string {
	content = linkMarker.ReplaceAllString(content, "$1")
	if g.content == nil || strings.TrimSpace(keyword) == "" {
		return content
	}
	related, err := g.content.Related(ctx, keyword, relatedLinkLimit)
	if err != nil {
		g.debug("related lookup failed", "keyword", keyword, "error", err)
		return content
	}
	return InsertLinks(content, keyword, related)
}

// ExtractKeyword takes the first three words of topic; when that is shorter than five
// characters it picks the most frequent non-stopword longer than three characters in content.
func ExtractKeyword(topic, content string) string {
	words := strings.Fields(strings.ToLower(topic))
	if len(words) > keywordTopicWords {
		words = words[:keywordTopicWords]
	}
	keyword := strings.Join(words, " ")
	if len(keyword) >= 5 {
		return keyword
	}

	counts := map[string]int{}
	var order []string
	for _, w := range seo.Words(strings.ToLower(seo.StripTags(content))) {
		if _, stop := stopWords[w]; stop || len(w) <= 3 {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	if len(order) == 0 {
		return keyword
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	return order[0]
}

// InsertLinks wraps the first whole-word occurrence of keyword that is outside markup and
// existing anchors with a link to each related document, in order.
func InsertLinks(content, keyword string, related []domain.Document) string {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return content
	}
	pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(keyword))
	if err != nil {
		return content
	}

	for i, doc := range related {
		if i >= relatedLinkLimit {
			break
		}
		if doc.URL == "" {
			continue
		}
		start, end, ok := firstFreeMatch(content, pattern)
		if !ok {
			break
		}
		link := fmt.Sprintf(`<a href="%s" title="%s">%s</a>`,
			html.EscapeString(doc.URL), html.EscapeString(doc.Title), content[start:end])
		content = content[:start] + link + content[end:]
	}
	return content
}

func firstFreeMatch(content string, pattern *regexp.Regexp) (int, int, bool) {
	protected := protectedRun.FindAllStringIndex(content, -1)
	for _, m := range pattern.FindAllStringIndex(content, -1) {
		inside := false
		for _, p := range protected {
			if m[0] < p[1] && m[1] > p[0] {
				inside = true
				break
			}
		}
		if !inside && wholeWord(content, m[0], m[1]) {
			return m[0], m[1], true
		}
	}
	return 0, 0, false
}

// wholeWord reports whether content[start:end] is not glued to a letter or digit on either side.
func wholeWord(content string, start, end int) bool {
	if before, size := utf8.DecodeLastRuneInString(content[:start]); size > 0 && wordRune(before) {
		return false
	}
	if after, size := utf8.DecodeRuneInString(content[end:]); size > 0 && wordRune(after) {
		return false
	}
	return true
}

func wordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func buildGenerationPrompt(topic string, profile brand.Profile, opts GenerateOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a comprehensive, SEO-optimized blog post about '%s'.\n\n", topic)
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Word count: approximately %d words\n", opts.WordCount)
	b.WriteString("- Include proper heading structure (H2, H3)\n")
	b.WriteString("- Use engaging, informative content\n")
	b.WriteString("- Include actionable insights and tips\n")
	b.WriteString("- Add relevant examples and case studies\n")
	b.WriteString("- Ensure content is original and valuable\n")
	if tone := strings.TrimSpace(opts.Tone); tone != "" {
		fmt.Fprintf(&b, "- Write in a %s tone\n", tone)
	} else {
		b.WriteString("- Write in a professional yet accessible tone\n")
	}
	b.WriteString("- Include a compelling introduction and conclusion\n")
	b.WriteString("- Add internal linking opportunities (mark with [INTERNAL_LINK:keyword])\n\n")

	fmt.Fprintf(&b, "Brand Guidelines:\n%s\n\n", profile.SectionJSON(brand.BrandGuidelines))
	fmt.Fprintf(&b, "Tone of Voice:\n%s\n\n", profile.SectionJSON(brand.ToneOfVoice))
	fmt.Fprintf(&b, "Content Themes:\n%s\n\n", profile.SectionJSON(brand.ContentThemes))

	b.WriteString("Please write only the content without any additional commentary or explanations. ")
	b.WriteString("The content should be ready for publication.")
	return b.String()
}

func (g *Generator) debug(msg string, args ...interface{}) {
	if g.logger == nil {
		return
	}
	g.logger.Debug(msg, args...)
}
