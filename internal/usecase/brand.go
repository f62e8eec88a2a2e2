package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ContentWriter/internal/brand"
	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
	"ContentWriter/internal/seo"
)

const (
	sampleMaxDocuments = 20
	sampleMaxChars     = 5000
	sampleMinChars     = 100
)

// BrandAnalysis is the profile produced by one analysis run.
type BrandAnalysis struct {
	Profile    brand.Profile `json:"profile"`
	Parsed     bool          `json:"parsed"`
	Documents  int           `json:"documents"`
	AnalyzedAt time.Time     `json:"analyzed_at"`
}

// BrandHistoryEntry records a past analysis run.
type BrandHistoryEntry struct {
	AnalyzedAt time.Time `json:"analyzed_at"`
	Documents  int       `json:"documents"`
	Parsed     bool      `json:"parsed"`
	Kind       string    `json:"kind"`
}

// BrandAnalyzerDeps wires the brand analyzer collaborators.
type BrandAnalyzerDeps struct {
	Completer ports.Completer
	Content   ports.ContentRepository
	Settings  ports.SettingsStore
	Clock     func() time.Time
	Logger    *slog.Logger
}

// BrandAnalyzer derives the brand profile from published site content.
type BrandAnalyzer struct {
	completer ports.Completer
	content   ports.ContentRepository
	settings  ports.SettingsStore
	now       func() time.Time
	logger    *slog.Logger
}

// NewBrandAnalyzer constructs the brand analysis use case.
func NewBrandAnalyzer(deps BrandAnalyzerDeps) *BrandAnalyzer {
	return &BrandAnalyzer{
		completer: deps.Completer,
		content:   deps.Content,
		settings:  deps.Settings,
		now:       clockOrNow(deps.Clock),
		logger:    deps.Logger,
	}
}

type contentSample struct {
	Title      string
	Content    string
	Categories []string
	Tags       []string
}

// Analyze samples published posts and pages, asks the backend for a five-section
// profile and stores it. Unparseable output is kept as a raw analysis section.
func (b *BrandAnalyzer) Analyze(ctx context.Context) domain.Result[BrandAnalysis] {
	if b.content == nil {
		return domain.Fail[BrandAnalysis]("No content found to analyze")
	}
	docs, err := b.content.ListPublished(ctx, "post", "page")
	if err != nil {
		return domain.FailErr[BrandAnalysis](fmt.Errorf("list content: %w", err))
	}

	sample := sampleDocuments(docs)
	if len(sample) == 0 {
		return domain.Fail[BrandAnalysis]("No content found to analyze")
	}

	text, err := b.complete(ctx, sample)
	if err != nil {
		return domain.FailErr[BrandAnalysis](err)
	}

	profile, parsed := parseOrRaw(text)
	now := b.now()
	if err := saveProfile(ctx, b.settings, profile, now); err != nil {
		return domain.FailErr[BrandAnalysis](err)
	}
	if err := saveSetting(ctx, b.settings, keyBrandCompleted, true); err != nil {
		return domain.FailErr[BrandAnalysis](err)
	}
	if err := saveSetting(ctx, b.settings, keyBrandDate, now); err != nil {
		return domain.FailErr[BrandAnalysis](err)
	}
	b.record(ctx, BrandHistoryEntry{AnalyzedAt: now, Documents: len(sample), Parsed: parsed, Kind: "full"})

	if b.logger != nil {
		b.logger.Info("brand analysis completed", "documents", len(sample), "parsed", parsed)
	}
	return domain.OK("Brand analysis completed successfully", BrandAnalysis{
		Profile:    profile,
		Parsed:     parsed,
		Documents:  len(sample),
		AnalyzedAt: now,
	})
}

// Update merges an analysis of docs into the stored profile, running a full analysis
// when no profile exists yet.
func (b *BrandAnalyzer) Update(ctx context.Context, docs ...domain.Document) domain.Result[BrandAnalysis] {
	current, err := loadProfile(ctx, b.settings)
	if err != nil {
		return domain.FailErr[BrandAnalysis](err)
	}
	if current.Empty() {
		return b.Analyze(ctx)
	}

	sample := sampleDocuments(docs)
	if len(sample) == 0 {
		return domain.Fail[BrandAnalysis]("No content found to analyze")
	}

	text, err := b.complete(ctx, sample)
	if err != nil {
		return domain.FailErr[BrandAnalysis](err)
	}
	incoming, err := brand.Parse(text)
	if err != nil {
		b.debug("brand update response not parseable", "error", err)
		return domain.Fail[BrandAnalysis]("Could not parse brand analysis response")
	}

	merged := brand.Merge(current, incoming)
	now := b.now()
	if err := saveProfile(ctx, b.settings, merged, now); err != nil {
		return domain.FailErr[BrandAnalysis](err)
	}
	b.record(ctx, BrandHistoryEntry{AnalyzedAt: now, Documents: len(sample), Parsed: true, Kind: "update"})

	return domain.OK("Brand profile updated successfully", BrandAnalysis{
		Profile:    merged,
		Parsed:     true,
		Documents:  len(sample),
		AnalyzedAt: now,
	})
}

// Profile returns the stored profile, empty when no analysis ran.
func (b *BrandAnalyzer) Profile(ctx context.Context) (brand.Profile, error) {
	return loadProfile(ctx, b.settings)
}

// Completed reports whether a full analysis has been stored.
func (b *BrandAnalyzer) Completed(ctx context.Context) (bool, error) {
	return loadSetting[bool](ctx, b.settings, keyBrandCompleted)
}

// AnalysisDate returns when the last full analysis finished.
func (b *BrandAnalyzer) AnalysisDate(ctx context.Context) (time.Time, error) {
	return loadSetting[time.Time](ctx, b.settings, keyBrandDate)
}

// History lists past runs, newest first.
func (b *BrandAnalyzer) History(ctx context.Context, limit int) ([]BrandHistoryEntry, error) {
	entries, err := loadSetting[[]BrandHistoryEntry](ctx, b.settings, keyBrandHistory)
	if err != nil {
		return nil, err
	}
	return latest(entries, limit), nil
}

func (b *BrandAnalyzer) complete(ctx context.Context, sample []contentSample) (string, error) {
	if b.completer == nil {
		return "", domain.ErrNotConfigured
	}
	text, err := b.completer.Complete(ctx, ports.Prompt{
		Text:        buildAnalysisPrompt(sample),
		MaxTokens:   2000,
		Temperature: 0.3,
		Timeout:     60 * time.Second,
	})
	if err != nil {
		return "", fmt.Errorf("brand analysis: %w", err)
	}
	return text, nil
}

func (b *BrandAnalyzer) record(ctx context.Context, entry BrandHistoryEntry) {
	if err := appendCapped(ctx, b.settings, keyBrandHistory, entry, historyLimit); err != nil {
		b.debug("brand history not saved", "error", err)
	}
}

func (b *BrandAnalyzer) debug(msg string, args ...interface{}) {
	if b.logger == nil {
		return
	}
	b.logger.Debug(msg, args...)
}

func parseOrRaw(text string) (brand.Profile, bool) {
	profile, err := brand.Parse(text)
	if err == nil {
		return profile, true
	}
	return brand.Profile{
		"analysis": brand.Section{
			"raw_response": brand.S(text),
			"parsed":       brand.S("false"),
		},
	}, false
}

func sampleDocuments(docs []domain.Document) []contentSample {
	var sample []contentSample
	for _, doc := range docs {
		if len(sample) >= sampleMaxDocuments {
			break
		}
		text := []rune(seo.StripTags(doc.Body))
		if len(text) > sampleMaxChars {
			text = text[:sampleMaxChars]
		}
		if len(text) < sampleMinChars {
			continue
		}
		sample = append(sample, contentSample{
			Title:      doc.Title,
			Content:    string(text),
			Categories: doc.Categories,
			Tags:       doc.Tags,
		})
	}
	return sample
}

func buildAnalysisPrompt(sample []contentSample) string {
	var content strings.Builder
	for _, post := range sample {
		fmt.Fprintf(&content, "Title: %s\n", post.Title)
		fmt.Fprintf(&content, "Content: %s\n", post.Content)
		fmt.Fprintf(&content, "Categories: %s\n", strings.Join(post.Categories, ", "))
		fmt.Fprintf(&content, "Tags: %s\n\n", strings.Join(post.Tags, ", "))
	}
	return analysisPromptHeader + content.String()
}

const analysisPromptHeader = `Analyze the following blog content and provide a comprehensive brand analysis. Please respond in JSON format with the following structure:
{
  "tone_of_voice": {
    "formality": "formal/informal/mixed",
    "personality": "professional/friendly/authoritative/casual",
    "emotional_tone": "neutral/positive/enthusiastic/serious",
    "writing_style": "conversational/technical/educational/persuasive"
  },
  "language_characteristics": {
    "primary_language": "language_code",
    "vocabulary_level": "basic/intermediate/advanced",
    "sentence_structure": "simple/complex/mixed",
    "common_phrases": ["phrase1", "phrase2", "phrase3"],
    "technical_terms": ["term1", "term2", "term3"]
  },
  "content_themes": {
    "main_topics": ["topic1", "topic2", "topic3"],
    "content_categories": ["category1", "category2", "category3"],
    "target_audience": "description of target audience",
    "content_goals": ["goal1", "goal2", "goal3"]
  },
  "seo_patterns": {
    "common_keywords": ["keyword1", "keyword2", "keyword3"],
    "title_patterns": "description of title patterns",
    "content_structure": "description of content structure",
    "internal_linking_patterns": "description of linking patterns"
  },
  "brand_guidelines": {
    "voice_guidelines": "specific voice guidelines",
    "style_preferences": "style preferences",
    "content_standards": "content quality standards",
    "seo_requirements": "SEO requirements and patterns"
  }
}

Content to analyze:
`
