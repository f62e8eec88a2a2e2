package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"ContentWriter/internal/brand"
	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
	"ContentWriter/internal/seo"
)

// ContentPatterns accumulates measurements of published posts.
type ContentPatterns struct {
	WordCounts   []int          `json:"word_count"`
	ReadingTimes []int          `json:"reading_time"`
	Categories   map[string]int `json:"categories"`
}

// SEOPatterns accumulates stored SEO metadata measurements.
type SEOPatterns struct {
	TitleLengths       []int `json:"title_length"`
	DescriptionLengths []int `json:"description_length"`
	Scores             []int `json:"seo_score"`
}

// LearningLog records one learning pass.
type LearningLog struct {
	DocumentID  int64             `json:"post_id"`
	Title       string            `json:"title"`
	WordCount   int               `json:"word_count"`
	ReadingTime int               `json:"reading_time"`
	Observation brand.Observation `json:"observation"`
	LearnedAt   time.Time         `json:"learned_at"`
}

// Insights aggregates the accumulated patterns.
type Insights struct {
	Samples           int                    `json:"samples"`
	AvgWordCount      int                    `json:"avg_word_count"`
	AvgReadingTime    int                    `json:"avg_reading_time"`
	PopularCategories []domain.CategoryCount `json:"popular_categories"`
	ScoredSamples     int                    `json:"scored_samples"`
	AvgSEOScore       float64                `json:"avg_seo_score"`
}

// LearnerDeps wires the learning system collaborators.
type LearnerDeps struct {
	Content  ports.ContentRepository
	Meta     ports.SeoMetadataBackend
	Settings ports.SettingsStore
	Clock    func() time.Time
	Logger   *slog.Logger
}

// Learner refines the brand profile and content statistics from newly published posts.
type Learner struct {
	content  ports.ContentRepository
	meta     ports.SeoMetadataBackend
	settings ports.SettingsStore
	now      func() time.Time
	logger   *slog.Logger
}

// NewLearner constructs the learning use case.
func NewLearner(deps LearnerDeps) *Learner {
	return &Learner{
		content:  deps.Content,
		meta:     deps.Meta,
		settings: deps.Settings,
		now:      clockOrNow(deps.Clock),
		logger:   deps.Logger,
	}
}

// Learn observes a published document and folds the result into the stored profile
// and patterns.
func (l *Learner) Learn(ctx context.Context, docID int64) domain.Result[brand.Observation] {
	if l.content == nil {
		return domain.Fail[brand.Observation]("Content repository is not configured")
	}
	doc, err := l.content.Get(ctx, docID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !doc.Published()) {
		return domain.Fail[brand.Observation]("Post not found or not published")
	}
	if err != nil {
		return domain.FailErr[brand.Observation](fmt.Errorf("load post: %w", err))
	}

	obs := brand.Observe(doc.Body)
	words := seo.WordCount(doc.Body)
	now := l.now()

	if err := l.updateProfile(ctx, obs, doc.Categories, now); err != nil {
		return domain.FailErr[brand.Observation](err)
	}
	if err := l.updateContentPatterns(ctx, words, doc.Categories); err != nil {
		return domain.FailErr[brand.Observation](err)
	}
	if err := l.updateSEOPatterns(ctx, docID); err != nil {
		return domain.FailErr[brand.Observation](err)
	}

	entry := LearningLog{
		DocumentID:  docID,
		Title:       doc.Title,
		WordCount:   words,
		ReadingTime: domain.ReadingTime(words),
		Observation: obs,
		LearnedAt:   now,
	}
	if err := appendCapped(ctx, l.settings, keyLearningLogs, entry, learningLogLimit); err != nil {
		l.debug("learning log not saved", "error", err)
	}
	return domain.OK("Learning completed successfully", obs)
}

// Insights averages the accumulated patterns.
func (l *Learner) Insights(ctx context.Context) (Insights, error) {
	content, err := loadSetting[ContentPatterns](ctx, l.settings, keyContentPatterns)
	if err != nil {
		return Insights{}, err
	}
	seoPatterns, err := loadSetting[SEOPatterns](ctx, l.settings, keySEOPatterns)
	if err != nil {
		return Insights{}, err
	}

	out := Insights{Samples: len(content.WordCounts), ScoredSamples: len(seoPatterns.Scores)}
	out.AvgWordCount = int(math.Round(mean(content.WordCounts)))
	out.AvgReadingTime = int(math.Round(mean(content.ReadingTimes)))
	out.AvgSEOScore = math.Round(mean(seoPatterns.Scores)*10) / 10

	for name, n := range content.Categories {
		out.PopularCategories = append(out.PopularCategories, domain.CategoryCount{Name: name, Count: n})
	}
	sort.Slice(out.PopularCategories, func(i, j int) bool {
		a, b := out.PopularCategories[i], out.PopularCategories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})
	if len(out.PopularCategories) > 5 {
		out.PopularCategories = out.PopularCategories[:5]
	}
	return out, nil
}

// Recommendations turns insights into advice.
func (l *Learner) Recommendations(ctx context.Context) ([]domain.Recommendation, error) {
	insights, err := l.Insights(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Recommendation
	if insights.Samples > 0 && insights.AvgWordCount < 500 {
		out = append(out, domain.Recommendation{
			Type:     "word_count",
			Message:  "Consider increasing content length for better SEO",
			Priority: domain.PriorityMedium,
		})
	}
	if insights.ScoredSamples > 0 && insights.AvgSEOScore < 7 {
		out = append(out, domain.Recommendation{
			Type:     "seo_score",
			Message:  "Focus on improving SEO scores for better rankings",
			Priority: domain.PriorityHigh,
		})
	}
	if n := len(insights.PopularCategories); n > 0 && n < 3 {
		out = append(out, domain.Recommendation{
			Type:     "category_diversity",
			Message:  "Consider diversifying content across more categories",
			Priority: domain.PriorityLow,
		})
	}
	return out, nil
}

// Logs returns up to limit learning passes, newest first.
func (l *Learner) Logs(ctx context.Context, limit int) ([]LearningLog, error) {
	logs, err := loadSetting[[]LearningLog](ctx, l.settings, keyLearningLogs)
	if err != nil {
		return nil, err
	}
	return latest(logs, limit), nil
}

func (l *Learner) updateProfile(ctx context.Context, obs brand.Observation, categories []string, now time.Time) error {
	current, err := loadProfile(ctx, l.settings)
	if err != nil {
		return err
	}
	if current.Empty() {
		return nil
	}
	incoming := obs.Profile()
	if len(categories) > 0 {
		incoming.Set(brand.ContentThemes, "main_topics", brand.L(categories...))
	}
	return saveProfile(ctx, l.settings, brand.Merge(current, incoming), now)
}

func (l *Learner) updateContentPatterns(ctx context.Context, words int, categories []string) error {
	patterns, err := loadSetting[ContentPatterns](ctx, l.settings, keyContentPatterns)
	if err != nil {
		return err
	}
	patterns.WordCounts = capTail(append(patterns.WordCounts, words), patternLimit)
	patterns.ReadingTimes = capTail(append(patterns.ReadingTimes, domain.ReadingTime(words)), patternLimit)
	if patterns.Categories == nil {
		patterns.Categories = map[string]int{}
	}
	for _, c := range categories {
		patterns.Categories[c]++
	}
	return saveSetting(ctx, l.settings, keyContentPatterns, patterns)
}

func (l *Learner) updateSEOPatterns(ctx context.Context, docID int64) error {
	if l.meta == nil {
		return nil
	}
	meta, err := l.meta.Meta(ctx, docID)
	if err != nil {
		return fmt.Errorf("read seo meta: %w", err)
	}
	score, scored, err := l.meta.Score(ctx, docID)
	if err != nil {
		return fmt.Errorf("read seo score: %w", err)
	}

	patterns, err := loadSetting[SEOPatterns](ctx, l.settings, keySEOPatterns)
	if err != nil {
		return err
	}
	if meta.MetaTitle != "" {
		patterns.TitleLengths = capTail(append(patterns.TitleLengths, utf8.RuneCountInString(meta.MetaTitle)), patternLimit)
	}
	if meta.MetaDescription != "" {
		patterns.DescriptionLengths = capTail(append(patterns.DescriptionLengths, utf8.RuneCountInString(meta.MetaDescription)), patternLimit)
	}
	if scored && score > 0 {
		patterns.Scores = capTail(append(patterns.Scores, score), patternLimit)
	}
	return saveSetting(ctx, l.settings, keySEOPatterns, patterns)
}

func (l *Learner) debug(msg string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Debug(msg, args...)
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
