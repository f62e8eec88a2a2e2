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

// Optimization is the outcome of an optimization pass.
type Optimization struct {
	Score         int      `json:"score"`
	PreviousScore int      `json:"previous_score"`
	Content       string   `json:"optimized_content"`
	Improvements  []string `json:"improvements,omitempty"`
}

// OptimizerDeps wires the optimizer collaborators.
type OptimizerDeps struct {
	Completer ports.Completer
	Settings  ports.SettingsStore
	Scorer    *seo.Scorer
	Threshold int
	Logger    *slog.Logger
}

// Optimizer rewrites under-scoring content through the completion backend.
type Optimizer struct {
	completer ports.Completer
	settings  ports.SettingsStore
	scorer    *seo.Scorer
	threshold int
	logger    *slog.Logger
}

// NewOptimizer constructs the optimization use case.
func NewOptimizer(deps OptimizerDeps) *Optimizer {
	scorer := deps.Scorer
	if scorer == nil {
		scorer = seo.NewScorer("")
	}
	threshold := deps.Threshold
	if threshold <= 0 {
		threshold = seo.DefaultThreshold
	}
	return &Optimizer{
		completer: deps.Completer,
		settings:  deps.Settings,
		scorer:    scorer,
		threshold: threshold,
		logger:    deps.Logger,
	}
}

// Scorer exposes the scorer shared with other use cases.
func (o *Optimizer) Scorer() *seo.Scorer {
	return o.scorer
}

// Threshold returns the score at which content counts as optimized.
func (o *Optimizer) Threshold() int {
	return o.threshold
}

// Optimize leaves content at or above the threshold untouched and otherwise asks the
// backend for a rewrite, which is re-scored and returned as opaque text.
func (o *Optimizer) Optimize(ctx context.Context, content, keyword string) domain.Result[Optimization] {
	current := o.scorer.Score(content, keyword)
	if seo.Optimized(current, o.threshold) {
		return domain.OK("Content already optimized", Optimization{
			Score:         current,
			PreviousScore: current,
			Content:       content,
		})
	}

	if o.completer == nil {
		return domain.FailErr[Optimization](domain.ErrNotConfigured)
	}

	profile, err := loadProfile(ctx, o.settings)
	if err != nil {
		o.debug("brand profile unavailable", "error", err)
		profile = brand.Profile{}
	}

	text, err := o.completer.Complete(ctx, ports.Prompt{
		Text:        buildOptimizationPrompt(content, keyword, profile),
		MaxTokens:   2000,
		Temperature: 0.3,
		Timeout:     60 * time.Second,
	})
	if err != nil {
		o.debug("optimization failed", "error", err)
		return domain.FailErr[Optimization](fmt.Errorf("optimize content: %w", err))
	}
	if strings.TrimSpace(text) == "" {
		return domain.Fail[Optimization]("Empty response from completion backend")
	}

	return domain.OK("Content optimized successfully", Optimization{
		Score:         o.scorer.Score(text, keyword),
		PreviousScore: current,
		Content:       text,
		Improvements:  o.scorer.Improvements(content, text, keyword),
	})
}

func buildOptimizationPrompt(content, keyword string, profile brand.Profile) string {
	var b strings.Builder
	b.WriteString("Optimize the following content for SEO while maintaining the brand voice and style. ")
	b.WriteString("The content should achieve a 10/10 SEO score.\n\n")
	b.WriteString("SEO Requirements:\n")
	fmt.Fprintf(&b, "1. Include the focus keyword '%s' in the first paragraph\n", keyword)
	b.WriteString("2. Maintain keyword density between 0.5% and 2%\n")
	b.WriteString("3. Use at least 30% transition words\n")
	b.WriteString("4. Keep passive voice under 10%\n")
	b.WriteString("5. Include proper heading structure (H2, H3)\n")
	b.WriteString("6. Add internal links where relevant\n")
	b.WriteString("7. Ensure content is readable and engaging\n")
	b.WriteString("8. Maintain content length of at least 300 words\n\n")
	if len(profile[brand.BrandGuidelines]) > 0 {
		b.WriteString("Brand Guidelines: ")
		b.WriteString(profile.SectionJSON(brand.BrandGuidelines))
		b.WriteString("\n\n")
	}
	b.WriteString("Content to optimize:\n\n")
	b.WriteString(content)
	b.WriteString("\n\nPlease return only the optimized content without any additional commentary or explanations.")
	return b.String()
}

func (o *Optimizer) debug(msg string, args ...interface{}) {
	if o.logger == nil {
		return
	}
	o.logger.Debug(msg, args...)
}
