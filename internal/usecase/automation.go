package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
)

const (
	keyLastAutomated  = "last_automated_generation"
	recentPostLimit   = 10
	defaultDailySpec  = "0 9 * * *"
	defaultWeeklySpec = "0 6 * * 1"
	defaultMonthSpec  = "0 5 1 * *"
)

// AutomationLog records one automated generation.
type AutomationLog struct {
	DocumentID  int64             `json:"post_id"`
	Suggestion  domain.Suggestion `json:"suggestion"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// AutomationDeps wires the recurring jobs.
type AutomationDeps struct {
	Driver      ports.Scheduler
	Generator   *Generator
	Scanner     *ContentScanner
	Brand       *BrandAnalyzer
	Content     ports.ContentRepository
	Settings    ports.SettingsStore
	AutoPublish bool
	Frequency   string
	DailySpec   string
	WeeklySpec  string
	MonthlySpec string
	Location    *time.Location
	Clock       func() time.Time
	Logger      *slog.Logger
}

// Automation runs daily generation, the weekly scan and the monthly brand refresh.
type Automation struct {
	driver      ports.Scheduler
	generator   *Generator
	scanner     *ContentScanner
	brand       *BrandAnalyzer
	content     ports.ContentRepository
	settings    ports.SettingsStore
	autoPublish bool
	frequency   string
	specs       [3]string
	loc         *time.Location
	now         func() time.Time
	logger      *slog.Logger
}

// NewAutomation constructs the recurring job set.
func NewAutomation(deps AutomationDeps) *Automation {
	return &Automation{
		driver:      deps.Driver,
		generator:   deps.Generator,
		scanner:     deps.Scanner,
		brand:       deps.Brand,
		content:     deps.Content,
		settings:    deps.Settings,
		autoPublish: deps.AutoPublish,
		frequency:   strings.ToLower(strings.TrimSpace(deps.Frequency)),
		specs: [3]string{
			orDefault(deps.DailySpec, defaultDailySpec),
			orDefault(deps.WeeklySpec, defaultWeeklySpec),
			orDefault(deps.MonthlySpec, defaultMonthSpec),
		},
		loc:    deps.Location,
		now:    clockOrNow(deps.Clock),
		logger: deps.Logger,
	}
}

// Register adds the three recurring jobs to the driver; they run with ctx.
func (a *Automation) Register(ctx context.Context) error {
	if a.driver == nil {
		return nil
	}
	jobs := []struct {
		name string
		spec string
		run  func(context.Context) (bool, string)
	}{
		{"daily-generation", a.specs[0], func(ctx context.Context) (bool, string) {
			r := a.DailyGeneration(ctx)
			return r.Success, r.Message
		}},
		{"weekly-scan", a.specs[1], func(ctx context.Context) (bool, string) {
			r := a.WeeklyScan(ctx)
			return r.Success, r.Message
		}},
		{"monthly-brand-update", a.specs[2], func(ctx context.Context) (bool, string) {
			r := a.MonthlyBrandUpdate(ctx)
			return r.Success, r.Message
		}},
	}
	for _, job := range jobs {
		err := a.driver.Every(job.spec, job.name, func() {
			ok, msg := job.run(ctx)
			if a.logger != nil {
				a.logger.Info("automation job finished", "job", job.name, "success", ok, "message", msg)
			}
		})
		if err != nil {
			return fmt.Errorf("register %s: %w", job.name, err)
		}
	}
	return nil
}

// DailyGeneration generates and publishes the highest-priority suggestion when
// auto-publish is on and the configured frequency has elapsed.
func (a *Automation) DailyGeneration(ctx context.Context) domain.Result[AutomationLog] {
	if !a.autoPublish {
		return domain.Fail[AutomationLog]("Auto-publish is disabled")
	}
	if a.generator == nil {
		return domain.Fail[AutomationLog]("Content generator is not configured")
	}
	now := a.now()
	last, err := loadSetting[time.Time](ctx, a.settings, keyLastAutomated)
	if err != nil {
		return domain.FailErr[AutomationLog](err)
	}
	if a.loc != nil {
		now = now.In(a.loc)
	}
	if !due(a.frequency, last, now) {
		return domain.Fail[AutomationLog]("Generation is not due yet")
	}

	suggestions, err := a.generator.Suggestions(ctx, now)
	if err != nil {
		return domain.FailErr[AutomationLog](err)
	}
	best, ok := bestSuggestion(suggestions)
	if !ok {
		return domain.Fail[AutomationLog]("No content suggestions available")
	}

	generated := a.generator.Generate(ctx, best.Topic, GenerateOptions{})
	if !generated.Success {
		return domain.Fail[AutomationLog](generated.Message)
	}
	published := a.generator.Publish(ctx, PublishRequest{Draft: generated.Data, Status: domain.StatusPublish})
	if !published.Success {
		return domain.Fail[AutomationLog](published.Message)
	}

	entry := AutomationLog{DocumentID: published.Data.DocumentID, Suggestion: best, GeneratedAt: now}
	if err := appendCapped(ctx, a.settings, keyAutomationLogs, entry, automationLogLimit); err != nil {
		return domain.FailErr[AutomationLog](err)
	}
	if err := saveSetting(ctx, a.settings, keyLastAutomated, now); err != nil {
		return domain.FailErr[AutomationLog](err)
	}
	return domain.OK("Automated content published", entry)
}

// WeeklyScan runs a full content scan.
func (a *Automation) WeeklyScan(ctx context.Context) domain.Result[domain.ScanResult] {
	if a.scanner == nil {
		return domain.Fail[domain.ScanResult]("Content scanner is not configured")
	}
	return a.scanner.Scan(ctx)
}

// MonthlyBrandUpdate merges an analysis of the last month's posts into the brand profile.
func (a *Automation) MonthlyBrandUpdate(ctx context.Context) domain.Result[BrandAnalysis] {
	if a.brand == nil || a.content == nil {
		return domain.Fail[BrandAnalysis]("Brand analyzer is not configured")
	}
	posts, err := a.content.ListPublished(ctx, "post")
	if err != nil {
		return domain.FailErr[BrandAnalysis](fmt.Errorf("list posts: %w", err))
	}
	recent := recentPosts(posts, a.now().AddDate(0, -1, 0), recentPostLimit)
	if len(recent) == 0 {
		return domain.Fail[BrandAnalysis]("No recent content to analyze")
	}
	return a.brand.Update(ctx, recent...)
}

// Logs returns up to limit automated generations, newest first.
func (a *Automation) Logs(ctx context.Context, limit int) ([]AutomationLog, error) {
	logs, err := loadSetting[[]AutomationLog](ctx, a.settings, keyAutomationLogs)
	if err != nil {
		return nil, err
	}
	return latest(logs, limit), nil
}

// due compares calendar days in now's location, so run-time jitter and DST days
// do not push a run into the next slot.
func due(frequency string, last, now time.Time) bool {
	var every int
	switch frequency {
	case "daily":
		every = 1
	case "weekly", "":
		every = 7
	case "monthly":
		every = 30
	default:
		return false
	}
	if last.IsZero() {
		return true
	}
	return daysBetween(last.In(now.Location()), now) >= every
}

func daysBetween(from, to time.Time) int {
	day := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return int(day(to).Sub(day(from)) / (24 * time.Hour))
}

func bestSuggestion(suggestions []domain.Suggestion) (domain.Suggestion, bool) {
	if len(suggestions) == 0 {
		return domain.Suggestion{}, false
	}
	sorted := append([]domain.Suggestion(nil), suggestions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority.Weight() > sorted[j].Priority.Weight() })
	return sorted[0], true
}

func recentPosts(posts []domain.Document, since time.Time, limit int) []domain.Document {
	var out []domain.Document
	for _, p := range posts {
		if p.PublishedAt.After(since) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
