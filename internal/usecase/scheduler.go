package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
)

const (
	defaultScheduleListLimit = 20
	publishHour              = 9
	productSuggestionCount   = 10
)

var seasonalTopics = map[time.Month][]string{
	time.January:   {"New Year Marketing Strategies", "New Year Resolutions for Business", "Planning Your Year Ahead"},
	time.February:  {"Valentine's Day Marketing", "Love and Business", "Romantic Business Ideas"},
	time.March:     {"Spring Marketing Trends", "Spring Cleaning for Business", "Fresh Start Marketing"},
	time.April:     {"Easter Marketing Ideas", "Spring Business Growth", "Renewal and Growth"},
	time.May:       {"Mother's Day Marketing", "Women in Business", "Family Business Tips"},
	time.June:      {"Father's Day Marketing", "Summer Business Planning", "Mid-Year Review"},
	time.July:      {"Summer Marketing Strategies", "Vacation Business Tips", "Summer Sales Boost"},
	time.August:    {"Back to School Marketing", "Educational Content Ideas", "Learning and Development"},
	time.September: {"Fall Marketing Trends", "Back to Business", "Autumn Growth Strategies"},
	time.October:   {"Halloween Marketing", "Spooky Business Tips", "Creative Marketing Ideas"},
	time.November:  {"Thanksgiving Marketing", "Gratitude in Business", "Thank You Campaigns"},
	time.December:  {"Christmas Marketing", "Holiday Business Tips", "Year-End Strategies"},
}

var trendingTopics = []string{
	"AI and Machine Learning",
	"Digital Marketing Trends",
	"Remote Work Strategies",
	"Sustainability in Business",
	"Customer Experience",
	"Data Privacy",
	"E-commerce Growth",
	"Social Media Marketing",
	"Content Marketing",
	"SEO Best Practices",
}

// ScheduleRequest asks for a topic to be generated and published at a given time.
type ScheduleRequest struct {
	Topic   string
	At      time.Time
	Options domain.ScheduleOptions
}

// BulkOutcome pairs a bulk request topic with its individual result.
type BulkOutcome struct {
	Topic  string                              `json:"topic"`
	Result domain.Result[domain.ScheduledItem] `json:"result"`
}

// ScheduleStats summarizes the schedule around a point in time.
type ScheduleStats struct {
	TotalScheduled     int `json:"total_scheduled"`
	CompletedThisMonth int `json:"completed_this_month"`
	UpcomingThisWeek   int `json:"upcoming_this_week"`
}

// ContentSchedulerDeps wires the scheduler collaborators.
type ContentSchedulerDeps struct {
	Repository ports.ScheduleRepository
	Driver     ports.Scheduler
	Generator  *Generator
	Catalog    ports.ProductCatalog
	Location   *time.Location
	Clock      func() time.Time
	NewID      func() string
	Logger     *slog.Logger
}

// ContentScheduler queues topics for generation and publishes them when due.
type ContentScheduler struct {
	repo      ports.ScheduleRepository
	driver    ports.Scheduler
	generator *Generator
	catalog   ports.ProductCatalog
	loc       *time.Location
	now       func() time.Time
	newID     func() string
	logger    *slog.Logger
}

// NewContentScheduler constructs the scheduling use case.
func NewContentScheduler(deps ContentSchedulerDeps) *ContentScheduler {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	newID := deps.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &ContentScheduler{
		repo:      deps.Repository,
		driver:    deps.Driver,
		generator: deps.Generator,
		catalog:   deps.Catalog,
		loc:       loc,
		now:       clockOrNow(deps.Clock),
		newID:     newID,
		logger:    deps.Logger,
	}
}

// Schedule validates and stores a request under a fresh id and registers its one-shot job.
func (s *ContentScheduler) Schedule(ctx context.Context, req ScheduleRequest) domain.Result[domain.ScheduledItem] {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return domain.Fail[domain.ScheduledItem]("Topic is required")
	}
	if req.At.IsZero() {
		return domain.Fail[domain.ScheduledItem]("Scheduled time is required")
	}
	now := s.now()
	if !req.At.After(now) {
		return domain.Fail[domain.ScheduledItem]("Scheduled time must be in the future")
	}
	if s.repo == nil {
		return domain.Fail[domain.ScheduledItem]("Failed to schedule content")
	}

	item := domain.ScheduledItem{
		ID:           s.newID(),
		Topic:        topic,
		ScheduledFor: req.At.In(s.loc),
		Status:       domain.ScheduleScheduled,
		Options:      req.Options,
		CreatedAt:    now,
	}
	if err := s.repo.SaveScheduled(ctx, item); err != nil {
		return domain.FailErr[domain.ScheduledItem](fmt.Errorf("save scheduled item: %w", err))
	}
	if err := s.register(context.WithoutCancel(ctx), item); err != nil {
		return domain.FailErr[domain.ScheduledItem](err)
	}

	if s.logger != nil {
		s.logger.Info("content scheduled", "id", item.ID, "topic", item.Topic, "at", item.ScheduledFor)
	}
	return domain.OK("Content scheduled successfully", item)
}

// Process generates and publishes a due item. On failure the item stays scheduled.
func (s *ContentScheduler) Process(ctx context.Context, id string) domain.Result[Publication] {
	item, err := s.repo.GetScheduled(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Fail[Publication]("Scheduled item not found")
	}
	if err != nil {
		return domain.FailErr[Publication](fmt.Errorf("load scheduled item: %w", err))
	}
	if item.Status != domain.ScheduleScheduled {
		return domain.Fail[Publication](fmt.Sprintf("Scheduled item is already %s", item.Status))
	}
	if s.generator == nil {
		return domain.Fail[Publication]("Content generator is not configured")
	}

	generated := s.generator.Generate(ctx, item.Topic, GenerateOptions{
		WordCount: item.Options.WordCount,
		Tone:      item.Options.Tone,
	})
	if !generated.Success {
		s.debug("scheduled generation failed", "id", id, "reason", generated.Message)
		return domain.Fail[Publication](generated.Message)
	}

	req := PublishRequest{Draft: generated.Data, Status: domain.StatusPublish, Tags: splitTags(item.Options.Tags)}
	if c := strings.TrimSpace(item.Options.Category); c != "" {
		req.Categories = []string{c}
	}
	published := s.generator.Publish(ctx, req)
	if !published.Success {
		return published
	}

	if err := s.repo.UpdateScheduledStatus(ctx, id, domain.ScheduleCompleted); err != nil {
		return domain.FailErr[Publication](fmt.Errorf("complete scheduled item: %w", err))
	}
	return domain.OK("Scheduled content published successfully", published.Data)
}

// Cancel marks a pending item cancelled and drops its job.
func (s *ContentScheduler) Cancel(ctx context.Context, id string) domain.Result[domain.ScheduledItem] {
	item, err := s.repo.GetScheduled(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Fail[domain.ScheduledItem]("Scheduled item not found")
	}
	if err != nil {
		return domain.FailErr[domain.ScheduledItem](fmt.Errorf("load scheduled item: %w", err))
	}
	if item.Status != domain.ScheduleScheduled {
		return domain.Fail[domain.ScheduledItem](fmt.Sprintf("Scheduled item is already %s", item.Status))
	}
	if err := s.repo.UpdateScheduledStatus(ctx, id, domain.ScheduleCancelled); err != nil {
		return domain.FailErr[domain.ScheduledItem](fmt.Errorf("cancel scheduled item: %w", err))
	}
	if s.driver != nil {
		s.driver.Cancel(id)
	}
	item.Status = domain.ScheduleCancelled
	return domain.OK("Scheduled content cancelled", item)
}

// CancelByTopic cancels every pending item whose topic matches, ignoring case.
func (s *ContentScheduler) CancelByTopic(ctx context.Context, topic string) domain.Result[int] {
	items, err := s.repo.ListScheduled(ctx, domain.ScheduleScheduled, time.Time{}, time.Time{}, 0)
	if err != nil {
		return domain.FailErr[int](fmt.Errorf("list scheduled items: %w", err))
	}
	cancelled := 0
	for _, item := range items {
		if !strings.EqualFold(item.Topic, strings.TrimSpace(topic)) {
			continue
		}
		if res := s.Cancel(ctx, item.ID); !res.Success {
			return domain.Fail[int](res.Message)
		}
		cancelled++
	}
	if cancelled == 0 {
		return domain.Fail[int]("No scheduled content found for topic")
	}
	return domain.OK("Scheduled content cancelled", cancelled)
}

// List returns items with status (any when empty) ordered by time.
func (s *ContentScheduler) List(ctx context.Context, status domain.ScheduleStatus, limit int) ([]domain.ScheduledItem, error) {
	if limit <= 0 {
		limit = defaultScheduleListLimit
	}
	return s.repo.ListScheduled(ctx, status, time.Time{}, time.Time{}, limit)
}

// Calendar groups pending items of a month by day of month.
func (s *ContentScheduler) Calendar(ctx context.Context, year int, month time.Month) (map[int][]domain.ScheduledItem, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	items, err := s.repo.ListScheduled(ctx, domain.ScheduleScheduled, from, from.AddDate(0, 1, 0), 0)
	if err != nil {
		return nil, fmt.Errorf("list calendar: %w", err)
	}
	calendar := map[int][]domain.ScheduledItem{}
	for _, item := range items {
		day := item.ScheduledFor.In(s.loc).Day()
		calendar[day] = append(calendar[day], item)
	}
	return calendar, nil
}

// Stats counts pending items, items completed in now's month and pending items in now's week.
func (s *ContentScheduler) Stats(ctx context.Context, now time.Time) (ScheduleStats, error) {
	scheduled, err := s.repo.ListScheduled(ctx, domain.ScheduleScheduled, time.Time{}, time.Time{}, 0)
	if err != nil {
		return ScheduleStats{}, fmt.Errorf("list scheduled: %w", err)
	}
	now = now.In(s.loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	completed, err := s.repo.ListScheduled(ctx, domain.ScheduleCompleted, monthStart, monthStart.AddDate(0, 1, 0), 0)
	if err != nil {
		return ScheduleStats{}, fmt.Errorf("list completed: %w", err)
	}

	weekStart := startOfDay(now).AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
	weekEnd := weekStart.AddDate(0, 0, 7)
	upcoming := 0
	for _, item := range scheduled {
		at := item.ScheduledFor.In(s.loc)
		if !at.Before(weekStart) && at.Before(weekEnd) {
			upcoming++
		}
	}
	return ScheduleStats{
		TotalScheduled:     len(scheduled),
		CompletedThisMonth: len(completed),
		UpcomingThisWeek:   upcoming,
	}, nil
}

// BulkSchedule schedules every request independently.
func (s *ContentScheduler) BulkSchedule(ctx context.Context, reqs []ScheduleRequest) domain.Result[[]BulkOutcome] {
	out := make([]BulkOutcome, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, BulkOutcome{Topic: req.Topic, Result: s.Schedule(ctx, req)})
	}
	return domain.OK("Bulk scheduling completed", out)
}

// Suggestions proposes seasonal, trending and catalog-driven topics, each dated on the
// next free publishing slot.
func (s *ContentScheduler) Suggestions(ctx context.Context, now time.Time) ([]domain.Suggestion, error) {
	slot, err := s.NextFreeSlot(ctx, now)
	if err != nil {
		return nil, err
	}
	now = now.In(s.loc)

	var out []domain.Suggestion
	for _, topic := range seasonalTopics[now.Month()] {
		out = append(out, domain.Suggestion{
			Topic:         topic,
			Type:          "seasonal",
			Priority:      domain.PriorityHigh,
			SuggestedDate: slot,
			Description:   fmt.Sprintf("Seasonal content for %s", now.Month()),
		})
	}
	for _, topic := range trendingTopics {
		out = append(out, domain.Suggestion{
			Topic:         topic,
			Type:          "trending",
			Priority:      domain.PriorityMedium,
			SuggestedDate: slot,
			Description:   "Trending topic with high search volume",
		})
	}
	if s.catalog == nil {
		return out, nil
	}

	products, err := s.catalog.Popular(ctx, productSuggestionCount)
	if err != nil {
		return nil, fmt.Errorf("popular products: %w", err)
	}
	for _, p := range products {
		out = append(out, domain.Suggestion{
			Topic:         fmt.Sprintf("Complete Guide to %s", p.Name),
			Type:          "product_guide",
			Priority:      domain.PriorityHigh,
			ProductID:     p.ID,
			SuggestedDate: slot,
			Description:   fmt.Sprintf("Comprehensive guide for %s", p.Name),
		})
	}
	categories, err := s.catalog.TopCategories(ctx, productSuggestionCount)
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	for _, c := range categories {
		out = append(out, domain.Suggestion{
			Topic:         fmt.Sprintf("Best %s Products %d", c.Name, now.Year()),
			Type:          "category_guide",
			Priority:      domain.PriorityMedium,
			Category:      c.Name,
			SuggestedDate: slot,
			Description:   fmt.Sprintf("Product recommendations for %s", c.Name),
		})
	}
	return out, nil
}

// NextFreeSlot returns 09:00 on the first day after now with no pending item.
func (s *ContentScheduler) NextFreeSlot(ctx context.Context, now time.Time) (time.Time, error) {
	items, err := s.repo.ListScheduled(ctx, domain.ScheduleScheduled, time.Time{}, time.Time{}, 0)
	if err != nil {
		return time.Time{}, fmt.Errorf("list scheduled: %w", err)
	}
	busy := map[string]bool{}
	for _, item := range items {
		busy[item.ScheduledFor.In(s.loc).Format(time.DateOnly)] = true
	}
	day := startOfDay(now.In(s.loc)).AddDate(0, 0, 1)
	for busy[day.Format(time.DateOnly)] {
		day = day.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), publishHour, 0, 0, 0, s.loc), nil
}

// Restore registers jobs for every pending item, typically at daemon start.
func (s *ContentScheduler) Restore(ctx context.Context) (int, error) {
	items, err := s.repo.ListScheduled(ctx, domain.ScheduleScheduled, time.Time{}, time.Time{}, 0)
	if err != nil {
		return 0, fmt.Errorf("list scheduled: %w", err)
	}
	for _, item := range items {
		if err := s.register(ctx, item); err != nil {
			return 0, err
		}
	}
	return len(items), nil
}

func (s *ContentScheduler) register(ctx context.Context, item domain.ScheduledItem) error {
	if s.driver == nil {
		return nil
	}
	id := item.ID
	err := s.driver.ScheduleAt(id, item.ScheduledFor, func() {
		res := s.Process(ctx, id)
		if s.logger == nil {
			return
		}
		if res.Success {
			s.logger.Info("scheduled content processed", "id", id, "post_id", res.Data.DocumentID)
		} else {
			s.logger.Warn("scheduled content failed", "id", id, "reason", res.Message)
		}
	})
	if err != nil {
		return fmt.Errorf("register scheduled item %s: %w", id, err)
	}
	return nil
}

func (s *ContentScheduler) debug(msg string, args ...interface{}) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(msg, args...)
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
