package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"ContentWriter/internal/domain"
)

// Wednesday.
var scheduleNow = time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
}

func newTestScheduler(repo *memSchedule, driver *fakeDriver, gen *Generator) *ContentScheduler {
	return NewContentScheduler(ContentSchedulerDeps{
		Repository: repo,
		Driver:     driver,
		Generator:  gen,
		Location:   time.UTC,
		Clock:      fixedClock(scheduleNow),
		NewID:      sequentialIDs(),
	})
}

func TestScheduleValidation(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(newMemSchedule(), newFakeDriver(), nil)
	cases := []struct {
		req  ScheduleRequest
		want string
	}{
		{ScheduleRequest{At: scheduleNow.Add(time.Hour)}, "Topic is required"},
		{ScheduleRequest{Topic: "Soil"}, "Scheduled time is required"},
		{ScheduleRequest{Topic: "Soil", At: scheduleNow.Add(-time.Minute)}, "Scheduled time must be in the future"},
	}
	for _, tc := range cases {
		if res := s.Schedule(context.Background(), tc.req); res.Success || res.Message != tc.want {
			t.Errorf("Schedule(%+v) = %+v, want %q", tc.req, res, tc.want)
		}
	}
}

func TestScheduleAssignsDistinctIDs(t *testing.T) {
	t.Parallel()

	repo := newMemSchedule()
	driver := newFakeDriver()
	s := NewContentScheduler(ContentSchedulerDeps{Repository: repo, Driver: driver, Clock: fixedClock(scheduleNow)})

	at := scheduleNow.Add(24 * time.Hour)
	first := s.Schedule(context.Background(), ScheduleRequest{Topic: "Soil", At: at})
	second := s.Schedule(context.Background(), ScheduleRequest{Topic: "Soil", At: at})
	if !first.Success || !second.Success {
		t.Fatalf("schedule failed: %+v %+v", first, second)
	}
	if first.Data.ID == second.Data.ID || len(first.Data.ID) != 36 {
		t.Fatalf("ids must be distinct uuids: %q %q", first.Data.ID, second.Data.ID)
	}
	if first.Data.Status != domain.ScheduleScheduled || !first.Data.CreatedAt.Equal(scheduleNow) {
		t.Fatalf("unexpected item: %+v", first.Data)
	}
	if len(repo.items) != 2 || len(driver.oneShot) != 2 || !driver.oneShot[first.Data.ID].Equal(at) {
		t.Fatalf("items %d, jobs %v", len(repo.items), driver.oneShot)
	}
}

func TestCancel(t *testing.T) {
	t.Parallel()

	repo := newMemSchedule()
	driver := newFakeDriver()
	s := newTestScheduler(repo, driver, nil)
	item := s.Schedule(context.Background(), ScheduleRequest{Topic: "Soil", At: scheduleNow.Add(time.Hour)}).Data

	res := s.Cancel(context.Background(), item.ID)
	if !res.Success || res.Data.Status != domain.ScheduleCancelled {
		t.Fatalf("unexpected result: %+v", res)
	}
	if repo.items[item.ID].Status != domain.ScheduleCancelled || len(driver.oneShot) != 0 {
		t.Fatalf("item not cancelled: %+v, jobs %v", repo.items[item.ID], driver.oneShot)
	}
	if again := s.Cancel(context.Background(), item.ID); again.Message != "Scheduled item is already cancelled" {
		t.Fatalf("unexpected second cancel: %+v", again)
	}
	if missing := s.Cancel(context.Background(), "nope"); missing.Message != "Scheduled item not found" {
		t.Fatalf("unexpected missing cancel: %+v", missing)
	}
}

func TestCancelByTopic(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(newMemSchedule(), newFakeDriver(), nil)
	for _, topic := range []string{"Soil", "soil", "Beds"} {
		s.Schedule(context.Background(), ScheduleRequest{Topic: topic, At: scheduleNow.Add(time.Hour)})
	}

	res := s.CancelByTopic(context.Background(), "SOIL")
	if !res.Success || res.Data != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	pending, _ := s.List(context.Background(), domain.ScheduleScheduled, 0)
	if len(pending) != 1 || pending[0].Topic != "Beds" {
		t.Fatalf("unexpected pending items: %+v", pending)
	}
	if none := s.CancelByTopic(context.Background(), "Soil"); none.Success || none.Message != "No scheduled content found for topic" {
		t.Fatalf("unexpected result: %+v", none)
	}
}

func TestProcessFailureKeepsItemScheduled(t *testing.T) {
	t.Parallel()

	repo := newMemSchedule()
	gen := NewGenerator(GeneratorDeps{Completer: &fakeCompleter{responses: []string{"x"}}, Content: newMemContent(), Settings: newMemSettings()})
	s := newTestScheduler(repo, newFakeDriver(), gen)
	item := s.Schedule(context.Background(), ScheduleRequest{Topic: "Soil", At: scheduleNow.Add(time.Hour)}).Data

	res := s.Process(context.Background(), item.ID)
	if res.Success || !strings.Contains(res.Message, "Brand analysis not completed") {
		t.Fatalf("unexpected result: %+v", res)
	}
	if repo.items[item.ID].Status != domain.ScheduleScheduled {
		t.Fatalf("failed item must stay scheduled: %+v", repo.items[item.ID])
	}
}

func TestProcessPublishesDueItem(t *testing.T) {
	t.Parallel()

	repo := newMemSchedule()
	driver := newFakeDriver()
	content := newMemContent()
	settings := seededSettings(t, gardenProfile())
	article := "<p>Raised beds drain well.</p>\n\n<h2>Building raised beds</h2>\n\n<p>Use untreated timber.</p>"
	gen := NewGenerator(GeneratorDeps{Completer: &fakeCompleter{responses: []string{article}}, Content: content, Settings: settings})
	s := newTestScheduler(repo, driver, gen)

	item := s.Schedule(context.Background(), ScheduleRequest{
		Topic:   "Raised beds",
		At:      scheduleNow.Add(time.Hour),
		Options: domain.ScheduleOptions{Category: "Beds", Tags: "timber, , drainage"},
	}).Data

	// The registered job runs Process.
	driver.jobs[item.ID]()

	if repo.items[item.ID].Status != domain.ScheduleCompleted {
		t.Fatalf("item not completed: %+v", repo.items[item.ID])
	}
	doc, err := content.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("published document: %v", err)
	}
	if doc.Status != domain.StatusPublish || doc.Title != "Raised beds" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if strings.Join(doc.Categories, ",") != "Beds" || strings.Join(doc.Tags, ",") != "timber,drainage" {
		t.Fatalf("unexpected taxonomy: %v %v", doc.Categories, doc.Tags)
	}

	if again := s.Process(context.Background(), item.ID); again.Message != "Scheduled item is already completed" {
		t.Fatalf("unexpected reprocess: %+v", again)
	}
}

func TestNextFreeSlotSkipsBusyDays(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(newMemSchedule(), newFakeDriver(), nil)
	for _, day := range []int{11, 12} {
		s.Schedule(context.Background(), ScheduleRequest{Topic: "Soil", At: time.Date(2026, 6, day, 15, 0, 0, 0, time.UTC)})
	}

	slot, err := s.NextFreeSlot(context.Background(), scheduleNow)
	if err != nil {
		t.Fatalf("next slot: %v", err)
	}
	if want := time.Date(2026, 6, 13, 9, 0, 0, 0, time.UTC); !slot.Equal(want) {
		t.Fatalf("slot = %v, want %v", slot, want)
	}
}

func TestCalendarAndStats(t *testing.T) {
	t.Parallel()

	repo := newMemSchedule()
	s := newTestScheduler(repo, newFakeDriver(), nil)
	for _, at := range []time.Time{
		time.Date(2026, 6, 11, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 11, 17, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 20, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 2, 9, 0, 0, 0, time.UTC),
	} {
		s.Schedule(context.Background(), ScheduleRequest{Topic: "Soil", At: at})
	}
	_ = repo.UpdateScheduledStatus(context.Background(), "item-3", domain.ScheduleCompleted)

	calendar, err := s.Calendar(context.Background(), 2026, time.June)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	if len(calendar) != 1 || len(calendar[11]) != 2 {
		t.Fatalf("unexpected calendar: %+v", calendar)
	}

	stats, err := s.Stats(context.Background(), scheduleNow)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := ScheduleStats{TotalScheduled: 3, CompletedThisMonth: 1, UpcomingThisWeek: 2}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}

func TestBulkSchedule(t *testing.T) {
	t.Parallel()

	s := newTestScheduler(newMemSchedule(), newFakeDriver(), nil)
	res := s.BulkSchedule(context.Background(), []ScheduleRequest{
		{Topic: "Soil", At: scheduleNow.Add(time.Hour)},
		{Topic: "", At: scheduleNow.Add(time.Hour)},
	})
	if !res.Success || len(res.Data) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !res.Data[0].Result.Success || res.Data[1].Result.Message != "Topic is required" {
		t.Fatalf("unexpected outcomes: %+v", res.Data)
	}
}

func TestScheduleSuggestions(t *testing.T) {
	t.Parallel()

	catalog := &fakeCatalog{products: []domain.ProductRecord{
		{ID: 1, Name: "Trowel", Categories: []string{"Tools"}, TotalSales: 5},
		{ID: 2, Name: "Hoe", Categories: []string{"Tools"}, TotalSales: 9},
	}}
	s := NewContentScheduler(ContentSchedulerDeps{Repository: newMemSchedule(), Catalog: catalog, Location: time.UTC})

	got, err := s.Suggestions(context.Background(), scheduleNow)
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(got) != 3+10+2+1 {
		t.Fatalf("got %d suggestions", len(got))
	}
	if got[0].Topic != "Father's Day Marketing" || got[0].Priority != domain.PriorityHigh {
		t.Fatalf("unexpected seasonal suggestion: %+v", got[0])
	}
	if got[13].Topic != "Complete Guide to Hoe" || got[13].ProductID != 2 {
		t.Fatalf("unexpected product suggestion: %+v", got[13])
	}
	if last := got[15]; last.Topic != "Best Tools Products 2026" || last.Category != "Tools" {
		t.Fatalf("unexpected category suggestion: %+v", last)
	}
	slot := time.Date(2026, 6, 11, 9, 0, 0, 0, time.UTC)
	for _, sg := range got {
		if !sg.SuggestedDate.Equal(slot) {
			t.Fatalf("suggested date = %v, want %v", sg.SuggestedDate, slot)
		}
	}
}

func TestRestoreRegistersPendingItems(t *testing.T) {
	t.Parallel()

	repo := newMemSchedule()
	first := newTestScheduler(repo, newFakeDriver(), nil)
	a := first.Schedule(context.Background(), ScheduleRequest{Topic: "A", At: scheduleNow.Add(time.Hour)}).Data
	b := first.Schedule(context.Background(), ScheduleRequest{Topic: "B", At: scheduleNow.Add(2 * time.Hour)}).Data
	first.Cancel(context.Background(), b.ID)

	driver := newFakeDriver()
	restarted := newTestScheduler(repo, driver, nil)
	n, err := restarted.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if n != 1 || len(driver.oneShot) != 1 || driver.oneShot[a.ID].IsZero() {
		t.Fatalf("restored %d, jobs %v", n, driver.oneShot)
	}
}
