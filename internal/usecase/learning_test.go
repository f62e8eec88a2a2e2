package usecase

import (
	"context"
	"testing"
	"time"

	"ContentWriter/internal/brand"
	"ContentWriter/internal/domain"
)

func TestLearnRejectsMissingAndDrafts(t *testing.T) {
	t.Parallel()

	content := newMemContent()
	draft := content.add(domain.Document{Title: "Draft", Body: "x", Status: domain.StatusDraft})
	l := NewLearner(LearnerDeps{Content: content, Settings: newMemSettings()})

	for _, id := range []int64{draft.ID, 99} {
		if res := l.Learn(context.Background(), id); res.Success || res.Message != "Post not found or not published" {
			t.Fatalf("Learn(%d) = %+v", id, res)
		}
	}
}

func TestLearnUpdatesProfileAndPatterns(t *testing.T) {
	t.Parallel()

	content := newMemContent()
	meta := newFakeMeta()
	doc := content.add(domain.Document{
		Title:      "Soil care",
		Body:       "<p>However, the soil is great. Therefore we compost every week.</p>",
		Status:     domain.StatusPublish,
		Categories: []string{"Soil"},
	})
	meta.meta[doc.ID] = domain.SEOMeta{MetaTitle: "Soil care guide", MetaDescription: "How we care for soil"}
	meta.scores[doc.ID] = 6

	settings := seededSettings(t, brand.Profile{
		brand.ContentThemes: brand.Section{"main_topics": brand.L("composting")},
	})
	now := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	l := NewLearner(LearnerDeps{Content: content, Meta: meta, Settings: settings, Clock: fixedClock(now)})

	res := l.Learn(context.Background(), doc.ID)
	if !res.Success || res.Message != "Learning completed successfully" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Data.Formality != "formal" || res.Data.EmotionalTone != "positive" {
		t.Fatalf("unexpected observation: %+v", res.Data)
	}

	profile, _ := loadProfile(context.Background(), settings)
	topics := profile.List(brand.ContentThemes, "main_topics")
	if len(topics) != 2 || topics[1] != "Soil" {
		t.Fatalf("main topics = %v", topics)
	}
	if profile.Scalar(brand.ToneOfVoice, "formality") != "formal" {
		t.Fatalf("tone not merged: %+v", profile[brand.ToneOfVoice])
	}

	insights, err := l.Insights(context.Background())
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	if insights.Samples != 1 || insights.ScoredSamples != 1 || insights.AvgSEOScore != 6 || insights.AvgReadingTime != 1 {
		t.Fatalf("unexpected insights: %+v", insights)
	}
	if len(insights.PopularCategories) != 1 || insights.PopularCategories[0].Name != "Soil" {
		t.Fatalf("unexpected categories: %+v", insights.PopularCategories)
	}

	recs, err := l.Recommendations(context.Background())
	if err != nil {
		t.Fatalf("recommendations: %v", err)
	}
	want := []string{"word_count", "seo_score", "category_diversity"}
	if len(recs) != len(want) {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}
	for i, rec := range recs {
		if rec.Type != want[i] {
			t.Fatalf("recommendation %d = %q, want %q", i, rec.Type, want[i])
		}
	}

	logs, _ := l.Logs(context.Background(), 5)
	if len(logs) != 1 || logs[0].DocumentID != doc.ID || !logs[0].LearnedAt.Equal(now) {
		t.Fatalf("unexpected logs: %+v", logs)
	}
}

func TestLearnWithoutProfileKeepsItEmpty(t *testing.T) {
	t.Parallel()

	content := newMemContent()
	doc := content.add(domain.Document{Title: "Post", Body: "Plain words here.", Status: domain.StatusPublish})
	settings := newMemSettings()
	l := NewLearner(LearnerDeps{Content: content, Settings: settings})

	if res := l.Learn(context.Background(), doc.ID); !res.Success {
		t.Fatalf("learn failed: %+v", res)
	}
	profile, _ := loadProfile(context.Background(), settings)
	if !profile.Empty() {
		t.Fatalf("profile should stay empty: %+v", profile)
	}
	if recs, _ := l.Recommendations(context.Background()); len(recs) != 1 || recs[0].Type != "word_count" {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}
}
