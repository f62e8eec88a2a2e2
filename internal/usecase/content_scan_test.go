package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"ContentWriter/internal/brand"
	"ContentWriter/internal/domain"
	"ContentWriter/internal/seo"
)

func scanFixture(t *testing.T) (*ContentScanner, *memSettings, *fakeNotifier, time.Time) {
	t.Helper()

	content := newMemContent()
	meta := newFakeMeta()
	good := content.add(domain.Document{
		Title:        "Composting 101",
		Body:         "<p>" + strings.Repeat("Compost feeds the soil. ", 50) + `<a href="/?p=2">tools</a></p>`,
		Status:       domain.StatusPublish,
		Categories:   []string{"Composting"},
		CommentCount: 10,
	})
	content.add(domain.Document{
		Title:        "Short",
		Body:         `<p>tiny</p><img src="a.png">`,
		Status:       domain.StatusPublish,
		Categories:   []string{"Tools"},
		CommentCount: 3,
	})
	content.add(domain.Document{Title: "Unpublished", Body: "draft", Status: domain.StatusDraft})
	meta.meta[good.ID] = domain.SEOMeta{
		MetaTitle:       strings.Repeat("t", 40),
		MetaDescription: strings.Repeat("d", 140),
		FocusKeyword:    "compost",
	}

	settings := seededSettings(t, brand.Profile{
		brand.ContentThemes: brand.Section{"main_topics": brand.L("composting", "raised beds")},
	})
	notifier := &fakeNotifier{}
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	scanner := NewContentScanner(ContentScannerDeps{
		Content:  content,
		Meta:     meta,
		Settings: settings,
		Scorer:   seo.NewScorer("http://site.test"),
		Notifier: notifier,
		Clock:    fixedClock(now),
	})
	return scanner, settings, notifier, now
}

func TestScanReports(t *testing.T) {
	t.Parallel()

	scanner, _, notifier, now := scanFixture(t)
	res := scanner.Scan(context.Background())
	if !res.Success || res.Message != "Content scan completed successfully" {
		t.Fatalf("unexpected result: %+v", res)
	}
	scan := res.Data

	if len(scan.SEOGaps) != 1 || scan.SEOGaps[0].DocumentID != 2 {
		t.Fatalf("unexpected seo gaps: %+v", scan.SEOGaps)
	}
	var types []string
	for _, gap := range scan.SEOGaps[0].Gaps {
		types = append(types, gap.Type)
	}
	want := "missing_meta_title,missing_meta_description,missing_focus_keyword,content_too_short,missing_alt_text"
	if strings.Join(types, ",") != want {
		t.Fatalf("gap types = %v", types)
	}

	if len(scan.MissingTopics) != 1 || scan.MissingTopics[0].Topic != "raised beds" {
		t.Fatalf("unexpected missing topics: %+v", scan.MissingTopics)
	}
	if kws := scan.MissingTopics[0].SuggestedKeywords; len(kws) != 3 || kws[2] != "how to raised beds" {
		t.Fatalf("unexpected keywords: %v", kws)
	}

	if len(scan.Opportunities) != 2 {
		t.Fatalf("unexpected opportunities: %+v", scan.Opportunities)
	}
	if op := scan.Opportunities[0]; op.Type != "expand_popular_content" || op.DocumentID != 2 || op.SuggestedLength != 1500 {
		t.Fatalf("unexpected popular opportunity: %+v", op)
	}
	if op := scan.Opportunities[1]; op.Type != "improve_short_content" || op.Priority != domain.PriorityMedium {
		t.Fatalf("unexpected short opportunity: %+v", op)
	}

	if scan.Competitors.Status != "not_available" {
		t.Fatalf("competitor analysis = %+v", scan.Competitors)
	}

	if len(scan.Linking.WithoutInternalLinks) != 1 || scan.Linking.WithoutInternalLinks[0].DocumentID != 2 {
		t.Fatalf("unexpected posts without links: %+v", scan.Linking.WithoutInternalLinks)
	}
	if len(scan.Linking.Orphaned) != 1 || scan.Linking.Orphaned[0].DocumentID != 1 {
		t.Fatalf("unexpected orphans: %+v", scan.Linking.Orphaned)
	}

	if len(scan.KeywordOpportunities) != 2 || scan.KeywordOpportunities[0].Category != "Composting" || scan.KeywordOpportunities[0].SuggestedPosts != 4 {
		t.Fatalf("unexpected keyword opportunities: %+v", scan.KeywordOpportunities)
	}

	if !scan.ScannedAt.Equal(now) || len(notifier.messages) != 1 {
		t.Fatalf("scan time %v, notifications %v", scan.ScannedAt, notifier.messages)
	}
}

func TestScanPersistsResult(t *testing.T) {
	t.Parallel()

	scanner, _, _, now := scanFixture(t)
	if last, _ := scanner.LastScan(context.Background()); !last.ScannedAt.IsZero() {
		t.Fatalf("no scan has run yet: %+v", last)
	}
	scanner.Scan(context.Background())
	scanner.Scan(context.Background())

	last, err := scanner.LastScan(context.Background())
	if err != nil {
		t.Fatalf("last scan: %v", err)
	}
	if !last.ScannedAt.Equal(now) || len(last.MissingTopics) != 1 {
		t.Fatalf("unexpected stored scan: %+v", last)
	}
	history, _ := scanner.History(context.Background(), 10)
	if len(history) != 2 || history[0].Documents != 2 || history[0].Orphaned != 1 {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestMetaGapLengths(t *testing.T) {
	t.Parallel()

	gaps := metaGaps(domain.SEOMeta{MetaTitle: "short", MetaDescription: strings.Repeat("d", 200), FocusKeyword: "kw"})
	if len(gaps) != 2 || gaps[0].Type != "meta_title_length" || gaps[1].Type != "meta_description_length" {
		t.Fatalf("unexpected gaps: %+v", gaps)
	}
}

func TestLinkKeyNormalizesForms(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"http://site.test/?p=4":        "?p=4",
		"/?p=4":                        "?p=4",
		"https://site.test/soil/":      "/soil",
		"/soil":                        "/soil",
		"http://site.test/":            "",
		"/garden/beds?utm_source=mail": "/garden/beds?utm_source=mail",
	}
	for in, want := range cases {
		if got := linkKey(in); got != want {
			t.Errorf("linkKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMissingTopicsCoverage(t *testing.T) {
	t.Parallel()

	profile := brand.Profile{brand.ContentThemes: brand.Section{"main_topics": brand.L("Soil", "Pest control")}}
	posts := []domain.Document{{Categories: []string{"Healthy soil"}}, {Categories: []string{"Pest"}}}
	if got := missingTopics(profile, posts); len(got) != 0 {
		t.Fatalf("containment either way counts as covered: %+v", got)
	}
}
