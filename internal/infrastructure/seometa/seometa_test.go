package seometa

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"ContentWriter/internal/domain"
)

type memStore map[string]string

func (m memStore) Meta(_ context.Context, id int64, key string) (string, error) {
	return m[key], nil
}

func (m memStore) SetMeta(_ context.Context, id int64, key, value string) error {
	m[key] = value
	return nil
}

func TestNewSelectsKeyLayout(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"yoast":    "_yoast_wpseo_title",
		"rankmath": "rank_math_title",
		"AIOSEO":   "_aioseo_title",
		"none":     "_contentwriter_meta_title",
		"":         "_contentwriter_meta_title",
	}
	for plugin, titleKey := range cases {
		store := memStore{}
		b, err := New(plugin, store)
		if err != nil {
			t.Fatalf("New(%q): %v", plugin, err)
		}
		if _, err := b.SetMeta(context.Background(), 1, domain.SEOMeta{MetaTitle: "T"}); err != nil {
			t.Fatalf("SetMeta: %v", err)
		}
		if store[titleKey] != "T" {
			t.Fatalf("%s: title not stored under %s: %v", plugin, titleKey, store)
		}
	}

	if _, err := New("mystery", memStore{}); err == nil {
		t.Fatalf("expected error for unknown plugin")
	}
}

func TestSetMetaSkipsEmptyFields(t *testing.T) {
	t.Parallel()

	store := memStore{}
	b, _ := New("yoast", store)
	update, err := b.SetMeta(context.Background(), 1, domain.SEOMeta{MetaTitle: "Title", FocusKeyword: "compost"})
	if err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	if !reflect.DeepEqual(update.Fields, []string{"meta_title", "focus_keyword"}) || update.Backend != "Yoast SEO" {
		t.Fatalf("unexpected update: %+v", update)
	}
	if _, ok := store["_yoast_wpseo_metadesc"]; ok {
		t.Fatalf("empty description should not be written")
	}
}

func TestRankMathRobotsRoundTrip(t *testing.T) {
	t.Parallel()

	store := memStore{}
	b, _ := New("rankmath", store)
	ctx := context.Background()
	if _, err := b.SetMeta(ctx, 1, domain.SEOMeta{NoIndex: true}); err != nil {
		t.Fatalf("SetMeta: %v", err)
	}
	if store["rank_math_robots"] != `["noindex"]` {
		t.Fatalf("unexpected robots value: %q", store["rank_math_robots"])
	}
	meta, err := b.Meta(ctx, 1)
	if err != nil || !meta.NoIndex {
		t.Fatalf("noindex not read back: %+v %v", meta, err)
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	store := memStore{}
	b, _ := New("aioseo", store)
	ctx := context.Background()

	if _, ok, _ := b.Score(ctx, 1); ok {
		t.Fatalf("no score should be reported before one is set")
	}
	if err := b.SetScore(ctx, 1, 9); err != nil {
		t.Fatalf("SetScore: %v", err)
	}
	score, ok, err := b.Score(ctx, 1)
	if err != nil || !ok || score != 9 || store["_aioseo_score"] != "9" {
		t.Fatalf("unexpected score: %d %v %v", score, ok, err)
	}
	if optimal, _ := Optimal(ctx, b, 1, 8); !optimal {
		t.Fatalf("score 9 should be optimal at threshold 8")
	}
}

func TestRecommendations(t *testing.T) {
	t.Parallel()

	store := memStore{}
	b, _ := New("none", store)
	ctx := context.Background()

	got, err := Recommendations(ctx, b, 1)
	if err != nil {
		t.Fatalf("Recommendations: %v", err)
	}
	want := []string{"Add meta title", "Add meta description", "Add focus keyword"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected recommendations: %v", got)
	}

	_, _ = b.SetMeta(ctx, 1, domain.SEOMeta{
		MetaTitle:       "Short",
		MetaDescription: strings.Repeat("a", 130),
		FocusKeyword:    "compost",
	})
	got, _ = Recommendations(ctx, b, 1)
	if !reflect.DeepEqual(got, []string{"Optimize meta title length (30-60 characters)"}) {
		t.Fatalf("unexpected recommendations: %v", got)
	}
}
