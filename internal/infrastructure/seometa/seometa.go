// Package seometa stores search metadata under the post-meta keys of common SEO plugins.
package seometa

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
)

// MetaStore is the slice of the content repository the backends need.
type MetaStore interface {
	Meta(ctx context.Context, id int64, key string) (string, error)
	SetMeta(ctx context.Context, id int64, key, value string) error
}

type keySet struct {
	name        string
	title       string
	description string
	keyword     string
	canonical   string
	noindex     string
	score       string
	// robotsList stores noindex as a JSON list of robots directives.
	robotsList bool
}

var (
	yoastKeys = keySet{
		name: "Yoast SEO", title: "_yoast_wpseo_title", description: "_yoast_wpseo_metadesc",
		keyword: "_yoast_wpseo_focuskw", canonical: "_yoast_wpseo_canonical",
		noindex: "_yoast_wpseo_meta-robots-noindex", score: "_yoast_wpseo_content_score",
	}
	rankMathKeys = keySet{
		name: "RankMath", title: "rank_math_title", description: "rank_math_description",
		keyword: "rank_math_focus_keyword", canonical: "rank_math_canonical_url",
		noindex: "rank_math_robots", score: "rank_math_seo_score", robotsList: true,
	}
	aioseoKeys = keySet{
		name: "All in One SEO", title: "_aioseo_title", description: "_aioseo_description",
		keyword: "_aioseo_keywords", canonical: "_aioseo_canonical_url",
		noindex: "_aioseo_robots_noindex", score: "_aioseo_score",
	}
	defaultKeys = keySet{
		name: "None", title: "_contentwriter_meta_title", description: "_contentwriter_meta_description",
		keyword: "_contentwriter_focus_keyword", canonical: "_contentwriter_canonical",
		noindex: "_contentwriter_noindex", score: "_contentwriter_seo_score",
	}
)

// Backend implements ports.SeoMetadataBackend for one plugin key layout.
type Backend struct {
	keys  keySet
	store MetaStore
}

var _ ports.SeoMetadataBackend = (*Backend)(nil)

// New returns the backend for plugin: yoast, rankmath, aioseo, or none/empty.
func New(plugin string, store MetaStore) (*Backend, error) {
	if store == nil {
		return nil, fmt.Errorf("seo metadata backend needs a meta store")
	}
	switch strings.ToLower(strings.TrimSpace(plugin)) {
	case "yoast", "wordpress-seo":
		return &Backend{keys: yoastKeys, store: store}, nil
	case "rankmath", "rank-math", "rank_math":
		return &Backend{keys: rankMathKeys, store: store}, nil
	case "aioseo", "all-in-one-seo":
		return &Backend{keys: aioseoKeys, store: store}, nil
	case "", "none", "default":
		return &Backend{keys: defaultKeys, store: store}, nil
	default:
		return nil, fmt.Errorf("unknown seo plugin %q", plugin)
	}
}

// Name is the human-readable plugin name.
func (b *Backend) Name() string {
	return b.keys.name
}

// Meta reads every metadata field for a document.
func (b *Backend) Meta(ctx context.Context, docID int64) (domain.SEOMeta, error) {
	var meta domain.SEOMeta
	fields := []struct {
		key string
		dst *string
	}{
		{b.keys.title, &meta.MetaTitle},
		{b.keys.description, &meta.MetaDescription},
		{b.keys.keyword, &meta.FocusKeyword},
		{b.keys.canonical, &meta.Canonical},
	}
	for _, f := range fields {
		v, err := b.store.Meta(ctx, docID, f.key)
		if err != nil {
			return meta, fmt.Errorf("read %s: %w", f.key, err)
		}
		*f.dst = v
	}

	raw, err := b.store.Meta(ctx, docID, b.keys.noindex)
	if err != nil {
		return meta, fmt.Errorf("read %s: %w", b.keys.noindex, err)
	}
	meta.NoIndex = b.decodeNoIndex(raw)
	return meta, nil
}

// SetMeta writes the non-empty fields of meta and reports which were written.
func (b *Backend) SetMeta(ctx context.Context, docID int64, meta domain.SEOMeta) (domain.MetaUpdate, error) {
	update := domain.MetaUpdate{Backend: b.keys.name}
	fields := []struct {
		name, key, value string
	}{
		{"meta_title", b.keys.title, meta.MetaTitle},
		{"meta_description", b.keys.description, meta.MetaDescription},
		{"focus_keyword", b.keys.keyword, meta.FocusKeyword},
		{"canonical", b.keys.canonical, meta.Canonical},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		if err := b.store.SetMeta(ctx, docID, f.key, f.value); err != nil {
			return update, fmt.Errorf("write %s: %w", f.key, err)
		}
		update.Fields = append(update.Fields, f.name)
	}
	if meta.NoIndex {
		if err := b.store.SetMeta(ctx, docID, b.keys.noindex, b.encodeNoIndex(true)); err != nil {
			return update, fmt.Errorf("write %s: %w", b.keys.noindex, err)
		}
		update.Fields = append(update.Fields, "noindex")
	}
	return update, nil
}

// Score returns the stored score and whether one was present.
func (b *Backend) Score(ctx context.Context, docID int64) (int, bool, error) {
	raw, err := b.store.Meta(ctx, docID, b.keys.score)
	if err != nil {
		return 0, false, fmt.Errorf("read %s: %w", b.keys.score, err)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	score, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, nil
	}
	return score, true, nil
}

// SetScore stores the score under the plugin's score key.
func (b *Backend) SetScore(ctx context.Context, docID int64, score int) error {
	if err := b.store.SetMeta(ctx, docID, b.keys.score, strconv.Itoa(score)); err != nil {
		return fmt.Errorf("write %s: %w", b.keys.score, err)
	}
	return nil
}

func (b *Backend) encodeNoIndex(noindex bool) string {
	if b.keys.robotsList {
		if noindex {
			return `["noindex"]`
		}
		return "[]"
	}
	if noindex {
		return "1"
	}
	return "0"
}

func (b *Backend) decodeNoIndex(raw string) bool {
	raw = strings.TrimSpace(raw)
	if b.keys.robotsList {
		var robots []string
		if err := json.Unmarshal([]byte(raw), &robots); err != nil {
			return false
		}
		for _, r := range robots {
			if r == "noindex" {
				return true
			}
		}
		return false
	}
	return raw == "1" || strings.EqualFold(raw, "true")
}

// Optimal reports whether the stored score reaches minScore.
func Optimal(ctx context.Context, backend ports.SeoMetadataBackend, docID int64, minScore int) (bool, error) {
	score, ok, err := backend.Score(ctx, docID)
	if err != nil || !ok {
		return false, err
	}
	return score >= minScore, nil
}

// Recommendations checks the stored metadata of a document for missing or badly sized fields.
func Recommendations(ctx context.Context, backend ports.SeoMetadataBackend, docID int64) ([]string, error) {
	meta, err := backend.Meta(ctx, docID)
	if err != nil {
		return nil, err
	}

	var out []string
	switch n := utf8.RuneCountInString(meta.MetaTitle); {
	case strings.TrimSpace(meta.MetaTitle) == "":
		out = append(out, "Add meta title")
	case n < 30 || n > 60:
		out = append(out, "Optimize meta title length (30-60 characters)")
	}
	switch n := utf8.RuneCountInString(meta.MetaDescription); {
	case strings.TrimSpace(meta.MetaDescription) == "":
		out = append(out, "Add meta description")
	case n < 120 || n > 160:
		out = append(out, "Optimize meta description length (120-160 characters)")
	}
	if strings.TrimSpace(meta.FocusKeyword) == "" {
		out = append(out, "Add focus keyword")
	}
	return out, nil
}
