package seo

import (
	"strings"
	"unicode/utf8"

	"ContentWriter/internal/domain"
)

const (
	maxTitleLength       = 60
	minDescriptionLength = 120
	maxDescriptionLength = 160
	descriptionWords     = 25
)

// GenerateMeta derives a meta title, description and focus keyword from content.
func GenerateMeta(content, keyword, title, siteName string) domain.SEOMeta {
	return domain.SEOMeta{
		MetaTitle:       metaTitle(keyword, title, siteName),
		MetaDescription: metaDescription(content, keyword),
		FocusKeyword:    keyword,
	}
}

func metaTitle(keyword, title, siteName string) string {
	base := strings.TrimSpace(title)
	if base == "" {
		base = strings.TrimSpace(keyword)
	}
	if siteName = strings.TrimSpace(siteName); siteName != "" {
		base += " - " + siteName
	}
	return truncateRunes(base, maxTitleLength)
}

func metaDescription(content, keyword string) string {
	description := TrimWords(StripTags(content), descriptionWords)
	switch n := utf8.RuneCountInString(description); {
	case n < minDescriptionLength:
		description += " Learn more about " + keyword + " and discover expert insights."
	case n > maxDescriptionLength:
		description = truncateRunes(description, maxDescriptionLength)
	}
	return description
}

// Recommendations lists the fixes that would raise the score of content.
func (s *Scorer) Recommendations(content, keyword string, threshold int) []string {
	report := s.Analyze(content, keyword)
	var out []string
	if !Optimized(report.Score(), threshold) {
		out = append(out, "Content needs SEO optimization")
	}
	if !report.HasHeadings {
		out = append(out, "Add proper heading structure (H2, H3)")
	}
	if !report.HasInternalLinks {
		out = append(out, "Add internal links to related content")
	}
	if report.TransitionRatio < 0.3 {
		out = append(out, "Increase use of transition words")
	}
	if report.PassiveRatio > 0.1 {
		out = append(out, "Reduce passive voice usage")
	}
	return out
}

// Improvements compares two versions of content and names what got better.
func (s *Scorer) Improvements(original, optimized, keyword string) []string {
	before := s.Analyze(original, keyword)
	after := s.Analyze(optimized, keyword)

	var out []string
	if after.Score() > before.Score() {
		out = append(out, "SEO score improved")
	}
	if utf8.RuneCountInString(optimized) > utf8.RuneCountInString(original) {
		out = append(out, "Content length increased")
	}
	if after.HasHeadings && !before.HasHeadings {
		out = append(out, "Headings structure added")
	}
	if after.HasInternalLinks && !before.HasInternalLinks {
		out = append(out, "Internal links added")
	}
	return out
}
