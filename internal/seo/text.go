package seo

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

func parse(content string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil
	}
	doc.Find("script, style").Remove()
	return doc
}

// StripTags returns the visible text of an HTML fragment.
func StripTags(content string) string {
	if !strings.ContainsAny(content, "<&") {
		return content
	}
	doc := parse(content)
	if doc == nil {
		return content
	}
	return doc.Text()
}

// Words splits text into words made of letters, apostrophes and hyphens.
func Words(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\'' && r != '-'
	})
	words := fields[:0]
	for _, f := range fields {
		if strings.IndexFunc(f, unicode.IsLetter) >= 0 {
			words = append(words, f)
		}
	}
	return words
}

// WordCount counts the words of the visible text of content.
func WordCount(content string) int {
	return len(Words(StripTags(content)))
}

// Sentences splits plain text on runs of '.', '!' and '?' and drops blank pieces.
func Sentences(text string) []string {
	parts := sentenceSplit.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FirstParagraph returns the part of content before the first blank line.
func FirstParagraph(content string) string {
	before, _, _ := strings.Cut(content, "\n\n")
	return before
}

// TrimWords keeps the first n words of text, appending "..." when something was cut.
func TrimWords(text string, n int) string {
	fields := strings.Fields(text)
	if len(fields) <= n {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:n], " ") + "..."
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

func countFold(text, needle string) int {
	if needle == "" {
		return 0
	}
	return strings.Count(strings.ToLower(text), strings.ToLower(needle))
}
