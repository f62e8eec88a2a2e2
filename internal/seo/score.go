// Package seo scores HTML content against a focus keyword and derives metadata from it.
package seo

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// DefaultThreshold is the score at which content counts as optimized.
const DefaultThreshold = 8

// MaxScore is the highest score Score can return.
const MaxScore = 10

var transitionWords = map[string]struct{}{
	"however": {}, "therefore": {}, "furthermore": {}, "moreover": {}, "additionally": {},
	"consequently": {}, "meanwhile": {}, "nevertheless": {}, "nonetheless": {},
	"similarly": {}, "likewise": {}, "conversely": {}, "alternatively": {},
	"firstly": {}, "secondly": {}, "finally": {}, "initially": {}, "ultimately": {},
	"specifically": {}, "particularly": {}, "especially": {}, "notably": {},
	"indeed": {}, "certainly": {}, "obviously": {}, "clearly": {}, "evidently": {},
}

var passiveWords = map[string]struct{}{
	"was": {}, "were": {}, "been": {}, "being": {}, "is": {}, "are": {}, "am": {},
}

var passivePhrases = map[string]struct{}{
	"have been": {}, "has been": {}, "had been": {}, "will be": {},
	"can be": {}, "could be": {}, "should be": {}, "would be": {},
}

// Report holds every predicate the score is built from.
type Report struct {
	KeywordInFirstParagraph bool    `json:"keyword_in_first_paragraph"`
	KeywordDensity          float64 `json:"keyword_density"`
	Length                  int     `json:"length"`
	WordCount               int     `json:"word_count"`
	SentenceCount           int     `json:"sentence_count"`
	TransitionRatio         float64 `json:"transition_ratio"`
	PassiveRatio            float64 `json:"passive_ratio"`
	HasHeadings             bool    `json:"has_headings"`
	HasInternalLinks        bool    `json:"has_internal_links"`
	AvgSentenceLength       float64 `json:"avg_sentence_length"`
}

// DensityOK reports whether keyword density is inside [0.5%, 2.0%].
func (r Report) DensityOK() bool {
	return r.WordCount > 0 && r.KeywordDensity >= 0.5 && r.KeywordDensity <= 2.0
}

// LengthOK reports whether the stripped content is at least 300 characters.
func (r Report) LengthOK() bool { return r.Length >= 300 }

// TransitionsOK reports whether at least 30% of words are transition words.
func (r Report) TransitionsOK() bool { return r.WordCount > 0 && r.TransitionRatio >= 0.3 }

// PassiveOK reports whether passive markers stay at or below 10% of words.
func (r Report) PassiveOK() bool { return r.WordCount > 0 && r.PassiveRatio <= 0.1 }

// Readable reports whether the average sentence has 10 to 20 words.
func (r Report) Readable() bool {
	return r.SentenceCount > 0 && r.AvgSentenceLength >= 10 && r.AvgSentenceLength <= 20
}

// Score sums the points of the report.
func (r Report) Score() int {
	score := 0
	if r.KeywordInFirstParagraph {
		score += 2
	}
	if r.DensityOK() {
		score += 2
	}
	if r.LengthOK() {
		score++
	}
	if r.TransitionsOK() {
		score++
	}
	if r.PassiveOK() {
		score++
	}
	if r.HasHeadings {
		score++
	}
	if r.HasInternalLinks {
		score++
	}
	if r.Readable() {
		score++
	}
	return score
}

// Scorer evaluates content relative to a site origin.
type Scorer struct {
	site *url.URL
}

// NewScorer builds a scorer; links to siteURL's host count as internal.
func NewScorer(siteURL string) *Scorer {
	s := &Scorer{}
	if u, err := url.Parse(strings.TrimSpace(siteURL)); err == nil && u.Host != "" {
		s.site = u
	}
	return s
}

// Score returns the additive SEO score of content for keyword in [0, MaxScore].
func (s *Scorer) Score(content, keyword string) int {
	return s.Analyze(content, keyword).Score()
}

// Analyze evaluates every scoring predicate for content and keyword.
func (s *Scorer) Analyze(content, keyword string) Report {
	var report Report
	if strings.TrimSpace(content) == "" {
		return report
	}
	keyword = strings.TrimSpace(keyword)

	doc := parse(content)
	text := content
	if doc != nil {
		text = doc.Text()
	}
	words := Words(text)
	report.WordCount = len(words)
	report.Length = utf8.RuneCountInString(strings.TrimSpace(text))

	if keyword != "" {
		first := StripTags(FirstParagraph(content))
		report.KeywordInFirstParagraph = countFold(first, keyword) > 0
		if report.WordCount > 0 {
			report.KeywordDensity = float64(countFold(text, keyword)) / float64(report.WordCount) * 100
		}
	}

	if report.WordCount > 0 {
		transitions, passive := 0, 0
		for i, w := range words {
			lw := strings.ToLower(w)
			if _, ok := transitionWords[lw]; ok {
				transitions++
			}
			if _, ok := passiveWords[lw]; ok {
				passive++
			}
			if i > 0 {
				if _, ok := passivePhrases[strings.ToLower(words[i-1])+" "+lw]; ok {
					passive++
				}
			}
		}
		report.TransitionRatio = float64(transitions) / float64(report.WordCount)
		report.PassiveRatio = float64(passive) / float64(report.WordCount)
	}

	if sentences := len(Sentences(text)); sentences > 0 {
		report.SentenceCount = sentences
		report.AvgSentenceLength = float64(report.WordCount) / float64(sentences)
	}

	if doc != nil {
		report.HasHeadings = doc.Find("h2, h3, h4, h5, h6").Length() > 0
		report.HasInternalLinks = len(s.internalLinks(doc)) > 0
	}
	return report
}

// Optimized reports whether score reaches threshold; a non-positive threshold means DefaultThreshold.
func Optimized(score, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return score >= threshold
}

// InternalLinks lists hrefs in content that point at the site itself.
func (s *Scorer) InternalLinks(content string) []string {
	doc := parse(content)
	if doc == nil {
		return nil
	}
	return s.internalLinks(doc)
}

func (s *Scorer) internalLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if s.IsInternal(href) {
			links = append(links, strings.TrimSpace(href))
		}
	})
	return links
}

// IsInternal reports whether href is root-relative or on the configured site host.
func (s *Scorer) IsInternal(href string) bool {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		return true
	}
	if s == nil || s.site == nil || href == "" {
		return false
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if strings.HasPrefix(href, "//") {
		return strings.EqualFold(u.Host, s.site.Host)
	}
	return (u.Scheme == "http" || u.Scheme == "https") && strings.EqualFold(u.Host, s.site.Host)
}

// ImagesWithoutAlt counts <img> tags that have no alt text.
func ImagesWithoutAlt(content string) int {
	doc := parse(content)
	if doc == nil {
		return 0
	}
	missing := 0
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if alt, ok := img.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			missing++
		}
	})
	return missing
}
