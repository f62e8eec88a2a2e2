package brand

import (
	"strings"
	"unicode/utf8"

	"ContentWriter/internal/seo"
)

var (
	formalMarkers   = []string{"therefore", "however", "furthermore", "moreover", "consequently"}
	informalMarkers = []string{"hey", "wow", "awesome", "cool", "yeah", "gonna", "wanna"}
	positiveWords   = []string{"great", "excellent", "amazing", "wonderful", "fantastic", "awesome", "brilliant"}
	negativeWords   = []string{"terrible", "awful", "horrible", "bad", "worst", "disappointing", "frustrating"}
	neutralWords    = []string{"good", "okay", "fine", "average", "standard", "normal"}
)

// Observation is the style read off a single piece of content.
type Observation struct {
	VocabularyLevel   string `json:"vocabulary_level"`
	SentenceStructure string `json:"sentence_structure"`
	Formality         string `json:"formality"`
	EmotionalTone     string `json:"emotional_tone"`
}

// Observe applies lexical heuristics to the visible text of content.
func Observe(content string) Observation {
	text := strings.ToLower(seo.StripTags(content))
	words := seo.Words(text)
	return Observation{
		VocabularyLevel:   vocabularyLevel(words),
		SentenceStructure: sentenceStructure(len(words), len(seo.Sentences(text))),
		Formality:         formality(words),
		EmotionalTone:     emotionalTone(words),
	}
}

// Profile expresses the observation as a partial profile suitable for Merge.
func (o Observation) Profile() Profile {
	return Profile{
		LanguageCharacteristics: Section{
			"vocabulary_level":   S(o.VocabularyLevel),
			"sentence_structure": S(o.SentenceStructure),
		},
		ToneOfVoice: Section{
			"formality":      S(o.Formality),
			"emotional_tone": S(o.EmotionalTone),
		},
	}
}

func vocabularyLevel(words []string) string {
	if len(words) == 0 {
		return "basic"
	}
	long := 0
	for _, w := range words {
		if utf8.RuneCountInString(w) > 6 {
			long++
		}
	}
	ratio := float64(long) / float64(len(words))
	switch {
	case ratio > 0.3:
		return "advanced"
	case ratio > 0.15:
		return "intermediate"
	default:
		return "basic"
	}
}

func sentenceStructure(words, sentences int) string {
	if sentences == 0 {
		return "simple"
	}
	avg := float64(words) / float64(sentences)
	switch {
	case avg > 20:
		return "complex"
	case avg > 15:
		return "mixed"
	default:
		return "simple"
	}
}

func formality(words []string) string {
	formal, informal := count(words, formalMarkers), count(words, informalMarkers)
	switch {
	case formal > informal:
		return "formal"
	case informal > formal:
		return "informal"
	default:
		return "mixed"
	}
}

func emotionalTone(words []string) string {
	pos, neg, neu := count(words, positiveWords), count(words, negativeWords), count(words, neutralWords)
	switch {
	case pos > neg && pos > neu:
		return "positive"
	case neg > pos && neg > neu:
		return "negative"
	default:
		return "neutral"
	}
}

func count(words, markers []string) int {
	set := make(map[string]struct{}, len(markers))
	for _, m := range markers {
		set[m] = struct{}{}
	}
	n := 0
	for _, w := range words {
		if _, ok := set[w]; ok {
			n++
		}
	}
	return n
}
