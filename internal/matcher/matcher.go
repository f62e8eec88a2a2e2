// Package matcher ranks catalog products against a shopper's free-text query.
package matcher

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"ContentWriter/internal/domain"
	"ContentWriter/internal/extract"
	"ContentWriter/internal/ports"
)

// DefaultLimit caps the number of returned products when callers pass a non-positive limit.
const DefaultLimit = 5

// Outcome is a ranked match list and whether the keyword fallback produced it.
type Outcome struct {
	Products []domain.ProductRecord
	Fallback bool
}

// Matcher asks a completion backend for matching product ids and falls back to keyword scoring.
type Matcher struct {
	completer ports.Completer
	logger    *slog.Logger
}

// New wires a matcher; a nil completer always uses the keyword fallback.
func New(completer ports.Completer, logger *slog.Logger) *Matcher {
	return &Matcher{completer: completer, logger: logger}
}

// Match returns at most limit known products ordered by relevance.
// A well-formed empty id array from the backend means nothing matched; unusable backend
// output or errors switch to the keyword fallback.
func (m *Matcher) Match(ctx context.Context, query string, products []domain.ProductRecord, limit int) Outcome {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query = strings.TrimSpace(query)
	if query == "" || len(products) == 0 {
		return Outcome{}
	}

	if m.completer != nil {
		text, err := m.completer.Complete(ctx, ports.Prompt{
			Text:        buildPrompt(query, products),
			MaxTokens:   500,
			Temperature: 0.3,
			Timeout:     30 * time.Second,
		})
		if err != nil {
			m.debug("completion failed, using keyword fallback", "error", err)
		} else if ids, ok := extract.IDs(text); ok {
			return Outcome{Products: pick(ids, products, limit)}
		} else {
			m.debug("completion returned no id array, using keyword fallback", "response", truncate(text, 200))
		}
	}

	return Outcome{Products: Fallback(query, products, limit), Fallback: true}
}

// Fallback scores products by keyword overlap: +3 per token in the name, +2 in the
// descriptions, +2 per matching category and +1 per matching tag.
func Fallback(query string, products []domain.ProductRecord, limit int) []domain.ProductRecord {
	if limit <= 0 {
		limit = DefaultLimit
	}
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil
	}

	type scored struct {
		product domain.ProductRecord
		score   int
	}
	var ranked []scored
	for _, p := range products {
		if s := relevance(tokens, p); s > 0 {
			ranked = append(ranked, scored{product: p, score: s})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]domain.ProductRecord, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.product)
	}
	return out
}

func relevance(tokens []string, p domain.ProductRecord) int {
	name := strings.ToLower(p.Name)
	desc := strings.ToLower(p.Description + " " + p.ShortDescription)
	score := 0
	for _, tok := range tokens {
		if strings.Contains(name, tok) {
			score += 3
		}
		if strings.Contains(desc, tok) {
			score += 2
		}
		for _, c := range p.Categories {
			if strings.Contains(strings.ToLower(c), tok) {
				score += 2
			}
		}
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), tok) {
				score++
			}
		}
	}
	return score
}

func pick(ids []int64, products []domain.ProductRecord, limit int) []domain.ProductRecord {
	byID := make(map[int64]domain.ProductRecord, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	seen := map[int64]struct{}{}
	var out []domain.ProductRecord
	for _, id := range ids {
		if len(out) == limit {
			break
		}
		p, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, p)
	}
	return out
}

func buildPrompt(query string, products []domain.ProductRecord) string {
	var lines strings.Builder
	for _, p := range products {
		stock := "No"
		if p.InStock {
			stock = "Yes"
		}
		fmt.Fprintf(&lines, "ID: %d - %s - Price: %s - In Stock: %s\n",
			p.ID, summary(p), strconv.FormatFloat(p.Price, 'f', -1, 64), stock)
	}

	return fmt.Sprintf(`You are an AI shopping assistant for an online store. A customer is searching for: %q

Available products:
%s
Please analyze the customer's query and find the best matching products. Consider:
1. Product names and descriptions
2. Categories and tags
3. Price range if mentioned
4. Specific features or attributes
5. Stock availability

Return ONLY a JSON array of product IDs in order of relevance (most relevant first). Maximum %d products.

Example format: [123, 456, 789]

If no products match, return an empty array: []`, query, lines.String(), DefaultLimit)
}

func summary(p domain.ProductRecord) string {
	s := p.Name
	if p.ShortDescription != "" {
		s += " - " + p.ShortDescription
	}
	if len(p.Categories) > 0 {
		s += " (Categories: " + strings.Join(p.Categories, ", ") + ")"
	}
	if len(p.Tags) > 0 {
		s += " (Tags: " + strings.Join(p.Tags, ", ") + ")"
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func (m *Matcher) debug(msg string, args ...interface{}) {
	if m.logger != nil {
		m.logger.Debug(msg, args...)
	}
}
