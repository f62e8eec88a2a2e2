package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"ContentWriter/internal/domain"
	"ContentWriter/internal/matcher"
	"ContentWriter/internal/ports"
)

const (
	searchResultLimit    = 5
	suggestionCategories = 5
	suggestionFeatured   = 3
	searchSuggestionMax  = 10
	popularQueryMax      = 10
)

// GeneralSuggestion is shown when a search matches nothing.
type GeneralSuggestion struct {
	Type  string  `json:"type"`
	Name  string  `json:"name"`
	URL   string  `json:"url,omitempty"`
	Count int     `json:"count,omitempty"`
	Price float64 `json:"price,omitempty"`
	Image string  `json:"image,omitempty"`
}

// SearchResponse is the payload of a storefront search.
type SearchResponse struct {
	Query       string                 `json:"query"`
	Products    []domain.ProductRecord `json:"products"`
	Total       int                    `json:"total_found"`
	Fallback    bool                   `json:"fallback"`
	Suggestions []GeneralSuggestion    `json:"suggestions,omitempty"`
}

// SearchLog is one recorded storefront search.
type SearchLog struct {
	Query     string    `json:"query"`
	Results   int       `json:"results_count"`
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// QueryCount pairs a query with how often it was searched.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// SearchAnalytics summarizes searches over a window.
type SearchAnalytics struct {
	TotalSearches   int          `json:"total_searches"`
	UniqueQueries   int          `json:"unique_queries"`
	AvgResults      float64      `json:"avg_results_per_search"`
	PopularQueries  []QueryCount `json:"popular_queries"`
	NoResultQueries []string     `json:"no_results_queries"`
}

// SearchSuggestion is a query hint for the search box.
type SearchSuggestion struct {
	Text  string `json:"text"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// StoreAssistantDeps wires the storefront assistant collaborators.
type StoreAssistantDeps struct {
	Catalog  ports.ProductCatalog
	Matcher  *matcher.Matcher
	Settings ports.SettingsStore
	Clock    func() time.Time
	Logger   *slog.Logger
}

// StoreAssistant answers free-text product questions.
type StoreAssistant struct {
	catalog  ports.ProductCatalog
	matcher  *matcher.Matcher
	settings ports.SettingsStore
	now      func() time.Time
	logger   *slog.Logger
}

// NewStoreAssistant constructs the storefront search use case.
func NewStoreAssistant(deps StoreAssistantDeps) *StoreAssistant {
	m := deps.Matcher
	if m == nil {
		m = matcher.New(nil, deps.Logger)
	}
	return &StoreAssistant{
		catalog:  deps.Catalog,
		matcher:  m,
		settings: deps.Settings,
		now:      clockOrNow(deps.Clock),
		logger:   deps.Logger,
	}
}

// Search matches query against the catalog and logs the search.
func (a *StoreAssistant) Search(ctx context.Context, query, userID string) domain.Result[SearchResponse] {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Fail[SearchResponse]("Query is required")
	}
	if a.catalog == nil {
		return domain.Fail[SearchResponse]("Product catalog is not configured")
	}
	products, err := a.catalog.Products(ctx)
	if err != nil {
		return domain.FailErr[SearchResponse](fmt.Errorf("load products: %w", err))
	}
	if len(products) == 0 {
		return domain.Fail[SearchResponse]("No products found in store")
	}

	outcome := a.matcher.Match(ctx, query, products, searchResultLimit)
	a.logSearch(ctx, SearchLog{Query: query, Results: len(outcome.Products), UserID: userID, Timestamp: a.now()})

	if len(outcome.Products) == 0 {
		suggestions, err := a.generalSuggestions(ctx)
		if err != nil {
			a.debug("general suggestions unavailable", "error", err)
		}
		return domain.OK("No matching products found", SearchResponse{
			Query:       query,
			Products:    []domain.ProductRecord{},
			Fallback:    outcome.Fallback,
			Suggestions: suggestions,
		})
	}
	return domain.OK("Found matching products", SearchResponse{
		Query:    query,
		Products: outcome.Products,
		Total:    len(outcome.Products),
		Fallback: outcome.Fallback,
	})
}

// Analytics summarizes searches made within days before now.
func (a *StoreAssistant) Analytics(ctx context.Context, days int, now time.Time) (SearchAnalytics, error) {
	logs, err := loadSetting[[]SearchLog](ctx, a.settings, keySearchLogs)
	if err != nil {
		return SearchAnalytics{}, err
	}
	cutoff := now.AddDate(0, 0, -days)

	out := SearchAnalytics{PopularQueries: []QueryCount{}, NoResultQueries: []string{}}
	counts := map[string]int{}
	var order []string
	total := 0
	for _, entry := range logs {
		if entry.Timestamp.Before(cutoff) {
			continue
		}
		out.TotalSearches++
		total += entry.Results
		if counts[entry.Query] == 0 {
			order = append(order, entry.Query)
		}
		counts[entry.Query]++
		if entry.Results == 0 && len(out.NoResultQueries) < popularQueryMax {
			out.NoResultQueries = append(out.NoResultQueries, entry.Query)
		}
	}
	out.UniqueQueries = len(order)
	if out.TotalSearches == 0 {
		return out, nil
	}
	out.AvgResults = math.Round(float64(total)/float64(out.TotalSearches)*100) / 100

	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })
	for _, q := range order {
		if len(out.PopularQueries) >= popularQueryMax {
			break
		}
		out.PopularQueries = append(out.PopularQueries, QueryCount{Query: q, Count: counts[q]})
	}
	return out, nil
}

// SearchSuggestions lists popular queries of the last week followed by top categories.
func (a *StoreAssistant) SearchSuggestions(ctx context.Context, now time.Time) ([]SearchSuggestion, error) {
	analytics, err := a.Analytics(ctx, 7, now)
	if err != nil {
		return nil, err
	}
	var out []SearchSuggestion
	for _, q := range analytics.PopularQueries {
		out = append(out, SearchSuggestion{Text: q.Query, Type: "popular", Count: q.Count})
	}
	if a.catalog != nil {
		categories, err := a.catalog.TopCategories(ctx, suggestionCategories)
		if err != nil {
			return nil, fmt.Errorf("top categories: %w", err)
		}
		for _, c := range categories {
			out = append(out, SearchSuggestion{Text: c.Name, Type: "category", Count: c.Count})
		}
	}
	if len(out) > searchSuggestionMax {
		out = out[:searchSuggestionMax]
	}
	return out, nil
}

// ProductViews reports per-product view counts, which need a tracking integration.
func (a *StoreAssistant) ProductViews(_ context.Context, productID int64) domain.Result[domain.Unavailable] {
	msg := fmt.Sprintf("View counts for product %d require an analytics integration", productID)
	return domain.Result[domain.Unavailable]{Message: msg, Data: domain.NotAvailable(msg)}
}

func (a *StoreAssistant) generalSuggestions(ctx context.Context) ([]GeneralSuggestion, error) {
	var out []GeneralSuggestion
	categories, err := a.catalog.TopCategories(ctx, suggestionCategories)
	if err != nil {
		return nil, fmt.Errorf("top categories: %w", err)
	}
	for _, c := range categories {
		out = append(out, GeneralSuggestion{Type: "category", Name: c.Name, Count: c.Count})
	}
	featured, err := a.catalog.Featured(ctx, suggestionFeatured)
	if err != nil {
		return out, fmt.Errorf("featured products: %w", err)
	}
	for _, p := range featured {
		out = append(out, GeneralSuggestion{Type: "product", Name: p.Name, URL: p.URL, Price: p.Price, Image: p.Image})
	}
	return out, nil
}

func (a *StoreAssistant) logSearch(ctx context.Context, entry SearchLog) {
	if err := appendCapped(ctx, a.settings, keySearchLogs, entry, searchLogLimit); err != nil {
		a.debug("search log not saved", "error", err)
	}
}

func (a *StoreAssistant) debug(msg string, args ...interface{}) {
	if a.logger == nil {
		return
	}
	a.logger.Debug(msg, args...)
}
