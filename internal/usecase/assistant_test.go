package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ContentWriter/internal/domain"
)

func storeCatalog() *fakeCatalog {
	return &fakeCatalog{products: []domain.ProductRecord{
		{ID: 1, Name: "Red Running Shoes", Categories: []string{"Shoes"}, Tags: []string{"red"}, URL: "/p/1", Price: 80},
		{ID: 2, Name: "Blue Sandals", Categories: []string{"Shoes"}, URL: "/p/2", Featured: true, Price: 30},
		{ID: 3, Name: "Garden Gloves", Categories: []string{"Garden"}, URL: "/p/3", Featured: true, Price: 12},
	}}
}

func TestSearchValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if res := NewStoreAssistant(StoreAssistantDeps{Catalog: storeCatalog()}).Search(ctx, "  ", ""); res.Message != "Query is required" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res := NewStoreAssistant(StoreAssistantDeps{}).Search(ctx, "shoes", ""); res.Message != "Product catalog is not configured" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res := NewStoreAssistant(StoreAssistantDeps{Catalog: &fakeCatalog{}}).Search(ctx, "shoes", ""); res.Message != "No products found in store" {
		t.Fatalf("unexpected result: %+v", res)
	}
	failing := NewStoreAssistant(StoreAssistantDeps{Catalog: &fakeCatalog{err: errors.New("db down")}})
	if res := failing.Search(ctx, "shoes", ""); res.Success {
		t.Fatalf("expected failure: %+v", res)
	}
}

func TestSearchUsesKeywordFallback(t *testing.T) {
	t.Parallel()

	settings := newMemSettings()
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	a := NewStoreAssistant(StoreAssistantDeps{Catalog: storeCatalog(), Settings: settings, Clock: fixedClock(now)})

	res := a.Search(context.Background(), "red shoes", "u1")
	if !res.Success || res.Message != "Found matching products" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !res.Data.Fallback || res.Data.Total != 2 || res.Data.Products[0].ID != 1 {
		t.Fatalf("unexpected response: %+v", res.Data)
	}

	logs, _ := loadSetting[[]SearchLog](context.Background(), settings, keySearchLogs)
	if len(logs) != 1 || logs[0].UserID != "u1" || logs[0].Results != 2 || !logs[0].Timestamp.Equal(now) {
		t.Fatalf("unexpected search log: %+v", logs)
	}
}

func TestSearchWithoutMatchesSuggestsAlternatives(t *testing.T) {
	t.Parallel()

	settings := newMemSettings()
	a := NewStoreAssistant(StoreAssistantDeps{Catalog: storeCatalog(), Settings: settings})

	res := a.Search(context.Background(), "telescope", "")
	if !res.Success || res.Message != "No matching products found" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Data.Products == nil || len(res.Data.Products) != 0 {
		t.Fatalf("products should be an empty list: %+v", res.Data.Products)
	}
	var categories, products int
	for _, s := range res.Data.Suggestions {
		switch s.Type {
		case "category":
			categories++
		case "product":
			products++
		}
	}
	if categories != 2 || products != 2 || res.Data.Suggestions[0].Name != "Shoes" {
		t.Fatalf("unexpected suggestions: %+v", res.Data.Suggestions)
	}

	logs, _ := loadSetting[[]SearchLog](context.Background(), settings, keySearchLogs)
	if len(logs) != 1 || logs[0].Results != 0 {
		t.Fatalf("zero-result searches are logged too: %+v", logs)
	}
}

func TestSearchAnalytics(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	settings := newMemSettings()
	logs := []SearchLog{
		{Query: "old", Results: 9, Timestamp: now.AddDate(0, 0, -40)},
		{Query: "shoes", Results: 3, Timestamp: now.AddDate(0, 0, -2)},
		{Query: "gloves", Results: 0, Timestamp: now.AddDate(0, 0, -2)},
		{Query: "shoes", Results: 2, Timestamp: now.AddDate(0, 0, -1)},
	}
	if err := settings.Set(context.Background(), keySearchLogs, logs); err != nil {
		t.Fatalf("seed: %v", err)
	}
	a := NewStoreAssistant(StoreAssistantDeps{Catalog: storeCatalog(), Settings: settings})

	got, err := a.Analytics(context.Background(), 30, now)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if got.TotalSearches != 3 || got.UniqueQueries != 2 || got.AvgResults != 1.67 {
		t.Fatalf("unexpected analytics: %+v", got)
	}
	if got.PopularQueries[0] != (QueryCount{Query: "shoes", Count: 2}) {
		t.Fatalf("unexpected popular queries: %+v", got.PopularQueries)
	}
	if len(got.NoResultQueries) != 1 || got.NoResultQueries[0] != "gloves" {
		t.Fatalf("unexpected no-result queries: %v", got.NoResultQueries)
	}

	suggestions, err := a.SearchSuggestions(context.Background(), now)
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(suggestions) != 4 || suggestions[0].Text != "shoes" || suggestions[2].Type != "category" {
		t.Fatalf("unexpected suggestions: %+v", suggestions)
	}
}

func TestProductViewsNotAvailable(t *testing.T) {
	t.Parallel()

	res := NewStoreAssistant(StoreAssistantDeps{}).ProductViews(context.Background(), 7)
	if res.Success || res.Data.Status != "not_available" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
