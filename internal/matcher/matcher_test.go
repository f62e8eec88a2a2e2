package matcher

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
)

type stubCompleter struct {
	text   string
	err    error
	prompt ports.Prompt
	calls  int
}

func (s *stubCompleter) Complete(_ context.Context, p ports.Prompt) (string, error) {
	s.calls++
	s.prompt = p
	return s.text, s.err
}

func catalog() []domain.ProductRecord {
	return []domain.ProductRecord{
		{ID: 1, Name: "Blue Sandals", Categories: []string{"Footwear"}, Price: 20, InStock: true},
		{ID: 2, Name: "Red Running Shoes", Description: "Lightweight shoes for runners", Categories: []string{"Shoes"}, Tags: []string{"red"}, Price: 80, InStock: true},
		{ID: 3, Name: "Red Scarf", Categories: []string{"Accessories"}, Price: 15},
		{ID: 7, Name: "Leather Shoes", Categories: []string{"Shoes"}, Price: 120, InStock: true},
		{ID: 12, Name: "Garden Hose", Categories: []string{"Garden"}, Price: 35, InStock: true},
	}
}

func TestMatchUsesBackendOrder(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{text: "Here are matches: [12, 7, 99] enjoy!"}
	out := New(stub, nil).Match(context.Background(), "hose", catalog(), 5)

	if out.Fallback {
		t.Fatalf("backend answer should be used")
	}
	if len(out.Products) != 2 || out.Products[0].ID != 12 || out.Products[1].ID != 7 {
		t.Fatalf("unexpected products: %+v", out.Products)
	}
	if stub.prompt.MaxTokens != 500 || stub.prompt.Temperature != 0.3 {
		t.Fatalf("unexpected prompt limits: %+v", stub.prompt)
	}
	if !strings.Contains(stub.prompt.Text, "ID: 2 - Red Running Shoes (Categories: Shoes) (Tags: red) - Price: 80 - In Stock: Yes") {
		t.Fatalf("prompt is missing product summary:\n%s", stub.prompt.Text)
	}
}

func TestMatchDropsDuplicatesAndRespectsLimit(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{text: "[3, 3, 1, 2, 7]"}
	out := New(stub, nil).Match(context.Background(), "anything", catalog(), 2)
	if len(out.Products) != 2 || out.Products[0].ID != 3 || out.Products[1].ID != 1 {
		t.Fatalf("unexpected products: %+v", out.Products)
	}
}

func TestMatchEmptyArrayMeansNoMatch(t *testing.T) {
	t.Parallel()

	out := New(&stubCompleter{text: "[]"}, nil).Match(context.Background(), "red shoes", catalog(), 5)
	if out.Fallback || len(out.Products) != 0 {
		t.Fatalf("expected empty backend result, got %+v", out)
	}
}

func TestMatchFallsBackOnMalformedOutput(t *testing.T) {
	t.Parallel()

	out := New(&stubCompleter{text: "no products match your query"}, nil).Match(context.Background(), "red shoes", catalog(), 5)
	if !out.Fallback {
		t.Fatalf("expected fallback")
	}
	if len(out.Products) == 0 || out.Products[0].ID != 2 {
		t.Fatalf("unexpected fallback ranking: %+v", out.Products)
	}
}

func TestMatchFallsBackOnBackendError(t *testing.T) {
	t.Parallel()

	out := New(&stubCompleter{err: errors.New("boom")}, nil).Match(context.Background(), "shoes", catalog(), 5)
	if !out.Fallback || len(out.Products) == 0 {
		t.Fatalf("expected fallback results, got %+v", out)
	}
}

func TestFallbackRedShoes(t *testing.T) {
	t.Parallel()

	got := Fallback("Red Shoes", catalog(), 5)
	// 2: name 3+3, desc 2, category 2, tag 1 = 11; 7: name 3, category 2 = 5; 3: name 3 = 3
	want := []int64{2, 7, 3}
	if len(got) != len(want) {
		t.Fatalf("unexpected result size %d: %+v", len(got), got)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: want %d, got %d", i, id, got[i].ID)
		}
	}
}

func TestFallbackStableOnTies(t *testing.T) {
	t.Parallel()

	products := []domain.ProductRecord{
		{ID: 10, Name: "Mug"},
		{ID: 11, Name: "Mug"},
		{ID: 12, Name: "Mug"},
	}
	got := Fallback("mug", products, 2)
	if len(got) != 2 || got[0].ID != 10 || got[1].ID != 11 {
		t.Fatalf("ties should keep input order: %+v", got)
	}
}

func TestMatchNilCompleter(t *testing.T) {
	t.Parallel()

	out := New(nil, nil).Match(context.Background(), "garden", catalog(), 0)
	if !out.Fallback || len(out.Products) != 1 || out.Products[0].ID != 12 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}
