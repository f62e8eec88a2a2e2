package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ContentWriter/internal/domain"
	"ContentWriter/internal/scanner"
)

// HTMLScanner imports standalone article pages by reading their markup.
type HTMLScanner struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTMLScanner wires an HTTP client.
func NewHTMLScanner(client *http.Client, logger *slog.Logger) *HTMLScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &HTMLScanner{client: client, logger: logger}
}

// Name identifies the strategy inside the registry.
func (h *HTMLScanner) Name() string {
	return "html"
}

// Scan fetches every URL and turns each page into a published document.
// Option "selector" overrides the content container (default article, then main, then body).
func (h *HTMLScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Document, error) {
	if len(req.URLs) == 0 {
		return nil, fmt.Errorf("no urls provided for site %s", req.SiteName)
	}

	docs := make([]domain.Document, 0, len(req.URLs))
	for _, pageURL := range req.URLs {
		page, err := h.fetchDocument(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", pageURL, err)
		}
		doc, err := parsePage(page, pageURL, req.Option("selector", ""))
		if err != nil {
			h.debug("skip page", "url", pageURL, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (h *HTMLScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ContentWriter/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("site returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func parsePage(page *goquery.Document, pageURL, selector string) (domain.Document, error) {
	doc := domain.Document{
		ExternalID: "html:" + pageURL,
		Type:       "post",
		Status:     domain.StatusPublish,
		URL:        pageURL,
	}

	if canonical, ok := page.Find(`link[rel="canonical"]`).First().Attr("href"); ok && strings.TrimSpace(canonical) != "" {
		doc.URL = strings.TrimSpace(canonical)
	}

	doc.Title = strings.TrimSpace(page.Find("h1").First().Text())
	if doc.Title == "" {
		doc.Title = strings.TrimSpace(page.Find("title").First().Text())
	}
	if doc.Title == "" {
		return doc, fmt.Errorf("page has no title")
	}

	container := contentContainer(page, selector)
	container.Find("script, style, nav, header, footer").Remove()
	container.Find("h1").First().Remove()
	body, err := container.Html()
	if err != nil {
		return doc, fmt.Errorf("render body: %w", err)
	}
	doc.Body = strings.TrimSpace(body)

	doc.Excerpt = metaContent(page, `meta[name="description"]`)
	if section := metaContent(page, `meta[property="article:section"]`); section != "" {
		doc.Categories = []string{section}
	}
	page.Find(`meta[property="article:tag"]`).Each(func(_ int, s *goquery.Selection) {
		if v := strings.TrimSpace(s.AttrOr("content", "")); v != "" {
			doc.Tags = append(doc.Tags, v)
		}
	})
	if raw := metaContent(page, `meta[property="article:published_time"]`); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			doc.PublishedAt = t.UTC()
		}
	}
	return doc, nil
}

func contentContainer(page *goquery.Document, selector string) *goquery.Selection {
	candidates := []string{"article", "main", "body"}
	if selector != "" {
		candidates = append([]string{selector}, candidates...)
	}
	for _, c := range candidates {
		if sel := page.Find(c).First(); sel.Length() > 0 {
			return sel
		}
	}
	return page.Selection
}

func metaContent(page *goquery.Document, selector string) string {
	return strings.TrimSpace(page.Find(selector).First().AttrOr("content", ""))
}

// htmlText decodes entities and drops markup from a rendered WordPress field.
func htmlText(rendered string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return strings.TrimSpace(rendered)
	}
	return strings.TrimSpace(doc.Text())
}

func (h *HTMLScanner) debug(msg string, args ...interface{}) {
	if h.logger != nil {
		h.logger.Debug(msg, args...)
	}
}
