package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ContentWriter/internal/domain"
	"ContentWriter/internal/scanner"
)

const wordpressPageSize = 100

// WordPressScanner imports published posts and pages through the WordPress REST API.
type WordPressScanner struct {
	client *http.Client
	logger *slog.Logger
}

// NewWordPressScanner wires an HTTP client.
func NewWordPressScanner(client *http.Client, logger *slog.Logger) *WordPressScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &WordPressScanner{client: client, logger: logger}
}

// Name identifies the strategy inside the registry.
func (w *WordPressScanner) Name() string {
	return "wordpress"
}

type wpRendered struct {
	Rendered string `json:"rendered"`
}

type wpTerm struct {
	Taxonomy string `json:"taxonomy"`
	Name     string `json:"name"`
}

type wpPost struct {
	ID       int64      `json:"id"`
	DateGMT  string     `json:"date_gmt"`
	Link     string     `json:"link"`
	Status   string     `json:"status"`
	Type     string     `json:"type"`
	Title    wpRendered `json:"title"`
	Content  wpRendered `json:"content"`
	Excerpt  wpRendered `json:"excerpt"`
	Embedded struct {
		Terms   [][]wpTerm          `json:"wp:term"`
		Replies [][]json.RawMessage `json:"replies"`
	} `json:"_embedded"`
}

// Scan walks every page of the configured collections (option "types", default "posts,pages").
func (w *WordPressScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Document, error) {
	if len(req.URLs) == 0 {
		return nil, fmt.Errorf("no urls provided for site %s", req.SiteName)
	}

	collections := strings.Split(req.Option("types", "posts,pages"), ",")
	var docs []domain.Document
	for _, base := range req.URLs {
		for _, collection := range collections {
			collection = strings.TrimSpace(collection)
			if collection == "" {
				continue
			}
			fetched, err := w.scanCollection(ctx, base, collection)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", base, collection, err)
			}
			docs = append(docs, fetched...)
		}
	}
	return docs, nil
}

func (w *WordPressScanner) scanCollection(ctx context.Context, base, collection string) ([]domain.Document, error) {
	var docs []domain.Document
	for page := 1; ; page++ {
		pageURL, err := buildCollectionURL(base, collection, page)
		if err != nil {
			return nil, err
		}

		posts, totalPages, err := w.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		w.debug("wordpress page fetched", "url", pageURL, "posts", len(posts), "total_pages", totalPages)

		for _, p := range posts {
			docs = append(docs, toDocument(base, p))
		}
		if page >= totalPages || len(posts) == 0 {
			return docs, nil
		}
	}
}

func (w *WordPressScanner) fetchPage(ctx context.Context, pageURL string) ([]wpPost, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ContentWriter/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("wordpress returned %s", resp.Status)
	}

	var posts []wpPost
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		return nil, 0, fmt.Errorf("decode posts: %w", err)
	}

	totalPages, err := strconv.Atoi(resp.Header.Get("X-WP-TotalPages"))
	if err != nil || totalPages < 1 {
		totalPages = 1
	}
	return posts, totalPages, nil
}

func buildCollectionURL(base, collection string, page int) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + "/wp-json/wp/v2/" + collection)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("per_page", strconv.Itoa(wordpressPageSize))
	q.Set("page", strconv.Itoa(page))
	q.Set("status", "publish")
	q.Set("_embed", "wp:term,replies")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func toDocument(base string, p wpPost) domain.Document {
	doc := domain.Document{
		ExternalID: externalID(base, p.Type, p.ID),
		Type:       p.Type,
		Title:      htmlText(p.Title.Rendered),
		Body:       p.Content.Rendered,
		Excerpt:    htmlText(p.Excerpt.Rendered),
		Status:     domain.DocumentStatus(p.Status),
		URL:        p.Link,
	}
	if doc.Status == "" {
		doc.Status = domain.StatusPublish
	}
	if doc.Type == "" {
		doc.Type = "post"
	}
	if t, err := time.Parse("2006-01-02T15:04:05", p.DateGMT); err == nil {
		doc.PublishedAt = t.UTC()
	}
	for _, group := range p.Embedded.Terms {
		for _, term := range group {
			switch term.Taxonomy {
			case "category":
				doc.Categories = append(doc.Categories, term.Name)
			case "post_tag":
				doc.Tags = append(doc.Tags, term.Name)
			}
		}
	}
	for _, group := range p.Embedded.Replies {
		doc.CommentCount += len(group)
	}
	return doc
}

func externalID(base, typ string, id int64) string {
	host := base
	if u, err := url.Parse(base); err == nil && u.Host != "" {
		host = u.Host
	}
	return fmt.Sprintf("wp:%s:%s:%d", host, typ, id)
}

func (w *WordPressScanner) debug(msg string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}
