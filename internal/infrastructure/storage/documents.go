package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
)

var documentColumns = []string{
	"id", "external_id", "type", "title", "body", "excerpt", "status",
	"categories", "tags", "url", "comment_count", "published_at",
}

// DocumentStore persists site documents and their metadata in SQLite.
type DocumentStore struct {
	db      *sql.DB
	siteURL string
}

var _ ports.ContentRepository = (*DocumentStore)(nil)

// NewDocumentStore wires a sql.DB implementation; siteURL builds permalinks for documents without one.
func NewDocumentStore(db *sql.DB, siteURL string) *DocumentStore {
	return &DocumentStore{db: db, siteURL: strings.TrimRight(siteURL, "/")}
}

// ListPublished returns published documents of the given types (posts and pages when none).
func (s *DocumentStore) ListPublished(ctx context.Context, types ...string) ([]domain.Document, error) {
	if len(types) == 0 {
		types = []string{"post", "page"}
	}
	builder := sqlb.Select(documentColumns...).From("documents").
		Where(sq.Eq{"status": string(domain.StatusPublish), "type": types}).
		OrderBy("published_at DESC", "id DESC")
	return s.query(ctx, builder)
}

// Get loads a document by id.
func (s *DocumentStore) Get(ctx context.Context, id int64) (domain.Document, error) {
	docs, err := s.query(ctx, sqlb.Select(documentColumns...).From("documents").Where(sq.Eq{"id": id}))
	if err != nil {
		return domain.Document{}, err
	}
	if len(docs) == 0 {
		return domain.Document{}, fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	return docs[0], nil
}

// Create inserts doc and returns its id.
func (s *DocumentStore) Create(ctx context.Context, doc domain.Document) (int64, error) {
	if doc.Type == "" {
		doc.Type = "post"
	}
	if doc.Status == "" {
		doc.Status = domain.StatusDraft
	}

	query, args, err := sqlb.Insert("documents").
		Columns(documentColumns[1:]...).
		Values(nullable(doc.ExternalID), doc.Type, doc.Title, doc.Body, doc.Excerpt, string(doc.Status),
			encodeList(doc.Categories), encodeList(doc.Tags), doc.URL, doc.CommentCount, unixOrZero(doc.PublishedAt)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build document insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("document id: %w", err)
	}

	if doc.URL == "" {
		if err := s.setColumn(ctx, id, "url", s.permalink(id)); err != nil {
			return id, err
		}
	}
	return id, nil
}

// Update overwrites every field of an existing document.
func (s *DocumentStore) Update(ctx context.Context, doc domain.Document) error {
	query, args, err := sqlb.Update("documents").SetMap(map[string]any{
		"external_id":   nullable(doc.ExternalID),
		"type":          doc.Type,
		"title":         doc.Title,
		"body":          doc.Body,
		"excerpt":       doc.Excerpt,
		"status":        string(doc.Status),
		"categories":    encodeList(doc.Categories),
		"tags":          encodeList(doc.Tags),
		"url":           doc.URL,
		"comment_count": doc.CommentCount,
		"published_at":  unixOrZero(doc.PublishedAt),
	}).Where(sq.Eq{"id": doc.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build document update: %w", err)
	}
	return s.exec(ctx, doc.ID, query, args)
}

// Meta returns a metadata value; missing keys yield an empty string.
func (s *DocumentStore) Meta(ctx context.Context, id int64, key string) (string, error) {
	query, args, err := sqlb.Select("value").From("document_meta").
		Where(sq.Eq{"document_id": id, "key": key}).ToSql()
	if err != nil {
		return "", fmt.Errorf("build meta query: %w", err)
	}
	var value string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("load meta %s for %d: %w", key, id, err)
	}
	return value, nil
}

// SetMeta stores a metadata value for an existing document.
func (s *DocumentStore) SetMeta(ctx context.Context, id int64, key, value string) error {
	query, args, err := sqlb.Insert("document_meta").
		Columns("document_id", "key", "value").
		Values(id, key, value).
		Suffix("ON CONFLICT(document_id, key) DO UPDATE SET value = excluded.value").
		ToSql()
	if err != nil {
		return fmt.Errorf("build meta upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save meta %s for %d: %w", key, id, err)
	}
	return nil
}

// Delete removes a document together with its meta rows.
func (s *DocumentStore) Delete(ctx context.Context, id int64) error {
	for _, b := range []sq.DeleteBuilder{
		sqlb.Delete("document_meta").Where(sq.Eq{"document_id": id}),
		sqlb.Delete("documents").Where(sq.Eq{"id": id}),
	} {
		query, args, err := b.ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete document %d: %w", id, err)
		}
	}
	return nil
}

// Related returns published documents whose title or body mentions keyword.
func (s *DocumentStore) Related(ctx context.Context, keyword string, limit int) ([]domain.Document, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 3
	}
	pattern := "%" + keyword + "%"
	builder := sqlb.Select(documentColumns...).From("documents").
		Where(sq.Eq{"status": string(domain.StatusPublish)}).
		Where(sq.Or{sq.Like{"title": pattern}, sq.Like{"body": pattern}}).
		OrderBy("published_at DESC", "id DESC").
		Limit(uint64(limit))
	return s.query(ctx, builder)
}

// ExistingExternalIDs reports which external ids are already imported.
func (s *DocumentStore) ExistingExternalIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	result := map[string]bool{}
	if len(ids) == 0 {
		return result, nil
	}
	query, args, err := sqlb.Select("external_id").From("documents").Where(sq.Eq{"external_id": ids}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build external id query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query external ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		result[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

func (s *DocumentStore) query(ctx context.Context, builder sq.SelectBuilder) ([]domain.Document, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build document query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var (
			doc                domain.Document
			externalID         sql.NullString
			status, cats, tags string
			publishedAt        int64
		)
		if err := rows.Scan(&doc.ID, &externalID, &doc.Type, &doc.Title, &doc.Body, &doc.Excerpt, &status,
			&cats, &tags, &doc.URL, &doc.CommentCount, &publishedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.ExternalID = externalID.String
		doc.Status = domain.DocumentStatus(status)
		doc.Categories = decodeList(cats)
		doc.Tags = decodeList(tags)
		doc.PublishedAt = timeOrZero(publishedAt)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return docs, nil
}

func (s *DocumentStore) setColumn(ctx context.Context, id int64, column string, value any) error {
	query, args, err := sqlb.Update("documents").Set(column, value).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build document update: %w", err)
	}
	return s.exec(ctx, id, query, args)
}

func (s *DocumentStore) exec(ctx context.Context, id int64, query string, args []any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update document %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("document %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *DocumentStore) permalink(id int64) string {
	return fmt.Sprintf("%s/?p=%d", s.siteURL, id)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
