package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	external_id TEXT UNIQUE,
	type TEXT NOT NULL DEFAULT 'post',
	title TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL DEFAULT '',
	excerpt TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'draft',
	categories TEXT NOT NULL DEFAULT '[]',
	tags TEXT NOT NULL DEFAULT '[]',
	url TEXT NOT NULL DEFAULT '',
	comment_count INTEGER NOT NULL DEFAULT 0,
	published_at INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status, type);
CREATE TABLE IF NOT EXISTS document_meta (
	document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (document_id, key)
);
CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	short_description TEXT NOT NULL DEFAULT '',
	sku TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL DEFAULT 0,
	regular_price REAL NOT NULL DEFAULT 0,
	sale_price REAL NOT NULL DEFAULT 0,
	categories TEXT NOT NULL DEFAULT '[]',
	tags TEXT NOT NULL DEFAULT '[]',
	attributes TEXT NOT NULL DEFAULT '{}',
	url TEXT NOT NULL DEFAULT '',
	image TEXT NOT NULL DEFAULT '',
	in_stock INTEGER NOT NULL DEFAULT 1,
	featured INTEGER NOT NULL DEFAULT 0,
	total_sales INTEGER NOT NULL DEFAULT 0,
	meta_title TEXT NOT NULL DEFAULT '',
	meta_description TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS scheduled_content (
	id TEXT PRIMARY KEY,
	topic TEXT NOT NULL,
	scheduled_for INTEGER NOT NULL,
	status TEXT NOT NULL,
	options TEXT NOT NULL DEFAULT '{}',
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scheduled_content_time ON scheduled_content(scheduled_for);
`

// sqlb builds statements with '?' placeholders for SQLite.
var sqlb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// OpenSQLite opens the database file with WAL mode and foreign keys enabled and creates the schema.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Pragmas below are per connection.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

func encodeList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

func decodeList(raw string) []string {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil || len(items) == 0 {
		return nil
	}
	return items
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func timeOrZero(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
