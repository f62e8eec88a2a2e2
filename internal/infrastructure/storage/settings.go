package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"ContentWriter/internal/ports"
)

// SettingsStore keeps JSON values in the settings table.
type SettingsStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.SettingsStore = (*SettingsStore)(nil)

// NewSettingsStore wires a sql.DB implementation.
func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db, now: time.Now}
}

// Get decodes the stored value into dst; a missing key leaves dst untouched.
func (s *SettingsStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	query, args, err := sqlb.Select("value").From("settings").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return false, fmt.Errorf("build settings query: %w", err)
	}

	var raw string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("load setting %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return true, fmt.Errorf("decode setting %s: %w", key, err)
	}
	return true, nil
}

// Set stores value as JSON, replacing any previous value.
func (s *SettingsStore) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}

	query, args, err := sqlb.Insert("settings").
		Columns("key", "value", "updated_at").
		Values(key, string(raw), s.now().Unix()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build settings upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save setting %s: %w", key, err)
	}
	return nil
}
