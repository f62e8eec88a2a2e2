package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
)

var scheduleColumns = []string{"id", "topic", "scheduled_for", "status", "options", "created_at"}

// ScheduleStore persists scheduled content items keyed by their id.
type ScheduleStore struct {
	db *sql.DB
}

var _ ports.ScheduleRepository = (*ScheduleStore)(nil)

// NewScheduleStore wires a sql.DB implementation.
func NewScheduleStore(db *sql.DB) *ScheduleStore {
	return &ScheduleStore{db: db}
}

// SaveScheduled inserts or replaces an item.
func (s *ScheduleStore) SaveScheduled(ctx context.Context, item domain.ScheduledItem) error {
	opts, err := json.Marshal(item.Options)
	if err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	query, args, err := sqlb.Insert("scheduled_content").Columns(scheduleColumns...).
		Values(item.ID, item.Topic, item.ScheduledFor.Unix(), string(item.Status), string(opts), item.CreatedAt.Unix()).
		Options("OR REPLACE").
		ToSql()
	if err != nil {
		return fmt.Errorf("build schedule insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save scheduled %s: %w", item.ID, err)
	}
	return nil
}

// GetScheduled loads an item by id.
func (s *ScheduleStore) GetScheduled(ctx context.Context, id string) (domain.ScheduledItem, error) {
	items, err := s.query(ctx, sqlb.Select(scheduleColumns...).From("scheduled_content").Where(sq.Eq{"id": id}))
	if err != nil {
		return domain.ScheduledItem{}, err
	}
	if len(items) == 0 {
		return domain.ScheduledItem{}, fmt.Errorf("scheduled item %s: %w", id, domain.ErrNotFound)
	}
	return items[0], nil
}

// UpdateScheduledStatus changes the status of an existing item.
func (s *ScheduleStore) UpdateScheduledStatus(ctx context.Context, id string, status domain.ScheduleStatus) error {
	query, args, err := sqlb.Update("scheduled_content").Set("status", string(status)).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build schedule update: %w", err)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update scheduled %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("scheduled item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListScheduled returns items in [from, to) ordered by time. Zero bounds and empty status are ignored.
func (s *ScheduleStore) ListScheduled(ctx context.Context, status domain.ScheduleStatus, from, to time.Time, limit int) ([]domain.ScheduledItem, error) {
	builder := sqlb.Select(scheduleColumns...).From("scheduled_content").OrderBy("scheduled_for", "created_at")
	if status != "" {
		builder = builder.Where(sq.Eq{"status": string(status)})
	}
	if !from.IsZero() {
		builder = builder.Where(sq.GtOrEq{"scheduled_for": from.Unix()})
	}
	if !to.IsZero() {
		builder = builder.Where(sq.Lt{"scheduled_for": to.Unix()})
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	return s.query(ctx, builder)
}

func (s *ScheduleStore) query(ctx context.Context, builder sq.SelectBuilder) ([]domain.ScheduledItem, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build schedule query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	defer rows.Close()

	var items []domain.ScheduledItem
	for rows.Next() {
		var (
			item         domain.ScheduledItem
			at, created  int64
			status, opts string
		)
		if err := rows.Scan(&item.ID, &item.Topic, &at, &status, &opts, &created); err != nil {
			return nil, fmt.Errorf("scan scheduled item: %w", err)
		}
		item.ScheduledFor = time.Unix(at, 0).UTC()
		item.CreatedAt = time.Unix(created, 0).UTC()
		item.Status = domain.ScheduleStatus(status)
		if err := json.Unmarshal([]byte(opts), &item.Options); err != nil {
			return nil, fmt.Errorf("decode options for %s: %w", item.ID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return items, nil
}
