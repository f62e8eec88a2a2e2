package ports

import (
	"context"
	"time"

	"ContentWriter/internal/domain"
)

// Prompt is a single completion request with its per-call limits.
type Prompt struct {
	Text        string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Completer sends a prompt to a hosted text-completion backend (OpenAI, Gemini).
type Completer interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// SettingsStore keeps JSON-encoded values by key. Writes are last-writer-wins.
type SettingsStore interface {
	// Get decodes the value stored under key into dst and reports whether it existed.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// ContentRepository reads and writes site documents and their metadata.
type ContentRepository interface {
	ListPublished(ctx context.Context, types ...string) ([]domain.Document, error)
	Get(ctx context.Context, id int64) (domain.Document, error)
	Create(ctx context.Context, doc domain.Document) (int64, error)
	Update(ctx context.Context, doc domain.Document) error
	Delete(ctx context.Context, id int64) error
	Meta(ctx context.Context, id int64, key string) (string, error)
	SetMeta(ctx context.Context, id int64, key, value string) error
	Related(ctx context.Context, keyword string, limit int) ([]domain.Document, error)
	ExistingExternalIDs(ctx context.Context, ids []string) (map[string]bool, error)
}

// ProductCatalog exposes read-only storefront data.
type ProductCatalog interface {
	Products(ctx context.Context) ([]domain.ProductRecord, error)
	TopCategories(ctx context.Context, n int) ([]domain.CategoryCount, error)
	Featured(ctx context.Context, n int) ([]domain.ProductRecord, error)
	Popular(ctx context.Context, n int) ([]domain.ProductRecord, error)
}

// ScheduleRepository persists scheduled content items by id.
type ScheduleRepository interface {
	SaveScheduled(ctx context.Context, item domain.ScheduledItem) error
	GetScheduled(ctx context.Context, id string) (domain.ScheduledItem, error)
	UpdateScheduledStatus(ctx context.Context, id string, status domain.ScheduleStatus) error
	// ListScheduled returns items ordered by scheduled time; empty status means any.
	ListScheduled(ctx context.Context, status domain.ScheduleStatus, from, to time.Time, limit int) ([]domain.ScheduledItem, error)
}

// Scheduler controls when jobs execute.
type Scheduler interface {
	ScheduleAt(id string, at time.Time, job func()) error
	Cancel(id string) bool
	Every(spec, name string, job func()) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// SeoMetadataBackend stores search metadata under the keys of a specific SEO plugin.
type SeoMetadataBackend interface {
	Name() string
	Meta(ctx context.Context, docID int64) (domain.SEOMeta, error)
	SetMeta(ctx context.Context, docID int64, meta domain.SEOMeta) (domain.MetaUpdate, error)
	Score(ctx context.Context, docID int64) (int, bool, error)
	SetScore(ctx context.Context, docID int64, score int) error
}

// Notifier streams short reports to Telegram or other channels.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// ContentSource pulls documents from the configured sites.
type ContentSource interface {
	FetchAll(ctx context.Context) ([]domain.Document, error)
}
