package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
)

type fakeCompleter struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []ports.Prompt
}

func (f *fakeCompleter) Complete(_ context.Context, prompt ports.Prompt) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", fmt.Errorf("no scripted response")
	}
	text := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return text, nil
}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type memSettings struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemSettings() *memSettings {
	return &memSettings{values: map[string][]byte{}}
}

func (m *memSettings) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m *memSettings) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = raw
	return nil
}

type memContent struct {
	mu     sync.Mutex
	nextID int64
	docs   map[int64]domain.Document
	meta   map[int64]map[string]string

	metaErr error
}

var _ ports.ContentRepository = (*memContent)(nil)

func newMemContent() *memContent {
	return &memContent{docs: map[int64]domain.Document{}, meta: map[int64]map[string]string{}}
}

func (m *memContent) add(doc domain.Document) domain.Document {
	id, _ := m.Create(context.Background(), doc)
	got, _ := m.Get(context.Background(), id)
	return got
}

func (m *memContent) ListPublished(_ context.Context, types ...string) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(types) == 0 {
		types = []string{"post", "page"}
	}
	var out []domain.Document
	for _, doc := range m.docs {
		if !doc.Published() {
			continue
		}
		for _, t := range types {
			if doc.Type == t {
				out = append(out, doc)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memContent) Get(_ context.Context, id int64) (domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return domain.Document{}, domain.ErrNotFound
	}
	return doc, nil
}

func (m *memContent) Create(_ context.Context, doc domain.Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	doc.ID = m.nextID
	if doc.Type == "" {
		doc.Type = "post"
	}
	if doc.URL == "" {
		doc.URL = fmt.Sprintf("http://site.test/?p=%d", doc.ID)
	}
	m.docs[doc.ID] = doc
	return doc.ID, nil
}

func (m *memContent) Update(_ context.Context, doc domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; !ok {
		return domain.ErrNotFound
	}
	m.docs[doc.ID] = doc
	return nil
}

func (m *memContent) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	delete(m.meta, id)
	return nil
}

func (m *memContent) Meta(_ context.Context, id int64, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.meta[id][key], nil
}

func (m *memContent) SetMeta(_ context.Context, id int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.metaErr != nil {
		return m.metaErr
	}
	if m.meta[id] == nil {
		m.meta[id] = map[string]string{}
	}
	m.meta[id][key] = value
	return nil
}

func (m *memContent) Related(ctx context.Context, keyword string, limit int) ([]domain.Document, error) {
	docs, _ := m.ListPublished(ctx, "post")
	var out []domain.Document
	kw := strings.ToLower(keyword)
	for _, doc := range docs {
		if strings.Contains(strings.ToLower(doc.Title+" "+doc.Body), kw) {
			out = append(out, doc)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memContent) ExistingExternalIDs(_ context.Context, ids []string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]bool{}
	for _, doc := range m.docs {
		for _, id := range ids {
			if doc.ExternalID == id {
				out[id] = true
			}
		}
	}
	return out, nil
}

type memSchedule struct {
	mu    sync.Mutex
	items map[string]domain.ScheduledItem
}

func newMemSchedule() *memSchedule {
	return &memSchedule{items: map[string]domain.ScheduledItem{}}
}

func (m *memSchedule) SaveScheduled(_ context.Context, item domain.ScheduledItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
	return nil
}

func (m *memSchedule) GetScheduled(_ context.Context, id string) (domain.ScheduledItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return domain.ScheduledItem{}, domain.ErrNotFound
	}
	return item, nil
}

func (m *memSchedule) UpdateScheduledStatus(_ context.Context, id string, status domain.ScheduleStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.Status = status
	m.items[id] = item
	return nil
}

func (m *memSchedule) ListScheduled(_ context.Context, status domain.ScheduleStatus, from, to time.Time, limit int) ([]domain.ScheduledItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ScheduledItem
	for _, item := range m.items {
		if status != "" && item.Status != status {
			continue
		}
		if !from.IsZero() && item.ScheduledFor.Before(from) {
			continue
		}
		if !to.IsZero() && !item.ScheduledFor.Before(to) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledFor.Before(out[j].ScheduledFor) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeDriver struct {
	mu        sync.Mutex
	oneShot   map[string]time.Time
	jobs      map[string]func()
	recurring map[string]string
	cancelled []string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{oneShot: map[string]time.Time{}, jobs: map[string]func(){}, recurring: map[string]string{}}
}

func (d *fakeDriver) ScheduleAt(id string, at time.Time, job func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.oneShot[id] = at
	d.jobs[id] = job
	return nil
}

func (d *fakeDriver) Cancel(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelled = append(d.cancelled, id)
	_, ok := d.oneShot[id]
	delete(d.oneShot, id)
	delete(d.jobs, id)
	return ok
}

func (d *fakeDriver) Every(spec, name string, job func()) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recurring[name] = spec
	d.jobs[name] = job
	return nil
}

func (d *fakeDriver) Start(context.Context) error { return nil }
func (d *fakeDriver) Stop(context.Context) error  { return nil }

type fakeCatalog struct {
	products []domain.ProductRecord
	err      error
}

func (c *fakeCatalog) Products(context.Context) ([]domain.ProductRecord, error) {
	return c.products, c.err
}

func (c *fakeCatalog) TopCategories(_ context.Context, n int) ([]domain.CategoryCount, error) {
	counts := map[string]int{}
	for _, p := range c.products {
		for _, cat := range p.Categories {
			counts[cat]++
		}
	}
	var out []domain.CategoryCount
	for name, count := range counts {
		out = append(out, domain.CategoryCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (c *fakeCatalog) Featured(_ context.Context, n int) ([]domain.ProductRecord, error) {
	var out []domain.ProductRecord
	for _, p := range c.products {
		if p.Featured && len(out) < n {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *fakeCatalog) Popular(_ context.Context, n int) ([]domain.ProductRecord, error) {
	out := append([]domain.ProductRecord(nil), c.products...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalSales > out[j].TotalSales })
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

type fakeMeta struct {
	mu     sync.Mutex
	meta   map[int64]domain.SEOMeta
	scores map[int64]int
}

var _ ports.SeoMetadataBackend = (*fakeMeta)(nil)

func newFakeMeta() *fakeMeta {
	return &fakeMeta{meta: map[int64]domain.SEOMeta{}, scores: map[int64]int{}}
}

func (f *fakeMeta) Name() string { return "fake" }

func (f *fakeMeta) Meta(_ context.Context, id int64) (domain.SEOMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meta[id], nil
}

func (f *fakeMeta) SetMeta(_ context.Context, id int64, meta domain.SEOMeta) (domain.MetaUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.meta[id] = meta
	return domain.MetaUpdate{Backend: "fake", Fields: []string{"title", "description", "keyword"}}, nil
}

func (f *fakeMeta) Score(_ context.Context, id int64) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	score, ok := f.scores[id]
	return score, ok, nil
}

func (f *fakeMeta) SetScore(_ context.Context, id int64, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores[id] = score
	return nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) Notify(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
	return nil
}

type fakeSource struct {
	docs []domain.Document
	err  error
}

func (s *fakeSource) FetchAll(context.Context) ([]domain.Document, error) {
	return s.docs, s.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
