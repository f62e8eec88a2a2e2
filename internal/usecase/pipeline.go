package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ContentWriter/internal/domain"
	"ContentWriter/internal/ports"
)

// ImportReport counts what an import run did.
type ImportReport struct {
	Fetched  int      `json:"fetched"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Learned  int      `json:"learned"`
	IDs      []int64  `json:"ids,omitempty"`
	Titles   []string `json:"-"`
	Failures []string `json:"failures,omitempty"`
}

// ImporterDeps wires all driven adapters into the import pipeline.
type ImporterDeps struct {
	Source   ports.ContentSource
	Content  ports.ContentRepository
	Learner  *Learner
	Notifier ports.Notifier
	Logger   *slog.Logger
}

// Importer copies documents from the configured sites into the content repository.
type Importer struct {
	source   ports.ContentSource
	content  ports.ContentRepository
	learner  *Learner
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewImporter constructs the import pipeline.
func NewImporter(deps ImporterDeps) *Importer {
	return &Importer{
		source:   deps.Source,
		content:  deps.Content,
		learner:  deps.Learner,
		notifier: deps.Notifier,
		logger:   deps.Logger,
	}
}

// Import fetches every source, skips documents already stored under the same external
// id, stores the rest and learns from the published ones.
func (p *Importer) Import(ctx context.Context) domain.Result[ImportReport] {
	if p.source == nil || p.content == nil {
		return domain.Fail[ImportReport]("No content sources configured")
	}

	docs, err := p.source.FetchAll(ctx)
	if err != nil {
		return domain.FailErr[ImportReport](fmt.Errorf("fetch sources: %w", err))
	}
	report := ImportReport{Fetched: len(docs)}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.ExternalID != "" {
			ids = append(ids, doc.ExternalID)
		}
	}

	skip := map[string]bool{}
	if len(ids) > 0 {
		skip, err = p.content.ExistingExternalIDs(ctx, ids)
		if err != nil {
			return domain.FailErr[ImportReport](fmt.Errorf("load imported ids: %w", err))
		}
	}

	for _, doc := range docs {
		if doc.ExternalID != "" && skip[doc.ExternalID] {
			report.Skipped++
			continue
		}
		id, err := p.content.Create(ctx, doc)
		if err != nil {
			return domain.FailErr[ImportReport](fmt.Errorf("store %s: %w", doc.ExternalID, err))
		}
		report.Imported++
		report.IDs = append(report.IDs, id)
		report.Titles = append(report.Titles, doc.Title)

		if p.learner != nil && doc.Published() {
			if res := p.learner.Learn(ctx, id); res.Success {
				report.Learned++
			} else {
				report.Failures = append(report.Failures, fmt.Sprintf("learn %d: %s", id, res.Message))
			}
		}
	}

	if p.logger != nil {
		p.logger.Info("import finished", "fetched", report.Fetched, "imported", report.Imported, "skipped", report.Skipped)
	}
	if report.Imported > 0 && p.notifier != nil {
		if err := p.notifier.Notify(ctx, buildImportMessage(report)); err != nil && p.logger != nil {
			p.logger.Debug("import notification failed", "error", err)
		}
	}
	return domain.OK(fmt.Sprintf("Imported %d documents", report.Imported), report)
}

func buildImportMessage(report ImportReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Imported %d new documents (%d skipped)\n", report.Imported, report.Skipped)
	for _, title := range report.Titles {
		fmt.Fprintf(&b, "- %s\n", title)
	}
	return b.String()
}
