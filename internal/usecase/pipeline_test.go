package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ContentWriter/internal/domain"
)

func TestImportSkipsKnownDocuments(t *testing.T) {
	t.Parallel()

	content := newMemContent()
	content.add(domain.Document{ExternalID: "wp:1", Title: "Already here", Status: domain.StatusPublish})
	source := &fakeSource{docs: []domain.Document{
		{ExternalID: "wp:1", Title: "Already here", Status: domain.StatusPublish},
		{ExternalID: "wp:2", Title: "Soil care", Body: "<p>Great soil.</p>", Status: domain.StatusPublish},
		{ExternalID: "wp:3", Title: "Pending idea", Status: domain.StatusDraft},
	}}
	notifier := &fakeNotifier{}
	learner := NewLearner(LearnerDeps{Content: content, Settings: newMemSettings()})
	imp := NewImporter(ImporterDeps{Source: source, Content: content, Learner: learner, Notifier: notifier})

	res := imp.Import(context.Background())
	if !res.Success || res.Message != "Imported 2 documents" {
		t.Fatalf("unexpected result: %+v", res)
	}
	report := res.Data
	if report.Fetched != 3 || report.Imported != 2 || report.Skipped != 1 || report.Learned != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.Failures) != 0 {
		t.Fatalf("unexpected failures: %v", report.Failures)
	}
	if len(notifier.messages) != 1 || !strings.Contains(notifier.messages[0], "- Soil care\n") {
		t.Fatalf("unexpected notification: %v", notifier.messages)
	}

	again := imp.Import(context.Background())
	if again.Data.Imported != 0 || again.Data.Skipped != 3 || len(notifier.messages) != 1 {
		t.Fatalf("second import should skip everything: %+v", again.Data)
	}
}

func TestImportSourceFailure(t *testing.T) {
	t.Parallel()

	imp := NewImporter(ImporterDeps{Source: &fakeSource{err: errors.New("timeout")}, Content: newMemContent()})
	res := imp.Import(context.Background())
	if res.Success || !strings.Contains(res.Message, "timeout") {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res := NewImporter(ImporterDeps{}).Import(context.Background()); res.Message != "No content sources configured" {
		t.Fatalf("unexpected result: %+v", res)
	}
}
