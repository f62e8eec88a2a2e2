package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ContentWriter/internal/config"
	"ContentWriter/internal/infrastructure/llm"
	"ContentWriter/internal/infrastructure/parser"
	"ContentWriter/internal/infrastructure/scheduler"
	"ContentWriter/internal/infrastructure/seometa"
	"ContentWriter/internal/infrastructure/storage"
	"ContentWriter/internal/infrastructure/telegram"
	"ContentWriter/internal/logging"
	"ContentWriter/internal/matcher"
	"ContentWriter/internal/ports"
	"ContentWriter/internal/scanner"
	"ContentWriter/internal/seo"
	"ContentWriter/internal/usecase"
	"ContentWriter/pkg/logger"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg    config.Config
	db     *sql.DB
	driver ports.Scheduler
	logger *slog.Logger

	Products   *storage.ProductStore
	Optimizer  *usecase.Optimizer
	Brand      *usecase.BrandAnalyzer
	Generator  *usecase.Generator
	Scanner    *usecase.ContentScanner
	Scheduler  *usecase.ContentScheduler
	Assistant  *usecase.StoreAssistant
	Learner    *usecase.Learner
	Automation *usecase.Automation
	Importer   *usecase.Importer
}

// New opens the database and builds every use case from cfg.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	settings := storage.NewSettingsStore(db)
	documents := storage.NewDocumentStore(db, cfg.Site.URL)
	products := storage.NewProductStore(db)
	schedule := storage.NewScheduleStore(db)

	meta, err := seometa.New(cfg.SEO.Plugin, documents)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("seo backend: %w", err)
	}

	var completer ports.Completer
	if c, err := llm.New(ctx, cfg.LLM); err != nil {
		baseLogger.Warn("completion backend unavailable", "provider", cfg.LLM.Provider, "error", err)
	} else {
		completer = c
	}

	var notifier ports.Notifier
	if tg := telegram.NewNotifier(cfg.Notifications.Telegram); tg.Configured() {
		notifier = tg
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	registry := scanner.NewRegistry()
	registry.Register(parser.NewWordPressScanner(httpClient, baseLogger.With("component", "scanner.wordpress")))
	registry.Register(parser.NewHTMLScanner(httpClient, baseLogger.With("component", "scanner.html")))
	source := parser.NewStrategySource(registry, cfg.Site.Sources, baseLogger.With("component", "source"))

	driver := scheduler.NewCronScheduler(cfg.Automation.Location(), logger.New("cron"))
	scorer := seo.NewScorer(cfg.Site.URL)

	optimizer := usecase.NewOptimizer(usecase.OptimizerDeps{
		Completer: completer,
		Settings:  settings,
		Scorer:    scorer,
		Threshold: cfg.SEO.MinScore,
		Logger:    baseLogger.With("component", "optimizer"),
	})
	brand := usecase.NewBrandAnalyzer(usecase.BrandAnalyzerDeps{
		Completer: completer,
		Content:   documents,
		Settings:  settings,
		Logger:    baseLogger.With("component", "brand"),
	})
	generator := usecase.NewGenerator(usecase.GeneratorDeps{
		Completer: completer,
		Content:   documents,
		Settings:  settings,
		Optimizer: optimizer,
		Meta:      meta,
		Notifier:  notifier,
		SiteName:  cfg.Site.Name,
		Logger:    baseLogger.With("component", "generator"),
	})
	contentScanner := usecase.NewContentScanner(usecase.ContentScannerDeps{
		Content:  documents,
		Meta:     meta,
		Settings: settings,
		Scorer:   scorer,
		Notifier: notifier,
		Logger:   baseLogger.With("component", "content_scan"),
	})
	learner := usecase.NewLearner(usecase.LearnerDeps{
		Content:  documents,
		Meta:     meta,
		Settings: settings,
		Logger:   baseLogger.With("component", "learning"),
	})

	return &Application{
		cfg:       cfg,
		db:        db,
		driver:    driver,
		logger:    baseLogger,
		Products:  products,
		Optimizer: optimizer,
		Brand:     brand,
		Generator: generator,
		Scanner:   contentScanner,
		Scheduler: usecase.NewContentScheduler(usecase.ContentSchedulerDeps{
			Repository: schedule,
			Driver:     driver,
			Generator:  generator,
			Catalog:    products,
			Location:   cfg.Automation.Location(),
			Logger:     baseLogger.With("component", "scheduler"),
		}),
		Assistant: usecase.NewStoreAssistant(usecase.StoreAssistantDeps{
			Catalog:  products,
			Matcher:  matcher.New(completer, baseLogger.With("component", "matcher")),
			Settings: settings,
			Logger:   baseLogger.With("component", "assistant"),
		}),
		Learner: learner,
		Automation: usecase.NewAutomation(usecase.AutomationDeps{
			Driver:      driver,
			Generator:   generator,
			Scanner:     contentScanner,
			Brand:       brand,
			Content:     documents,
			Settings:    settings,
			AutoPublish: cfg.Automation.AutoPublish,
			Frequency:   cfg.Automation.Frequency,
			Location:    cfg.Automation.Location(),
			DailySpec:   cfg.Automation.DailyCron,
			WeeklySpec:  cfg.Automation.WeeklyCron,
			MonthlySpec: cfg.Automation.MonthlyCron,
			Logger:      baseLogger.With("component", "automation"),
		}),
		Importer: usecase.NewImporter(usecase.ImporterDeps{
			Source:   source,
			Content:  documents,
			Learner:  learner,
			Notifier: notifier,
			Logger:   baseLogger.With("component", "import"),
		}),
	}, nil
}

// Serve restores pending scheduled items, registers the recurring jobs and runs them
// until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	restored, err := a.Scheduler.Restore(ctx)
	if err != nil {
		return err
	}
	if err := a.Automation.Register(ctx); err != nil {
		return err
	}
	if err := a.driver.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("scheduler running", "restored", restored, "timezone", a.cfg.Automation.Location().String())

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.driver.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	a.logger.Info("scheduler stopped")
	return nil
}

// Location is the timezone schedule times are interpreted in.
func (a *Application) Location() *time.Location {
	return a.cfg.Automation.Location()
}

// Close releases the database.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
