package usecase

import (
	"context"
	"fmt"
	"time"

	"ContentWriter/internal/brand"
	"ContentWriter/internal/ports"
)

// Setting keys shared by the use cases.
const (
	keyBrandProfile        = "brand_profile"
	keyBrandProfileUpdated = "brand_profile_updated"
	keyBrandCompleted      = "brand_analysis_completed"
	keyBrandDate           = "brand_analysis_date"
	keyBrandHistory        = "brand_analysis_history"
	keyContentLogs         = "content_logs"
	keyLastScan            = "last_scan"
	keyLastScanDate        = "last_scan_date"
	keyScanHistory         = "scan_history"
	keySearchLogs          = "store_assistant_logs"
	keyLearningLogs        = "learning_logs"
	keyContentPatterns     = "content_patterns"
	keySEOPatterns         = "seo_patterns"
	keyAutomationLogs      = "automation_logs"
)

const (
	contentLogLimit    = 100
	searchLogLimit     = 1000
	learningLogLimit   = 50
	automationLogLimit = 50
	historyLimit       = 10
	patternLimit       = 100
)

func loadSetting[T any](ctx context.Context, store ports.SettingsStore, key string) (T, error) {
	var value T
	if store == nil {
		return value, nil
	}
	if _, err := store.Get(ctx, key, &value); err != nil {
		return value, fmt.Errorf("load %s: %w", key, err)
	}
	return value, nil
}

func saveSetting(ctx context.Context, store ports.SettingsStore, key string, value any) error {
	if store == nil {
		return nil
	}
	if err := store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// appendCapped adds entry to the list stored under key, keeping only the newest limit entries.
func appendCapped[T any](ctx context.Context, store ports.SettingsStore, key string, entry T, limit int) error {
	items, err := loadSetting[[]T](ctx, store, key)
	if err != nil {
		return err
	}
	items = capTail(append(items, entry), limit)
	return saveSetting(ctx, store, key, items)
}

func capTail[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return append([]T(nil), items[len(items)-limit:]...)
	}
	return items
}

// latest returns up to limit items, newest first.
func latest[T any](items []T, limit int) []T {
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}
	out := make([]T, 0, limit)
	for i := len(items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, items[i])
	}
	return out
}

func loadProfile(ctx context.Context, store ports.SettingsStore) (brand.Profile, error) {
	profile, err := loadSetting[brand.Profile](ctx, store, keyBrandProfile)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = brand.Profile{}
	}
	return profile, nil
}

func saveProfile(ctx context.Context, store ports.SettingsStore, profile brand.Profile, now time.Time) error {
	if err := saveSetting(ctx, store, keyBrandProfile, profile); err != nil {
		return err
	}
	return saveSetting(ctx, store, keyBrandProfileUpdated, now)
}

func clockOrNow(clock func() time.Time) func() time.Time {
	if clock == nil {
		return time.Now
	}
	return clock
}
