package analyzer

import (
	"context"
	"fmt"

	"github.com/benvon/virality-checker/internal/models"
	"github.com/benvon/virality-checker/internal/storage"
)

// LoadSettings reads settings from the synced scope. Missing settings, or fields
// missing from stored settings, take their defaults.
func LoadSettings(ctx context.Context, store storage.Store) (models.Settings, error) {
	settings := models.DefaultSettings()
	if _, err := store.Get(ctx, storage.KeySettings, &settings); err != nil {
		return models.DefaultSettings(), fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// SaveSettings writes settings to the synced scope
func SaveSettings(ctx context.Context, store storage.Store, settings models.Settings) error {
	if err := store.Set(ctx, storage.KeySettings, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
