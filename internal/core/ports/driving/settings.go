package driving

import "github.com/custodia-labs/annotate-cli/internal/core/domain"

// SettingsService manages persisted drawing defaults.
type SettingsService interface {
	// Get retrieves the configured settings, falling back to defaults.
	Get() (*domain.AppSettings, error)

	// Save validates and persists settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single key from its string form.
	Set(key, value string) error

	// Keys lists the configurable keys in display order.
	Keys() []string

	// Value returns the string form of a key's effective value.
	Value(key string) (string, error)

	// Reset restores every key to its default.
	Reset() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
