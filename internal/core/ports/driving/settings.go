package driving

import "github.com/custodia-labs/xwb/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetVendor configures the vendor key and its metadata.
	SetVendor(key string, metadata map[string]any) error

	// SetCatalogBackend selects where reference data is read from.
	SetCatalogBackend(backend domain.CatalogBackend) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
