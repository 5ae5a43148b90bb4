package services

import (
	"fmt"
	"maps"
	"strings"

	"github.com/custodia-labs/xwb/internal/core/domain"
	"github.com/custodia-labs/xwb/internal/core/ports/driven"
	"github.com/custodia-labs/xwb/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyVendorKey      = "import.vendor_key"
	keySkipQuirk      = "import.preserve_skip_quirk"
	keyCatalogBackend = "catalog.backend"
	keyCatalogDataDir = "catalog.data_dir"
	keyCatalogDBDir   = "catalog.db_dir"
	keySchemaPath     = "schema.path"

	// sectionVendor holds the vendor metadata table.
	sectionVendor = "vendor"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Import: domain.ImportSettings{
			VendorKey:         s.configStore.GetString(keyVendorKey),
			VendorMetadata:    s.vendorMetadata(),
			PreserveSkipQuirk: s.configStore.GetBool(keySkipQuirk),
		},
		Catalog: domain.CatalogSettings{
			Backend: s.getBackend(defaults.Catalog.Backend),
			DataDir: s.getString(keyCatalogDataDir, defaults.Catalog.DataDir),
			DBDir:   s.configStore.GetString(keyCatalogDBDir),
		},
		Schema: domain.SchemaSettings{
			Path: s.configStore.GetString(keySchemaPath),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are required", domain.ErrInvalidInput)
	}
	if !settings.Catalog.Backend.IsValid() {
		return fmt.Errorf("%w: catalog backend %q", domain.ErrInvalidInput, settings.Catalog.Backend)
	}

	if err := s.saveVendor(settings.Import.VendorKey, settings.Import.VendorMetadata); err != nil {
		return err
	}
	if err := s.configStore.Set(keySkipQuirk, settings.Import.PreserveSkipQuirk); err != nil {
		return fmt.Errorf("save skip quirk: %w", err)
	}
	if err := s.configStore.Set(keyCatalogBackend, settings.Catalog.Backend.String()); err != nil {
		return fmt.Errorf("save catalog backend: %w", err)
	}
	if err := s.configStore.Set(keyCatalogDataDir, settings.Catalog.DataDir); err != nil {
		return fmt.Errorf("save catalog data_dir: %w", err)
	}
	if err := s.configStore.Set(keyCatalogDBDir, settings.Catalog.DBDir); err != nil {
		return fmt.Errorf("save catalog db_dir: %w", err)
	}
	if err := s.configStore.Set(keySchemaPath, settings.Schema.Path); err != nil {
		return fmt.Errorf("save schema path: %w", err)
	}

	return nil
}

// SetVendor replaces the vendor key and its metadata.
func (s *SettingsService) SetVendor(key string, metadata map[string]any) error {
	if strings.ContainsAny(key, ". ") {
		return fmt.Errorf("%w: vendor key %q must not contain dots or spaces", domain.ErrInvalidInput, key)
	}
	return s.saveVendor(key, metadata)
}

// SetCatalogBackend selects where reference data is read from.
func (s *SettingsService) SetCatalogBackend(backend domain.CatalogBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: catalog backend %q", domain.ErrInvalidInput, backend)
	}
	if err := s.configStore.Set(keyCatalogBackend, backend.String()); err != nil {
		return fmt.Errorf("save catalog backend: %w", err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (s *SettingsService) saveVendor(key string, metadata map[string]any) error {
	if err := s.configStore.Set(keyVendorKey, key); err != nil {
		return fmt.Errorf("save vendor key: %w", err)
	}
	if err := s.configStore.DeleteSection(sectionVendor); err != nil {
		return fmt.Errorf("clear vendor metadata: %w", err)
	}
	for k, v := range metadata {
		if err := s.configStore.Set(sectionVendor+"."+k, v); err != nil {
			return fmt.Errorf("save vendor metadata %s: %w", k, err)
		}
	}
	return nil
}

func (s *SettingsService) vendorMetadata() map[string]any {
	section := s.configStore.GetSection(sectionVendor)
	if len(section) == 0 {
		return nil
	}
	metadata := make(map[string]any, len(section))
	maps.Copy(metadata, section)
	return metadata
}

// getString retrieves a string with a default fallback.
func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getBackend(defaultVal domain.CatalogBackend) domain.CatalogBackend {
	backend := domain.CatalogBackend(s.configStore.GetString(keyCatalogBackend))
	if backend.IsValid() {
		return backend
	}
	return defaultVal
}
