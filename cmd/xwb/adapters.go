package main

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/xwb/internal/adapters/driven/catalog/xwingdata"
	"github.com/custodia-labs/xwb/internal/adapters/driven/config/file"
	"github.com/custodia-labs/xwb/internal/adapters/driven/schema"
	"github.com/custodia-labs/xwb/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/xwb/internal/adapters/driving/cli"
	"github.com/custodia-labs/xwb/internal/core/domain"
	"github.com/custodia-labs/xwb/internal/core/ports/driven"
	"github.com/custodia-labs/xwb/internal/core/ports/driving"
	"github.com/custodia-labs/xwb/internal/core/services"
)

// newAdapters wires the concrete driven adapters into the CLI.
func newAdapters() cli.Adapters {
	return cli.Adapters{
		Settings:      openSettings,
		CatalogSource: openCatalogSource,
		CatalogSink:   openCatalogSink,
		Validator:     openValidator,
		Importer:      newImporter,
	}
}

func openSettings(configDir string) (driving.SettingsService, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	return services.NewSettingsService(store), nil
}

func openCatalogSource(settings domain.CatalogSettings) (driven.CatalogSource, func() error, error) {
	switch settings.Backend {
	case domain.CatalogBackendFiles:
		return xwingdata.NewLoader(settings.DataDir), func() error { return nil }, nil
	case domain.CatalogBackendSQLite:
		store, err := sqlite.NewStore(settings.DBDir)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: catalog backend %q", domain.ErrUnsupportedType, settings.Backend)
	}
}

func openCatalogSink(dbDir string) (driven.CatalogSink, func() error, error) {
	store, err := sqlite.NewStore(dbDir)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

func openValidator(path string) (driven.SchemaValidator, error) {
	v, err := schema.NewValidator(path)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func newImporter(
	catalog *domain.Catalog,
	validator driven.SchemaValidator,
	opts domain.ImportOptions,
) (driving.ImportService, error) {
	svc, err := services.NewImportService(catalog, validator, opts, services.WithIDFunc(uuid.NewString))
	if err != nil {
		return nil, err
	}
	return svc, nil
}
