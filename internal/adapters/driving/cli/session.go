package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/xwb/internal/core/domain"
	"github.com/custodia-labs/xwb/internal/core/ports/driving"
)

// session is the catalog and importer built for one command run.
type session struct {
	settings *domain.AppSettings
	source   string
	catalog  *domain.Catalog
	importer driving.ImportService
}

// loadCatalog opens the configured catalog source and indexes it.
func loadCatalog(ctx context.Context, settings domain.CatalogSettings) (*domain.Catalog, string, error) {
	if catalogService == nil {
		return nil, "", errors.New("catalog service not configured")
	}
	if adapters.CatalogSource == nil {
		return nil, "", errors.New("catalog source not configured")
	}

	source, release, err := adapters.CatalogSource(settings)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s catalog: %w", settings.Backend, err)
	}
	defer closeQuietly("catalog source", release)

	catalog, err := catalogService.Load(ctx, source)
	if err != nil {
		return nil, "", err
	}
	return catalog, source.Name(), nil
}

// openSession builds an importer from settings.
func openSession(ctx context.Context, settings *domain.AppSettings) (*session, error) {
	if adapters.Validator == nil || adapters.Importer == nil {
		return nil, errors.New("import service not configured")
	}

	catalog, source, err := loadCatalog(ctx, settings.Catalog)
	if err != nil {
		return nil, err
	}

	validator, err := adapters.Validator(settings.Schema.Path)
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	importer, err := adapters.Importer(catalog, validator, settings.Import.Options())
	if err != nil {
		return nil, fmt.Errorf("creating importer: %w", err)
	}

	return &session{
		settings: settings,
		source:   source,
		catalog:  catalog,
		importer: importer,
	}, nil
}
