package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/xwb/internal/core/domain"
	"github.com/custodia-labs/xwb/internal/core/ports/driven"
	"github.com/custodia-labs/xwb/internal/core/ports/driving"
	"github.com/custodia-labs/xwb/internal/logger"
)

// Ensure CatalogService implements the interface.
var _ driving.CatalogService = (*CatalogService)(nil)

// CatalogService builds reference catalogs from driven sources.
type CatalogService struct{}

// NewCatalogService creates a new catalog service.
func NewCatalogService() *CatalogService {
	return &CatalogService{}
}

// Load reads source and indexes the result.
func (s *CatalogService) Load(ctx context.Context, source driven.CatalogSource) (*domain.Catalog, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: catalog source is required", domain.ErrInvalidInput)
	}

	logger.Section("Catalog")
	defer logger.Stage("load catalog from " + source.Name())()

	data, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	catalog, err := domain.NewCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("indexing catalog from %s: %w", source.Name(), err)
	}

	counts := catalog.Counts()
	logger.Info("Catalog %s: %d pilots, %d ships, %d upgrades, %d conditions",
		source.Name(), counts.Pilots, counts.Ships, counts.Upgrades, counts.Conditions)

	return catalog, nil
}

// Sync copies the data of from into to. The data is indexed first so a
// snapshot that could not be loaded as a catalog is never written.
func (s *CatalogService) Sync(
	ctx context.Context,
	from driven.CatalogSource,
	to driven.CatalogSink,
) (domain.CatalogCounts, error) {
	if from == nil || to == nil {
		return domain.CatalogCounts{}, fmt.Errorf("%w: source and sink are required", domain.ErrInvalidInput)
	}

	data, err := from.Load(ctx)
	if err != nil {
		return domain.CatalogCounts{}, err
	}

	catalog, err := domain.NewCatalog(data)
	if err != nil {
		return domain.CatalogCounts{}, fmt.Errorf("indexing catalog from %s: %w", from.Name(), err)
	}

	if err := ctx.Err(); err != nil {
		return domain.CatalogCounts{}, err
	}

	if err := to.SaveCatalog(ctx, data); err != nil {
		return domain.CatalogCounts{}, fmt.Errorf("saving catalog: %w", err)
	}

	counts := catalog.Counts()
	logger.Info("Synced catalog from %s: %d pilots, %d ships, %d upgrades, %d conditions",
		from.Name(), counts.Pilots, counts.Ships, counts.Upgrades, counts.Conditions)

	return counts, nil
}
