package driven

import (
	"context"

	"github.com/custodia-labs/xwb/internal/core/domain"
)

// CatalogSource loads reference card data.
// Implementations read xwing-data files, a database snapshot, or memory.
type CatalogSource interface {
	// Name identifies the source in logs and errors (a path or "memory").
	Name() string

	// Load returns the full reference data set.
	// Missing or malformed backing data is reported as *domain.DataLoadError.
	Load(ctx context.Context) (*domain.CatalogData, error)
}

// CatalogSink persists a reference data snapshot.
type CatalogSink interface {
	// SaveCatalog replaces the stored snapshot with data.
	SaveCatalog(ctx context.Context, data *domain.CatalogData) error
}
