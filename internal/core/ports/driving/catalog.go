package driving

import (
	"context"

	"github.com/custodia-labs/xwb/internal/core/domain"
	"github.com/custodia-labs/xwb/internal/core/ports/driven"
)

// CatalogService builds and copies reference catalogs.
type CatalogService interface {
	// Load reads a source and indexes it into an immutable catalog.
	Load(ctx context.Context, source driven.CatalogSource) (*domain.Catalog, error)

	// Sync copies the data of one source into a sink and returns the counts written.
	Sync(ctx context.Context, from driven.CatalogSource, to driven.CatalogSink) (domain.CatalogCounts, error)
}
