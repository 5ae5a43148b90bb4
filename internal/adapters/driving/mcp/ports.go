package mcp

import (
	"github.com/custodia-labs/xwb/internal/core/domain"
	"github.com/custodia-labs/xwb/internal/core/ports/driving"
)

// Ports aggregates what the MCP server needs from the core.
type Ports struct {
	// Import runs the XWS pipeline.
	Import driving.ImportService

	// Catalog is the reference data the importer was built over.
	Catalog *domain.Catalog
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Import == nil {
		return ErrMissingImportService
	}
	if p.Catalog == nil {
		return ErrMissingCatalog
	}
	return nil
}
