package driving

import "github.com/custodia-labs/xwb/internal/core/domain"

// ImportService validates and cleanses XWS squads against the reference catalog.
type ImportService interface {
	// Import normalises a decoded XWS document in place.
	// A non-object document fails with domain.ErrInvalidDocument and a schema
	// violation with domain.ErrSchemaValidation; neither returns a result.
	Import(doc any) (*domain.ImportResult, error)

	// ImportJSON decodes raw JSON and imports it.
	ImportJSON(data []byte) (*domain.ImportResult, error)
}
