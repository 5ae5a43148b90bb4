package domain

const unknownDescription = "Unknown"

// CatalogBackend selects where reference card data is read from.
type CatalogBackend string

// Available catalog backends.
const (
	// CatalogBackendFiles reads the xwing-data JSON files from a directory.
	CatalogBackendFiles CatalogBackend = "files"

	// CatalogBackendSQLite reads a snapshot previously written by "catalog sync".
	CatalogBackendSQLite CatalogBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b CatalogBackend) IsValid() bool {
	switch b {
	case CatalogBackendFiles, CatalogBackendSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b CatalogBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b CatalogBackend) Description() string {
	switch b {
	case CatalogBackendFiles:
		return "xwing-data JSON files"
	case CatalogBackendSQLite:
		return "SQLite snapshot"
	default:
		return unknownDescription
	}
}

// ImportSettings holds how squads are imported.
type ImportSettings struct {
	// VendorKey namespaces vendor metadata injected into imported squads.
	VendorKey string

	// VendorMetadata is free-form data stored under vendor.<VendorKey>.
	VendorMetadata map[string]any

	// PreserveSkipQuirk reproduces the legacy pilot-skipping behaviour.
	PreserveSkipQuirk bool
}

// Options converts the settings into importer options.
func (s ImportSettings) Options() ImportOptions {
	return ImportOptions{
		VendorKey:         s.VendorKey,
		VendorMetadata:    s.VendorMetadata,
		PreserveSkipQuirk: s.PreserveSkipQuirk,
	}
}

// CatalogSettings holds reference data locations.
type CatalogSettings struct {
	// Backend selects the catalog source.
	Backend CatalogBackend

	// DataDir is the xwing-data "data" directory.
	DataDir string

	// DBDir is the directory holding the SQLite snapshot.
	// Empty means the default under the user's home directory.
	DBDir string
}

// SchemaSettings holds where the XWS JSON schema comes from.
type SchemaSettings struct {
	// Path to a schema file. Empty uses the embedded XWS 1.0.0 schema.
	Path string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Import  ImportSettings
	Catalog CatalogSettings
	Schema  SchemaSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Catalog: CatalogSettings{
			Backend: CatalogBackendFiles,
			DataDir: "xwing-data/data",
		},
	}
}

// AllCatalogBackends returns all available catalog backends.
func AllCatalogBackends() []CatalogBackend {
	return []CatalogBackend{
		CatalogBackendFiles,
		CatalogBackendSQLite,
	}
}
