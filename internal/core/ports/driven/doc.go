// Package driven declares what the core needs from the outside world.
//
// CatalogSource loads reference card data from xwing-data files, a SQLite
// snapshot or memory. CatalogSink stores such a snapshot and is only used by
// "xwb catalog sync". SchemaValidator checks decoded XWS documents against
// the JSON schema, and ConfigStore persists settings.
//
// Adapters under internal/adapters/driven implement these interfaces. This
// package may import domain and nothing else from the module.
package driven
