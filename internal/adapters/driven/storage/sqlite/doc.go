// Package sqlite persists reference catalog snapshots in SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. The Store implements both
// driven.CatalogSink ("xwb catalog sync" writes to it) and driven.CatalogSource
// (imports with the sqlite backend read from it).
//
// # Schema
//
// The schema is managed by goose migrations embedded from the migrations/
// directory. Each collection has its own table; the seq column preserves the
// record order of the source so duplicate xws ids resolve the same way they do
// when reading the xwing-data files.
//
// # Data Location
//
// By default, the database is stored at ~/.xwb/data/catalog.db
//
// # Thread Safety
//
// All operations are thread-safe. SaveCatalog replaces the snapshot in a single
// transaction, so readers never observe a partial catalog.
package sqlite
