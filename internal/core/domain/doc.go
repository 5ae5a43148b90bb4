// Package domain holds the types shared by every layer of xwb.
//
// A Catalog is the read-only reference data (pilots, ships, upgrades and
// conditions) built once from CatalogData. A Squad is a decoded XWS document;
// the importer edits it in place and reports each change as a Diagnostic.
// AppSettings carries the catalog location, the schema source and the vendor
// metadata stamped onto imports.
//
// The package imports the standard library only.
package domain
