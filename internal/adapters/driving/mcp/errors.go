// Package mcp provides an MCP (Model Context Protocol) server adapter for xwb.
// It lets AI assistants import XWS squads and browse the reference catalog.
package mcp

import "errors"

var (
	// ErrMissingImportService is returned when the import service is not provided.
	ErrMissingImportService = errors.New("mcp: import service is required")

	// ErrMissingCatalog is returned when the reference catalog is not provided.
	ErrMissingCatalog = errors.New("mcp: catalog is required")

	// ErrEmptySquad is returned when import_xws is called without a document.
	ErrEmptySquad = errors.New("mcp: xws document is empty")
)
