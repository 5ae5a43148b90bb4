// Package driving defines the services the CLI and the MCP server call into:
// squad import, catalog loading and sync, and settings.
//
// The services package implements every interface here. Adapters depend on
// these interfaces only, so tests can swap in fakes.
package driving
