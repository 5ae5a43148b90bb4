// Package file stores xwb settings in a TOML file, ~/.xwb/config.toml by
// default. Keys are flattened to dot notation in memory, so the vendor
// metadata table [vendor] reads back as "vendor.<name>" keys.
package file
