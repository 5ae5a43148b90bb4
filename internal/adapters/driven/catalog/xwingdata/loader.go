// Package xwingdata loads the reference catalog from an xwing-data checkout.
//
// xwing-data ships its card data as JSON arrays in files with a .js
// extension (data/pilots.js, data/ships.js and so on).
package xwingdata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/xwb/internal/core/domain"
	"github.com/custodia-labs/xwb/internal/core/ports/driven"
	"github.com/custodia-labs/xwb/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.CatalogSource = (*Loader)(nil)

// Data file names inside the xwing-data data directory.
const (
	ConditionsFile = "conditions.js"
	PilotsFile     = "pilots.js"
	ShipsFile      = "ships.js"
	UpgradesFile   = "upgrades.js"
)

// Loader reads the four catalog collections from a data directory.
type Loader struct {
	dir string
}

// NewLoader creates a loader for dir. Both plain paths and file:// URIs are
// accepted. The directory is not read until Load.
func NewLoader(dir string) *Loader {
	return &Loader{dir: ResolveDir(dir)}
}

// ResolveDir converts a file:// URI to a local path and expands a leading
// "~/" to the home directory. Other paths pass through unchanged.
func ResolveDir(uri string) string {
	dir := strings.TrimPrefix(uri, "file://")
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("Cannot expand %s: %v", dir, err)
		return dir
	}
	return filepath.Join(home, strings.TrimPrefix(dir, "~"))
}

// Dir returns the resolved data directory.
func (l *Loader) Dir() string {
	return l.dir
}

// Name identifies the source in logs and errors.
func (l *Loader) Name() string {
	return "xwing-data:" + l.dir
}

// Load reads and decodes every collection.
func (l *Loader) Load(ctx context.Context) (*domain.CatalogData, error) {
	data := &domain.CatalogData{}

	steps := []struct {
		file string
		dst  any
	}{
		{ConditionsFile, &data.Conditions},
		{PilotsFile, &data.Pilots},
		{ShipsFile, &data.Ships},
		{UpgradesFile, &data.Upgrades},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := l.decode(step.file, step.dst); err != nil {
			return nil, err
		}
	}

	logger.Debug("Loaded xwing-data from %s: %d pilots, %d ships, %d upgrades, %d conditions",
		l.dir, len(data.Pilots), len(data.Ships), len(data.Upgrades), len(data.Conditions))

	return data, nil
}

func (l *Loader) decode(file string, dst any) error {
	path := filepath.Join(l.dir, file)
	collection := strings.TrimSuffix(file, filepath.Ext(file))

	raw, err := os.ReadFile(path)
	if err != nil {
		return &domain.DataLoadError{Collection: collection, Source: path, Err: err}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return &domain.DataLoadError{
			Collection: collection,
			Source:     path,
			Err:        fmt.Errorf("decoding json: %w", err),
		}
	}
	return nil
}
