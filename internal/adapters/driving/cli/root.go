// Package cli provides the xwb command line interface.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/xwb/internal/core/domain"
	"github.com/custodia-labs/xwb/internal/core/ports/driven"
	"github.com/custodia-labs/xwb/internal/core/ports/driving"
	"github.com/custodia-labs/xwb/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Services wired by main, or by tests.
var (
	settingsService driving.SettingsService
	catalogService  driving.CatalogService
	adapters        Adapters
)

// Adapters opens the driven side of a command. Each open function returns a
// release func the command calls when it is done with the adapter.
type Adapters struct {
	// Settings opens the settings service over the config directory.
	// An empty directory means the default.
	Settings func(configDir string) (driving.SettingsService, error)

	// CatalogSource opens the reference data for the given settings.
	CatalogSource func(settings domain.CatalogSettings) (driven.CatalogSource, func() error, error)

	// CatalogSink opens the SQLite snapshot in dbDir for writing.
	CatalogSink func(dbDir string) (driven.CatalogSink, func() error, error)

	// Validator compiles the XWS schema. An empty path uses the embedded schema.
	Validator func(path string) (driven.SchemaValidator, error)

	// Importer builds an import service over a loaded catalog.
	Importer func(catalog *domain.Catalog, validator driven.SchemaValidator, opts domain.ImportOptions) (driving.ImportService, error)
}

var rootCmd = &cobra.Command{
	Use:   "xwb",
	Short: "Import and cleanse X-Wing squad lists",
	Long: `xwb validates X-Wing Squad (XWS) documents against the XWS schema and
cleanses them against the xwing-data reference catalog.

Unknown pilots, ships, slots and upgrades are removed, legacy upgrade ids are
repaired, and point costs are recomputed. Every change is reported.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.xwb)")
}

// Configure sets the services and adapters used by the commands.
func Configure(catalog driving.CatalogService, a Adapters) {
	catalogService = catalog
	adapters = a
}

// Execute runs the root command. Commands stop when ctx is cancelled.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version reported by "xwb version".
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if settingsService != nil || adapters.Settings == nil {
		return nil
	}

	svc, err := adapters.Settings(configDir)
	if err != nil {
		return err
	}
	settingsService = svc
	logger.Debug("Loaded settings")
	return nil
}

func currentSettings() (*domain.AppSettings, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	return settingsService.Get()
}
