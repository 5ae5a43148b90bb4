package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/xwb/internal/core/domain"
	"github.com/custodia-labs/xwb/internal/logger"
)

var (
	catalogDataDir string
	catalogDBDir   string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the reference catalog",
	Long: `Commands for the xwing-data reference catalog that squads are checked
against.`,
}

var catalogSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Copy xwing-data files into the SQLite snapshot",
	Long: `Reads conditions, pilots, ships and upgrades from the xwing-data data
directory and replaces the SQLite snapshot with them. Imports can then use
the snapshot with --catalog sqlite, or by setting the catalog backend.`,
	Args: cobra.NoArgs,
	RunE: runCatalogSync,
}

var catalogInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what the configured catalog contains",
	Args:  cobra.NoArgs,
	RunE:  runCatalogInfo,
}

var catalogSlotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List the XWS slot codes",
	Args:  cobra.NoArgs,
	RunE:  runCatalogSlots,
}

func init() {
	catalogSyncCmd.Flags().StringVar(&catalogDataDir, "data-dir", "", "xwing-data data directory (default from settings)")
	catalogSyncCmd.Flags().StringVar(&catalogDBDir, "db-dir", "", "snapshot directory (default from settings)")
	catalogCmd.AddCommand(catalogSyncCmd)
	catalogCmd.AddCommand(catalogInfoCmd)
	catalogCmd.AddCommand(catalogSlotsCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogSync(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}
	if adapters.CatalogSource == nil || adapters.CatalogSink == nil {
		return errors.New("catalog storage not configured")
	}

	settings, err := currentSettings()
	if err != nil {
		return err
	}

	from := settings.Catalog
	from.Backend = domain.CatalogBackendFiles
	if cmd.Flags().Changed("data-dir") {
		from.DataDir = catalogDataDir
	}
	dbDir := settings.Catalog.DBDir
	if cmd.Flags().Changed("db-dir") {
		dbDir = catalogDBDir
	}

	source, releaseSource, err := adapters.CatalogSource(from)
	if err != nil {
		return fmt.Errorf("opening catalog files: %w", err)
	}
	defer closeQuietly("catalog source", releaseSource)

	sink, releaseSink, err := adapters.CatalogSink(dbDir)
	if err != nil {
		return fmt.Errorf("opening catalog snapshot: %w", err)
	}
	defer closeQuietly("catalog snapshot", releaseSink)

	counts, err := catalogService.Sync(cmd.Context(), source, sink)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	r := newRenderer(cmd.OutOrStdout())
	cmd.Println(r.Success("Catalog synced from " + source.Name()))
	printCounts(cmd, counts)
	return nil
}

func runCatalogInfo(cmd *cobra.Command, _ []string) error {
	settings, err := currentSettings()
	if err != nil {
		return err
	}

	catalog, source, err := loadCatalog(cmd.Context(), settings.Catalog)
	if err != nil {
		return err
	}

	r := newRenderer(cmd.OutOrStdout())
	cmd.Println(r.Title("Catalog"))
	cmd.Printf("  Backend: %s (%s)\n", settings.Catalog.Backend, settings.Catalog.Backend.Description())
	cmd.Printf("  Source:  %s\n", source)
	printCounts(cmd, catalog.Counts())
	return nil
}

func runCatalogSlots(cmd *cobra.Command, _ []string) error {
	// The slot bijection is fixed, so an empty catalog serves.
	catalog, err := domain.NewCatalog(&domain.CatalogData{})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CODE\tNAME")
	for _, code := range catalog.SlotCodes() {
		name, _ := catalog.SlotNameFor(code)
		fmt.Fprintf(w, "%s\t%s\n", code, name)
	}
	return w.Flush()
}

func printCounts(cmd *cobra.Command, counts domain.CatalogCounts) {
	cmd.Printf("  Conditions: %d\n", counts.Conditions)
	cmd.Printf("  Pilots:     %d\n", counts.Pilots)
	cmd.Printf("  Ships:      %d\n", counts.Ships)
	cmd.Printf("  Upgrades:   %d\n", counts.Upgrades)
}

func closeQuietly(what string, release func() error) {
	if err := release(); err != nil {
		logger.Warn("Closing %s: %v", what, err)
	}
}
