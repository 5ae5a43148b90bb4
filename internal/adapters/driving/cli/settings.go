package cli

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/xwb/internal/core/domain"
)

var (
	settingsVendorClear bool
	settingsDataDir     string
	settingsDBDir       string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the catalog location, schema source and vendor
metadata applied to every import.

Use subcommands to change specific settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the catalog and vendor settings step by step.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsWizard,
}

var settingsVendorCmd = &cobra.Command{
	Use:   "vendor <key> [name=value...]",
	Short: "Set the vendor key and metadata",
	Long: `Set the vendor key that namespaces metadata injected into imported squads,
and the metadata stored under it. Existing metadata is replaced.

Examples:
  xwb settings vendor mybuilder url=https://example.com list_url=https://example.com/list
  xwb settings vendor --clear`,
	RunE: runSettingsVendor,
}

var settingsBackendCmd = &cobra.Command{
	Use:   "backend [files|sqlite]",
	Short: "Select the catalog backend",
	Long: `Select where reference card data is read from.

Available backends:
  files  - xwing-data JSON files in the data directory
  sqlite - snapshot written by "xwb catalog sync"

Without an argument, prompts for a choice.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsBackend,
}

var settingsCatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Set catalog directories",
	Args:  cobra.NoArgs,
	RunE:  runSettingsCatalog,
}

var settingsSchemaCmd = &cobra.Command{
	Use:   "schema [path]",
	Short: "Set the XWS schema file",
	Long:  `Set the XWS schema file used to validate squads. Without a path, the embedded schema is used.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsSchema,
}

var settingsSkipQuirkCmd = &cobra.Command{
	Use:   "skip-quirk <on|off>",
	Short: "Toggle the legacy pilot-skipping behaviour",
	Long: `When on, the pilot that follows each removed pilot is passed through
without being checked, as older importers did.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsSkipQuirk,
}

func init() {
	settingsVendorCmd.Flags().BoolVar(&settingsVendorClear, "clear", false, "remove the vendor key and metadata")
	settingsCatalogCmd.Flags().StringVar(&settingsDataDir, "data-dir", "", "xwing-data data directory")
	settingsCatalogCmd.Flags().StringVar(&settingsDBDir, "db-dir", "", "SQLite snapshot directory")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsVendorCmd)
	settingsCmd.AddCommand(settingsBackendCmd)
	settingsCmd.AddCommand(settingsCatalogCmd)
	settingsCmd.AddCommand(settingsSchemaCmd)
	settingsCmd.AddCommand(settingsSkipQuirkCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	settings, err := currentSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Catalog]")
	cmd.Printf("  Backend: %s\n", settings.Catalog.Backend.Description())
	cmd.Printf("  Data directory: %s\n", settings.Catalog.DataDir)
	cmd.Printf("  Snapshot directory: %s\n", valueOr(settings.Catalog.DBDir, "(default)"))
	cmd.Println()

	cmd.Println("[Schema]")
	cmd.Printf("  Path: %s\n", valueOr(settings.Schema.Path, "(embedded XWS schema)"))
	cmd.Println()

	cmd.Println("[Import]")
	cmd.Printf("  Vendor key: %s\n", valueOr(settings.Import.VendorKey, "(not set)"))
	keys := make([]string, 0, len(settings.Import.VendorMetadata))
	for k := range settings.Import.VendorMetadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cmd.Printf("    %s = %v\n", k, settings.Import.VendorMetadata[k])
	}
	quirk := "off"
	if settings.Import.PreserveSkipQuirk {
		quirk = "on"
	}
	cmd.Printf("  Skip quirk: %s\n", quirk)

	return nil
}

func runSettingsVendor(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if settingsVendorClear {
		if len(args) > 0 {
			return errors.New("--clear takes no arguments")
		}
		if err := settingsService.SetVendor("", nil); err != nil {
			return fmt.Errorf("failed to clear vendor: %w", err)
		}
		cmd.Println("Vendor settings cleared.")
		return nil
	}

	if len(args) == 0 {
		return errors.New("vendor key is required")
	}

	metadata, err := parseMetadata(args[1:])
	if err != nil {
		return err
	}
	if err := settingsService.SetVendor(args[0], metadata); err != nil {
		return fmt.Errorf("failed to save vendor: %w", err)
	}

	cmd.Printf("Vendor key set to: %s\n", args[0])
	return nil
}

func runSettingsBackend(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	var backend domain.CatalogBackend
	if len(args) == 1 {
		backend = domain.CatalogBackend(args[0])
	} else {
		backend = promptBackend(cmd, bufio.NewReader(cmd.InOrStdin()))
	}

	if err := settingsService.SetCatalogBackend(backend); err != nil {
		return fmt.Errorf("failed to save backend: %w", err)
	}

	cmd.Printf("Catalog backend set to: %s\n", backend.Description())
	return nil
}

func runSettingsCatalog(cmd *cobra.Command, _ []string) error {
	settings, err := currentSettings()
	if err != nil {
		return err
	}

	changed := false
	if cmd.Flags().Changed("data-dir") {
		settings.Catalog.DataDir = settingsDataDir
		changed = true
	}
	if cmd.Flags().Changed("db-dir") {
		settings.Catalog.DBDir = settingsDBDir
		changed = true
	}
	if !changed {
		return errors.New("nothing to change: set --data-dir or --db-dir")
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Catalog settings saved.")
	return nil
}

func runSettingsSchema(cmd *cobra.Command, args []string) error {
	settings, err := currentSettings()
	if err != nil {
		return err
	}

	settings.Schema.Path = ""
	if len(args) == 1 {
		settings.Schema.Path = args[0]
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Schema set to: %s\n", valueOr(settings.Schema.Path, "(embedded XWS schema)"))
	return nil
}

func runSettingsSkipQuirk(cmd *cobra.Command, args []string) error {
	settings, err := currentSettings()
	if err != nil {
		return err
	}

	switch strings.ToLower(args[0]) {
	case "on", "true", "yes":
		settings.Import.PreserveSkipQuirk = true
	case "off", "false", "no":
		settings.Import.PreserveSkipQuirk = false
	default:
		return fmt.Errorf("%w: expected on or off, got %q", domain.ErrInvalidInput, args[0])
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Skip quirk: %s\n", strings.ToLower(args[0]))
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	settings, err := currentSettings()
	if err != nil {
		return err
	}

	cmd.Println("xwb Settings Wizard")
	cmd.Println("===================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Catalog Backend")
	cmd.Println("-----------------------")
	settings.Catalog.Backend = promptBackend(cmd, reader)
	cmd.Println()

	cmd.Println("Step 2: Catalog Location")
	cmd.Println("------------------------")
	if settings.Catalog.Backend == domain.CatalogBackendFiles {
		cmd.Printf("xwing-data directory [%s]: ", settings.Catalog.DataDir)
		if input := readLine(reader); input != "" {
			settings.Catalog.DataDir = input
		}
	} else {
		cmd.Printf("Snapshot directory [%s]: ", valueOr(settings.Catalog.DBDir, "default"))
		if input := readLine(reader); input != "" {
			settings.Catalog.DBDir = input
		}
	}
	cmd.Println()

	cmd.Println("Step 3: Vendor Key")
	cmd.Println("------------------")
	cmd.Printf("Vendor key [%s]: ", valueOr(settings.Import.VendorKey, "none"))
	if input := readLine(reader); input != "" {
		settings.Import.VendorKey = input
	}
	cmd.Println()

	if err := settingsService.SetVendor(settings.Import.VendorKey, settings.Import.VendorMetadata); err != nil {
		return fmt.Errorf("failed to save vendor: %w", err)
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Configuration Complete!")
	return nil
}

func promptBackend(cmd *cobra.Command, reader *bufio.Reader) domain.CatalogBackend {
	backends := domain.AllCatalogBackends()
	for i, b := range backends {
		cmd.Printf("  %d. %s (%s)\n", i+1, b, b.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	choice := parseChoice(readLine(reader), len(backends), 1)
	return backends[choice-1]
}

// parseMetadata turns name=value arguments into vendor metadata.
func parseMetadata(args []string) (map[string]any, error) {
	metadata := make(map[string]any, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: expected name=value, got %q", domain.ErrInvalidInput, arg)
		}
		metadata[name] = value
	}
	return metadata, nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
