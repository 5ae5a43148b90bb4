package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/xwb/internal/core/domain"
	"github.com/custodia-labs/xwb/internal/logger"
)

// errDiagnostics is returned by --strict when an import reported errors.
var errDiagnostics = errors.New("import reported errors")

var (
	importVendorKey string
	importVendor    = map[string]string{}
	importBackend   string
	importDataDir   string
	importDBDir     string
	importSchema    string
	importSkipQuirk bool
	importJSON      bool
	importStrict    bool
	importWatch     bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Validate and cleanse an XWS squad",
	Long: `Validates an XWS squad against the XWS schema and cleanses it against the
reference catalog. The normalised squad is printed as indented JSON, followed
by one line per diagnostic.

Use "-" to read the squad from stdin. Flags override the saved settings for
this run only.

Examples:
  xwb import squad.json
  xwb import squad.json --vendor-key mybuilder --vendor url=https://example.com
  xwb import squad.json --catalog sqlite --strict
  xwb import squad.json --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	flags := importCmd.Flags()
	flags.StringVar(&importVendorKey, "vendor-key", "", "namespace for injected vendor metadata")
	flags.StringToStringVar(&importVendor, "vendor", map[string]string{}, "vendor metadata as key=value pairs")
	flags.StringVar(&importBackend, "catalog", "", "catalog backend (files, sqlite)")
	flags.StringVar(&importDataDir, "data-dir", "", "xwing-data data directory")
	flags.StringVar(&importDBDir, "db-dir", "", "directory holding the SQLite catalog snapshot")
	flags.StringVar(&importSchema, "schema", "", "XWS schema file (default embedded)")
	flags.BoolVar(&importSkipQuirk, "preserve-skip-quirk", false, "pass the pilot after each removed pilot through unchecked")
	flags.BoolVar(&importJSON, "json", false, "print the import result as JSON")
	flags.BoolVar(&importStrict, "strict", false, "exit non-zero when any error diagnostic is reported")
	flags.BoolVarP(&importWatch, "watch", "w", false, "re-import whenever the file changes")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	if importWatch && path == "-" {
		return errors.New("--watch needs a file, not stdin")
	}

	settings, err := currentSettings()
	if err != nil {
		return err
	}
	if err := applyImportFlags(cmd, settings); err != nil {
		return err
	}

	ctx := cmd.Context()
	sess, err := openSession(ctx, settings)
	if err != nil {
		return err
	}
	logger.Debug("Catalog loaded from %s", sess.source)

	r := newRenderer(cmd.OutOrStdout())
	run := func() error {
		data, err := readSquad(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}
		return importOnce(cmd, r, sess, data)
	}

	if !importWatch {
		return run()
	}
	logger.SetTimestamps(true)
	defer logger.SetTimestamps(false)

	if err := run(); err != nil {
		cmd.PrintErrln("Error:", err)
	}
	return watchSquad(ctx, cmd, path, run)
}

// applyImportFlags overlays explicitly set flags onto the saved settings.
func applyImportFlags(cmd *cobra.Command, settings *domain.AppSettings) error {
	flags := cmd.Flags()

	if flags.Changed("vendor-key") {
		settings.Import.VendorKey = importVendorKey
	}
	if flags.Changed("vendor") {
		metadata := make(map[string]any, len(importVendor))
		for k, v := range importVendor {
			metadata[k] = v
		}
		settings.Import.VendorMetadata = metadata
	}
	if flags.Changed("preserve-skip-quirk") {
		settings.Import.PreserveSkipQuirk = importSkipQuirk
	}
	if flags.Changed("catalog") {
		backend := domain.CatalogBackend(importBackend)
		if !backend.IsValid() {
			return fmt.Errorf("%w: catalog backend %q", domain.ErrInvalidInput, importBackend)
		}
		settings.Catalog.Backend = backend
	}
	if flags.Changed("data-dir") {
		settings.Catalog.DataDir = importDataDir
	}
	if flags.Changed("db-dir") {
		settings.Catalog.DBDir = importDBDir
	}
	if flags.Changed("schema") {
		settings.Schema.Path = importSchema
	}
	return nil
}

func readSquad(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading squad: %w", err)
	}
	return data, nil
}

func importOnce(cmd *cobra.Command, r *renderer, sess *session, data []byte) error {
	result, err := sess.importer.ImportJSON(data)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if importJSON {
		if err := outputImportJSON(cmd, result); err != nil {
			return err
		}
	} else if err := outputImportText(cmd, r, result); err != nil {
		return err
	}

	if importStrict && result.Diagnostics.HasErrors() {
		return fmt.Errorf("%w: %d diagnostics", errDiagnostics, len(result.Diagnostics))
	}
	return nil
}

// importOutput is the --json shape of an import.
type importOutput struct {
	ID          string              `json:"id"`
	XWS         domain.Squad        `json:"xws"`
	Diagnostics []domain.Diagnostic `json:"diagnostics"`
	PilotsIn    int                 `json:"pilots_in"`
	PilotsOut   int                 `json:"pilots_out"`
}

func outputImportJSON(cmd *cobra.Command, result *domain.ImportResult) error {
	out := importOutput{
		ID:          result.ID,
		XWS:         result.Squad,
		Diagnostics: result.Diagnostics,
		PilotsIn:    result.PilotsIn,
		PilotsOut:   result.PilotsOut,
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []domain.Diagnostic{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func outputImportText(cmd *cobra.Command, r *renderer, result *domain.ImportResult) error {
	data, err := json.MarshalIndent(result.Squad, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal squad: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, string(data))

	for _, d := range result.Diagnostics {
		fmt.Fprintln(out, r.Diagnostic(d))
	}
	if r.color {
		fmt.Fprintln(out, r.Summary(result))
	}
	return nil
}

// watchSquad re-runs run whenever path is written or replaced, until ctx ends.
// The parent directory is watched so that saves by rename are seen.
func watchSquad(ctx context.Context, cmd *cobra.Command, path string, run func() error) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}
	logger.Info("Watching %s", target)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("Change detected: %s", event)
			if err := run(); err != nil {
				cmd.PrintErrln("Error:", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}
