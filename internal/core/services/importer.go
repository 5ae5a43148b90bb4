package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"sort"
	"strconv"
	"sync/atomic"

	"github.com/custodia-labs/xwb/internal/core/domain"
	"github.com/custodia-labs/xwb/internal/core/ports/driven"
	"github.com/custodia-labs/xwb/internal/core/ports/driving"
	"github.com/custodia-labs/xwb/internal/logger"
)

// Ensure ImportService implements the interface.
var _ driving.ImportService = (*ImportService)(nil)

// Upgrade ids that changed meaning before XWS 0.3.0.
const (
	legacyR2D2    = "r2d2"
	crewR2D2      = "r2d2-swx22"
	slotAstromech = "amd"
	slotCrew      = "crew"
)

// ignoredProps are derived or vendor-owned and never trusted from input.
var ignoredProps = []string{domain.KeyPoints, domain.KeyVendor}

// importSeq backs the default import id generator.
var importSeq atomic.Uint64

// ImportService runs the XWS validation and cleansing pipeline.
// It holds no per-call state and is safe for concurrent use, provided each
// call receives its own document.
type ImportService struct {
	catalog   *domain.Catalog
	validator driven.SchemaValidator
	opts      domain.ImportOptions
	newID     func() string
}

// ImportServiceOption customises an ImportService.
type ImportServiceOption func(*ImportService)

// WithIDFunc sets the generator for ImportResult.ID.
func WithIDFunc(fn func() string) ImportServiceOption {
	return func(s *ImportService) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewImportService creates an importer over an immutable catalog and schema.
func NewImportService(
	catalog *domain.Catalog,
	validator driven.SchemaValidator,
	opts domain.ImportOptions,
	options ...ImportServiceOption,
) (*ImportService, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog is required", domain.ErrInvalidInput)
	}
	if validator == nil {
		return nil, domain.ErrMissingValidator
	}

	s := &ImportService{
		catalog:   catalog,
		validator: validator,
		opts:      opts,
		newID: func() string {
			return "import-" + strconv.FormatUint(importSeq.Add(1), 10)
		},
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// ImportJSON decodes raw JSON, keeping numbers as json.Number, and imports it.
func (s *ImportService) ImportJSON(data []byte) (*domain.ImportResult, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decoding xws json: %v", domain.ErrInvalidInput, err)
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected trailing JSON payload", domain.ErrInvalidInput)
	}

	return s.Import(doc)
}

// Import validates doc against the schema and cleanses it against the
// catalog. The document is mutated in place and returned in the result.
func (s *ImportService) Import(doc any) (*domain.ImportResult, error) {
	var squad domain.Squad
	switch v := doc.(type) {
	case map[string]any:
		squad = v
	case domain.Squad:
		squad = v
	default:
		return nil, &domain.InvalidDocumentError{Type: fmt.Sprintf("%T", doc)}
	}

	if err := s.validate(squad); err != nil {
		return nil, err
	}

	result := &domain.ImportResult{
		ID:          s.newID(),
		Squad:       squad,
		Diagnostics: domain.Diagnostics{},
	}

	logger.Section("Import")
	logger.Debug("Import %s: version %v, vendor key %q", result.ID, squad[domain.KeyVersion], s.opts.VendorKey)

	s.reconcileVersion(squad, &result.Diagnostics)
	stripProps(squad)

	if raw, ok := squad[domain.KeyPilots]; ok {
		pilots, _ := raw.([]any)
		result.PilotsIn = len(pilots)
		done := logger.Stage("cleanse pilots")
		kept := s.cleansePilots(pilots, &result.Diagnostics)
		done()
		result.PilotsOut = len(kept)
		squad[domain.KeyPilots] = kept
	}

	s.injectSquadVendor(squad)

	logger.Info("Import %s: kept %d of %d pilots, %d diagnostics",
		result.ID, result.PilotsOut, result.PilotsIn, len(result.Diagnostics))

	return result, nil
}

func (s *ImportService) validate(squad domain.Squad) error {
	// Validators type-switch on map[string]any, not on named map types.
	err := s.validator.Validate(map[string]any(squad))
	if err == nil {
		return nil
	}

	var sve *domain.SchemaValidationError
	if errors.As(err, &sve) {
		return err
	}
	return &domain.SchemaValidationError{Err: err}
}

// missingVersion stands in for an absent or empty version in diagnostics.
// It still compares as the empty string, which sorts before every version.
const missingVersion = "(none)"

// reconcileVersion warns about version drift and stamps the target version.
func (s *ImportService) reconcileVersion(squad domain.Squad, diags *domain.Diagnostics) {
	version, _ := squad[domain.KeyVersion].(string)
	shown := version
	if shown == "" {
		shown = missingVersion
	}

	switch {
	case domain.CompareVersion(version, domain.XWSOldestTrustedVersion) < 0:
		diags.VersionUnsupported(shown, domain.XWSOldestTrustedVersion)
	case domain.CompareVersion(version, domain.XWSVersion) < 0:
		diags.VersionOutdated(shown, domain.XWSVersion)
	case domain.CompareVersion(version, domain.XWSVersion) > 0:
		diags.VersionTooNew(shown, domain.XWSVersion)
	}

	squad[domain.KeyVersion] = domain.XWSVersion
}

// cleansePilots returns the surviving pilots in their original order.
func (s *ImportService) cleansePilots(pilots []any, diags *domain.Diagnostics) []any {
	kept := make([]any, 0, len(pilots))
	skipNext := false

	for _, entry := range pilots {
		if skipNext {
			// Legacy index-shift: the entry after a removal is never examined.
			skipNext = false
			logger.Warn("Passing pilot through unvalidated (skip quirk)")
			kept = append(kept, entry)
			continue
		}

		pilot, ok := entry.(map[string]any)
		if !ok {
			diags.UnknownPilot(fmt.Sprint(entry))
			skipNext = s.opts.PreserveSkipQuirk
			continue
		}

		if !s.cleansePilot(pilot, diags) {
			skipNext = s.opts.PreserveSkipQuirk
			continue
		}
		kept = append(kept, pilot)
	}

	return kept
}

// cleansePilot repairs one pilot in place. It returns false when the pilot
// must be dropped from the squad.
func (s *ImportService) cleansePilot(pilot map[string]any, diags *domain.Diagnostics) bool {
	name := stringValue(pilot[domain.KeyName])
	if !s.catalog.HasPilot(name) {
		diags.UnknownPilot(name)
		return false
	}

	ship := stringValue(pilot[domain.KeyShip])
	if !s.catalog.HasShip(ship) {
		diags.UnknownShip(name)
		return false
	}

	stripProps(pilot)

	upgrades, hasUpgrades := pilot[domain.KeyUpgrades].(map[string]any)
	if hasUpgrades {
		s.repairLegacyUpgrades(name, upgrades, diags)
		s.pruneUnknownSlots(name, upgrades, diags)
	}

	record, _ := s.catalog.PilotFor(ship, name)

	if s.opts.VendorKey != "" {
		if _, ok := pilot[domain.KeyVendor]; !ok {
			pilot[domain.KeyVendor] = map[string]any{
				s.opts.VendorKey: map[string]any{
					domain.KeyVendorPilotID: record.ID.Value(),
				},
			}
		}
	}

	total := 0
	if hasUpgrades {
		total = s.cleanseUpgrades(name, upgrades, diags)
	}
	pilot[domain.KeyPoints] = int(record.Points) + total

	logger.Debug("Pilot %s on %s: %d points", name, ship, pilot[domain.KeyPoints])
	return true
}

// repairLegacyUpgrades fixes upgrade ids that predate XWS 0.3.0.
func (s *ImportService) repairLegacyUpgrades(pilot string, upgrades map[string]any, diags *domain.Diagnostics) {
	// Two r2d2 astromechs means the list predates the crew card getting its
	// own id. All copies are purged, not deduplicated.
	if amd, ok := upgrades[slotAstromech].([]any); ok && countOf(amd, legacyR2D2) > 1 {
		upgrades[slotAstromech] = without(amd, legacyR2D2)
		diags.UpgradeCollision(pilot, legacyR2D2, s.slotName(slotAstromech), slotAstromech)
	}

	if crew, ok := upgrades[slotCrew].([]any); ok {
		if i := indexOf(crew, legacyR2D2); i >= 0 {
			fixed := make([]any, 0, len(crew))
			fixed = append(fixed, crew[:i]...)
			fixed = append(fixed, crew[i+1:]...)
			upgrades[slotCrew] = append(fixed, crewR2D2)
			diags.LegacyUpgrade(pilot, legacyR2D2, s.slotName(slotCrew), slotCrew)
		}
	}
}

// pruneUnknownSlots drops slot codes outside the slot bijection.
func (s *ImportService) pruneUnknownSlots(pilot string, upgrades map[string]any, diags *domain.Diagnostics) {
	for _, code := range sortedKeys(upgrades) {
		if !s.catalog.IsValidSlotCode(code) {
			delete(upgrades, code)
			diags.UnknownSlot(pilot, code)
		}
	}
}

// cleanseUpgrades drops unknown upgrade ids and returns the summed cost of the rest.
func (s *ImportService) cleanseUpgrades(pilot string, upgrades map[string]any, diags *domain.Diagnostics) int {
	total := 0
	for _, code := range sortedKeys(upgrades) {
		ids, ok := upgrades[code].([]any)
		if !ok {
			continue
		}

		kept := make([]any, 0, len(ids))
		for _, item := range ids {
			id, _ := item.(string)
			record, known := s.catalog.Upgrade(id)
			if !known {
				diags.UnknownUpgrade(pilot, s.slotName(code), code, fmt.Sprint(item))
				continue
			}
			kept = append(kept, item)
			total += int(record.Points)
		}
		upgrades[code] = kept
	}
	return total
}

// injectSquadVendor attaches the vendor metadata at the squad level.
func (s *ImportService) injectSquadVendor(squad domain.Squad) {
	if s.opts.VendorKey == "" || len(s.opts.VendorMetadata) == 0 {
		return
	}
	if _, ok := squad[domain.KeyVendor]; ok {
		return
	}

	metadata := make(map[string]any, len(s.opts.VendorMetadata))
	maps.Copy(metadata, s.opts.VendorMetadata)
	squad[domain.KeyVendor] = map[string]any{s.opts.VendorKey: metadata}
}

func (s *ImportService) slotName(code string) string {
	if name, ok := s.catalog.SlotNameFor(code); ok {
		return name
	}
	return code
}

func stripProps(m map[string]any) {
	for _, prop := range ignoredProps {
		delete(m, prop)
	}
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func countOf(list []any, id string) int {
	n := 0
	for _, item := range list {
		if item == id {
			n++
		}
	}
	return n
}

func indexOf(list []any, id string) int {
	for i, item := range list {
		if item == id {
			return i
		}
	}
	return -1
}

func without(list []any, id string) []any {
	out := make([]any, 0, len(list))
	for _, item := range list {
		if item != id {
			out = append(out, item)
		}
	}
	return out
}
