package domain

// XWS versions the importer understands.
const (
	// XWSVersion is the version every imported squad is normalised to.
	XWSVersion = "1.0.0"

	// XWSOldestTrustedVersion is the oldest version whose data can be
	// migrated with confidence.
	XWSOldestTrustedVersion = "0.3.0"
)

// Squad is a decoded XWS document. It is kept as a generic JSON object so
// fields the importer does not own (faction, name, description, obstacles)
// survive the round trip untouched.
type Squad map[string]any

// Keys of the XWS document the importer reads or writes.
const (
	KeyVersion  = "version"
	KeyPilots   = "pilots"
	KeyPoints   = "points"
	KeyVendor   = "vendor"
	KeyName     = "name"
	KeyShip     = "ship"
	KeyUpgrades = "upgrades"

	// KeyVendorPilotID is written under pilot.vendor.<key>.
	KeyVendorPilotID = "xwing_data_pilot_id"
)

// ImportOptions configure a single importer.
type ImportOptions struct {
	// VendorKey namespaces injected vendor metadata. Empty disables injection.
	VendorKey string

	// VendorMetadata is attached to the squad under vendor.<VendorKey>.
	VendorMetadata map[string]any

	// PreserveSkipQuirk reproduces the legacy behaviour in which the pilot
	// directly after a removed pilot is passed through without validation.
	PreserveSkipQuirk bool
}

// ImportResult is the outcome of one import.
type ImportResult struct {
	// ID identifies this import run in logs and tool output.
	ID string

	// Squad is the normalised document.
	Squad Squad

	// Diagnostics lists removals, repairs and version warnings.
	Diagnostics Diagnostics

	// PilotsIn and PilotsOut count pilot entries before and after cleansing.
	PilotsIn  int
	PilotsOut int
}

// Messages returns the diagnostics as plain strings.
func (r *ImportResult) Messages() []string {
	return r.Diagnostics.Messages()
}

// CompareVersion orders two dotted version strings.
//
// The comparison is lexicographic on the raw strings, not semantic:
// "0.10.0" sorts before "0.3.0". XWS lists in the wild have never used
// multi-digit components, and existing consumers depend on this ordering.
func CompareVersion(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
