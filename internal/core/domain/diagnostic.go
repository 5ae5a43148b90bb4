package domain

import (
	"fmt"
)

// DiagnosticCode classifies an issue found while importing a squad.
type DiagnosticCode string

const (
	CodeVersionUnsupported DiagnosticCode = "version_unsupported"
	CodeVersionOutdated    DiagnosticCode = "version_outdated"
	CodeVersionTooNew      DiagnosticCode = "version_too_new"
	CodeUnknownPilot       DiagnosticCode = "unknown_pilot"
	CodeUnknownShip        DiagnosticCode = "unknown_ship"
	CodeUpgradeCollision   DiagnosticCode = "upgrade_collision"
	CodeLegacyUpgrade      DiagnosticCode = "legacy_upgrade_corrected"
	CodeUnknownSlot        DiagnosticCode = "unknown_slot"
	CodeUnknownUpgrade     DiagnosticCode = "unknown_upgrade"
)

// Severity indicates diagnostic impact.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// severities is the canonical severity for each code. Version mismatches are
// warnings; anything that removed or rewrote squad content is an error.
var severities = map[DiagnosticCode]Severity{
	CodeVersionUnsupported: SeverityWarning,
	CodeVersionOutdated:    SeverityWarning,
	CodeVersionTooNew:      SeverityWarning,
	CodeUnknownPilot:       SeverityError,
	CodeUnknownShip:        SeverityError,
	CodeUpgradeCollision:   SeverityError,
	CodeLegacyUpgrade:      SeverityError,
	CodeUnknownSlot:        SeverityError,
	CodeUnknownUpgrade:     SeverityError,
}

// SeverityOf returns the canonical severity for a code.
func SeverityOf(code DiagnosticCode) Severity {
	if s, ok := severities[code]; ok {
		return s
	}
	return SeverityError
}

// Diagnostic is one human-readable finding from an import.
type Diagnostic struct {
	Code     DiagnosticCode `json:"code"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	// Pilot is the offending pilot name, when the finding concerns one.
	Pilot string `json:"pilot,omitempty"`
	// Slot is the slot code, when the finding concerns one.
	Slot string `json:"slot,omitempty"`
}

// String returns the message.
func (d Diagnostic) String() string {
	return d.Message
}

// Diagnostics is an ordered list of findings in emission order.
type Diagnostics []Diagnostic

func (ds *Diagnostics) add(code DiagnosticCode, pilot, slot, format string, args ...any) {
	*ds = append(*ds, Diagnostic{
		Code:     code,
		Severity: SeverityOf(code),
		Message:  fmt.Sprintf(format, args...),
		Pilot:    pilot,
		Slot:     slot,
	})
}

// VersionUnsupported records a squad older than the oldest trusted version.
func (ds *Diagnostics) VersionUnsupported(version, oldest string) {
	ds.add(CodeVersionUnsupported, "", "",
		"Warning: XWS data version %s is older than %s. I cannot guarantee accuracy", version, oldest)
}

// VersionOutdated records a squad older than the target version.
func (ds *Diagnostics) VersionOutdated(version, target string) {
	ds.add(CodeVersionOutdated, "", "", "XWS data version %s is older than %s", version, target)
}

// VersionTooNew records a squad newer than the target version.
func (ds *Diagnostics) VersionTooNew(version, target string) {
	ds.add(CodeVersionTooNew, "", "", "XWS data version %s is newer than %s.", version, target)
}

// UnknownPilot records a pilot removed because its name is not in the catalog.
func (ds *Diagnostics) UnknownPilot(pilot string) {
	ds.add(CodeUnknownPilot, pilot, "", "Removing unknown pilot %q", pilot)
}

// UnknownShip records a pilot removed because its ship is not in the catalog.
func (ds *Diagnostics) UnknownShip(pilot string) {
	ds.add(CodeUnknownShip, pilot, "", "Unknown ship removing pilot %q", pilot)
}

// UpgradeCollision records the purge of a duplicated unique astromech.
func (ds *Diagnostics) UpgradeCollision(pilot, upgrade, slotName, slot string) {
	ds.add(CodeUpgradeCollision, pilot, slot, "Removed %s collision in %s Upgrade for %q.", upgrade, slotName, pilot)
}

// LegacyUpgrade records a pre-0.3.0 upgrade id rewritten to its current id.
func (ds *Diagnostics) LegacyUpgrade(pilot, upgrade, slotName, slot string) {
	ds.add(CodeLegacyUpgrade, pilot, slot, "Corrected %s in %s Upgrade for %q.", upgrade, slotName, pilot)
}

// UnknownSlot records a slot removed because its code is not recognised.
func (ds *Diagnostics) UnknownSlot(pilot, slot string) {
	ds.add(CodeUnknownSlot, pilot, slot, "Removing unknown slot type %q for Pilot %q", slot, pilot)
}

// UnknownUpgrade records an upgrade removed because it is not in the catalog.
func (ds *Diagnostics) UnknownUpgrade(pilot, slotName, slot, upgrade string) {
	ds.add(CodeUnknownUpgrade, pilot, slot, "Removing unknown Upgrade Card \"%s:%s\" for pilot %q", slotName, upgrade, pilot)
}

// Messages returns the plain message strings in emission order.
func (ds Diagnostics) Messages() []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Message
	}
	return out
}

// Count returns how many diagnostics carry code.
func (ds Diagnostics) Count(code DiagnosticCode) int {
	n := 0
	for _, d := range ds {
		if d.Code == code {
			n++
		}
	}
	return n
}

// HasErrors reports whether any diagnostic has error severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
