package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// RecordID is the internal xwing-data identifier of a card.
// xwing-data uses integers, but string ids are accepted as well.
type RecordID string

// UnmarshalJSON accepts both JSON numbers and strings.
func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

// MarshalJSON writes integer ids as numbers and everything else as strings.
func (id RecordID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Value())
}

// Value returns the id as an int64 when it is integral, otherwise as a string.
func (id RecordID) Value() any {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return n
	}
	return string(id)
}

// Points is a card's squad point cost.
// xwing-data marks some costs as "?"; those decode as zero.
type Points int

// UnmarshalJSON tolerates non-numeric point values.
func (p *Points) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if v, err := n.Int64(); err == nil {
			*p = Points(v)
			return nil
		}
		if f, err := n.Float64(); err == nil {
			*p = Points(int(f))
			return nil
		}
	}
	*p = 0
	return nil
}

// ConditionRecord is a condition card from the reference data.
type ConditionRecord struct {
	XWS  string   `json:"xws"`
	ID   RecordID `json:"id"`
	Name string   `json:"name"`
}

// PilotRecord is a pilot card from the reference data.
type PilotRecord struct {
	XWS     string   `json:"xws"`
	ID      RecordID `json:"id"`
	Name    string   `json:"name"`
	Ship    string   `json:"ship"`
	Faction string   `json:"faction,omitempty"`
	Points  Points   `json:"points"`
}

// ShipRecord is a ship from the reference data.
type ShipRecord struct {
	XWS     string   `json:"xws"`
	ID      RecordID `json:"id"`
	Name    string   `json:"name"`
	Faction []string `json:"faction,omitempty"`
}

// UpgradeRecord is an upgrade card from the reference data.
type UpgradeRecord struct {
	XWS    string   `json:"xws"`
	ID     RecordID `json:"id"`
	Name   string   `json:"name"`
	Slot   string   `json:"slot"`
	Points Points   `json:"points"`
}

// CatalogData is the raw reference data as produced by a catalog source.
// Record order is preserved; the first record wins when an xws id repeats.
type CatalogData struct {
	Conditions []ConditionRecord
	Pilots     []PilotRecord
	Ships      []ShipRecord
	Upgrades   []UpgradeRecord
}

// slotCodes maps human slot names to XWS slot codes.
var slotCodes = map[string]string{
	"Astromech":          "amd",
	"Bomb":               "bomb",
	"Cannon":             "cannon",
	"Cargo":              "cargo",
	"Crew":               "crew",
	"Elite":              "ept",
	"Hardpoint":          "hardpoint",
	"Illicit":            "illicit",
	"Missile":            "missile",
	"Modification":       "mod",
	"Salvaged Astromech": "samd",
	"System":             "system",
	"Team":               "team",
	"Tech":               "tech",
	"Title":              "title",
	"Torpedo":            "torpedo",
	"Turret":             "turret",
}

// slotNames is the inverse of slotCodes.
var slotNames = func() map[string]string {
	m := make(map[string]string, len(slotCodes))
	for name, code := range slotCodes {
		m[code] = name
	}
	return m
}()

// Catalog is the authoritative, read-only lookup surface over the reference
// card data. It is safe for concurrent use once constructed.
type Catalog struct {
	conditions map[string]ConditionRecord
	pilots     map[string]PilotRecord
	shipPilots map[shipPilotKey]PilotRecord
	ships      map[string]ShipRecord
	upgrades   map[string]UpgradeRecord

	counts CatalogCounts
}

type shipPilotKey struct {
	ship  string
	pilot string
}

// CatalogCounts summarises how many distinct identifiers a catalog holds.
type CatalogCounts struct {
	Conditions int
	Pilots     int
	Ships      int
	Upgrades   int
}

// NewCatalog indexes reference data. Records without an xws id are rejected.
func NewCatalog(data *CatalogData) (*Catalog, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: catalog data is nil", ErrInvalidInput)
	}

	c := &Catalog{
		conditions: make(map[string]ConditionRecord, len(data.Conditions)),
		pilots:     make(map[string]PilotRecord, len(data.Pilots)),
		shipPilots: make(map[shipPilotKey]PilotRecord, len(data.Pilots)),
		ships:      make(map[string]ShipRecord, len(data.Ships)),
		upgrades:   make(map[string]UpgradeRecord, len(data.Upgrades)),
	}

	for i, r := range data.Conditions {
		if r.XWS == "" {
			return nil, missingXWS("conditions", i)
		}
		if _, ok := c.conditions[r.XWS]; !ok {
			c.conditions[r.XWS] = r
		}
	}

	// Pilots reference ships by display name, so ships are indexed first.
	shipXWSByName := make(map[string]string, len(data.Ships))
	for i, r := range data.Ships {
		if r.XWS == "" {
			return nil, missingXWS("ships", i)
		}
		if _, ok := c.ships[r.XWS]; !ok {
			c.ships[r.XWS] = r
		}
		if _, ok := shipXWSByName[r.Name]; !ok && r.Name != "" {
			shipXWSByName[r.Name] = r.XWS
		}
	}

	for i, r := range data.Pilots {
		if r.XWS == "" {
			return nil, missingXWS("pilots", i)
		}
		if _, ok := c.pilots[r.XWS]; !ok {
			c.pilots[r.XWS] = r
		}
		if shipXWS, ok := shipXWSByName[r.Ship]; ok {
			key := shipPilotKey{ship: shipXWS, pilot: r.XWS}
			if _, seen := c.shipPilots[key]; !seen {
				c.shipPilots[key] = r
			}
		}
	}

	for i, r := range data.Upgrades {
		if r.XWS == "" {
			return nil, missingXWS("upgrades", i)
		}
		if _, ok := c.upgrades[r.XWS]; !ok {
			c.upgrades[r.XWS] = r
		}
	}

	c.counts = CatalogCounts{
		Conditions: len(c.conditions),
		Pilots:     len(c.pilots),
		Ships:      len(c.ships),
		Upgrades:   len(c.upgrades),
	}
	return c, nil
}

func missingXWS(collection string, index int) error {
	return fmt.Errorf("%w: %s record %d has no xws id", ErrInvalidInput, collection, index)
}

// Counts returns the number of distinct identifiers per collection.
func (c *Catalog) Counts() CatalogCounts {
	return c.counts
}

// HasCondition reports whether id is a known condition.
func (c *Catalog) HasCondition(id string) bool {
	_, ok := c.conditions[id]
	return ok
}

// Condition returns the condition record for id.
func (c *Catalog) Condition(id string) (ConditionRecord, bool) {
	r, ok := c.conditions[id]
	return r, ok
}

// HasPilot reports whether id is a known pilot.
func (c *Catalog) HasPilot(id string) bool {
	_, ok := c.pilots[id]
	return ok
}

// Pilot returns the first pilot record carrying id.
func (c *Catalog) Pilot(id string) (PilotRecord, bool) {
	r, ok := c.pilots[id]
	return r, ok
}

// PilotFor returns the pilot record flown on ship, falling back to Pilot(id)
// when no ship-specific record exists.
func (c *Catalog) PilotFor(ship, id string) (PilotRecord, bool) {
	if r, ok := c.shipPilots[shipPilotKey{ship: ship, pilot: id}]; ok {
		return r, true
	}
	return c.Pilot(id)
}

// HasShip reports whether id is a known ship.
func (c *Catalog) HasShip(id string) bool {
	_, ok := c.ships[id]
	return ok
}

// Ship returns the ship record for id.
func (c *Catalog) Ship(id string) (ShipRecord, bool) {
	r, ok := c.ships[id]
	return r, ok
}

// HasUpgrade reports whether id is a known upgrade card.
func (c *Catalog) HasUpgrade(id string) bool {
	_, ok := c.upgrades[id]
	return ok
}

// Upgrade returns the upgrade record for id.
func (c *Catalog) Upgrade(id string) (UpgradeRecord, bool) {
	r, ok := c.upgrades[id]
	return r, ok
}

// SlotCodeFor returns the XWS code for a human slot name, e.g. "Astromech" -> "amd".
func (c *Catalog) SlotCodeFor(name string) (string, bool) {
	code, ok := slotCodes[name]
	return code, ok
}

// SlotNameFor returns the human slot name for an XWS code, e.g. "amd" -> "Astromech".
func (c *Catalog) SlotNameFor(code string) (string, bool) {
	name, ok := slotNames[code]
	return name, ok
}

// IsValidSlotCode reports whether code is one of the recognised slot codes.
func (c *Catalog) IsValidSlotCode(code string) bool {
	_, ok := slotNames[code]
	return ok
}

// SlotCodes returns every slot code in lexical order.
func (c *Catalog) SlotCodes() []string {
	codes := make([]string, 0, len(slotNames))
	for code := range slotNames {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
