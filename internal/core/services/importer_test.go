package services

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/xwb/internal/core/domain"
)

// --- Mock implementations ---

// mockValidator implements driven.SchemaValidator for testing.
type mockValidator struct {
	err   error
	calls int
	mu    sync.Mutex
}

func (m *mockValidator) Validate(_ any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.err
}

// --- Helpers ---

func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	c, err := domain.NewCatalog(&domain.CatalogData{
		Ships: []domain.ShipRecord{
			{XWS: "xwing", ID: "1", Name: "X-Wing"},
			{XWS: "yt1300", ID: "2", Name: "YT-1300"},
		},
		Pilots: []domain.PilotRecord{
			{XWS: "lukeskywalker", ID: "2", Name: "Luke Skywalker", Ship: "X-Wing", Points: 28},
			{XWS: "wedgeantilles", ID: "3", Name: "Wedge Antilles", Ship: "X-Wing", Points: 29},
			{XWS: "hansolo", ID: "40", Name: "Han Solo", Ship: "YT-1300", Points: 46},
		},
		Upgrades: []domain.UpgradeRecord{
			{XWS: "r2d2", ID: "3", Name: "R2-D2", Slot: "Astromech", Points: 4},
			{XWS: "r2d2-swx22", ID: "150", Name: "R2-D2", Slot: "Crew", Points: 4},
			{XWS: "r2f2", ID: "4", Name: "R2-F2", Slot: "Astromech", Points: 3},
			{XWS: "pushthelimit", ID: "20", Name: "Push the Limit", Slot: "Elite", Points: 3},
			{XWS: "chewbacca", ID: "70", Name: "Chewbacca", Slot: "Crew", Points: 4},
			{XWS: "engineupgrade", ID: "80", Name: "Engine Upgrade", Slot: "Modification", Points: 4},
		},
	})
	require.NoError(t, err)
	return c
}

func newTestImporter(t *testing.T, opts domain.ImportOptions) *ImportService {
	t.Helper()
	svc, err := NewImportService(testCatalog(t), &mockValidator{}, opts)
	require.NoError(t, err)
	return svc
}

func decodeSquad(t *testing.T, raw string) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func pilotsOf(t *testing.T, squad domain.Squad) []map[string]any {
	t.Helper()
	list, ok := squad[domain.KeyPilots].([]any)
	require.True(t, ok, "pilots should be a list")
	out := make([]map[string]any, len(list))
	for i, p := range list {
		m, ok := p.(map[string]any)
		require.True(t, ok)
		out[i] = m
	}
	return out
}

func upgradesOf(t *testing.T, pilot map[string]any) map[string]any {
	t.Helper()
	u, ok := pilot[domain.KeyUpgrades].(map[string]any)
	require.True(t, ok)
	return u
}

// --- Constructor ---

func TestNewImportService(t *testing.T) {
	t.Run("nil catalog returns error", func(t *testing.T) {
		svc, err := NewImportService(nil, &mockValidator{}, domain.ImportOptions{})
		assert.Nil(t, svc)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("nil validator returns error", func(t *testing.T) {
		svc, err := NewImportService(testCatalog(t), nil, domain.ImportOptions{})
		assert.Nil(t, svc)
		assert.ErrorIs(t, err, domain.ErrMissingValidator)
	})

	t.Run("custom id func", func(t *testing.T) {
		svc, err := NewImportService(testCatalog(t), &mockValidator{}, domain.ImportOptions{},
			WithIDFunc(func() string { return "fixed" }))
		require.NoError(t, err)

		result, err := svc.Import(decodeSquad(t, `{"version":"1.0.0","pilots":[]}`))
		require.NoError(t, err)
		assert.Equal(t, "fixed", result.ID)
	})

	t.Run("default ids are unique", func(t *testing.T) {
		svc := newTestImporter(t, domain.ImportOptions{})
		a, err := svc.Import(decodeSquad(t, `{"version":"1.0.0","pilots":[]}`))
		require.NoError(t, err)
		b, err := svc.Import(decodeSquad(t, `{"version":"1.0.0","pilots":[]}`))
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

// --- Gates ---

func TestImport_RejectsNonObject(t *testing.T) {
	validator := &mockValidator{}
	svc, err := NewImportService(testCatalog(t), validator, domain.ImportOptions{})
	require.NoError(t, err)

	tests := []struct {
		name string
		doc  any
	}{
		{name: "array", doc: []any{"a"}},
		{name: "string", doc: "squad"},
		{name: "number", doc: json.Number("1")},
		{name: "nil", doc: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Import(tt.doc)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, domain.ErrInvalidDocument)

			var ide *domain.InvalidDocumentError
			assert.ErrorAs(t, err, &ide)
		})
	}
	assert.Zero(t, validator.calls, "type gate runs before schema validation")
}

func TestImport_SchemaFailureAborts(t *testing.T) {
	t.Run("plain error is wrapped", func(t *testing.T) {
		cause := errors.New("missing property 'pilots'")
		svc, err := NewImportService(testCatalog(t), &mockValidator{err: cause}, domain.ImportOptions{})
		require.NoError(t, err)

		doc := decodeSquad(t, `{"version":"0.1.0","points":100}`)
		result, err := svc.Import(doc)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrSchemaValidation)
		assert.ErrorIs(t, err, cause)

		// Nothing was touched.
		assert.Equal(t, "0.1.0", doc[domain.KeyVersion])
		assert.Contains(t, doc, domain.KeyPoints)
	})

	t.Run("typed error passes through", func(t *testing.T) {
		sve := &domain.SchemaValidationError{Causes: []string{"/version: expected string"}}
		svc, err := NewImportService(testCatalog(t), &mockValidator{err: sve}, domain.ImportOptions{})
		require.NoError(t, err)

		_, err = svc.Import(decodeSquad(t, `{"version":1}`))
		var got *domain.SchemaValidationError
		require.ErrorAs(t, err, &got)
		assert.Same(t, sve, got)
	})
}

func TestImportJSON(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{})

	t.Run("valid", func(t *testing.T) {
		result, err := svc.ImportJSON([]byte(`{"version":"1.0.0","pilots":[{"name":"lukeskywalker","ship":"xwing","upgrades":{}}]}`))
		require.NoError(t, err)
		assert.Equal(t, 1, result.PilotsOut)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := svc.ImportJSON([]byte(`{"version":`))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("trailing data", func(t *testing.T) {
		_, err := svc.ImportJSON([]byte(`{"version":"1.0.0","pilots":[]} {}`))
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("array document", func(t *testing.T) {
		_, err := svc.ImportJSON([]byte(`[1,2,3]`))
		assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	})
}

// --- Version reconciliation ---

func TestImport_Version(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    []string
	}{
		{
			name:    "current",
			version: "1.0.0",
			want:    []string{},
		},
		{
			name:    "older than 0.3.0",
			version: "0.2.0",
			want:    []string{"Warning: XWS data version 0.2.0 is older than 0.3.0. I cannot guarantee accuracy"},
		},
		{
			name:    "outdated",
			version: "0.3.0",
			want:    []string{"XWS data version 0.3.0 is older than 1.0.0"},
		},
		{
			name:    "too new",
			version: "2.0.0",
			want:    []string{"XWS data version 2.0.0 is newer than 1.0.0."},
		},
		{
			name:    "lexicographic quirk",
			version: "0.10.0",
			want:    []string{"Warning: XWS data version 0.10.0 is older than 0.3.0. I cannot guarantee accuracy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestImporter(t, domain.ImportOptions{})
			doc := map[string]any{domain.KeyVersion: tt.version, domain.KeyPilots: []any{}}

			result, err := svc.Import(doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Messages())
			assert.Equal(t, domain.XWSVersion, result.Squad[domain.KeyVersion])
			assert.Equal(t, domain.XWSVersion, doc[domain.KeyVersion], "document is mutated in place")
		})
	}
}

func TestImport_MissingVersion(t *testing.T) {
	tests := []struct {
		name string
		doc  map[string]any
	}{
		{name: "absent", doc: map[string]any{domain.KeyPilots: []any{}}},
		{name: "empty", doc: map[string]any{domain.KeyVersion: "", domain.KeyPilots: []any{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestImporter(t, domain.ImportOptions{})

			result, err := svc.Import(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, []string{
				"Warning: XWS data version (none) is older than 0.3.0. I cannot guarantee accuracy",
			}, result.Messages())
			assert.Equal(t, domain.CodeVersionUnsupported, result.Diagnostics[0].Code)
			assert.Equal(t, domain.XWSVersion, result.Squad[domain.KeyVersion])
		})
	}
}

// --- Container stripping ---

func TestImport_StripsContainerFields(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{})
	doc := decodeSquad(t, `{
		"version": "1.0.0",
		"name": "Rogue Squadron",
		"faction": "rebel",
		"points": 1000,
		"vendor": {"other": {"x": 1}},
		"pilots": []
	}`)

	result, err := svc.Import(doc)
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
	assert.NotContains(t, result.Squad, domain.KeyPoints)
	assert.NotContains(t, result.Squad, domain.KeyVendor)
	assert.Equal(t, "Rogue Squadron", result.Squad["name"])
	assert.Equal(t, "rebel", result.Squad["faction"])
}

// --- Pilot validation ---

func TestImport_UnknownPilotAndShip(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{})
	doc := decodeSquad(t, `{"version":"1.0.0","pilots":[
		{"name":"nobody","ship":"xwing","upgrades":{}},
		{"name":"lukeskywalker","ship":"deathstar","upgrades":{}},
		{"name":"wedgeantilles","ship":"xwing","upgrades":{}}
	]}`)

	result, err := svc.Import(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`Removing unknown pilot "nobody"`,
		`Unknown ship removing pilot "lukeskywalker"`,
	}, result.Messages())
	assert.Equal(t, 1, result.Diagnostics.Count(domain.CodeUnknownPilot))
	assert.Equal(t, 1, result.Diagnostics.Count(domain.CodeUnknownShip))

	pilots := pilotsOf(t, result.Squad)
	require.Len(t, pilots, 1)
	assert.Equal(t, "wedgeantilles", pilots[0][domain.KeyName])
	assert.Equal(t, 3, result.PilotsIn)
	assert.Equal(t, 1, result.PilotsOut)
}

func TestImport_ConsecutiveRemovalsAreAllValidated(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{})
	doc := decodeSquad(t, `{"version":"1.0.0","pilots":[
		{"name":"nobody","ship":"xwing"},
		{"name":"alsonobody","ship":"xwing"},
		{"name":"lukeskywalker","ship":"xwing","points":99}
	]}`)

	result, err := svc.Import(doc)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Diagnostics.Count(domain.CodeUnknownPilot))

	pilots := pilotsOf(t, result.Squad)
	require.Len(t, pilots, 1)
	assert.Equal(t, 28, pilots[0][domain.KeyPoints])
}

func TestImport_PreserveSkipQuirk(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{PreserveSkipQuirk: true})
	doc := decodeSquad(t, `{"version":"1.0.0","pilots":[
		{"name":"nobody","ship":"xwing"},
		{"name":"alsonobody","ship":"xwing","points":7},
		{"name":"lukeskywalker","ship":"xwing","points":99}
	]}`)

	result, err := svc.Import(doc)
	require.NoError(t, err)

	// The entry right after the removal is passed through unexamined.
	assert.Equal(t, []string{`Removing unknown pilot "nobody"`}, result.Messages())

	pilots := pilotsOf(t, result.Squad)
	require.Len(t, pilots, 2)
	assert.Equal(t, "alsonobody", pilots[0][domain.KeyName])
	assert.Equal(t, float64(7), pilots[0][domain.KeyPoints])
	assert.Equal(t, 28, pilots[1][domain.KeyPoints])
}

func TestImport_NonObjectPilotEntry(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{})
	doc := map[string]any{
		domain.KeyVersion: "1.0.0",
		domain.KeyPilots:  []any{"lukeskywalker"},
	}

	result, err := svc.Import(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{`Removing unknown pilot "lukeskywalker"`}, result.Messages())
	assert.Empty(t, pilotsOf(t, result.Squad))
}

func TestImport_StripsPilotFields(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{})
	doc := decodeSquad(t, `{"version":"1.0.0","pilots":[
		{"name":"lukeskywalker","ship":"xwing","points":1,"vendor":{"x":{}},"multisection_id":2}
	]}`)

	result, err := svc.Import(doc)
	require.NoError(t, err)

	pilot := pilotsOf(t, result.Squad)[0]
	assert.NotContains(t, pilot, domain.KeyVendor)
	assert.Equal(t, 28, pilot[domain.KeyPoints])
	assert.Contains(t, pilot, "multisection_id")
	assert.NotContains(t, pilot, domain.KeyUpgrades, "upgrades are not invented")
}

// --- Legacy repairs ---

func TestImport_R2D2Collision(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{})
	doc := decodeSquad(t, `{"version":"1.0.0","pilots":[
		{"name":"lukeskywalker","ship":"xwing","upgrades":{"amd":["r2d2","r2d2"]}}
	]}`)

	result, err := svc.Import(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{`Removed r2d2 collision in Astromech Upgrade for "lukeskywalker".`}, result.Messages())
	pilot := pilotsOf(t, result.Squad)[0]
	assert.Empty(t, upgradesOf(t, pilot)["amd"])
	assert.Equal(t, 28, pilot[domain.KeyPoints])
}

func TestImport_SingleR2D2IsKept(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{})
	doc := decodeSquad(t, `{"version":"1.0.0","pilots":[
		{"name":"lukeskywalker","ship":"xwing","upgrades":{"amd":["r2d2"]}}
	]}`)

	result, err := svc.Import(doc)
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)

	pilot := pilotsOf(t, result.Squad)[0]
	assert.Equal(t, []any{"r2d2"}, upgradesOf(t, pilot)["amd"])
	assert.Equal(t, 32, pilot[domain.KeyPoints])
}

func TestImport_R2D2CrewMigration(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{})
	doc := decodeSquad(t, `{"version":"1.0.0","pilots":[
		{"name":"hansolo","ship":"yt1300","upgrades":{"crew":["r2d2","chewbacca"]}}
	]}`)

	result, err := svc.Import(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{`Corrected r2d2 in Crew Upgrade for "hansolo".`}, result.Messages())
	pilot := pilotsOf(t, result.Squad)[0]
	assert.Equal(t, []any{"chewbacca", "r2d2-swx22"}, upgradesOf(t, pilot)["crew"])
	assert.Equal(t, 46+4+4, pilot[domain.KeyPoints])
}

// --- Slot and upgrade cleansing ---

func TestImport_UnknownSlot(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{})
	doc := decodeSquad(t, `{"version":"1.0.0","pilots":[
		{"name":"lukeskywalker","ship":"xwing","upgrades":{"zeta":["x"],"force":["y"],"ept":["pushthelimit"]}}
	]}`)

	result, err := svc.Import(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`Removing unknown slot type "force" for Pilot "lukeskywalker"`,
		`Removing unknown slot type "zeta" for Pilot "lukeskywalker"`,
	}, result.Messages())

	pilot := pilotsOf(t, result.Squad)[0]
	upgrades := upgradesOf(t, pilot)
	assert.Len(t, upgrades, 1)
	assert.Equal(t, []any{"pushthelimit"}, upgrades["ept"])
	assert.Equal(t, 31, pilot[domain.KeyPoints])
}

func TestImport_UnknownUpgradesAndPoints(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{})
	doc := decodeSquad(t, `{"version":"1.0.0","pilots":[
		{"name":"lukeskywalker","ship":"xwing","upgrades":{
			"amd":["r9z9","r2f2","nope"],
			"ept":["pushthelimit"],
			"mod":["engineupgrade","engineupgrade"]
		}}
	]}`)

	result, err := svc.Import(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`Removing unknown Upgrade Card "Astromech:r9z9" for pilot "lukeskywalker"`,
		`Removing unknown Upgrade Card "Astromech:nope" for pilot "lukeskywalker"`,
	}, result.Messages())
	assert.Equal(t, 2, result.Diagnostics.Count(domain.CodeUnknownUpgrade))

	pilot := pilotsOf(t, result.Squad)[0]
	upgrades := upgradesOf(t, pilot)
	assert.Equal(t, []any{"r2f2"}, upgrades["amd"])
	assert.Equal(t, []any{"engineupgrade", "engineupgrade"}, upgrades["mod"])
	// 28 base + 3 + 3 + 4 + 4
	assert.Equal(t, 42, pilot[domain.KeyPoints])
}

func TestImport_NonStringUpgrade(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{})
	doc := map[string]any{
		domain.KeyVersion: "1.0.0",
		domain.KeyPilots: []any{map[string]any{
			domain.KeyName:     "lukeskywalker",
			domain.KeyShip:     "xwing",
			domain.KeyUpgrades: map[string]any{"amd": []any{7.0, "r2f2"}},
		}},
	}

	result, err := svc.Import(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{`Removing unknown Upgrade Card "Astromech:7" for pilot "lukeskywalker"`}, result.Messages())
}

// --- Vendor injection ---

func TestImport_VendorInjection(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{
		VendorKey:      "xwb",
		VendorMetadata: map[string]any{"url": "https://somewhere.com", "list_url": "https://somewhere.com/thislist"},
	})
	doc := decodeSquad(t, `{"version":"1.0.0","vendor":{"xwb":{"stale":true}},"pilots":[
		{"name":"lukeskywalker","ship":"xwing","vendor":{"xwb":{"xwing_data_pilot_id":999}}},
		{"name":"hansolo","ship":"yt1300"}
	]}`)

	result, err := svc.Import(doc)
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)

	assert.Equal(t, map[string]any{
		"xwb": map[string]any{"url": "https://somewhere.com", "list_url": "https://somewhere.com/thislist"},
	}, result.Squad[domain.KeyVendor])

	pilots := pilotsOf(t, result.Squad)
	assert.Equal(t, map[string]any{"xwb": map[string]any{"xwing_data_pilot_id": int64(2)}}, pilots[0][domain.KeyVendor])
	assert.Equal(t, map[string]any{"xwb": map[string]any{"xwing_data_pilot_id": int64(40)}}, pilots[1][domain.KeyVendor])
}

func TestImport_GenericPilotUsesShipRecord(t *testing.T) {
	catalog, err := domain.NewCatalog(&domain.CatalogData{
		Ships: []domain.ShipRecord{
			{XWS: "ywing", ID: "2", Name: "Y-Wing"},
			{XWS: "xwing", ID: "1", Name: "X-Wing"},
		},
		Pilots: []domain.PilotRecord{
			{XWS: "graysquadronpilot", ID: "10", Name: "Gray Squadron Pilot", Ship: "Y-Wing", Points: 20},
			{XWS: "graysquadronpilot", ID: "11", Name: "Gray Squadron Pilot", Ship: "X-Wing", Points: 22},
		},
	})
	require.NoError(t, err)
	svc, err := NewImportService(catalog, &mockValidator{}, domain.ImportOptions{VendorKey: "xwb"})
	require.NoError(t, err)

	doc := decodeSquad(t, `{"version":"1.0.0","pilots":[
		{"name":"graysquadronpilot","ship":"xwing"},
		{"name":"graysquadronpilot","ship":"ywing"}
	]}`)

	result, err := svc.Import(doc)
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)

	pilots := pilotsOf(t, result.Squad)
	require.Len(t, pilots, 2)

	assert.Equal(t, 22, pilots[0][domain.KeyPoints], "X-Wing record, not the first in the data")
	assert.Equal(t, map[string]any{"xwb": map[string]any{"xwing_data_pilot_id": int64(11)}}, pilots[0][domain.KeyVendor])

	assert.Equal(t, 20, pilots[1][domain.KeyPoints])
	assert.Equal(t, map[string]any{"xwb": map[string]any{"xwing_data_pilot_id": int64(10)}}, pilots[1][domain.KeyVendor])
}

func TestImport_VendorKeyWithoutMetadata(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{VendorKey: "xwb"})
	doc := decodeSquad(t, `{"version":"1.0.0","pilots":[{"name":"lukeskywalker","ship":"xwing"}]}`)

	result, err := svc.Import(doc)
	require.NoError(t, err)

	assert.NotContains(t, result.Squad, domain.KeyVendor)
	assert.Contains(t, pilotsOf(t, result.Squad)[0], domain.KeyVendor)
}

func TestImport_VendorMetadataIsCopied(t *testing.T) {
	meta := map[string]any{"url": "https://a"}
	svc := newTestImporter(t, domain.ImportOptions{VendorKey: "xwb", VendorMetadata: meta})

	result, err := svc.Import(decodeSquad(t, `{"version":"1.0.0","pilots":[]}`))
	require.NoError(t, err)

	vendor := result.Squad[domain.KeyVendor].(map[string]any)["xwb"].(map[string]any)
	vendor["url"] = "changed"
	assert.Equal(t, "https://a", meta["url"])
}

func TestImport_NoVendorKey(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{VendorMetadata: map[string]any{"url": "x"}})
	result, err := svc.Import(decodeSquad(t, `{"version":"1.0.0","pilots":[{"name":"lukeskywalker","ship":"xwing"}]}`))
	require.NoError(t, err)

	assert.NotContains(t, result.Squad, domain.KeyVendor)
	assert.NotContains(t, pilotsOf(t, result.Squad)[0], domain.KeyVendor)
}

// --- Properties ---

func TestImport_CleanSquadHasNoDiagnostics(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{})
	doc := decodeSquad(t, `{"version":"1.0.0","faction":"rebel","pilots":[
		{"name":"lukeskywalker","ship":"xwing","upgrades":{"amd":["r2d2"],"ept":["pushthelimit"]}},
		{"name":"hansolo","ship":"yt1300","upgrades":{"crew":["chewbacca"]}}
	]}`)

	result, err := svc.Import(doc)
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
	assert.Len(t, pilotsOf(t, result.Squad), 2)
}

func TestImport_Idempotent(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{
		VendorKey:      "xwb",
		VendorMetadata: map[string]any{"url": "https://somewhere.com"},
	})
	doc := decodeSquad(t, `{"version":"0.3.0","points":3,"pilots":[
		{"name":"lukeskywalker","ship":"xwing","upgrades":{"amd":["r2d2","r2d2"],"ept":["pushthelimit","nope"],"zeta":[]}},
		{"name":"nobody","ship":"xwing"},
		{"name":"hansolo","ship":"yt1300","upgrades":{"crew":["r2d2"]}}
	]}`)

	first, err := svc.Import(doc)
	require.NoError(t, err)
	require.NotEmpty(t, first.Diagnostics)

	out, err := json.Marshal(first.Squad)
	require.NoError(t, err)

	second, err := svc.ImportJSON(out)
	require.NoError(t, err)
	assert.Empty(t, second.Diagnostics)

	again, err := json.Marshal(second.Squad)
	require.NoError(t, err)
	assert.JSONEq(t, string(out), string(again))
}

func TestImport_ConcurrentCalls(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{VendorKey: "xwb"})

	var wg sync.WaitGroup
	results := make([]*domain.ImportResult, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc := map[string]any{
				domain.KeyVersion: "1.0.0",
				domain.KeyPilots: []any{map[string]any{
					domain.KeyName:     "lukeskywalker",
					domain.KeyShip:     "xwing",
					domain.KeyUpgrades: map[string]any{"amd": []any{"r2f2", "bogus"}},
				}},
			}
			results[i], errs[i] = svc.Import(doc)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Len(t, results[i].Diagnostics, 1)
		assert.Equal(t, 31, pilotsOf(t, results[i].Squad)[0][domain.KeyPoints])
	}
}

func TestImport_SquadType(t *testing.T) {
	svc := newTestImporter(t, domain.ImportOptions{})
	squad := domain.Squad{domain.KeyVersion: "1.0.0", domain.KeyPilots: []any{}}

	result, err := svc.Import(squad)
	require.NoError(t, err)
	assert.Equal(t, domain.XWSVersion, result.Squad[domain.KeyVersion])
}
