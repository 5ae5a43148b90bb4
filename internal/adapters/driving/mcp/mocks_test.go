package mcp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/xwb/internal/core/domain"
	"github.com/custodia-labs/xwb/internal/core/ports/driving"
)

// Ensure the mock implements the interface.
var _ driving.ImportService = (*mockImportService)(nil)

// mockImportService is a mock implementation of driving.ImportService.
type mockImportService struct {
	result *domain.ImportResult
	err    error
	got    []byte
}

func (m *mockImportService) Import(_ any) (*domain.ImportResult, error) {
	return m.result, m.err
}

func (m *mockImportService) ImportJSON(data []byte) (*domain.ImportResult, error) {
	m.got = data
	return m.result, m.err
}

func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()
	c, err := domain.NewCatalog(&domain.CatalogData{
		Conditions: []domain.ConditionRecord{{XWS: "suppressivefire", ID: "1", Name: "Suppressive Fire"}},
		Ships:      []domain.ShipRecord{{XWS: "xwing", ID: "1", Name: "X-Wing", Faction: []string{"Rebel Alliance"}}},
		Pilots:     []domain.PilotRecord{{XWS: "lukeskywalker", ID: "2", Name: "Luke Skywalker", Ship: "X-Wing", Points: 28}},
		Upgrades:   []domain.UpgradeRecord{{XWS: "r2d2", ID: "3", Name: "R2-D2", Slot: "Astromech", Points: 4}},
	})
	require.NoError(t, err)
	return c
}

func testServer(t *testing.T, imp *mockImportService) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Import: imp, Catalog: testCatalog(t)})
	require.NoError(t, err)
	return server
}
