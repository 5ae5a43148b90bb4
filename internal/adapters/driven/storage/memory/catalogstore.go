package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/xwb/internal/core/domain"
	"github.com/custodia-labs/xwb/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interfaces.
var (
	_ driven.CatalogSource = (*CatalogStore)(nil)
	_ driven.CatalogSink   = (*CatalogStore)(nil)
)

// CatalogStore is an in-memory catalog snapshot.
// Callers can hand pre-built card data straight to the importer with it.
type CatalogStore struct {
	mu   sync.RWMutex
	data *domain.CatalogData
}

// NewCatalogStore creates a store holding a copy of data.
// A nil data yields an empty store that fails to load until saved.
func NewCatalogStore(data *domain.CatalogData) *CatalogStore {
	s := &CatalogStore{}
	if data != nil {
		s.data = cloneCatalog(data)
	}
	return s
}

// Name identifies the source.
func (s *CatalogStore) Name() string {
	return "memory"
}

// Load returns a copy of the stored snapshot.
func (s *CatalogStore) Load(_ context.Context) (*domain.CatalogData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, &domain.DataLoadError{Collection: "catalog", Source: s.Name(), Err: domain.ErrNotFound}
	}
	return cloneCatalog(s.data), nil
}

// SaveCatalog replaces the snapshot.
func (s *CatalogStore) SaveCatalog(_ context.Context, data *domain.CatalogData) error {
	if data == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = cloneCatalog(data)
	return nil
}

func cloneCatalog(data *domain.CatalogData) *domain.CatalogData {
	ships := slices.Clone(data.Ships)
	for i := range ships {
		ships[i].Faction = slices.Clone(ships[i].Faction)
	}
	return &domain.CatalogData{
		Conditions: slices.Clone(data.Conditions),
		Pilots:     slices.Clone(data.Pilots),
		Ships:      ships,
		Upgrades:   slices.Clone(data.Upgrades),
	}
}
