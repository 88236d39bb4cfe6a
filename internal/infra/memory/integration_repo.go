// Package memory provides in-memory repository implementations.
// All integration state is process-memory only; persistence across restarts
// is out of scope.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/hookhubio/api/pkg/domain/integration"
)

// IntegrationRepository is a thread-safe in-memory integration store.
type IntegrationRepository struct {
	mu    sync.RWMutex
	items map[string]*integration.Integration
}

// Ensure IntegrationRepository implements the repository interface.
var _ integration.Repository = (*IntegrationRepository)(nil)

// NewIntegrationRepository creates an empty repository.
func NewIntegrationRepository() *IntegrationRepository {
	return &IntegrationRepository{
		items: make(map[string]*integration.Integration),
	}
}

// Create stores a new integration.
func (r *IntegrationRepository) Create(_ context.Context, intg *integration.Integration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[intg.ID()]; exists {
		return integration.ErrAlreadyRegistered
	}
	r.items[intg.ID()] = intg.Clone()
	return nil
}

// GetByID retrieves an integration by ID. The returned value is a copy;
// mutations must go back through Update.
func (r *IntegrationRepository) GetByID(_ context.Context, id string) (*integration.Integration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	intg, ok := r.items[id]
	if !ok {
		return nil, integration.ErrIntegrationNotFound
	}
	return intg.Clone(), nil
}

// Update replaces the stored integration.
func (r *IntegrationRepository) Update(_ context.Context, intg *integration.Integration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[intg.ID()]; !ok {
		return integration.ErrIntegrationNotFound
	}
	r.items[intg.ID()] = intg.Clone()
	return nil
}

// List returns integrations matching the filter, ordered by ID.
func (r *IntegrationRepository) List(_ context.Context, filter integration.Filter) ([]*integration.Integration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*integration.Integration, 0, len(r.items))
	for _, intg := range r.items {
		if filter.Category != nil && intg.Category() != *filter.Category {
			continue
		}
		if filter.Status != nil && intg.Status() != *filter.Status {
			continue
		}
		out = append(out, intg.Clone())
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}
