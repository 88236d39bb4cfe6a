package integration

import "context"

// Filter narrows List results. Nil fields match everything.
type Filter struct {
	Category *Category
	Status   *Status
}

// Repository defines the persistence contract for integrations.
// Implementations must return copies so callers cannot mutate shared state.
type Repository interface {
	// Create stores a new integration. Returns ErrAlreadyRegistered if the
	// ID is taken.
	Create(ctx context.Context, intg *Integration) error

	// GetByID retrieves an integration by ID.
	GetByID(ctx context.Context, id string) (*Integration, error)

	// Update replaces the stored integration.
	Update(ctx context.Context, intg *Integration) error

	// List returns integrations matching the filter, ordered by ID.
	List(ctx context.Context, filter Filter) ([]*Integration, error)
}
