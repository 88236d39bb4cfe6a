package app

import (
	"context"
	"fmt"

	"github.com/hookhubio/api/pkg/domain/integration"
	"github.com/hookhubio/api/pkg/domain/shared"
	"github.com/hookhubio/api/pkg/logger"
)

// RegistryService manages the integration catalog: registration at startup
// and read access for the management API.
type RegistryService struct {
	repo   integration.Repository
	logger *logger.Logger
}

// NewRegistryService creates a new RegistryService.
func NewRegistryService(repo integration.Repository, log *logger.Logger) *RegistryService {
	return &RegistryService{
		repo:   repo,
		logger: log.With("service", "registry"),
	}
}

// RegisterIntegration adds a provider from its catalog definition. The
// integration starts disconnected; no lifecycle event is published here.
// Publishing connection_established for a disconnected integration would
// mislead subscribers, so registration stays silent.
func (s *RegistryService) RegisterIntegration(ctx context.Context, def integration.Definition) (*integration.Integration, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	intg := integration.New(def)
	if err := s.repo.Create(ctx, intg); err != nil {
		return nil, err
	}

	s.logger.Info("integration registered",
		"id", intg.ID(),
		"type", intg.Type(),
		"category", intg.Category(),
	)
	return intg, nil
}

// RegisterCatalog registers every definition in the catalog. Fails on the
// first invalid or duplicate entry; the catalog is static, so any failure
// is a programming error surfaced at startup.
func (s *RegistryService) RegisterCatalog(ctx context.Context, defs []integration.Definition) error {
	for _, def := range defs {
		if _, err := s.RegisterIntegration(ctx, def); err != nil {
			return fmt.Errorf("register %q: %w", def.ID, err)
		}
	}
	return nil
}

// GetIntegration retrieves an integration by ID.
func (s *RegistryService) GetIntegration(ctx context.Context, id string) (*integration.Integration, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty integration ID", shared.ErrValidation)
	}
	return s.repo.GetByID(ctx, id)
}

// ListIntegrationsInput represents the input for listing integrations.
type ListIntegrationsInput struct {
	Category string
	Status   string
}

// ListIntegrations lists integrations with optional category/status filtering.
func (s *RegistryService) ListIntegrations(ctx context.Context, input ListIntegrationsInput) ([]*integration.Integration, error) {
	filter := integration.Filter{}

	if input.Category != "" {
		cat := integration.Category(input.Category)
		if !cat.IsValid() {
			return nil, integration.ErrInvalidCategory
		}
		filter.Category = &cat
	}
	if input.Status != "" {
		status := integration.Status(input.Status)
		if !status.IsValid() {
			return nil, integration.ErrInvalidStatus
		}
		filter.Status = &status
	}

	return s.repo.List(ctx, filter)
}
