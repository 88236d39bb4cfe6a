package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookhubio/api/internal/infra/memory"
	"github.com/hookhubio/api/pkg/domain/integration"
	"github.com/hookhubio/api/pkg/domain/shared"
	"github.com/hookhubio/api/pkg/logger"
)

func newRegistryService(t *testing.T) (*RegistryService, *memory.IntegrationRepository) {
	t.Helper()

	repo := memory.NewIntegrationRepository()
	return NewRegistryService(repo, logger.NewNop()), repo
}

func TestRegistryService_RegisterIntegration(t *testing.T) {
	ctx := context.Background()

	t.Run("registers disconnected with empty config", func(t *testing.T) {
		svc, _ := newRegistryService(t)

		intg, err := svc.RegisterIntegration(ctx, integration.Definition{
			ID:       "github",
			Name:     "GitHub",
			Type:     integration.TypeWebhook,
			Category: integration.CategoryProductivity,
		})
		require.NoError(t, err)
		assert.Equal(t, integration.StatusDisconnected, intg.Status())
		assert.Empty(t, intg.Config())
	})

	t.Run("duplicate registration is rejected", func(t *testing.T) {
		svc, _ := newRegistryService(t)
		def := integration.Definition{
			ID: "github", Type: integration.TypeWebhook, Category: integration.CategoryProductivity,
		}

		_, err := svc.RegisterIntegration(ctx, def)
		require.NoError(t, err)

		_, err = svc.RegisterIntegration(ctx, def)
		assert.ErrorIs(t, err, integration.ErrAlreadyRegistered)
	})

	t.Run("invalid definition is rejected", func(t *testing.T) {
		svc, _ := newRegistryService(t)

		_, err := svc.RegisterIntegration(ctx, integration.Definition{
			ID: "broken", Type: "carrier-pigeon", Category: integration.CategoryProductivity,
		})
		assert.ErrorIs(t, err, integration.ErrInvalidType)
	})
}

func TestRegistryService_RegisterCatalog(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRegistryService(t)

	require.NoError(t, svc.RegisterCatalog(ctx, DefaultCatalog()))

	all, err := svc.ListIntegrations(ctx, ListIntegrationsInput{})
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultCatalog()))
}

func TestRegistryService_GetIntegration(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRegistryService(t)

	t.Run("empty ID", func(t *testing.T) {
		_, err := svc.GetIntegration(ctx, "")
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("unknown ID", func(t *testing.T) {
		_, err := svc.GetIntegration(ctx, "nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestRegistryService_ListIntegrations(t *testing.T) {
	ctx := context.Background()
	svc, repo := newRegistryService(t)
	require.NoError(t, svc.RegisterCatalog(ctx, DefaultCatalog()))

	t.Run("filter by category", func(t *testing.T) {
		out, err := svc.ListIntegrations(ctx, ListIntegrationsInput{Category: "communication"})
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "slack", out[0].ID())
		assert.Equal(t, "telegram", out[1].ID())
	})

	t.Run("filter by status", func(t *testing.T) {
		intg, err := repo.GetByID(ctx, "slack")
		require.NoError(t, err)
		intg.SetStatus(integration.StatusConnected)
		require.NoError(t, repo.Update(ctx, intg))

		out, err := svc.ListIntegrations(ctx, ListIntegrationsInput{Status: "connected"})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "slack", out[0].ID())
	})

	t.Run("invalid filter values", func(t *testing.T) {
		_, err := svc.ListIntegrations(ctx, ListIntegrationsInput{Category: "nonsense"})
		assert.ErrorIs(t, err, integration.ErrInvalidCategory)

		_, err = svc.ListIntegrations(ctx, ListIntegrationsInput{Status: "nonsense"})
		assert.ErrorIs(t, err, integration.ErrInvalidStatus)
	})
}
