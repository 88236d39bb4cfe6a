package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookhubio/api/internal/infra/memory"
	"github.com/hookhubio/api/internal/infra/notification"
	"github.com/hookhubio/api/pkg/domain/event"
	"github.com/hookhubio/api/pkg/domain/integration"
	"github.com/hookhubio/api/pkg/domain/shared"
	"github.com/hookhubio/api/pkg/domain/webhook"
	"github.com/hookhubio/api/pkg/logger"
)

func newLifecycleFixture(t *testing.T) (*LifecycleService, *memory.IntegrationRepository, *eventRecorder) {
	t.Helper()

	repo := memory.NewIntegrationRepository()
	bus := NewEventBus(50, logger.NewNop())
	rec := recordEvents(bus)
	svc := NewLifecycleService(repo, bus, notification.NewClientFactory(), logger.NewNop())
	return svc, repo, rec
}

func TestLifecycleService_Connect(t *testing.T) {
	ctx := context.Background()

	t.Run("valid config moves integration to connected", func(t *testing.T) {
		svc, repo, rec := newLifecycleFixture(t)
		seedIntegration(t, repo, integration.Definition{
			ID: "zapier", Type: integration.TypeWebhook, Category: integration.CategoryAutomation,
		}, integration.StatusDisconnected, nil)

		intg, err := svc.Connect(ctx, "zapier", integration.Config{
			ConfigKeyWebhookURL: "https://hooks.zapier.com/abc",
		})
		require.NoError(t, err)
		assert.Equal(t, integration.StatusConnected, intg.Status())

		stored, err := repo.GetByID(ctx, "zapier")
		require.NoError(t, err)
		assert.True(t, stored.IsConnected())

		established := rec.ofType(event.TypeConnectionEstablished)
		require.Len(t, established, 1)
		assert.Equal(t, "zapier", established[0].IntegrationID)
	})

	t.Run("invalid config moves integration to error and publishes error event", func(t *testing.T) {
		svc, repo, rec := newLifecycleFixture(t)
		seedIntegration(t, repo, integration.Definition{
			ID: "zapier", Type: integration.TypeWebhook, Category: integration.CategoryAutomation,
		}, integration.StatusDisconnected, nil)

		_, err := svc.Connect(ctx, "zapier", integration.Config{
			ConfigKeyWebhookURL: "not a url",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)

		stored, err := repo.GetByID(ctx, "zapier")
		require.NoError(t, err)
		assert.Equal(t, integration.StatusError, stored.Status())

		require.Len(t, rec.ofType(event.TypeError), 1)
		assert.Empty(t, rec.ofType(event.TypeConnectionEstablished))
	})

	t.Run("connect merges partial config updates", func(t *testing.T) {
		svc, repo, _ := newLifecycleFixture(t)
		seedIntegration(t, repo, integration.Definition{
			ID: "github", Type: integration.TypeWebhook, Category: integration.CategoryProductivity,
		}, integration.StatusDisconnected, integration.Config{
			webhook.SecretConfigKey: "keep-me",
		})

		intg, err := svc.Connect(ctx, "github", integration.Config{
			ConfigKeyWebhookURL: "https://example.com/hook",
		})
		require.NoError(t, err)
		assert.Equal(t, "keep-me", intg.ConfigValue(webhook.SecretConfigKey))
		assert.Equal(t, "https://example.com/hook", intg.ConfigValue(ConfigKeyWebhookURL))
	})

	t.Run("unknown integration", func(t *testing.T) {
		svc, _, _ := newLifecycleFixture(t)
		_, err := svc.Connect(ctx, "missing", nil)
		assert.ErrorIs(t, err, integration.ErrIntegrationNotFound)
	})

	t.Run("required fields per type", func(t *testing.T) {
		tests := []struct {
			typ integration.Type
			cfg integration.Config
			ok  bool
		}{
			{integration.TypeAPIKey, integration.Config{ConfigKeyAPIKey: "k"}, true},
			{integration.TypeAPIKey, integration.Config{}, false},
			{integration.TypeOAuth, integration.Config{ConfigKeyClientID: "a", ConfigKeyClientSecret: "b"}, true},
			{integration.TypeOAuth, integration.Config{ConfigKeyClientID: "a"}, false},
			{integration.TypeSAML, integration.Config{ConfigKeyEntityID: "e", ConfigKeySSOURL: "https://sso"}, true},
			{integration.TypeSAML, integration.Config{ConfigKeySSOURL: "https://sso"}, false},
		}

		for _, tt := range tests {
			err := validateConnectConfig(tt.typ, tt.cfg)
			if tt.ok {
				assert.NoError(t, err, "type %s cfg %v", tt.typ, tt.cfg)
			} else {
				assert.Error(t, err, "type %s cfg %v", tt.typ, tt.cfg)
			}
		}
	})
}

func TestLifecycleService_Disconnect(t *testing.T) {
	ctx := context.Background()
	svc, repo, rec := newLifecycleFixture(t)
	seedIntegration(t, repo, integration.Definition{
		ID: "github", Type: integration.TypeWebhook, Category: integration.CategoryProductivity,
	}, integration.StatusConnected, integration.Config{
		ConfigKeyWebhookURL:     "https://example.com/hook",
		webhook.SecretConfigKey: "s3cret",
	})

	intg, err := svc.Disconnect(ctx, "github")
	require.NoError(t, err)
	assert.Equal(t, integration.StatusDisconnected, intg.Status())

	// Disconnect drops the whole config, secrets included.
	stored, err := repo.GetByID(ctx, "github")
	require.NoError(t, err)
	assert.Empty(t, stored.Config())

	lost := rec.ofType(event.TypeConnectionLost)
	require.Len(t, lost, 1)
	assert.Equal(t, "github", lost[0].IntegrationID)
}

func TestLifecycleService_TestConnection(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown integration reports false with error event", func(t *testing.T) {
		svc, _, rec := newLifecycleFixture(t)
		assert.False(t, svc.TestConnection(ctx, "missing"))
		assert.Len(t, rec.ofType(event.TypeError), 1)
	})

	t.Run("valid config without a provider client passes", func(t *testing.T) {
		svc, repo, rec := newLifecycleFixture(t)
		seedIntegration(t, repo, integration.Definition{
			ID: "mixpanel", Type: integration.TypeAPIKey, Category: integration.CategoryAnalytics,
		}, integration.StatusConnected, integration.Config{ConfigKeyAPIKey: "mp-key"})

		assert.True(t, svc.TestConnection(ctx, "mixpanel"))
		assert.Empty(t, rec.ofType(event.TypeError))
	})

	t.Run("invalid config reports false, never an error", func(t *testing.T) {
		svc, repo, rec := newLifecycleFixture(t)
		seedIntegration(t, repo, integration.Definition{
			ID: "mixpanel", Type: integration.TypeAPIKey, Category: integration.CategoryAnalytics,
		}, integration.StatusDisconnected, nil)

		assert.False(t, svc.TestConnection(ctx, "mixpanel"))
		assert.Len(t, rec.ofType(event.TypeError), 1)
	})
}
