package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookhubio/api/internal/infra/memory"
	"github.com/hookhubio/api/pkg/domain/event"
	"github.com/hookhubio/api/pkg/domain/integration"
	"github.com/hookhubio/api/pkg/logger"
)

func newDispatcherFixture(t *testing.T) (*ActionDispatcher, *memory.IntegrationRepository, *eventRecorder) {
	t.Helper()

	repo := memory.NewIntegrationRepository()
	bus := NewEventBus(50, logger.NewNop())
	rec := recordEvents(bus)
	d := NewActionDispatcher(repo, bus, time.Second, logger.NewNop())
	return d, repo, rec
}

func TestActionDispatcher_TriggerAction(t *testing.T) {
	ctx := context.Background()
	def := integration.Definition{
		ID: "slack", Type: integration.TypeWebhook, Category: integration.CategoryCommunication,
	}

	t.Run("successful dispatch publishes data_sync", func(t *testing.T) {
		d, repo, rec := newDispatcherFixture(t)
		seedIntegration(t, repo, def, integration.StatusConnected, nil)

		var gotAction string
		d.RegisterHandler("slack", ActionHandlerFunc(func(_ context.Context, intg *integration.Integration, action string, data map[string]any) (map[string]any, error) {
			gotAction = action
			return map[string]any{"delivered": true}, nil
		}))

		result, err := d.TriggerAction(ctx, "slack", "send_message", map[string]any{"text": "hi"})
		require.NoError(t, err)
		assert.Equal(t, "send_message", gotAction)
		assert.Equal(t, true, result["delivered"])

		synced := rec.ofType(event.TypeDataSync)
		require.Len(t, synced, 1)
		assert.Equal(t, "send_message", synced[0].Data["action"])
	})

	t.Run("disconnected integration refuses dispatch", func(t *testing.T) {
		d, repo, rec := newDispatcherFixture(t)
		seedIntegration(t, repo, def, integration.StatusDisconnected, nil)

		called := false
		d.RegisterHandler("slack", ActionHandlerFunc(func(context.Context, *integration.Integration, string, map[string]any) (map[string]any, error) {
			called = true
			return nil, nil
		}))

		_, err := d.TriggerAction(ctx, "slack", "send_message", nil)
		assert.ErrorIs(t, err, integration.ErrNotConnected)
		assert.False(t, called)
		assert.Empty(t, rec.events)
	})

	t.Run("unknown integration", func(t *testing.T) {
		d, _, _ := newDispatcherFixture(t)
		_, err := d.TriggerAction(ctx, "missing", "anything", nil)
		assert.ErrorIs(t, err, integration.ErrIntegrationNotFound)
	})

	t.Run("missing handler publishes error event", func(t *testing.T) {
		d, repo, rec := newDispatcherFixture(t)
		seedIntegration(t, repo, def, integration.StatusConnected, nil)

		_, err := d.TriggerAction(ctx, "slack", "send_message", nil)
		require.Error(t, err)
		assert.Len(t, rec.ofType(event.TypeError), 1)
	})

	t.Run("handler failure propagates and publishes error event", func(t *testing.T) {
		d, repo, rec := newDispatcherFixture(t)
		seedIntegration(t, repo, def, integration.StatusConnected, nil)

		boom := errors.New("provider unavailable")
		d.RegisterHandler("slack", ActionHandlerFunc(func(context.Context, *integration.Integration, string, map[string]any) (map[string]any, error) {
			return nil, boom
		}))

		_, err := d.TriggerAction(ctx, "slack", "send_message", nil)
		assert.ErrorIs(t, err, boom)
		assert.Len(t, rec.ofType(event.TypeError), 1)
		assert.Empty(t, rec.ofType(event.TypeDataSync))
	})

	t.Run("hung handler is cut off by the dispatch timeout", func(t *testing.T) {
		d, repo, _ := newDispatcherFixture(t)
		d.timeout = 20 * time.Millisecond
		seedIntegration(t, repo, def, integration.StatusConnected, nil)

		d.RegisterHandler("slack", ActionHandlerFunc(func(ctx context.Context, _ *integration.Integration, _ string, _ map[string]any) (map[string]any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}))

		_, err := d.TriggerAction(ctx, "slack", "send_message", nil)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
