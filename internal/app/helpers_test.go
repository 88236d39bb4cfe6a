package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hookhubio/api/internal/infra/memory"
	"github.com/hookhubio/api/pkg/domain/event"
	"github.com/hookhubio/api/pkg/domain/integration"
)

// seedIntegration stores an integration in the given status.
func seedIntegration(t *testing.T, repo *memory.IntegrationRepository, def integration.Definition, status integration.Status, cfg integration.Config) {
	t.Helper()

	intg := integration.New(def)
	intg.MergeConfig(cfg)
	intg.SetStatus(status)
	require.NoError(t, repo.Create(context.Background(), intg))
}

// eventRecorder captures everything published on a bus.
type eventRecorder struct {
	events []event.Event
}

func recordEvents(bus *EventBus) *eventRecorder {
	rec := &eventRecorder{}
	bus.Subscribe(func(evt event.Event) {
		rec.events = append(rec.events, evt)
	})
	return rec
}

func (r *eventRecorder) ofType(typ event.Type) []event.Event {
	var out []event.Event
	for _, evt := range r.events {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}
