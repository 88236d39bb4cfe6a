package app

import (
	"context"
	"fmt"
	"time"

	"github.com/hookhubio/api/internal/metrics"
	"github.com/hookhubio/api/pkg/domain/event"
	"github.com/hookhubio/api/pkg/domain/integration"
	"github.com/hookhubio/api/pkg/logger"
)

// ActionHandler executes one outbound action against a provider.
// Handlers are registered per provider and independently testable.
type ActionHandler interface {
	Handle(ctx context.Context, intg *integration.Integration, action string, data map[string]any) (map[string]any, error)
}

// ActionHandlerFunc adapts a function to the ActionHandler interface.
type ActionHandlerFunc func(ctx context.Context, intg *integration.Integration, action string, data map[string]any) (map[string]any, error)

// Handle implements ActionHandler.
func (f ActionHandlerFunc) Handle(ctx context.Context, intg *integration.Integration, action string, data map[string]any) (map[string]any, error) {
	return f(ctx, intg, action, data)
}

// ActionDispatcher routes triggerAction calls to provider-specific handlers.
// Dispatch requires a connected integration; handler failures propagate to
// the caller and are also published as error events.
type ActionDispatcher struct {
	repo     integration.Repository
	bus      Publisher
	handlers map[string]ActionHandler
	timeout  time.Duration
	logger   *logger.Logger
}

// NewActionDispatcher creates a dispatcher with an empty handler map.
// timeout bounds each handler invocation; a hung provider call fails the
// dispatch instead of hanging it.
func NewActionDispatcher(repo integration.Repository, bus Publisher, timeout time.Duration, log *logger.Logger) *ActionDispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ActionDispatcher{
		repo:     repo,
		bus:      bus,
		handlers: make(map[string]ActionHandler),
		timeout:  timeout,
		logger:   log.With("service", "action_dispatcher"),
	}
}

// RegisterHandler sets the handler for a provider, replacing any existing one.
func (d *ActionDispatcher) RegisterHandler(providerID string, h ActionHandler) {
	d.handlers[providerID] = h
}

// TriggerAction executes the named action against the provider's handler.
// On success a data_sync event carrying {action, result} is published.
func (d *ActionDispatcher) TriggerAction(ctx context.Context, id, action string, data map[string]any) (map[string]any, error) {
	intg, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !intg.IsConnected() {
		return nil, fmt.Errorf("%w: %s", integration.ErrNotConnected, id)
	}

	handler, ok := d.handlers[id]
	if !ok {
		err := fmt.Errorf("no action handler registered for integration %q", id)
		d.bus.Publish(event.NewError(id, err))
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	result, err := handler.Handle(ctx, intg, action, data)
	metrics.ActionDuration.WithLabelValues(id).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ActionsDispatchedTotal.WithLabelValues(id, "error").Inc()
		d.logger.Error("action handler failed", "id", id, "action", action, "error", err)
		wrapped := fmt.Errorf("action %q: %w", action, err)
		d.bus.Publish(event.NewError(id, wrapped))
		return nil, wrapped
	}

	metrics.ActionsDispatchedTotal.WithLabelValues(id, "success").Inc()
	d.logger.Info("action dispatched", "id", id, "action", action)
	d.bus.Publish(event.New(event.TypeDataSync, id, map[string]any{
		"action": action,
		"result": result,
	}))

	return result, nil
}
