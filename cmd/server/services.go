package main

import (
	"context"

	"github.com/hookhubio/api/internal/app"
	"github.com/hookhubio/api/internal/config"
	"github.com/hookhubio/api/internal/infra/http/handler"
	"github.com/hookhubio/api/internal/infra/http/routes"
	"github.com/hookhubio/api/internal/infra/memory"
	"github.com/hookhubio/api/internal/infra/notification"
	"github.com/hookhubio/api/pkg/domain/integration"
	"github.com/hookhubio/api/pkg/domain/webhook"
	"github.com/hookhubio/api/pkg/logger"
)

// Services holds the application services wired at startup.
type Services struct {
	Bus        *app.EventBus
	Registry   *app.RegistryService
	Lifecycle  *app.LifecycleService
	Dispatcher *app.ActionDispatcher
	Ingest     *app.WebhookIngestService
	Catalog    []integration.Definition
}

// newServices wires repositories, the event bus, and the application
// services, and seeds the provider catalog.
func newServices(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Services, error) {
	repo := memory.NewIntegrationRepository()
	bus := app.NewEventBus(cfg.Events.HistorySize, log)
	clients := notification.NewClientFactory()

	registry := app.NewRegistryService(repo, log)
	lifecycle := app.NewLifecycleService(repo, bus, clients, log)

	dispatcher := app.NewActionDispatcher(repo, bus, cfg.Events.ActionTimeout, log)
	notify := app.NewNotifyActionHandler(clients)
	for _, providerID := range []string{"slack", "telegram", "zapier"} {
		dispatcher.RegisterHandler(providerID, notify)
	}

	auth := app.NewWebhookAuthenticator(repo, webhook.DefaultPolicies(), cfg.Webhook.VerifyMode, nil, log)
	ingest := app.NewWebhookIngestService(auth, bus, cfg.Webhook.EventLogSize, log)

	catalog := app.DefaultCatalog()
	if err := registry.RegisterCatalog(ctx, catalog); err != nil {
		return nil, err
	}

	return &Services{
		Bus:        bus,
		Registry:   registry,
		Lifecycle:  lifecycle,
		Dispatcher: dispatcher,
		Ingest:     ingest,
		Catalog:    catalog,
	}, nil
}

// newHandlers builds the HTTP handlers from the wired services.
func newHandlers(s *Services, log *logger.Logger) routes.Handlers {
	return routes.Handlers{
		Health:      handler.NewHealthHandler(),
		Integration: handler.NewIntegrationHandler(s.Registry, s.Lifecycle, s.Dispatcher, s.Ingest, log),
		Webhook:     handler.NewWebhookHandler(s.Ingest, log),
		Event:       handler.NewEventHandler(s.Bus),
	}
}
