// Package routes registers all HTTP routes for the API.
package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	infrahttp "github.com/hookhubio/api/internal/infra/http"
	"github.com/hookhubio/api/internal/infra/http/handler"
)

// Router is an alias to the http package's Router interface.
type Router = infrahttp.Router

// Handlers holds all HTTP handlers for route registration.
type Handlers struct {
	Health      *handler.HealthHandler
	Integration *handler.IntegrationHandler
	Webhook     *handler.WebhookHandler
	Event       *handler.EventHandler
}

// Register registers all application routes.
func Register(router Router, h Handlers) {
	registerHealthRoutes(router, h.Health)
	registerWebhookRoutes(router, h.Webhook)
	registerManagementRoutes(router, h.Integration, h.Event)
}

// registerHealthRoutes registers health check and metrics endpoints.
func registerHealthRoutes(router Router, h *handler.HealthHandler) {
	router.GET("/health", h.Health)
	router.GET("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
}

// registerWebhookRoutes registers the inbound webhook ingress.
func registerWebhookRoutes(router Router, h *handler.WebhookHandler) {
	router.POST("/webhooks/{integrationID}", h.Receive)
	router.GET("/webhooks/{integrationID}", h.Ping)
}

// registerManagementRoutes registers the integration management API.
func registerManagementRoutes(router Router, ih *handler.IntegrationHandler, eh *handler.EventHandler) {
	router.Group("/api/v1", func(r Router) {
		r.GET("/integrations", ih.List)
		r.GET("/integrations/{id}", ih.Get)
		r.POST("/integrations/{id}/connect", ih.Connect)
		r.POST("/integrations/{id}/disconnect", ih.Disconnect)
		r.POST("/integrations/{id}/test", ih.Test)
		r.POST("/integrations/{id}/actions", ih.TriggerAction)
		r.GET("/integrations/{id}/events", ih.Events)

		r.GET("/events", eh.List)
	})
}
