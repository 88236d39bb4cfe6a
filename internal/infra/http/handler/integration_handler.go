package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hookhubio/api/internal/app"
	"github.com/hookhubio/api/pkg/apierror"
	"github.com/hookhubio/api/pkg/domain/integration"
	"github.com/hookhubio/api/pkg/domain/shared"
	"github.com/hookhubio/api/pkg/logger"
	"github.com/hookhubio/api/pkg/validator"
)

// IntegrationHandler handles the integration management API.
type IntegrationHandler struct {
	registry   *app.RegistryService
	lifecycle  *app.LifecycleService
	dispatcher *app.ActionDispatcher
	ingest     *app.WebhookIngestService
	validator  *validator.Validator
	logger     *logger.Logger
}

// NewIntegrationHandler creates a new integration handler.
func NewIntegrationHandler(
	registry *app.RegistryService,
	lifecycle *app.LifecycleService,
	dispatcher *app.ActionDispatcher,
	ingest *app.WebhookIngestService,
	log *logger.Logger,
) *IntegrationHandler {
	return &IntegrationHandler{
		registry:   registry,
		lifecycle:  lifecycle,
		dispatcher: dispatcher,
		ingest:     ingest,
		validator:  validator.New(),
		logger:     log,
	}
}

// IntegrationResponse represents an integration in API responses.
// Credential config values are masked.
type IntegrationResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Type         string            `json:"type"`
	Category     string            `json:"category"`
	Status       string            `json:"status"`
	Config       map[string]string `json:"config,omitempty"`
	Capabilities []string          `json:"capabilities,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func toIntegrationResponse(intg *integration.Integration) IntegrationResponse {
	return IntegrationResponse{
		ID:           intg.ID(),
		Name:         intg.Name(),
		Description:  intg.Description(),
		Type:         intg.Type().String(),
		Category:     intg.Category().String(),
		Status:       intg.Status().String(),
		Config:       maskConfig(intg.Config()),
		Capabilities: intg.Capabilities(),
		CreatedAt:    intg.CreatedAt(),
		UpdatedAt:    intg.UpdatedAt(),
	}
}

// ConnectRequest is the request body for connecting an integration.
type ConnectRequest struct {
	Config map[string]string `json:"config"`
}

// TriggerActionRequest is the request body for triggering an action.
type TriggerActionRequest struct {
	Action string         `json:"action" validate:"required"`
	Data   map[string]any `json:"data"`
}

// TriggerActionResponse is the response for a dispatched action.
type TriggerActionResponse struct {
	Action string         `json:"action"`
	Result map[string]any `json:"result,omitempty"`
}

// TestConnectionResponse is the response for a connection test.
type TestConnectionResponse struct {
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}

// List handles GET /api/v1/integrations.
func (h *IntegrationHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.registry.ListIntegrations(r.Context(), app.ListIntegrationsInput{
		Category: r.URL.Query().Get("category"),
		Status:   r.URL.Query().Get("status"),
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	data := make([]IntegrationResponse, 0, len(out))
	for _, intg := range out {
		data = append(data, toIntegrationResponse(intg))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data, "total": len(data)})
}

// Get handles GET /api/v1/integrations/{id}.
func (h *IntegrationHandler) Get(w http.ResponseWriter, r *http.Request) {
	intg, err := h.registry.GetIntegration(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toIntegrationResponse(intg))
}

// Connect handles POST /api/v1/integrations/{id}/connect.
func (h *IntegrationHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}

	intg, err := h.lifecycle.Connect(r.Context(), chi.URLParam(r, "id"), req.Config)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toIntegrationResponse(intg))
}

// Disconnect handles POST /api/v1/integrations/{id}/disconnect.
func (h *IntegrationHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	intg, err := h.lifecycle.Disconnect(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toIntegrationResponse(intg))
}

// Test handles POST /api/v1/integrations/{id}/test.
// Always responds 200; the probe outcome is in the body.
func (h *IntegrationHandler) Test(w http.ResponseWriter, r *http.Request) {
	ok := h.lifecycle.TestConnection(r.Context(), chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, TestConnectionResponse{
		Success:   ok,
		Timestamp: time.Now().UTC(),
	})
}

// TriggerAction handles POST /api/v1/integrations/{id}/actions.
func (h *IntegrationHandler) TriggerAction(w http.ResponseWriter, r *http.Request) {
	var req TriggerActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			apierror.ValidationFailed("Validation failed", verrs).WriteJSON(w)
			return
		}
		apierror.BadRequest("Validation error").WriteJSON(w)
		return
	}

	result, err := h.dispatcher.TriggerAction(r.Context(), chi.URLParam(r, "id"), req.Action, req.Data)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TriggerActionResponse{Action: req.Action, Result: result})
}

// Events handles GET /api/v1/integrations/{id}/events.
// Returns the recorded webhook deliveries for one integration, most recent
// first, honoring the limit parameter.
func (h *IntegrationHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.registry.GetIntegration(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	limit := parseQueryInt(r.URL.Query().Get("limit"), 50)

	all := h.ingest.Events(0)
	events := all[:0:0]
	for _, evt := range all {
		if evt.Source != id {
			continue
		}
		events = append(events, evt)
		if len(events) == limit {
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": events, "total": len(events)})
}

// handleServiceError converts service errors to API errors.
func (h *IntegrationHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		apierror.NotFound("Integration").WriteJSON(w)
	case errors.Is(err, integration.ErrNotConnected):
		apierror.Conflict("Integration is not connected").WriteJSON(w)
	case errors.Is(err, shared.ErrConflict):
		apierror.Conflict(err.Error()).WriteJSON(w)
	case errors.Is(err, shared.ErrAlreadyExists):
		apierror.Conflict("Integration already exists").WriteJSON(w)
	case errors.Is(err, shared.ErrValidation):
		apierror.BadRequest(err.Error()).WriteJSON(w)
	default:
		h.logger.Error("service error", "error", err)
		apierror.InternalError(err).WriteJSON(w)
	}
}
