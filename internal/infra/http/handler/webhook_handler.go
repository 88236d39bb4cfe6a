package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hookhubio/api/internal/app"
	"github.com/hookhubio/api/pkg/apierror"
	"github.com/hookhubio/api/pkg/logger"
)

// PingEventName is the event recorded for GET deliveries without a
// challenge parameter.
const PingEventName = "webhook_ping"

// fallbackEventName is used when the payload carries no recognizable
// event name field.
const fallbackEventName = "webhook_received"

// WebhookHandler handles the inbound webhook ingress.
type WebhookHandler struct {
	ingest *app.WebhookIngestService
	logger *logger.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(ingest *app.WebhookIngestService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		ingest: ingest,
		logger: log,
	}
}

// Receive handles POST /webhooks/{integrationID}.
// The raw body is read once and handed to the pipeline unmodified so
// signature verification sees exactly the bytes the provider signed.
// Non-JSON bodies are forwarded as a raw string payload.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	integrationID := chi.URLParam(r, "integrationID")

	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		apierror.BadRequest("Failed to read request body").WriteJSON(w)
		return
	}

	var data map[string]any
	if err := json.Unmarshal(rawBody, &data); err != nil {
		data = map[string]any{"raw": string(rawBody)}
	}

	result := h.ingest.Ingest(r.Context(), integrationID, resolveEventName(data), data, r.Header, rawBody)
	writeJSON(w, statusForResult(result), result)
}

// Ping handles GET /webhooks/{integrationID}.
// A challenge query parameter is echoed back verbatim as text/plain, the
// verification handshake several providers use. Otherwise the query
// parameters become the event payload.
func (h *WebhookHandler) Ping(w http.ResponseWriter, r *http.Request) {
	if challenge := r.URL.Query().Get("challenge"); challenge != "" {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}

	integrationID := chi.URLParam(r, "integrationID")

	data := make(map[string]any)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			data[key] = values[0]
		}
	}

	eventName := PingEventName
	if name, ok := data["event"].(string); ok && name != "" {
		eventName = name
	}

	result := h.ingest.Ingest(r.Context(), integrationID, eventName, data, r.Header, nil)
	writeJSON(w, statusForResult(result), result)
}

// resolveEventName extracts the provider event name from the payload,
// checking event, type, and action in that order.
func resolveEventName(data map[string]any) string {
	for _, key := range []string{"event", "type", "action"} {
		if name, ok := data[key].(string); ok && name != "" {
			return name
		}
	}
	return fallbackEventName
}

// statusForResult maps an ingestion result to an HTTP status. Rejected
// deliveries are client errors; recorded deliveries whose post-processing
// failed are server errors.
func statusForResult(result app.IngestResult) int {
	switch {
	case result.Success:
		return http.StatusOK
	case result.EventID != "":
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
