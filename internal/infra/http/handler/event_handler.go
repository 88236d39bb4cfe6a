package handler

import (
	"net/http"

	"github.com/hookhubio/api/internal/app"
)

// EventHandler exposes the integration event history.
type EventHandler struct {
	bus *app.EventBus
}

// NewEventHandler creates a new event handler.
func NewEventHandler(bus *app.EventBus) *EventHandler {
	return &EventHandler{bus: bus}
}

// List handles GET /api/v1/events. Events are returned in publication
// order; limit keeps the most recent N.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	history := h.bus.History()

	if limit := parseQueryInt(r.URL.Query().Get("limit"), 0); limit > 0 && limit < len(history) {
		history = history[len(history)-limit:]
	}

	writeJSON(w, http.StatusOK, map[string]any{"data": history, "total": len(history)})
}
