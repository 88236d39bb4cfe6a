// Package event defines the integration event published on the in-process
// bus and consumed by observers such as the event-log UI.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Type is the closed set of integration event types.
type Type string

const (
	TypeConnectionEstablished Type = "connection_established"
	TypeConnectionLost        Type = "connection_lost"
	TypeDataSync              Type = "data_sync"
	TypeWebhookReceived       Type = "webhook_received"
	TypeError                 Type = "error"
)

// String returns the string representation of the type.
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is valid.
func (t Type) IsValid() bool {
	switch t {
	case TypeConnectionEstablished, TypeConnectionLost, TypeDataSync, TypeWebhookReceived, TypeError:
		return true
	default:
		return false
	}
}

// Event is an immutable notification about an integration.
type Event struct {
	ID            string         `json:"id"`
	Type          Type           `json:"type"`
	IntegrationID string         `json:"integration_id"`
	Data          map[string]any `json:"data,omitempty"`
	Error         string         `json:"error,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

// New creates an event with a generated ID and the current time.
func New(t Type, integrationID string, data map[string]any) Event {
	return Event{
		ID:            uuid.NewString(),
		Type:          t,
		IntegrationID: integrationID,
		Data:          data,
		Timestamp:     time.Now(),
	}
}

// NewError creates an error event carrying the failure message.
func NewError(integrationID string, err error) Event {
	e := New(TypeError, integrationID, nil)
	if err != nil {
		e.Error = err.Error()
	}
	return e
}
