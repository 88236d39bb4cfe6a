package webhook

import (
	"time"

	"github.com/google/uuid"
)

// Event is an immutable record of one inbound webhook delivery.
// Only the Processed flag changes after creation, and only once.
type Event struct {
	ID        string         `json:"id"`
	Source    string         `json:"source"`
	Name      string         `json:"event"`
	Data      map[string]any `json:"data,omitempty"`
	Processed bool           `json:"processed"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewEvent creates a delivery record with a generated ID.
func NewEvent(source, name string, data map[string]any) Event {
	return Event{
		ID:        uuid.NewString(),
		Source:    source,
		Name:      name,
		Data:      data,
		Timestamp: time.Now(),
	}
}
