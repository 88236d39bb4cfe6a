package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/hookhubio/api/internal/metrics"
	"github.com/hookhubio/api/pkg/domain/event"
	"github.com/hookhubio/api/pkg/domain/webhook"
	"github.com/hookhubio/api/pkg/logger"
)

// WebhookProcessor performs provider-specific post-processing of an
// accepted delivery. Registration is optional; absence is a no-op.
type WebhookProcessor func(ctx context.Context, evt webhook.Event) error

// IngestResult is the structured outcome of one ingestion attempt.
// The pipeline never raises past its boundary; a single bad payload must
// not crash an unrelated request cycle.
type IngestResult struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
	EventID   string    `json:"event_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// WebhookIngestService orchestrates inbound webhook processing:
// authenticate, record, post-process, publish.
type WebhookIngestService struct {
	auth       *WebhookAuthenticator
	bus        Publisher
	processors map[string]WebhookProcessor
	logger     *logger.Logger

	mu     sync.RWMutex
	events []webhook.Event
	cap    int
}

// NewWebhookIngestService creates the ingestion pipeline. logCap bounds
// the in-memory delivery log; the oldest entries are evicted first.
func NewWebhookIngestService(auth *WebhookAuthenticator, bus Publisher, logCap int, log *logger.Logger) *WebhookIngestService {
	if logCap < 1 {
		logCap = 200
	}
	return &WebhookIngestService{
		auth:       auth,
		bus:        bus,
		processors: make(map[string]WebhookProcessor),
		logger:     log.With("service", "webhook_ingest"),
		events:     make([]webhook.Event, 0, logCap),
		cap:        logCap,
	}
}

// RegisterProcessor sets the post-processor for a provider.
func (s *WebhookIngestService) RegisterProcessor(providerID string, p WebhookProcessor) {
	s.processors[providerID] = p
}

// Ingest runs the pipeline for one delivery. Invalid deliveries are
// rejected without being recorded. Post-processing failures leave the
// recorded event unprocessed and return a structured failure.
func (s *WebhookIngestService) Ingest(ctx context.Context, integrationID, eventName string, data map[string]any, headers http.Header, rawBody []byte) IngestResult {
	start := time.Now()

	auth := s.auth.Authenticate(ctx, integrationID, headers, rawBody)
	if !auth.Valid {
		metrics.WebhooksRejectedTotal.WithLabelValues(integrationID, auth.Reason).Inc()
		s.logger.Warn("webhook rejected",
			"integration_id", integrationID,
			"reason", auth.Reason,
		)
		return IngestResult{
			Success:   false,
			Error:     auth.Reason,
			Timestamp: time.Now(),
		}
	}

	evt := webhook.NewEvent(integrationID, eventName, data)
	s.append(evt)

	if processor, ok := s.processors[integrationID]; ok {
		if err := s.process(ctx, processor, evt); err != nil {
			s.logger.Error("webhook post-processing failed",
				"integration_id", integrationID,
				"event_id", evt.ID,
				"error", err,
			)
			s.bus.Publish(event.NewError(integrationID, fmt.Errorf("process webhook %q: %w", eventName, err)))
			return IngestResult{
				Success:   false,
				Error:     fmt.Sprintf("processing failed: %v", err),
				EventID:   evt.ID,
				Timestamp: time.Now(),
			}
		}
	}

	s.markProcessed(evt.ID)
	metrics.WebhooksReceivedTotal.WithLabelValues(integrationID).Inc()
	metrics.WebhookProcessingDuration.WithLabelValues(integrationID).Observe(time.Since(start).Seconds())

	s.bus.Publish(event.New(event.TypeWebhookReceived, integrationID, map[string]any{
		"event":    eventName,
		"event_id": evt.ID,
	}))
	s.logger.Info("webhook ingested",
		"integration_id", integrationID,
		"event", eventName,
		"event_id", evt.ID,
	)

	return IngestResult{
		Success:   true,
		Message:   "webhook processed",
		EventID:   evt.ID,
		Timestamp: time.Now(),
	}
}

// process invokes the post-processor, converting panics into errors so
// they cannot escape the pipeline boundary.
func (s *WebhookIngestService) process(ctx context.Context, p WebhookProcessor, evt webhook.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("processor panicked: %v", r)
		}
	}()
	return p(ctx, evt)
}

func (s *WebhookIngestService) append(evt webhook.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, evt)
	if len(s.events) > s.cap {
		s.events = s.events[len(s.events)-s.cap:]
	}
}

func (s *WebhookIngestService) markProcessed(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID == eventID {
			s.events[i].Processed = true
			return
		}
	}
}

// Events returns up to limit recorded deliveries, most recent first.
// limit <= 0 returns all retained events.
func (s *WebhookIngestService) Events(limit int) []webhook.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.events)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]webhook.Event, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.events[i])
	}
	return out
}
