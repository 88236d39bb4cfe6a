package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookhubio/api/internal/app"
	"github.com/hookhubio/api/internal/config"
	"github.com/hookhubio/api/internal/infra/memory"
	"github.com/hookhubio/api/pkg/domain/integration"
	"github.com/hookhubio/api/pkg/domain/webhook"
	"github.com/hookhubio/api/pkg/logger"
)

var testNow = time.Unix(1_700_000_000, 0)

type webhookFixture struct {
	router *chi.Mux
	ingest *app.WebhookIngestService
	repo   *memory.IntegrationRepository
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()

	repo := memory.NewIntegrationRepository()
	bus := app.NewEventBus(50, logger.NewNop())
	auth := app.NewWebhookAuthenticator(repo, webhook.DefaultPolicies(), config.VerifyModeLenient,
		func() time.Time { return testNow }, logger.NewNop())
	ingest := app.NewWebhookIngestService(auth, bus, 50, logger.NewNop())

	h := NewWebhookHandler(ingest, logger.NewNop())
	r := chi.NewRouter()
	r.Post("/webhooks/{integrationID}", h.Receive)
	r.Get("/webhooks/{integrationID}", h.Ping)

	return &webhookFixture{router: r, ingest: ingest, repo: repo}
}

func (f *webhookFixture) connect(t *testing.T, id string, cfg integration.Config) {
	t.Helper()

	intg := integration.New(integration.Definition{
		ID: id, Type: integration.TypeWebhook, Category: integration.CategoryAutomation,
	})
	intg.MergeConfig(cfg)
	intg.SetStatus(integration.StatusConnected)
	require.NoError(t, f.repo.Create(context.Background(), intg))
}

func genericSignedRequest(t *testing.T, id string, body []byte, secret string) *http.Request {
	t.Helper()

	ts := fmt.Sprintf("%d", testNow.Unix())
	req := httptest.NewRequest(http.MethodPost, "/webhooks/"+id, bytes.NewReader(body))
	req.Header.Set("X-Webhook-Timestamp", ts)
	req.Header.Set("X-Webhook-Signature", webhook.Sign(webhook.SchemeGeneric, body, secret, ts))
	return req
}

func TestWebhookHandler_Receive(t *testing.T) {
	secret := "acme-secret"

	t.Run("valid JSON delivery", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.connect(t, "acme", integration.Config{webhook.SecretConfigKey: secret})

		body := []byte(`{"event":"task.created","id":"42"}`)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, genericSignedRequest(t, "acme", body, secret))

		require.Equal(t, http.StatusOK, rec.Code)

		var result app.IngestResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.True(t, result.Success)
		assert.NotEmpty(t, result.EventID)

		events := f.ingest.Events(0)
		require.Len(t, events, 1)
		assert.Equal(t, "task.created", events[0].Name)
	})

	t.Run("event name resolution order", func(t *testing.T) {
		tests := []struct {
			name string
			body string
			want string
		}{
			{"event field wins", `{"event":"a","type":"b","action":"c"}`, "a"},
			{"type is second", `{"type":"b","action":"c"}`, "b"},
			{"action is third", `{"action":"c"}`, "c"},
			{"fallback literal", `{"payload":"x"}`, "webhook_received"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newWebhookFixture(t)
				f.connect(t, "acme", integration.Config{webhook.SecretConfigKey: secret})

				rec := httptest.NewRecorder()
				f.router.ServeHTTP(rec, genericSignedRequest(t, "acme", []byte(tt.body), secret))

				require.Equal(t, http.StatusOK, rec.Code)
				events := f.ingest.Events(0)
				require.Len(t, events, 1)
				assert.Equal(t, tt.want, events[0].Name)
			})
		}
	})

	t.Run("non-JSON body is forwarded as raw string", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.connect(t, "acme", integration.Config{webhook.SecretConfigKey: secret})

		body := []byte("plain text payload")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, genericSignedRequest(t, "acme", body, secret))

		require.Equal(t, http.StatusOK, rec.Code)
		events := f.ingest.Events(0)
		require.Len(t, events, 1)
		assert.Equal(t, "webhook_received", events[0].Name)
		assert.Equal(t, "plain text payload", events[0].Data["raw"])
	})

	t.Run("invalid signature returns 400", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.connect(t, "acme", integration.Config{webhook.SecretConfigKey: secret})

		body := []byte(`{"event":"x"}`)
		req := genericSignedRequest(t, "acme", body, "wrong-secret")
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var result app.IngestResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.Success)
		assert.Empty(t, f.ingest.Events(0))
	})

	t.Run("unknown integration returns 400", func(t *testing.T) {
		f := newWebhookFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/webhooks/nope", bytes.NewReader([]byte(`{}`)))
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("processing failure returns 500 with structured body", func(t *testing.T) {
		f := newWebhookFixture(t)
		f.connect(t, "acme", integration.Config{webhook.SecretConfigKey: secret})
		f.ingest.RegisterProcessor("acme", func(context.Context, webhook.Event) error {
			return errors.New("downstream unavailable")
		})

		body := []byte(`{"event":"x"}`)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, genericSignedRequest(t, "acme", body, secret))

		require.Equal(t, http.StatusInternalServerError, rec.Code)

		var result app.IngestResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.False(t, result.Success)
		assert.NotEmpty(t, result.EventID)
	})
}

func TestWebhookHandler_Ping(t *testing.T) {
	t.Run("challenge is echoed verbatim as text/plain", func(t *testing.T) {
		f := newWebhookFixture(t)

		req := httptest.NewRequest(http.MethodGet, "/webhooks/acme?challenge=abc123", nil)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
		assert.Equal(t, "abc123", rec.Body.String())
		assert.Empty(t, f.ingest.Events(0))
	})

	t.Run("query parameters become the ping payload", func(t *testing.T) {
		f := newWebhookFixture(t)
		// Unsigned GET ping relies on lenient mode; no secret configured.
		f.connect(t, "github", nil)

		req := httptest.NewRequest(http.MethodGet, "/webhooks/github?source=ci", nil)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		events := f.ingest.Events(0)
		require.Len(t, events, 1)
		assert.Equal(t, PingEventName, events[0].Name)
		assert.Equal(t, "ci", events[0].Data["source"])
	})
}
