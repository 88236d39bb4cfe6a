package app

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hookhubio/api/internal/config"
	"github.com/hookhubio/api/internal/infra/memory"
	"github.com/hookhubio/api/pkg/domain/integration"
	"github.com/hookhubio/api/pkg/domain/webhook"
	"github.com/hookhubio/api/pkg/logger"
)

var authNow = time.Unix(1_700_000_000, 0)

func newAuthenticator(t *testing.T, mode config.VerifyMode) (*WebhookAuthenticator, *memory.IntegrationRepository) {
	t.Helper()

	repo := memory.NewIntegrationRepository()
	auth := NewWebhookAuthenticator(repo, webhook.DefaultPolicies(), mode,
		func() time.Time { return authNow }, logger.NewNop())
	return auth, repo
}

func slackHeaders(body []byte, secret string, sent time.Time) http.Header {
	ts := fmt.Sprintf("%d", sent.Unix())
	h := http.Header{}
	h.Set("X-Slack-Request-Timestamp", ts)
	h.Set("X-Slack-Signature", webhook.Sign(webhook.SchemeSlack, body, secret, ts))
	return h
}

func TestWebhookAuthenticator_ConnectionGate(t *testing.T) {
	auth, repo := newAuthenticator(t, config.VerifyModeLenient)

	t.Run("unknown integration is rejected", func(t *testing.T) {
		res := auth.Authenticate(context.Background(), "nope", http.Header{}, nil)
		assert.False(t, res.Valid)
		assert.Equal(t, ReasonNotConnected, res.Reason)
	})

	t.Run("disconnected integration is rejected", func(t *testing.T) {
		seedIntegration(t, repo, integration.Definition{
			ID: "github", Type: integration.TypeWebhook, Category: integration.CategoryProductivity,
		}, integration.StatusDisconnected, nil)

		res := auth.Authenticate(context.Background(), "github", http.Header{}, nil)
		assert.False(t, res.Valid)
		assert.Equal(t, ReasonNotConnected, res.Reason)
	})
}

func TestWebhookAuthenticator_GitHubSignature(t *testing.T) {
	auth, repo := newAuthenticator(t, config.VerifyModeLenient)
	secret := "gh-secret"
	seedIntegration(t, repo, integration.Definition{
		ID: "github", Type: integration.TypeWebhook, Category: integration.CategoryProductivity,
	}, integration.StatusConnected, integration.Config{webhook.SecretConfigKey: secret})

	body := []byte(`{"action":"opened"}`)

	t.Run("valid signature is accepted", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-Hub-Signature-256", webhook.Sign(webhook.SchemeGitHub, body, secret, ""))

		res := auth.Authenticate(context.Background(), "github", h, body)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Reason)
	})

	t.Run("tampered body is rejected", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-Hub-Signature-256", webhook.Sign(webhook.SchemeGitHub, body, secret, ""))

		res := auth.Authenticate(context.Background(), "github", h, []byte(`{"action":"closed"}`))
		assert.False(t, res.Valid)
		assert.Equal(t, ReasonInvalidSignature, res.Reason)
	})

	t.Run("missing signature header is rejected", func(t *testing.T) {
		res := auth.Authenticate(context.Background(), "github", http.Header{}, body)
		assert.False(t, res.Valid)
		assert.Equal(t, ReasonInvalidSignature, res.Reason)
	})
}

func TestWebhookAuthenticator_ReplayWindow(t *testing.T) {
	auth, repo := newAuthenticator(t, config.VerifyModeLenient)
	secret := "slack-secret"
	seedIntegration(t, repo, integration.Definition{
		ID: "slack", Type: integration.TypeWebhook, Category: integration.CategoryCommunication,
	}, integration.StatusConnected, integration.Config{webhook.SecretConfigKey: secret})

	body := []byte(`{"type":"event_callback"}`)

	tests := []struct {
		name      string
		sent      time.Time
		wantValid bool
	}{
		{"exactly at the window edge", authNow.Add(-webhook.DefaultSignedMaxAge), true},
		{"one second past the window", authNow.Add(-webhook.DefaultSignedMaxAge - time.Second), false},
		{"future timestamp inside the window", authNow.Add(webhook.DefaultSignedMaxAge), true},
		{"future timestamp past the window", authNow.Add(webhook.DefaultSignedMaxAge + time.Second), false},
		{"current timestamp", authNow, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := auth.Authenticate(context.Background(), "slack", slackHeaders(body, secret, tt.sent), body)
			assert.Equal(t, tt.wantValid, res.Valid)
			if !tt.wantValid {
				assert.Equal(t, ReasonStaleTimestamp, res.Reason)
			}
			assert.Equal(t, tt.sent.Unix(), res.Timestamp.Unix())
		})
	}

	t.Run("missing timestamp header is rejected", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-Slack-Signature", webhook.Sign(webhook.SchemeSlack, body, secret, ""))

		res := auth.Authenticate(context.Background(), "slack", h, body)
		assert.False(t, res.Valid)
		assert.Equal(t, ReasonStaleTimestamp, res.Reason)
	})

	t.Run("fresh timestamp with stale signature is rejected", func(t *testing.T) {
		// Signature computed over an older timestamp must not validate a
		// replay with a rewritten timestamp header.
		staleTS := fmt.Sprintf("%d", authNow.Add(-10*time.Minute).Unix())
		h := http.Header{}
		h.Set("X-Slack-Request-Timestamp", fmt.Sprintf("%d", authNow.Unix()))
		h.Set("X-Slack-Signature", webhook.Sign(webhook.SchemeSlack, body, secret, staleTS))

		res := auth.Authenticate(context.Background(), "slack", h, body)
		assert.False(t, res.Valid)
		assert.Equal(t, ReasonInvalidSignature, res.Reason)
	})
}

func TestWebhookAuthenticator_GenericProvider(t *testing.T) {
	auth, repo := newAuthenticator(t, config.VerifyModeLenient)
	secret := "acme-secret"
	seedIntegration(t, repo, integration.Definition{
		ID: "acme", Type: integration.TypeWebhook, Category: integration.CategoryAutomation,
	}, integration.StatusConnected, integration.Config{webhook.SecretConfigKey: secret})

	body := []byte(`{"ping":true}`)
	ts := fmt.Sprintf("%d", authNow.Unix())

	t.Run("unregistered provider uses the generic policy", func(t *testing.T) {
		h := http.Header{}
		h.Set("X-Webhook-Timestamp", ts)
		h.Set("X-Webhook-Signature", webhook.Sign(webhook.SchemeGeneric, body, secret, ts))

		res := auth.Authenticate(context.Background(), "acme", h, body)
		assert.True(t, res.Valid)
	})

	t.Run("generic window is wider than the signed default", func(t *testing.T) {
		sent := authNow.Add(-webhook.DefaultUnsignedMaxAge)
		oldTS := fmt.Sprintf("%d", sent.Unix())
		h := http.Header{}
		h.Set("X-Webhook-Timestamp", oldTS)
		h.Set("X-Webhook-Signature", webhook.Sign(webhook.SchemeGeneric, body, secret, oldTS))

		res := auth.Authenticate(context.Background(), "acme", h, body)
		assert.True(t, res.Valid)
	})
}

func TestWebhookAuthenticator_VerifyModes(t *testing.T) {
	body := []byte(`{}`)
	def := integration.Definition{
		ID: "github", Type: integration.TypeWebhook, Category: integration.CategoryProductivity,
	}

	t.Run("lenient accepts unsigned delivery when no secret is configured", func(t *testing.T) {
		auth, repo := newAuthenticator(t, config.VerifyModeLenient)
		seedIntegration(t, repo, def, integration.StatusConnected, nil)

		res := auth.Authenticate(context.Background(), "github", http.Header{}, body)
		assert.True(t, res.Valid)
	})

	t.Run("strict rejects delivery when no secret is configured", func(t *testing.T) {
		auth, repo := newAuthenticator(t, config.VerifyModeStrict)
		seedIntegration(t, repo, def, integration.StatusConnected, nil)

		res := auth.Authenticate(context.Background(), "github", http.Header{}, body)
		assert.False(t, res.Valid)
		assert.Equal(t, ReasonSecretMissing, res.Reason)
	})
}

func TestNewWebhookAuthenticator_DefaultClock(t *testing.T) {
	repo := memory.NewIntegrationRepository()
	auth := NewWebhookAuthenticator(repo, webhook.DefaultPolicies(), config.VerifyModeLenient, nil, logger.NewNop())
	require.NotNil(t, auth.now)
}
