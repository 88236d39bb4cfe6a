package app

import (
	"context"
	"net/url"
	"sync"

	"github.com/hookhubio/api/internal/infra/notification"
	"github.com/hookhubio/api/internal/metrics"
	"github.com/hookhubio/api/pkg/domain/event"
	"github.com/hookhubio/api/pkg/domain/integration"
	"github.com/hookhubio/api/pkg/logger"
)

// Config keys with reserved meaning during connect validation.
const (
	ConfigKeyWebhookURL   = "webhookUrl"
	ConfigKeyAPIKey       = "apiKey"
	ConfigKeyClientID     = "clientId"
	ConfigKeyClientSecret = "clientSecret"
	ConfigKeyEntityID     = "entityId"
	ConfigKeySSOURL       = "ssoUrl"
	ConfigKeyBotToken     = "botToken"
	ConfigKeyChatID       = "chatId"
)

// LifecycleService manages the integration connection state machine:
// disconnected -> connected via Connect, connected -> disconnected via
// Disconnect, any state -> error on failed config validation. Error is
// not auto-recovered; a later successful Connect leaves it.
type LifecycleService struct {
	repo    integration.Repository
	bus     Publisher
	clients *notification.ClientFactory
	logger  *logger.Logger

	// locks serializes mutating calls per integration. The registry map
	// has its own lock; this one protects read-modify-write sequences.
	locks sync.Map // integration ID -> *sync.Mutex
}

// NewLifecycleService creates a new LifecycleService.
func NewLifecycleService(repo integration.Repository, bus Publisher, clients *notification.ClientFactory, log *logger.Logger) *LifecycleService {
	return &LifecycleService{
		repo:    repo,
		bus:     bus,
		clients: clients,
		logger:  log.With("service", "lifecycle"),
	}
}

func (s *LifecycleService) lock(id string) func() {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// Connect validates the config for the integration's type, merges it into
// the stored config, and moves the integration to connected. On validation
// failure the integration moves to error, an error event is published, and
// the failure propagates to the caller.
func (s *LifecycleService) Connect(ctx context.Context, id string, cfg integration.Config) (*integration.Integration, error) {
	defer s.lock(id)()

	intg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateConnectConfig(intg.Type(), merged(intg.Config(), cfg)); err != nil {
		intg.SetStatus(integration.StatusError)
		if updateErr := s.repo.Update(ctx, intg); updateErr != nil {
			s.logger.Error("failed to persist error status", "id", id, "error", updateErr)
		}
		s.bus.Publish(event.NewError(id, err))
		return nil, err
	}

	intg.MergeConfig(cfg)
	intg.SetStatus(integration.StatusConnected)
	if err := s.repo.Update(ctx, intg); err != nil {
		return nil, err
	}

	metrics.ConnectionsTotal.WithLabelValues(id, "connect").Inc()
	s.bus.Publish(event.New(event.TypeConnectionEstablished, id, nil))
	s.logger.Info("integration connected", "id", id, "type", intg.Type())

	return intg, nil
}

// Disconnect moves the integration to disconnected and clears its config,
// including secrets.
func (s *LifecycleService) Disconnect(ctx context.Context, id string) (*integration.Integration, error) {
	defer s.lock(id)()

	intg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	intg.ClearConfig()
	intg.SetStatus(integration.StatusDisconnected)
	if err := s.repo.Update(ctx, intg); err != nil {
		return nil, err
	}

	metrics.ConnectionsTotal.WithLabelValues(id, "disconnect").Inc()
	s.bus.Publish(event.New(event.TypeConnectionLost, id, nil))
	s.logger.Info("integration disconnected", "id", id)

	return intg, nil
}

// TestConnection probes the integration's configuration. It never returns
// an error: any failure publishes an error event and reports false.
func (s *LifecycleService) TestConnection(ctx context.Context, id string) bool {
	intg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.bus.Publish(event.NewError(id, err))
		return false
	}

	if err := s.probe(ctx, intg); err != nil {
		s.logger.Warn("connection test failed", "id", id, "error", err)
		s.bus.Publish(event.NewError(id, err))
		return false
	}

	s.logger.Info("connection test passed", "id", id)
	return true
}

// probe performs a live check where a provider client exists, and falls
// back to config validation otherwise.
func (s *LifecycleService) probe(ctx context.Context, intg *integration.Integration) error {
	if clientCfg, ok := clientConfigFor(intg); ok {
		client, err := s.clients.CreateClient(clientCfg)
		if err != nil {
			return err
		}
		result, err := client.TestConnection(ctx)
		if err != nil {
			return err
		}
		if !result.Success {
			return integration.ConfigFieldError("config", result.Error)
		}
		return nil
	}

	return validateConnectConfig(intg.Type(), intg.Config())
}

// clientConfigFor maps an integration to an outbound client config, when
// the provider has a client implementation.
func clientConfigFor(intg *integration.Integration) (notification.Config, bool) {
	switch intg.ID() {
	case "slack":
		return notification.Config{
			Provider:   notification.ProviderSlack,
			WebhookURL: intg.ConfigValue(ConfigKeyWebhookURL),
		}, true
	case "telegram":
		return notification.Config{
			Provider: notification.ProviderTelegram,
			BotToken: intg.ConfigValue(ConfigKeyBotToken),
			ChatID:   intg.ConfigValue(ConfigKeyChatID),
		}, true
	default:
		return notification.Config{}, false
	}
}

// validateConnectConfig checks the required fields for each integration type.
func validateConnectConfig(typ integration.Type, cfg integration.Config) error {
	switch typ {
	case integration.TypeWebhook:
		raw := cfg[ConfigKeyWebhookURL]
		if raw == "" {
			return integration.ConfigFieldError(ConfigKeyWebhookURL, "is required")
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return integration.ConfigFieldError(ConfigKeyWebhookURL, "must be a well-formed URL")
		}
	case integration.TypeAPIKey:
		if cfg[ConfigKeyAPIKey] == "" {
			return integration.ConfigFieldError(ConfigKeyAPIKey, "is required")
		}
	case integration.TypeOAuth:
		if cfg[ConfigKeyClientID] == "" {
			return integration.ConfigFieldError(ConfigKeyClientID, "is required")
		}
		if cfg[ConfigKeyClientSecret] == "" {
			return integration.ConfigFieldError(ConfigKeyClientSecret, "is required")
		}
	case integration.TypeSAML:
		if cfg[ConfigKeyEntityID] == "" {
			return integration.ConfigFieldError(ConfigKeyEntityID, "is required")
		}
		if cfg[ConfigKeySSOURL] == "" {
			return integration.ConfigFieldError(ConfigKeySSOURL, "is required")
		}
	default:
		return integration.ErrInvalidType
	}
	return nil
}

// merged returns base with overlay applied, without mutating either.
func merged(base, overlay integration.Config) integration.Config {
	out := base.Clone()
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
