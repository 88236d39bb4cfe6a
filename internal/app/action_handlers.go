package app

import (
	"context"
	"fmt"

	"github.com/hookhubio/api/internal/infra/notification"
	"github.com/hookhubio/api/pkg/domain/integration"
)

// NotifyActionHandler implements ActionHandler on top of an outbound
// provider client. It serves providers whose actions reduce to sending a
// message: slack, telegram, and generic outbound webhooks.
type NotifyActionHandler struct {
	clients *notification.ClientFactory
}

// NewNotifyActionHandler creates a NotifyActionHandler.
func NewNotifyActionHandler(clients *notification.ClientFactory) *NotifyActionHandler {
	return &NotifyActionHandler{clients: clients}
}

// Handle sends the message described by data through the provider client.
// Recognized data keys: title, body/text/message, url.
func (h *NotifyActionHandler) Handle(ctx context.Context, intg *integration.Integration, action string, data map[string]any) (map[string]any, error) {
	clientCfg, ok := clientConfigFor(intg)
	if !ok {
		// Fall back to a generic outbound webhook when the integration
		// carries a webhook URL.
		url := intg.ConfigValue(ConfigKeyWebhookURL)
		if url == "" {
			return nil, fmt.Errorf("integration %q supports no outbound actions", intg.ID())
		}
		clientCfg = notification.Config{
			Provider:   notification.ProviderWebhook,
			WebhookURL: url,
		}
	}

	client, err := h.clients.CreateClient(clientCfg)
	if err != nil {
		return nil, err
	}

	result, err := client.Send(ctx, messageFromData(action, data))
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("provider rejected action: %s", result.Error)
	}

	out := map[string]any{
		"delivered": true,
		"provider":  client.Provider(),
	}
	if result.MessageID != "" {
		out["message_id"] = result.MessageID
	}
	return out, nil
}

func messageFromData(action string, data map[string]any) notification.Message {
	msg := notification.Message{Title: stringValue(data, "title")}
	if msg.Title == "" {
		msg.Title = action
	}

	for _, key := range []string{"body", "text", "message"} {
		if v := stringValue(data, key); v != "" {
			msg.Body = v
			break
		}
	}
	msg.URL = stringValue(data, "url")

	return msg
}

func stringValue(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
