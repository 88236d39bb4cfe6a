// Package notification provides clients for sending outbound calls to
// integration providers. Action handlers and connection tests use these.
package notification

import (
	"context"
	"fmt"
)

// Message represents an outbound provider message.
type Message struct {
	Title  string            // Message title/subject
	Body   string            // Main message body
	URL    string            // Optional link URL
	Fields map[string]string // Additional fields to display
}

// SendResult represents the result of an outbound provider call.
type SendResult struct {
	Success   bool
	MessageID string // Provider-specific message ID
	Error     string
}

// Client defines the interface for provider clients.
type Client interface {
	// Send sends a message to the provider.
	Send(ctx context.Context, msg Message) (*SendResult, error)

	// TestConnection tests the provider configuration.
	TestConnection(ctx context.Context) (*SendResult, error)

	// Provider returns the provider name.
	Provider() string
}

// Config holds the configuration for creating a provider client.
type Config struct {
	Provider    Provider
	WebhookURL  string // For Slack and generic webhook
	BotToken    string // For Telegram
	ChatID      string // For Telegram
	APIEndpoint string // Custom API endpoint
}

// Provider represents an outbound provider.
type Provider string

const (
	ProviderSlack    Provider = "slack"
	ProviderTelegram Provider = "telegram"
	ProviderWebhook  Provider = "webhook"
)

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// ClientFactory creates provider clients.
type ClientFactory struct{}

// NewClientFactory creates a new ClientFactory.
func NewClientFactory() *ClientFactory {
	return &ClientFactory{}
}

// CreateClient creates a provider client based on the configuration.
func (f *ClientFactory) CreateClient(config Config) (Client, error) {
	switch config.Provider {
	case ProviderSlack:
		return NewSlackClient(config)
	case ProviderTelegram:
		return NewTelegramClient(config)
	case ProviderWebhook:
		return NewWebhookClient(config)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}
