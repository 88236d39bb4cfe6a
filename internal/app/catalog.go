package app

import (
	"github.com/hookhubio/api/pkg/domain/integration"
)

// DefaultCatalog returns the static provider catalog registered at process
// start. Adding a provider means adding an entry here, optionally a
// verification policy, and optionally an action handler.
func DefaultCatalog() []integration.Definition {
	return []integration.Definition{
		{
			ID:           "github",
			Name:         "GitHub",
			Description:  "Receive repository events via signed webhooks",
			Type:         integration.TypeWebhook,
			Category:     integration.CategoryProductivity,
			Capabilities: []string{"webhook_receive"},
		},
		{
			ID:           "slack",
			Name:         "Slack",
			Description:  "Send messages to Slack channels and receive signed event callbacks",
			Type:         integration.TypeWebhook,
			Category:     integration.CategoryCommunication,
			Capabilities: []string{"send_message", "webhook_receive"},
		},
		{
			ID:           "telegram",
			Name:         "Telegram",
			Description:  "Send messages via the Telegram Bot API",
			Type:         integration.TypeAPIKey,
			Category:     integration.CategoryCommunication,
			Capabilities: []string{"send_message"},
		},
		{
			ID:           "zapier",
			Name:         "Zapier",
			Description:  "Trigger Zaps through inbound webhooks",
			Type:         integration.TypeWebhook,
			Category:     integration.CategoryAutomation,
			Capabilities: []string{"webhook_receive", "notify"},
		},
		{
			ID:           "gdrive",
			Name:         "Google Drive",
			Description:  "Store exports in Google Drive",
			Type:         integration.TypeOAuth,
			Category:     integration.CategoryStorage,
			Capabilities: []string{"upload"},
		},
		{
			ID:           "mixpanel",
			Name:         "Mixpanel",
			Description:  "Forward usage events to Mixpanel",
			Type:         integration.TypeAPIKey,
			Category:     integration.CategoryAnalytics,
			Capabilities: []string{"track_event"},
		},
		{
			ID:           "okta",
			Name:         "Okta",
			Description:  "Single sign-on via SAML",
			Type:         integration.TypeSAML,
			Category:     integration.CategoryProductivity,
			Capabilities: []string{"sso"},
		},
	}
}
