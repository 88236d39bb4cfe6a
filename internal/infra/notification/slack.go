package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SlackClient implements the Client interface for Slack incoming webhooks.
type SlackClient struct {
	webhookURL string
	httpClient *http.Client
}

// NewSlackClient creates a new Slack client.
func NewSlackClient(config Config) (*SlackClient, error) {
	if config.WebhookURL == "" {
		return nil, fmt.Errorf("slack webhook URL is required")
	}

	return &SlackClient{
		webhookURL: config.WebhookURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Provider returns the provider name.
func (c *SlackClient) Provider() string {
	return string(ProviderSlack)
}

// slackMessage represents a Slack webhook message.
type slackMessage struct {
	Text   string       `json:"text,omitempty"`
	Blocks []slackBlock `json:"blocks,omitempty"`
}

type slackBlock struct {
	Type string          `json:"type"`
	Text *slackTextBlock `json:"text,omitempty"`
}

type slackTextBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Send posts a message to the Slack incoming webhook.
func (c *SlackClient) Send(ctx context.Context, msg Message) (*SendResult, error) {
	payload, err := json.Marshal(c.buildMessage(msg))
	if err != nil {
		return nil, fmt.Errorf("marshal slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &SendResult{
			Success: false,
			Error:   fmt.Sprintf("send request failed: %v", err),
		}, nil
	}
	defer func() { _ = resp.Body.Close() }()

	// Limit response body to 1MB
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK {
		return &SendResult{
			Success: false,
			Error:   fmt.Sprintf("slack returned status %d: %s", resp.StatusCode, string(body)),
		}, nil
	}

	return &SendResult{Success: true}, nil
}

// TestConnection sends a test message through the webhook.
func (c *SlackClient) TestConnection(ctx context.Context) (*SendResult, error) {
	return c.Send(ctx, Message{
		Title: "Hookhub Test Notification",
		Body:  "This is a test notification to verify your Slack integration is working correctly.",
	})
}

func (c *SlackClient) buildMessage(msg Message) slackMessage {
	out := slackMessage{Text: msg.Title}

	if msg.Title != "" {
		out.Blocks = append(out.Blocks, slackBlock{
			Type: "header",
			Text: &slackTextBlock{Type: "plain_text", Text: msg.Title},
		})
	}
	if msg.Body != "" {
		out.Blocks = append(out.Blocks, slackBlock{
			Type: "section",
			Text: &slackTextBlock{Type: "mrkdwn", Text: msg.Body},
		})
	}
	for key, value := range msg.Fields {
		out.Blocks = append(out.Blocks, slackBlock{
			Type: "section",
			Text: &slackTextBlock{Type: "mrkdwn", Text: fmt.Sprintf("*%s*: %s", key, value)},
		})
	}
	if msg.URL != "" {
		out.Blocks = append(out.Blocks, slackBlock{
			Type: "section",
			Text: &slackTextBlock{Type: "mrkdwn", Text: fmt.Sprintf("<%s|View details>", msg.URL)},
		})
	}

	return out
}
