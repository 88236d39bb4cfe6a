package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TelegramClient implements the Client interface for the Telegram Bot API.
type TelegramClient struct {
	botToken   string
	chatID     string
	apiURL     string
	httpClient *http.Client
}

// NewTelegramClient creates a new Telegram client.
func NewTelegramClient(config Config) (*TelegramClient, error) {
	if config.BotToken == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	if config.ChatID == "" {
		return nil, fmt.Errorf("telegram chat ID is required")
	}

	apiURL := config.APIEndpoint
	if apiURL == "" {
		apiURL = "https://api.telegram.org"
	}

	return &TelegramClient{
		botToken: config.BotToken,
		chatID:   config.ChatID,
		apiURL:   apiURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Provider returns the provider name.
func (c *TelegramClient) Provider() string {
	return string(ProviderTelegram)
}

// telegramSendMessageRequest represents a Telegram sendMessage request.
type telegramSendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// telegramResponse represents a Telegram API response.
type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	Result      struct {
		MessageID int `json:"message_id"`
	} `json:"result,omitempty"`
}

// Send sends a message via the Telegram Bot API.
func (c *TelegramClient) Send(ctx context.Context, msg Message) (*SendResult, error) {
	payload, err := json.Marshal(c.buildMessage(msg))
	if err != nil {
		return nil, fmt.Errorf("marshal telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
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

	var telegramResp telegramResponse
	if err := json.Unmarshal(body, &telegramResp); err != nil {
		return &SendResult{
			Success: false,
			Error:   fmt.Sprintf("parse response failed: %v", err),
		}, nil
	}

	if !telegramResp.OK {
		return &SendResult{
			Success: false,
			Error:   fmt.Sprintf("telegram error: %s", telegramResp.Description),
		}, nil
	}

	return &SendResult{
		Success:   true,
		MessageID: fmt.Sprintf("%d", telegramResp.Result.MessageID),
	}, nil
}

// TestConnection sends a test message through the bot.
func (c *TelegramClient) TestConnection(ctx context.Context) (*SendResult, error) {
	return c.Send(ctx, Message{
		Title: "Hookhub Test Notification",
		Body:  "This is a test notification to verify your Telegram integration is working correctly.",
	})
}

func (c *TelegramClient) buildMessage(msg Message) telegramSendMessageRequest {
	var sb strings.Builder
	if msg.Title != "" {
		sb.WriteString("*")
		sb.WriteString(msg.Title)
		sb.WriteString("*\n")
	}
	if msg.Body != "" {
		sb.WriteString(msg.Body)
		sb.WriteString("\n")
	}
	for key, value := range msg.Fields {
		sb.WriteString(fmt.Sprintf("%s: %s\n", key, value))
	}
	if msg.URL != "" {
		sb.WriteString(msg.URL)
	}

	return telegramSendMessageRequest{
		ChatID:    c.chatID,
		Text:      sb.String(),
		ParseMode: "Markdown",
	}
}
