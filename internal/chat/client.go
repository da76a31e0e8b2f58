package chat

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Options controls how the webhook client is configured.
type Options struct {
	WebhookURL string
	// SessionID is the persistent conversation identifier, created once per
	// profile and reused for the conversation's lifetime.
	SessionID  string
	HTTPClient *http.Client
}

// Client posts user messages to the chat webhook and normalizes its
// heterogeneous replies into display text.
type Client struct {
	webhookURL string
	sessionID  string
	httpClient *http.Client
}

type webhookRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	Image     string `json:"image,omitempty"`
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.WebhookURL) == "" {
		return nil, fmt.Errorf("chat: webhook url is required")
	}
	if strings.TrimSpace(opts.SessionID) == "" {
		return nil, fmt.Errorf("chat: session id is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		webhookURL: opts.WebhookURL,
		sessionID:  opts.SessionID,
		httpClient: client,
	}, nil
}

// SessionID returns the conversation identifier the client was built with.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Send posts the message (and optional image, base64-embedded) and returns
// the parsed reply text. Transport failures are errors; reply bodies that
// fail to parse as JSON degrade to raw text instead of failing.
func (c *Client) Send(ctx context.Context, text string, imageData []byte) (string, error) {
	payload := webhookRequest{
		Message:   text,
		SessionID: c.sessionID,
	}
	if len(imageData) > 0 {
		payload.Image = base64.StdEncoding.EncodeToString(imageData)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("chat: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("chat: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat: post webhook: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("chat: read reply: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("chat: webhook status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	return ParseReply(raw), nil
}
