// Package assistant calls the external chat completion endpoint.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var ErrNotConfigured = errors.New("assistant endpoint is not configured")

// Completer turns one user message into one reply.
type Completer interface {
	Complete(ctx context.Context, conversationID uint, message string) (string, error)
}

type completionRequest struct {
	ConversationID uint   `json:"conversation_id"`
	Message        string `json:"message"`
}

type completionResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

// Client posts {conversation_id, message} and reads back {reply}.
type Client struct {
	url    string
	apiKey string
	http   *http.Client
}

func NewClient(url, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{url: url, apiKey: apiKey, http: &http.Client{Timeout: timeout}}
}

func (c *Client) Complete(ctx context.Context, conversationID uint, message string) (string, error) {
	if c.url == "" {
		return "", ErrNotConfigured
	}
	body, err := json.Marshal(completionRequest{ConversationID: conversationID, Message: message})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("assistant request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("assistant response: %w", err)
	}
	var out completionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("assistant response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 300 {
		if out.Error != "" {
			return "", fmt.Errorf("assistant returned %d: %s", resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("assistant returned %d", resp.StatusCode)
	}
	if out.Reply == "" {
		return "", errors.New("assistant returned an empty reply")
	}
	return out.Reply, nil
}
