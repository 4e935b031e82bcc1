package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

// Client is a thin HTTP client for the external WhatsApp bridge service.
// The bridge owns the actual channel session (QR auth, send/receive); this
// client only issues request/response calls against its local REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new bridge client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Status is the bridge status report
type Status struct {
	State      string `json:"state"`
	ClientInfo string `json:"client_info,omitempty"`
}

// ConnectResult is the bridge response to a connect request
type ConnectResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Message is a pending inbound message as reported by the bridge
type Message struct {
	Body      string `json:"body"`
	HasMedia  bool   `json:"has_media"`
	MediaType string `json:"media_type,omitempty"`
}

// GetStatus queries the bridge connection status
func (c *Client) GetStatus(ctx context.Context) (*Status, error) {
	var status Status
	if err := c.doJSON(ctx, http.MethodGet, "/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Connect asks the bridge to establish the channel session
func (c *Client) Connect(ctx context.Context) (*ConnectResult, error) {
	var result ConnectResult
	if err := c.doJSON(ctx, http.MethodPost, "/connect", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Disconnect tears down the channel session, keeping credentials
func (c *Client) Disconnect(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/disconnect", nil, nil)
}

// Logout tears down the session and discards credentials
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/logout", nil, nil)
}

// PendingMessages drains the bridge's inbox of pending inbound messages
func (c *Client) PendingMessages(ctx context.Context) ([]Message, error) {
	var result struct {
		Messages []Message `json:"messages"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/messages", nil, &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}

// SendMessage sends a text message to a destination address
func (c *Client) SendMessage(ctx context.Context, to, text string) error {
	payload := map[string]string{"to": to, "text": text}
	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error,omitempty"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/send", payload, &result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("bridge rejected send: %s", result.Error)
	}
	return nil
}

// doJSON performs one request against the bridge API and decodes the JSON
// response into out (when non-nil)
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bridge returned %d: %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
